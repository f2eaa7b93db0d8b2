package session

import "github.com/magabrotheeeer/tenant-platform-client/internal/models"

// authCheckResponse — ответ сервера на проверку аутентификации.
// Пустой email означает, что cookie-сессии нет.
type authCheckResponse struct {
	Email             string                `json:"email"`
	Verified          bool                  `json:"verified"`
	ID                int                   `json:"id"`
	Type              string                `json:"type"`
	Subscriptions     []models.Subscription `json:"subscriptions"`
	SubscriptionLimit int                   `json:"subscription_limit"`
}

func (r *authCheckResponse) toUser() *models.User {
	return &models.User{
		ID:       r.ID,
		Email:    r.Email,
		Verified: r.Verified,
		Type:     r.Type,
		// подписки копируются, а не алиасятся с декодированным ответом
		Subscriptions:     append([]models.Subscription(nil), r.Subscriptions...),
		SubscriptionLimit: r.SubscriptionLimit,
	}
}

// subscriptionsResponse — ответ сервера со списком подписок пользователя.
type subscriptionsResponse struct {
	Subscriptions []models.Subscription `json:"subscriptions"`
}

// statusResponse — ответ потоков сброса пароля и подтверждения почты.
type statusResponse struct {
	StatusCode int    `json:"status_code"`
	StatusText string `json:"status_text"`
}
