// Package models содержит доменные структуры клиента платформы:
// текущего пользователя, его подписки на здания и типизированные
// результаты операций подтверждения почты и сброса пароля.
package models

// Subscription представляет подписку пользователя на обновления по зданию.
// Значение копируется из ответа сервера как есть, локальных инвариантов нет.
type Subscription struct {
	BBL         string `json:"bbl"`         // Идентификатор налогового лота (borough-block-lot)
	HouseNumber string `json:"housenumber"` // Номер дома
	StreetName  string `json:"streetname"`  // Название улицы
	Zip         string `json:"zip"`         // Почтовый индекс
	Boro        string `json:"boro"`        // Боро (район Нью-Йорка)
}

// User представляет текущего аутентифицированного пользователя.
// Кэшируется в единственном слоте сессии; источником истины остаётся
// cookie-сессия сервера, локальная копия — только удобство.
type User struct {
	ID                int            // Идентификатор пользователя
	Email             string         // Электронная почта
	Verified          bool           // Подтверждена ли почта
	Type              string         // Тип учётной записи: tenant, partner и пр.
	Subscriptions     []Subscription // Подписки на здания
	SubscriptionLimit int            // Максимально допустимое число подписок
}

// Clone возвращает глубокую копию пользователя: срез подписок
// копируется, а не алиасится, чтобы кэш сессии нельзя было
// изменить через значение, отданное вызывающему коду.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Subscriptions = append([]Subscription(nil), u.Subscriptions...)
	return &cp
}

// LoginPayload — сырой ответ сервера на вход: токен сессии и срок его
// действия. Возвращается вызывающему как есть, кэш пользователя не трогает.
type LoginPayload struct {
	Token     string `json:"token"`      // Токен сессии
	ExpiresAt int64  `json:"expires_at"` // Unix-время истечения токена
}
