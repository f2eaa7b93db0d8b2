package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/tenant-platform-client/internal/lib/jwtinfo"
	"github.com/magabrotheeeer/tenant-platform-client/internal/lib/sl"
	"github.com/magabrotheeeer/tenant-platform-client/internal/models"
)

// registerInput — входные данные регистрации.
//
// Username — адрес почты, пароль — минимум 8 символов.
type registerInput struct {
	Username string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	UserType string `validate:"required"`
}

// Register регистрирует нового пользователя и обновляет кэш через проверку
// аутентификации до возврата: после успешного Register кэш уже отражает
// новую учётную запись. Имя пользователя приводится к нижнему регистру.
func (s *Session) Register(ctx context.Context, username, password, userType string) error {
	const op = "session.Register"

	username = strings.ToLower(username)
	in := registerInput{Username: username, Password: password, UserType: userType}
	if err := s.validate.Struct(in); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	form.Set("user_type", userType)
	if err := s.postChecked(ctx, op, "auth/register", form, nil); err != nil {
		s.log.Error("register failed", slog.String("op", op), sl.Err(err))
		return err
	}
	s.log.Info("user registered", slog.String("op", op), sl.Email(username))

	// сервер уже выставил cookie-сессию, осталось заполнить кэш
	s.ClearUser()
	if _, err := s.FetchUser(ctx); err != nil {
		return err
	}
	return nil
}

// Login выполняет вход и возвращает сырой ответ сервера с токеном и сроком
// его действия. Кэш пользователя не изменяется: вызывающий код должен
// отдельно вызвать FetchUser. Имя пользователя приводится к нижнему регистру.
func (s *Session) Login(ctx context.Context, username, password string) (*models.LoginPayload, error) {
	const op = "session.Login"

	form := url.Values{}
	form.Set("username", strings.ToLower(username))
	form.Set("password", password)

	resp, err := s.do(ctx, op, http.MethodPost, "auth/login", form, nil)
	if err != nil {
		s.log.Error("login failed", slog.String("op", op), sl.Err(err))
		return nil, err
	}
	if !resp.success() {
		return nil, &StatusError{Op: op, URL: resp.url, StatusCode: resp.status}
	}

	var payload models.LoginPayload
	if err := decode(op, resp, &payload); err != nil {
		return nil, err
	}
	s.log.Info("login success", slog.String("op", op), sl.Email(username))
	if exp, err := jwtinfo.ExpiresAt(payload.Token); err == nil {
		s.log.Debug("session token expiry", slog.String("op", op), slog.Time("expires_at", exp))
	}
	return &payload, nil
}

// Logout завершает cookie-сессию на сервере. Кэш пользователя не трогает:
// сброс кэша — обязанность вызывающего кода.
func (s *Session) Logout(ctx context.Context) error {
	const op = "session.Logout"
	return s.postChecked(ctx, op, "auth/logout", url.Values{}, nil)
}

// UpdateEmail меняет адрес почты текущего пользователя.
// Новый адрес приводится к нижнему регистру.
func (s *Session) UpdateEmail(ctx context.Context, newEmail string) error {
	const op = "session.UpdateEmail"

	form := url.Values{}
	form.Set("email", strings.ToLower(newEmail))
	return s.postChecked(ctx, op, "auth/update", form, nil)
}

// UpdatePassword меняет пароль текущего пользователя.
func (s *Session) UpdatePassword(ctx context.Context, currentPassword, newPassword string) error {
	const op = "session.UpdatePassword"

	form := url.Values{}
	form.Set("current_password", currentPassword)
	form.Set("new_password", newPassword)
	return s.postChecked(ctx, op, "auth/change_password", form, nil)
}

// IsEmailAlreadyUsed сообщает, занята ли почта. Адрес приводится к нижнему
// регистру; признаком существования служит успешный HTTP-статус, тело
// ответа не разбирается.
func (s *Session) IsEmailAlreadyUsed(ctx context.Context, email string) (bool, error) {
	const op = "session.IsEmailAlreadyUsed"

	path := "auth/account_exists/" + url.PathEscape(strings.ToLower(email))
	resp, err := s.do(ctx, op, http.MethodGet, path, nil, nil)
	if err != nil {
		return false, err
	}
	return resp.success(), nil
}
