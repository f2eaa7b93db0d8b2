package session

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/tenant-platform-client/internal/lib/sl"
	"github.com/magabrotheeeer/tenant-platform-client/internal/models"
)

// FetchUser возвращает текущего пользователя. При заполненном кэше сетевой
// вызов не выполняется. Иначе выполняется проверка аутентификации по cookie:
// успех заполняет кэш, отсутствие сессии или отказ сервера сбрасывает его
// и возвращает nil без ошибки. Ошибка транспорта — *RequestError.
//
// Конкурентные вызовы при пустом кэше могут оба выполнить проверку,
// побеждает последняя запись.
func (s *Session) FetchUser(ctx context.Context) (*models.User, error) {
	const op = "session.FetchUser"

	s.mu.Lock()
	if s.user != nil {
		u := s.user.Clone()
		s.mu.Unlock()
		s.log.Debug("user served from cache", slog.String("op", op))
		return u, nil
	}
	s.mu.Unlock()

	resp, err := s.do(ctx, op, http.MethodPost, "auth/auth_check", url.Values{}, nil)
	if err != nil {
		s.ClearUser()
		s.log.Error("auth check failed", slog.String("op", op), sl.Err(err))
		return nil, err
	}
	if !resp.success() {
		s.ClearUser()
		s.log.Debug("no active session", slog.String("op", op), slog.Int("status", resp.status))
		return nil, nil
	}

	var raw authCheckResponse
	if err := decode(op, resp, &raw); err != nil {
		s.ClearUser()
		return nil, err
	}
	if raw.Email == "" {
		s.ClearUser()
		return nil, nil
	}

	user := raw.toUser()
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.log.Info("user fetched", slog.String("op", op), sl.Email(user.Email))
	return user.Clone(), nil
}

// SetUser помещает пользователя в кэш без сетевого вызова.
func (s *Session) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u.Clone()
}

// ClearUser сбрасывает кэш пользователя без сетевого вызова.
// Следующий FetchUser снова выполнит проверку аутентификации.
func (s *Session) ClearUser() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
}
