package session

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/tenant-platform-client/internal/lib/sl"
	"github.com/magabrotheeeer/tenant-platform-client/internal/models"
)

// ResetPasswordRequest запрашивает письмо для сброса пароля. Если username
// задан, запрос идёт по имени пользователя (в нижнем регистре); иначе токен
// сброса берётся из query-параметров страницы и передаётся query-параметром.
// Запрос выполняется и при отсутствующем токене — решение об ошибке
// принимает сервер. nil означает успех; виды отказа различимы через
// errors.As (*RequestError против *StatusError).
func (s *Session) ResetPasswordRequest(ctx context.Context, username string) error {
	const op = "session.ResetPasswordRequest"

	if username != "" {
		form := url.Values{}
		form.Set("username", strings.ToLower(username))
		return s.postChecked(ctx, op, "auth/reset_password_request", form, nil)
	}

	query := url.Values{}
	query.Set("token", s.pageQueryGet("token"))
	return s.postChecked(ctx, op, "auth/reset_password_request_with_token", url.Values{}, query)
}

// ResetPasswordCheck проверяет токен сброса из query-параметров страницы.
// Ошибки транспорта и разбора не возвращаются: они попадают в поле Error
// результата, StatusCode при этом равен ResetStatusUnknown.
func (s *Session) ResetPasswordCheck(ctx context.Context) models.PasswordResetResult {
	const op = "session.ResetPasswordCheck"

	form := url.Values{}
	form.Set("token", s.pageQueryGet("token"))
	return s.resetFlow(ctx, op, "auth/reset_password/check", form)
}

// ResetPassword устанавливает новый пароль по явному токену сброса.
// Семантика ошибок такая же, как у ResetPasswordCheck.
func (s *Session) ResetPassword(ctx context.Context, token, newPassword string) models.PasswordResetResult {
	const op = "session.ResetPassword"

	form := url.Values{}
	form.Set("token", token)
	form.Set("password", newPassword)
	return s.resetFlow(ctx, op, "auth/set_password", form)
}

// resetFlow выполняет вызов потока сброса пароля и переводит
// {status_code, status_text} в типизированный результат.
func (s *Session) resetFlow(ctx context.Context, op, path string, form url.Values) models.PasswordResetResult {
	var raw statusResponse
	if err := s.postDecoded(ctx, op, path, form, &raw); err != nil {
		s.log.Error("reset flow failed", slog.String("op", op), sl.Err(err))
		return models.PasswordResetResult{
			StatusCode: models.ResetStatusUnknown,
			Error:      err.Error(),
		}
	}
	return models.PasswordResetResult{
		StatusCode: models.ResetStatusCode(raw.StatusCode),
		StatusText: raw.StatusText,
	}
}
