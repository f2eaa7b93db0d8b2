package session

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/magabrotheeeer/tenant-platform-client/internal/lib/sl"
	"github.com/magabrotheeeer/tenant-platform-client/internal/models"
)

// VerifyEmail подтверждает почту по коду из query-параметров страницы,
// туда же письмо кладёт необязательную метку utm_source. Ошибки транспорта
// и разбора не возвращаются: они попадают в поле Error результата,
// StatusCode при этом равен VerifyStatusUnknown.
func (s *Session) VerifyEmail(ctx context.Context) models.VerifyEmailResult {
	const op = "session.VerifyEmail"

	form := url.Values{}
	form.Set("code", s.pageQueryGet("code"))
	if utm := s.pageQueryGet("utm_source"); utm != "" {
		form.Set("utm_source", utm)
	}

	var raw statusResponse
	if err := s.postDecoded(ctx, op, "auth/verify_email", form, &raw); err != nil {
		s.log.Error("verify email failed", slog.String("op", op), sl.Err(err))
		return models.VerifyEmailResult{
			StatusCode: models.VerifyStatusUnknown,
			Error:      err.Error(),
		}
	}
	return models.VerifyEmailResult{
		StatusCode: models.VerifyStatusCode(raw.StatusCode),
		StatusText: raw.StatusText,
	}
}

// ResendVerifyEmail просит сервер отправить письмо подтверждения ещё раз.
// Пустой token означает запрос по cookie-сессии, непустой — по токену
// из письма, переданному query-параметром. nil означает успех; виды отказа
// различимы через errors.As (*RequestError против *StatusError).
func (s *Session) ResendVerifyEmail(ctx context.Context, token string) error {
	const op = "session.ResendVerifyEmail"

	if token == "" {
		return s.postChecked(ctx, op, "auth/resend_verification", url.Values{}, nil)
	}
	query := url.Values{}
	query.Set("token", token)
	return s.postChecked(ctx, op, "auth/resend_verification_with_token", url.Values{}, query)
}
