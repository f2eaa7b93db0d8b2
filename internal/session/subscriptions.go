package session

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/magabrotheeeer/tenant-platform-client/internal/lib/sl"
	"github.com/magabrotheeeer/tenant-platform-client/internal/models"
)

// BuildingSubscribe подписывает текущего пользователя на обновления по
// зданию с идентификатором bbl и возвращает обновлённый список подписок.
// Кэш пользователя не изменяется: актуальное состояние получается
// повторным FetchUser после ClearUser.
func (s *Session) BuildingSubscribe(ctx context.Context, bbl, houseNumber, streetName, zip, boro string) ([]models.Subscription, error) {
	const op = "session.BuildingSubscribe"

	form := url.Values{}
	form.Set("housenumber", houseNumber)
	form.Set("streetname", streetName)
	form.Set("zip", zip)
	form.Set("boro", boro)

	resp, err := s.do(ctx, op, http.MethodPost, "auth/subscriptions/"+url.PathEscape(bbl), form, nil)
	if err != nil {
		s.log.Error("subscribe failed", slog.String("op", op), slog.String("bbl", bbl), sl.Err(err))
		return nil, err
	}
	if !resp.success() {
		return nil, &StatusError{Op: op, URL: resp.url, StatusCode: resp.status}
	}

	var raw subscriptionsResponse
	if err := decode(op, resp, &raw); err != nil {
		return nil, err
	}
	s.log.Info("building subscribed", slog.String("op", op), slog.String("bbl", bbl))
	return raw.Subscriptions, nil
}

// BuildingUnsubscribe снимает подписку на здание с идентификатором bbl
// и возвращает обновлённый список подписок.
func (s *Session) BuildingUnsubscribe(ctx context.Context, bbl string) ([]models.Subscription, error) {
	const op = "session.BuildingUnsubscribe"

	resp, err := s.do(ctx, op, http.MethodDelete, "auth/subscriptions/"+url.PathEscape(bbl), url.Values{}, nil)
	if err != nil {
		s.log.Error("unsubscribe failed", slog.String("op", op), slog.String("bbl", bbl), sl.Err(err))
		return nil, err
	}
	if !resp.success() {
		return nil, &StatusError{Op: op, URL: resp.url, StatusCode: resp.status}
	}

	var raw subscriptionsResponse
	if err := decode(op, resp, &raw); err != nil {
		return nil, err
	}
	s.log.Info("building unsubscribed", slog.String("op", op), slog.String("bbl", bbl))
	return raw.Subscriptions, nil
}

// EmailUnsubscribeBuilding снимает подписку на здание по токену из письма.
// Cookie-сессия не требуется: токен передаётся query-параметром.
func (s *Session) EmailUnsubscribeBuilding(ctx context.Context, bbl, token string) error {
	const op = "session.EmailUnsubscribeBuilding"

	query := url.Values{}
	query.Set("token", token)
	return s.postChecked(ctx, op, "auth/unsubscribe/"+url.PathEscape(bbl), url.Values{}, query)
}

// EmailUnsubscribeAll снимает все подписки пользователя по токену из письма.
func (s *Session) EmailUnsubscribeAll(ctx context.Context, token string) error {
	const op = "session.EmailUnsubscribeAll"

	query := url.Values{}
	query.Set("token", token)
	return s.postChecked(ctx, op, "auth/email/unsubscribe", url.Values{}, query)
}

// EmailUserSubscriptions возвращает список подписок пользователя по токену
// из письма, без cookie-сессии.
func (s *Session) EmailUserSubscriptions(ctx context.Context, token string) ([]models.Subscription, error) {
	const op = "session.EmailUserSubscriptions"

	query := url.Values{}
	query.Set("token", token)

	resp, err := s.do(ctx, op, http.MethodPost, "auth/email/subscriptions", url.Values{}, query)
	if err != nil {
		return nil, err
	}
	if !resp.success() {
		return nil, &StatusError{Op: op, URL: resp.url, StatusCode: resp.status}
	}

	var raw subscriptionsResponse
	if err := decode(op, resp, &raw); err != nil {
		return nil, err
	}
	return raw.Subscriptions, nil
}
