// Package session реализует клиент REST API аутентификации платформы.
//
// Session владеет http.Client с cookie jar (cookie-сессия сервера —
// источник истины) и единственным слотом кэша текущего пользователя.
// Каждая операция — один сетевой вызов с form-encoded телом; JSON-ответ
// декодируется независимо от HTTP-статуса, интерпретация кодов результата
// остаётся за вызывающим кодом. Повторов и backoff нет: все операции
// инициируются пользователем и выполняются одной попыткой.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/tenant-platform-client/internal/config"
	"github.com/magabrotheeeer/tenant-platform-client/internal/metrics"
	"github.com/magabrotheeeer/tenant-platform-client/internal/models"
)

// Session — клиент API аутентификации с кэшем текущего пользователя.
type Session struct {
	log      *slog.Logger
	baseURL  string
	client   *http.Client
	validate *validator.Validate

	mu        sync.Mutex
	user      *models.User
	pageQuery url.Values
}

// New создает новый экземпляр Session для API по адресу baseURL.
// Базовый URL приводится к виду с завершающим "/".
func New(log *slog.Logger, baseURL string, timeout time.Duration) (*Session, error) {
	const op = "session.New"

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{
		log:      log,
		baseURL:  config.NormalizeBaseURL(baseURL),
		client:   &http.Client{Jar: jar, Timeout: timeout},
		validate: validator.New(),
	}, nil
}

// SetPageQuery задает query-параметры страницы, с которой пользователь
// пришёл по ссылке из письма. Из них потоки сброса пароля и подтверждения
// почты извлекают токены и код подтверждения.
func (s *Session) SetPageQuery(q url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageQuery = q
}

func (s *Session) pageQueryGet(key string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageQuery.Get(key)
}

// response — сырой результат одного вызова API.
type response struct {
	status int
	url    string
	body   []byte
}

func (r *response) success() bool {
	return r.status >= http.StatusOK && r.status < http.StatusMultipleChoices
}

// do выполняет один запрос с form-encoded телом и возвращает сырой ответ.
// Ошибка транспорта возвращается как *RequestError.
func (s *Session) do(ctx context.Context, op, method, path string, form, query url.Values) (*response, error) {
	endpoint := s.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.ObserveRequest(op, metrics.OutcomeNetworkError)
		return nil, &RequestError{Op: op, URL: endpoint, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveRequest(op, metrics.OutcomeNetworkError)
		return nil, &RequestError{Op: op, URL: endpoint, Err: err}
	}
	metrics.ObserveRequest(op, metrics.OutcomeOK)
	return &response{status: resp.StatusCode, url: endpoint, body: raw}, nil
}

// decode разбирает тело ответа как JSON в out независимо от HTTP-статуса.
// Неразбираемое тело — *ParseError.
func decode(op string, resp *response, out any) error {
	if err := json.Unmarshal(resp.body, out); err != nil {
		return &ParseError{Op: op, URL: resp.url, Err: err}
	}
	return nil
}

// postDecoded выполняет POST и декодирует JSON-ответ в out.
func (s *Session) postDecoded(ctx context.Context, op, path string, form url.Values, out any) error {
	resp, err := s.do(ctx, op, http.MethodPost, path, form, nil)
	if err != nil {
		return err
	}
	return decode(op, resp, out)
}

// postChecked выполняет POST и требует успешного HTTP-статуса,
// тело ответа не интерпретируется.
func (s *Session) postChecked(ctx context.Context, op, path string, form, query url.Values) error {
	resp, err := s.do(ctx, op, http.MethodPost, path, form, query)
	if err != nil {
		return err
	}
	if !resp.success() {
		return &StatusError{Op: op, URL: resp.url, StatusCode: resp.status}
	}
	return nil
}
