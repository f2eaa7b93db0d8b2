// Package analytics реализует отправку событий продуктовой аналитики.
//
// Клиент создаётся один раз при старте приложения, генерирует анонимный
// идентификатор посетителя и отправляет события identify/page/track
// как JSON с basic-авторизацией по ключу записи. Ошибки аналитики
// не должны ломать основной поток: вызывающий код их логирует и идёт дальше.
package analytics

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client отправляет события аналитики на настроенный endpoint.
type Client struct {
	endpoint    string
	writeKey    string
	anonymousID string
	httpClient  *http.Client
}

// New создаёт новый клиент аналитики с новым анонимным идентификатором.
func New(endpoint, writeKey string) *Client {
	return &Client{
		endpoint:    endpoint,
		writeKey:    writeKey,
		anonymousID: uuid.NewString(),
		httpClient:  &http.Client{Timeout: 10 * time.Second},
	}
}

// AnonymousID возвращает анонимный идентификатор текущего посетителя.
func (c *Client) AnonymousID() string {
	return c.anonymousID
}

// event — тело одного события аналитики.
type event struct {
	Type        string         `json:"type"`
	AnonymousID string         `json:"anonymous_id"`
	UserID      string         `json:"user_id,omitempty"`
	Name        string         `json:"name,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}

func (c *Client) send(ctx context.Context, op string, ev event) error {
	ev.AnonymousID = c.anonymousID
	ev.Timestamp = time.Now().UTC()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(ev); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	auth := base64.StdEncoding.EncodeToString([]byte(c.writeKey + ":"))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("%s: unexpected status: %s", op, resp.Status)
	}
	return nil
}

// Identify связывает анонимный идентификатор с пользователем платформы.
func (c *Client) Identify(ctx context.Context, userID string) error {
	const op = "analytics.Identify"
	return c.send(ctx, op, event{Type: "identify", UserID: userID})
}

// Page регистрирует просмотр страницы с данным именем.
func (c *Client) Page(ctx context.Context, name string) error {
	const op = "analytics.Page"
	return c.send(ctx, op, event{Type: "page", Name: name})
}

// Track регистрирует произвольное событие с набором свойств.
func (c *Client) Track(ctx context.Context, name string, properties map[string]any) error {
	const op = "analytics.Track"
	return c.send(ctx, op, event{Type: "track", Name: name, Properties: properties})
}
