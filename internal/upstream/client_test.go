package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SergeiKhy/shortener-gateway/internal/models"
	"github.com/SergeiKhy/shortener-gateway/internal/upstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*upstream.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	logger, _ := zap.NewDevelopment()
	return upstream.NewClient(server.URL, logger), server
}

// TestShorten_Success проверяет создание ссылки и проброс bearer-токена
func TestShorten_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/shorten", r.URL.Path)
		assert.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "https://example.com/page", body["url"])

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"short_code":"abc123","short_url":"http://sho.rt/abc123","original_url":"https://example.com/page","created_at":"2025-03-10T12:00:00Z"}`))
	})

	link, err := client.Shorten(context.Background(), "my-token", &models.ShortenRequest{
		URL: "https://example.com/page",
	})

	require.NoError(t, err)
	assert.Equal(t, "abc123", link.ShortCode)
	assert.Equal(t, "https://example.com/page", link.OriginalURL)
}

// TestShorten_OmitsEmptyCustomCode проверяет, что пустой кастомный код
// не попадает в payload бэкенда (отсутствие поля = "сгенерируй сам")
func TestShorten_OmitsEmptyCustomCode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		_, present := body["short_code"]
		assert.False(t, present, "short_code must be omitted when empty")

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"short_code":"gen42","original_url":"https://example.com","created_at":"2025-03-10T12:00:00Z"}`))
	})

	_, err := client.Shorten(context.Background(), "tok", &models.ShortenRequest{
		URL: "https://example.com",
	})
	require.NoError(t, err)
}

// TestShorten_ForwardsCustomCode проверяет проброс непустого кода verbatim
func TestShorten_ForwardsCustomCode(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "my-code", body["short_code"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"short_code":"my-code","original_url":"https://example.com","created_at":"2025-03-10T12:00:00Z"}`))
	})

	link, err := client.Shorten(context.Background(), "tok", &models.ShortenRequest{
		URL:       "https://example.com",
		ShortCode: "my-code",
	})
	require.NoError(t, err)
	assert.Equal(t, "my-code", link.ShortCode)
}

// TestShorten_UpstreamRejected проверяет, что статус и текст ошибки бэкенда
// сохраняются в APIError
func TestShorten_UpstreamRejected(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"short code already taken"}`))
	})

	link, err := client.Shorten(context.Background(), "tok", &models.ShortenRequest{URL: "https://example.com"})

	require.Error(t, err)
	assert.Nil(t, link)
	var apiErr *upstream.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "short code already taken", apiErr.Message)
}

// TestShorten_UnparsableErrorBody проверяет не-JSON тело ошибки:
// статус сохраняется, сообщение пустое
func TestShorten_UnparsableErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	})

	_, err := client.Shorten(context.Background(), "tok", &models.ShortenRequest{URL: "https://example.com"})

	var apiErr *upstream.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Empty(t, apiErr.Message)
}

// TestShorten_ContractViolation проверяет 2xx без обязательных полей
func TestShorten_ContractViolation(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"unexpected":"shape"}`))
	})

	_, err := client.Shorten(context.Background(), "tok", &models.ShortenRequest{URL: "https://example.com"})

	var contractErr *upstream.ContractError
	assert.ErrorAs(t, err, &contractErr)
}

// TestResolve проверяет разрешение кода в оригинальный URL
func TestResolve(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/redirect/abc123", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"original_url":"https://x.test"}`))
	})

	url, err := client.Resolve(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://x.test", url)
}

// TestResolve_MissingField проверяет нарушение контракта: 2xx без original_url
func TestResolve_MissingField(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	url, err := client.Resolve(context.Background(), "abc123")
	assert.Empty(t, url)
	var contractErr *upstream.ContractError
	assert.ErrorAs(t, err, &contractErr)
}

// TestResolve_NotFound проверяет проброс 404 бэкенда
func TestResolve_NotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"not found"}`))
	})

	_, err := client.Resolve(context.Background(), "missing")
	var apiErr *upstream.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

// TestConnectionError проверяет транспортный сбой: недоступный адрес
// заворачивается в ConnectionError с эндпоинтом
func TestConnectionError(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	// Закрытый порт: соединение откажет сразу
	client := upstream.NewClient("http://127.0.0.1:1", logger)

	_, err := client.Register(context.Background(), &models.RegisterRequest{
		Email:    "user@example.com",
		Password: "secret123",
	})

	var connErr *upstream.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Contains(t, connErr.Endpoint, "127.0.0.1:1")
}

// TestAnalytics_PassesRawBody проверяет проброс сырого временного ряда
func TestAnalytics_PassesRawBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/url/abc/analytics", r.URL.Path)
		assert.Equal(t, "48", r.URL.Query().Get("hours"))
		w.Write([]byte(`[{"time":"2025-03-10T12:00:00Z","count":4}]`))
	})

	raw, err := client.Analytics(context.Background(), "tok", "abc", 48)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"time":"2025-03-10T12:00:00Z","count":4}]`, string(raw))
}

// TestQRCode_ReturnsBytes проверяет бинарный проброс QR-кода
func TestQRCode_ReturnsBytes(t *testing.T) {
	png := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/qrcode/abc", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/png")
		w.Write(png)
	})

	data, err := client.QRCode(context.Background(), "tok", "abc")
	require.NoError(t, err)
	assert.Equal(t, png, data)
}

// TestDeleteURL_EmptyBody проверяет, что пустое тело успешного удаления
// превращается в пустой JSON-объект
func TestDeleteURL_EmptyBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusOK)
	})

	body, err := client.DeleteURL(context.Background(), "tok", "abc")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(body))
}

// TestLogin проверяет вызов логина и разбор ответа
func TestLogin(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "user@example.com", body["email"])
		w.Write([]byte(`{"user_id":"u1","email":"user@example.com","name":"User","token":"jwt-token"}`))
	})

	auth, err := client.Login(context.Background(), "user@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "u1", auth.UserID)
	assert.Equal(t, "jwt-token", auth.Token)
}
