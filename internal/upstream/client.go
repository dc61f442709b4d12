package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SergeiKhy/shortener-gateway/internal/models"
	"go.uber.org/zap"
)

// Client HTTP-клиент бэкенда сокращателя. Все ресурсные операции шлюза
// проходят через него; авторизация — bearer-токен из сессии пользователя.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient создаёт клиент бэкенда. baseURL без завершающего слэша,
// например http://localhost:8080
func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

// Shorten создаёт короткую ссылку. Кастомный код передаётся бэкенду только
// если он непустой: отсутствие поля означает "сгенерируй сам".
func (c *Client) Shorten(ctx context.Context, bearer string, req *models.ShortenRequest) (*models.ShortLink, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/shorten", bearer, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var link models.ShortLink
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, &ContractError{Field: "body", Err: err}
	}
	if link.ShortCode == "" || link.OriginalURL == "" {
		return nil, &ContractError{Field: "short_code/original_url"}
	}

	return &link, nil
}

// ListURLs возвращает ссылки текущего пользователя.
func (c *Client) ListURLs(ctx context.Context, bearer string) ([]models.ShortLink, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/urls", bearer, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var links []models.ShortLink
	if err := json.NewDecoder(resp.Body).Decode(&links); err != nil {
		return nil, &ContractError{Field: "body", Err: err}
	}

	return links, nil
}

// GetURL возвращает детали одной ссылки.
func (c *Client) GetURL(ctx context.Context, bearer, code string) (*models.ShortLink, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/url/"+code, bearer, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var link models.ShortLink
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, &ContractError{Field: "body", Err: err}
	}

	return &link, nil
}

// UpdateURL меняет срок жизни ссылки. expires_at: null очищает его.
func (c *Client) UpdateURL(ctx context.Context, bearer, code string, req *models.UpdateLinkRequest) (*models.ShortLink, error) {
	resp, err := c.do(ctx, http.MethodPatch, "/api/v1/url/"+code, bearer, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var link models.ShortLink
	if err := json.NewDecoder(resp.Body).Decode(&link); err != nil {
		return nil, &ContractError{Field: "body", Err: err}
	}

	return &link, nil
}

// DeleteURL удаляет ссылку. Тело успешного ответа пробрасывается как есть.
func (c *Client) DeleteURL(ctx context.Context, bearer, code string) (json.RawMessage, error) {
	resp, err := c.do(ctx, http.MethodDelete, "/api/v1/url/"+code, bearer, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	return c.rawBody(resp)
}

// Analytics возвращает сырой временной ряд кликов за hours часов.
// Тело не декодируется: форматирование для графика делает пакет analytics,
// который сам деградирует до пустого ряда на некорректном payload.
func (c *Client) Analytics(ctx context.Context, bearer, code string, hours int) (json.RawMessage, error) {
	path := fmt.Sprintf("/api/v1/url/%s/analytics?hours=%d", code, hours)
	resp, err := c.do(ctx, http.MethodGet, path, bearer, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	return c.rawBody(resp)
}

// QRCode возвращает PNG с QR-кодом короткой ссылки.
func (c *Client) QRCode(ctx context.Context, bearer, code string) ([]byte, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/qrcode/"+code, bearer, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Endpoint: c.baseURL, Err: err}
	}

	return data, nil
}

// Resolve разрешает короткий код в оригинальный URL. Без авторизации.
func (c *Client) Resolve(ctx context.Context, code string) (string, error) {
	resp, err := c.do(ctx, http.MethodGet, "/api/v1/redirect/"+code, "", nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return "", err
	}

	var payload struct {
		OriginalURL string `json:"original_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", &ContractError{Field: "body", Err: err}
	}
	if payload.OriginalURL == "" {
		return "", &ContractError{Field: "original_url"}
	}

	return payload.OriginalURL, nil
}

// Register регистрирует пользователя. Без авторизации.
func (c *Client) Register(ctx context.Context, req *models.RegisterRequest) (*models.AuthResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", "", req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var auth models.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, &ContractError{Field: "body", Err: err}
	}

	return &auth, nil
}

// Login выполняет вход по email/паролю.
func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", "", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var auth models.AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&auth); err != nil {
		return nil, &ContractError{Field: "body", Err: err}
	}

	return &auth, nil
}

// do выполняет один запрос к бэкенду. Любая транспортная ошибка
// заворачивается в ConnectionError с адресом эндпоинта.
func (c *Client) do(ctx context.Context, method, path, bearer string, body any) (*http.Response, error) {
	endpoint := c.baseURL + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &ConnectionError{Endpoint: endpoint, Err: err}
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("Upstream call failed",
				zap.String("method", method),
				zap.String("endpoint", endpoint),
				zap.Error(err),
			)
		}
		return nil, &ConnectionError{Endpoint: endpoint, Err: err}
	}

	return resp, nil
}

// checkStatus превращает не-2xx ответ в APIError с текстом из тела.
// Статус бэкенда сохраняется как есть: шлюз обязан отдать его клиенту verbatim.
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}

	// Тело ошибки может отсутствовать или быть не-JSON, это не фатально
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Message = payload.Error
	}

	return apiErr
}

func (c *Client) rawBody(resp *http.Response) (json.RawMessage, error) {
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ConnectionError{Endpoint: c.baseURL, Err: err}
	}
	if len(data) == 0 {
		data = []byte("{}")
	}
	return json.RawMessage(data), nil
}
