package models

import (
	"time"
)

// ShortLink зеркало ответа бэкенда; шлюз никогда не изменяет его локально,
// авторитетная копия всегда у бэкенда.
type ShortLink struct {
	ShortCode   string     `json:"short_code"`
	ShortURL    string     `json:"short_url,omitempty"`
	OriginalURL string     `json:"original_url"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ClickCount  int64      `json:"click_count,omitempty"`
}

type ShortenRequest struct {
	URL       string `json:"url" binding:"required"`
	ShortCode string `json:"short_code,omitempty"`
}

type UpdateLinkRequest struct {
	// ExpiresAt: null очищает срок жизни ссылки, поэтому без omitempty
	ExpiresAt *time.Time `json:"expires_at"`
}

// AnalyticsPoint точка временного ряда кликов, время всегда в UTC
type AnalyticsPoint struct {
	Time  time.Time `json:"time"`
	Count int64     `json:"count"`
}
