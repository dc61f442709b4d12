package analytics

import (
	"encoding/json"
	"time"

	"github.com/SergeiKhy/shortener-gateway/internal/models"
)

// Windows допустимые окна аналитики в часах
var Windows = []int{6, 12, 24, 72, 168, 336, 720}

// DefaultWindow окно по умолчанию
const DefaultWindow = 24

// ChartPoint точка, готовая к отрисовке на графике
type ChartPoint struct {
	Label  string `json:"label"`
	Clicks int64  `json:"clicks"`
}

// ValidWindow проверяет, входит ли окно в допустимый набор.
func ValidWindow(hours int) bool {
	for _, w := range Windows {
		if w == hours {
			return true
		}
	}
	return false
}

// LabelLayout формат подписи зависит только от окна, не от данных:
// до суток — время, до трёх суток — дата и время, дальше — только дата.
func LabelLayout(hours int) string {
	switch {
	case hours <= 24:
		return "15:04"
	case hours <= 72:
		return "01-02 15:04"
	default:
		return "01-02"
	}
}

// Format конвертирует UTC-ряд в подписи локального времени loc.
// Порядок точек сохраняется, счётчики не пересчитываются.
// Чистая функция: одинаковый вход и зона всегда дают одинаковые подписи.
func Format(points []models.AnalyticsPoint, hours int, loc *time.Location) []ChartPoint {
	layout := LabelLayout(hours)
	out := make([]ChartPoint, 0, len(points))
	for _, p := range points {
		out = append(out, ChartPoint{
			Label:  p.Time.In(loc).Format(layout),
			Clicks: p.Count,
		})
	}
	return out
}

// FormatRaw форматирует сырой payload бэкенда. Если payload не является
// массивом точек, возвращается пустой ряд: график деградирует до
// "нет данных" вместо падения.
func FormatRaw(raw json.RawMessage, hours int, loc *time.Location) []ChartPoint {
	var points []models.AnalyticsPoint
	if err := json.Unmarshal(raw, &points); err != nil {
		return []ChartPoint{}
	}
	return Format(points, hours, loc)
}
