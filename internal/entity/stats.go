package entity

import (
	"errors"
	"strings"
	"time"
)

// DateTimeLayout — формат дат во внешнем API (yyyy-MM-dd HH:mm:ss).
const DateTimeLayout = "2006-01-02 15:04:05"

// EndpointHit — запись об одном обращении к эндпоинту сервиса.
// Записи неизменяемы: они только добавляются и никогда не обновляются.
type EndpointHit struct {
	ID        int64     `db:"id"`
	App       string    `db:"app"`
	URI       string    `db:"uri"`
	IP        string    `db:"ip"`
	Timestamp time.Time `db:"created_at"`
}

func (h *EndpointHit) IsValid() error {
	if strings.TrimSpace(h.App) == "" {
		return errors.New("идентификатор приложения не может быть пустым")
	}
	if strings.TrimSpace(h.URI) == "" {
		return errors.New("uri не может быть пустым")
	}
	if strings.TrimSpace(h.IP) == "" {
		return errors.New("ip не может быть пустым")
	}
	if h.Timestamp.IsZero() {
		return errors.New("временная метка не может быть пустой")
	}
	return nil
}

// ViewStats — агрегированная статистика просмотров по паре (app, uri).
// Не хранится в базе, строится заново на каждый запрос.
type ViewStats struct {
	App  string `json:"app" db:"app"`
	URI  string `json:"uri" db:"uri"`
	Hits int64  `json:"hits" db:"hits"`
}

// GetStatsRequest — параметры выборки статистики.
// URIs == nil означает отсутствие фильтра, пустой срез — пустую выборку.
type GetStatsRequest struct {
	Start  time.Time
	End    time.Time
	URIs   []string
	Unique bool
}
