package repo

import (
	"stats-backend/internal/entity"
	"time"
)

type Stats interface {
	// AddHit сохраняет запись об обращении и возвращает её ID.
	// Повторные отправки создают отдельные записи.
	AddHit(hit *entity.EndpointHit) (int64, error)
	// GetStats возвращает агрегированную статистику по парам (app, uri)
	// за период [start, end] включительно. uris == nil — без фильтра.
	// При unique считаются только уникальные IP. Результат упорядочен по
	// убыванию hits, при равенстве — по (app, uri) по возрастанию.
	GetStats(start, end time.Time, uris []string, unique bool) ([]*entity.ViewStats, error)
}
