package usecase

import (
	"errors"
	"stats-backend/internal/entity"
)

type Stats interface {
	// AddHit сохраняет запись об обращении к эндпоинту
	AddHit(hit *entity.EndpointHit) error
	// GetStats возвращает агрегированную статистику просмотров за период,
	// упорядоченную по убыванию числа просмотров
	GetStats(request *entity.GetStatsRequest) ([]*entity.ViewStats, error)
}

var (
	ErrValidation = errors.New("некорректный запрос")
)
