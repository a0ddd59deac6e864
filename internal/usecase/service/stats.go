package service

import (
	"fmt"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"
	"stats-backend/internal/usecase"

	"github.com/labstack/gommon/log"
)

type Stats struct {
	statsRepo repo.Stats
}

func NewStats(statsRepo repo.Stats) usecase.Stats {
	return &Stats{
		statsRepo: statsRepo,
	}
}

func (s *Stats) AddHit(hit *entity.EndpointHit) error {
	if err := hit.IsValid(); err != nil {
		return fmt.Errorf("%w: %v", usecase.ErrValidation, err)
	}
	id, err := s.statsRepo.AddHit(hit)
	if err != nil {
		return err
	}
	log.Infof("Сохранено обращение id=%d: app=%s, uri=%s, ip=%s", id, hit.App, hit.URI, hit.IP)
	return nil
}

func (s *Stats) GetStats(request *entity.GetStatsRequest) ([]*entity.ViewStats, error) {
	if request.End.Before(request.Start) {
		return nil, fmt.Errorf("%w: дата начала должна быть не позже даты окончания", usecase.ErrValidation)
	}
	// Явно переданный пустой фильтр не совпадает ни с одним uri.
	// Отсутствующий фильтр (nil) означает выборку по всем uri.
	if request.URIs != nil && len(request.URIs) == 0 {
		return []*entity.ViewStats{}, nil
	}
	return s.statsRepo.GetStats(request.Start, request.End, request.URIs, request.Unique)
}
