package postgres

import (
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Stats struct {
	db *sqlx.DB
}

func NewStats(db *sqlx.DB) repo.Stats {
	return &Stats{
		db: db,
	}
}

func (s *Stats) AddHit(hit *entity.EndpointHit) (int64, error) {
	var id int64
	err := s.db.QueryRow(`
		INSERT INTO hits (app, uri, ip, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, hit.App, hit.URI, hit.IP, hit.Timestamp).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s *Stats) GetStats(start, end time.Time, uris []string, unique bool) ([]*entity.ViewStats, error) {
	hitsExpr := "COUNT(ip)"
	if unique {
		hitsExpr = "COUNT(DISTINCT ip)"
	}

	builder := sq.Select("app", "uri", hitsExpr+" AS hits").
		From("hits").
		Where(sq.GtOrEq{"created_at": start}).
		Where(sq.LtOrEq{"created_at": end}).
		GroupBy("app", "uri").
		OrderBy("hits DESC", "app ASC", "uri ASC").
		PlaceholderFormat(sq.Dollar)
	if uris != nil {
		builder = builder.Where(sq.Eq{"uri": uris})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	stats := make([]*entity.ViewStats, 0)
	if err := s.db.Select(&stats, query, args...); err != nil {
		return nil, err
	}
	return stats, nil
}
