package postgres

import (
	"database/sql"
	"errors"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"

	"github.com/jmoiron/sqlx"
)

type Event struct {
	db *sqlx.DB
}

func NewEvent(db *sqlx.DB) repo.Event {
	return &Event{
		db: db,
	}
}

func (e *Event) GetEvent(eventID int64) (*entity.Event, error) {
	var event entity.Event
	err := e.db.Get(&event, `
		SELECT id, title, state, comment_count
		FROM events
		WHERE id = $1
	`, eventID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}
