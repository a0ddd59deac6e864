package repo

import (
	"errors"
	"stats-backend/internal/entity"
)

type Event interface {
	// GetEvent возвращает событие по его ID
	GetEvent(eventID int64) (*entity.Event, error)
}

var (
	ErrEventNotFound = errors.New("event not found")
)
