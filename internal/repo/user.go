package repo

import (
	"errors"
	"stats-backend/internal/entity"
)

type User interface {
	// GetUser возвращает пользователя по его ID
	GetUser(userID int64) (*entity.User, error)
}

var (
	ErrUserNotFound = errors.New("user not found")
)
