package postgres

import (
	"database/sql"
	"errors"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"

	"github.com/jmoiron/sqlx"
)

type User struct {
	db *sqlx.DB
}

func NewUser(db *sqlx.DB) repo.User {
	return &User{
		db: db,
	}
}

func (u *User) GetUser(userID int64) (*entity.User, error) {
	var user entity.User
	err := u.db.Get(&user, `
		SELECT id, name, email
		FROM users
		WHERE id = $1
	`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
