package entity

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MinCommentLength и MaxCommentLength — границы длины текста комментария
	// после обрезки пробелов.
	MinCommentLength = 10
	MaxCommentLength = 2000
)

type CommentStatus string

const (
	StatusPending   CommentStatus = "PENDING"   // на модерации
	StatusPublished CommentStatus = "PUBLISHED" // опубликован
	StatusRejected  CommentStatus = "REJECTED"  // отклонен модератором
	StatusDeleted   CommentStatus = "DELETED"   // удален автором
)

func (s CommentStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected, StatusDeleted:
		return true
	}
	return false
}

// Comment — комментарий пользователя к событию.
// AuthorName не хранится в таблице комментариев и подтягивается из users.
type Comment struct {
	ID               int64         `db:"id"`
	EventID          int64         `db:"event_id"`
	AuthorID         int64         `db:"author_id"`
	AuthorName       string        `db:"author_name"`
	Text             string        `db:"text"`
	Status           CommentStatus `db:"status"`
	Created          time.Time     `db:"created_at"`
	Edited           *time.Time    `db:"edited_at"`
	ModeratorMessage *string       `db:"moderator_message"`
}

// CommentStats — сводка по комментариям одного автора.
type CommentStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
	Pending   int64 `json:"pending"`
	Rejected  int64 `json:"rejected"`
}

// NewCommentRequest — текст нового или отредактированного комментария.
type NewCommentRequest struct {
	Text string `json:"text"`
}

// ValidatedText возвращает текст без крайних пробелов либо ошибку,
// если длина выходит за допустимые границы.
func (r *NewCommentRequest) ValidatedText() (string, error) {
	text := strings.TrimSpace(r.Text)
	if text == "" {
		return "", fmt.Errorf("текст комментария не может быть пустым")
	}
	if utf8.RuneCountInString(text) < MinCommentLength {
		return "", fmt.Errorf("текст комментария должен быть не менее %d символов", MinCommentLength)
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return "", fmt.Errorf("текст комментария должен быть не более %d символов", MaxCommentLength)
	}
	return text, nil
}

// CommentAdminRequest — решение модератора по комментарию.
type CommentAdminRequest struct {
	Status           CommentStatus `json:"status"`
	ModeratorMessage string        `json:"moderatorMessage"`
}
