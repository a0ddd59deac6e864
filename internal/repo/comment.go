package repo

import (
	"errors"
	"stats-backend/internal/entity"
	"time"
)

// CommentChangeFn применяется к комментарию под блокировкой строки внутри
// транзакции. Функция правит поля комментария на месте и возвращает дельту
// счётчика опубликованных комментариев события. Ошибка откатывает транзакцию.
type CommentChangeFn func(comment *entity.Comment) (counterDelta int, err error)

// CounterDeltaFn возвращает дельту счётчика по статусу комментария на момент
// жёсткого удаления.
type CounterDeltaFn func(old entity.CommentStatus) int

type Comment interface {
	// AddComment добавляет комментарий и возвращает его ID.
	// Возвращает ErrCommentExists, если у автора уже есть комментарий к событию.
	AddComment(comment *entity.Comment) (int64, error)
	// GetComment возвращает комментарий по ID
	GetComment(commentID int64) (*entity.Comment, error)
	// GetEventComment возвращает комментарий по ID в рамках события
	GetEventComment(commentID, eventID int64) (*entity.Comment, error)
	// HasComment сообщает, существует ли комментарий автора к событию
	// независимо от статуса
	HasComment(eventID, authorID int64) (bool, error)
	// UpdateComment применяет change к комментарию и дельту счётчика события
	// одной транзакцией: либо фиксируются обе записи, либо ни одной.
	UpdateComment(commentID int64, change CommentChangeFn) (*entity.Comment, error)
	// DeleteComment жёстко удаляет комментарий и применяет дельту счётчика
	// одной транзакцией
	DeleteComment(commentID int64, delta CounterDeltaFn) error

	// GetEventComments возвращает комментарии события в заданном статусе,
	// новые первыми
	GetEventComments(eventID int64, status entity.CommentStatus, from, size int) ([]*entity.Comment, error)
	// GetCommentsByStatus возвращает комментарии в заданном статусе.
	// При ascending старые идут первыми (очередь модерации).
	GetCommentsByStatus(status entity.CommentStatus, from, size int, ascending bool) ([]*entity.Comment, error)
	// GetAuthorComments возвращает комментарии автора, новые первыми
	GetAuthorComments(authorID int64, from, size int) ([]*entity.Comment, error)
	// GetAuthorEventComments возвращает комментарии автора к событию
	GetAuthorEventComments(eventID, authorID int64) ([]*entity.Comment, error)
	// CountEventComments возвращает число комментариев события в статусе
	CountEventComments(eventID int64, status entity.CommentStatus) (int64, error)
	// GetAuthorCommentStats возвращает сводку по комментариям автора
	GetAuthorCommentStats(authorID int64) (*entity.CommentStats, error)
	// GetRecentComments возвращает опубликованные комментарии, созданные
	// после since, новые первыми, не более limit
	GetRecentComments(since time.Time, limit int) ([]*entity.Comment, error)
}

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrCommentExists   = errors.New("comment already exists")
)
