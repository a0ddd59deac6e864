package usecase

import (
	"context"
	"errors"
	"stats-backend/internal/entity"
)

type Comment interface {
	// CreateComment создает комментарий к опубликованному событию.
	// Новый комментарий всегда попадает на модерацию (PENDING).
	CreateComment(userID, eventID int64, request *entity.NewCommentRequest) (*entity.Comment, error)
	// UpdateComment правит текст собственного комментария. Опубликованный
	// комментарий возвращается на модерацию.
	UpdateComment(userID, eventID, commentID int64, request *entity.NewCommentRequest) (*entity.Comment, error)
	// DeleteComment помечает собственный комментарий удаленным
	DeleteComment(userID, eventID, commentID int64) error
	// ModerateComment применяет решение модератора
	ModerateComment(commentID int64, request *entity.CommentAdminRequest) (*entity.Comment, error)
	// DeleteCommentByAdmin жёстко удаляет комментарий
	DeleteCommentByAdmin(commentID int64) error

	// GetPublishedComments возвращает опубликованные комментарии события
	GetPublishedComments(eventID int64, from, size int) ([]*entity.Comment, error)
	// GetPublishedComment возвращает опубликованный комментарий события
	GetPublishedComment(eventID, commentID int64) (*entity.Comment, error)
	// GetPublishedCommentsCount возвращает число опубликованных комментариев события
	GetPublishedCommentsCount(eventID int64) (int64, error)
	// GetPendingComments возвращает очередь модерации, старые первыми
	GetPendingComments(from, size int) ([]*entity.Comment, error)
	// GetCommentsByStatus возвращает комментарии в заданном статусе
	GetCommentsByStatus(status entity.CommentStatus, from, size int) ([]*entity.Comment, error)
	// GetUserComments возвращает комментарии пользователя
	GetUserComments(userID int64, from, size int) ([]*entity.Comment, error)
	// GetUserCommentsForEvent возвращает комментарии пользователя к событию
	GetUserCommentsForEvent(userID, eventID int64) ([]*entity.Comment, error)
	// CanUserComment сообщает, может ли пользователь комментировать событие
	CanUserComment(userID, eventID int64) (bool, error)
	// GetUserCommentStats возвращает сводку по комментариям пользователя
	GetUserCommentStats(userID int64) (*entity.CommentStats, error)
	// SearchComments ищет подстроку в опубликованных комментариях.
	// Поиск выполняется по одной странице выборки, а не по всему корпусу.
	SearchComments(text string, from, size int) ([]*entity.Comment, error)
	// GetRecentComments возвращает опубликованные комментарии за последние hours часов
	GetRecentComments(hours, limit int) ([]*entity.Comment, error)
	// SubscribeCommentEvents подписывается на события жизненного цикла комментариев
	SubscribeCommentEvents(ctx context.Context) (<-chan *entity.CommentEvent, error)
}

var (
	ErrCommentNotFound = errors.New("комментарий не найден")
	ErrEventNotFound   = errors.New("событие не найдено")
	ErrUserNotFound    = errors.New("пользователь не найден")
	ErrForbidden       = errors.New("операция запрещена")
	ErrCommentConflict = errors.New("комментарий уже существует")

	// ErrEventStreamUnavailable возвращается подпиской, когда брокер событий
	// не настроен
	ErrEventStreamUnavailable = errors.New("поток событий недоступен")
)
