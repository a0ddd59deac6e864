package service

import (
	"context"
	"errors"
	"fmt"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"
	"stats-backend/internal/usecase"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/sethvargo/go-retry"
)

const (
	publishAttempts = 3
	publishTimeout  = 5 * time.Second
)

type Comment struct {
	commentRepo      repo.Comment
	eventRepo        repo.Event
	userRepo         repo.User
	commentEventRepo repo.CommentEventRepository // nil, если брокер не настроен
}

func NewComment(
	commentRepo repo.Comment,
	eventRepo repo.Event,
	userRepo repo.User,
	commentEventRepo repo.CommentEventRepository,
) usecase.Comment {
	return &Comment{
		commentRepo:      commentRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		commentEventRepo: commentEventRepo,
	}
}

// counterDelta возвращает изменение счётчика опубликованных комментариев
// события при переходе комментария из статуса old в статус new.
func counterDelta(old, new entity.CommentStatus) int {
	switch {
	case old != entity.StatusPublished && new == entity.StatusPublished:
		return 1
	case old == entity.StatusPublished && new != entity.StatusPublished:
		return -1
	default:
		return 0
	}
}

func (c *Comment) CreateComment(userID, eventID int64, request *entity.NewCommentRequest) (*entity.Comment, error) {
	text, err := request.ValidatedText()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrForbidden, err)
	}

	user, err := c.userRepo.GetUser(userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: id=%d", usecase.ErrUserNotFound, userID)
		}
		return nil, err
	}

	event, err := c.eventRepo.GetEvent(eventID)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			return nil, fmt.Errorf("%w: id=%d", usecase.ErrEventNotFound, eventID)
		}
		return nil, err
	}
	if event.State != entity.EventPublished {
		return nil, fmt.Errorf("%w: нельзя комментировать неопубликованное событие", usecase.ErrForbidden)
	}

	// Проверяется существование комментария, а не его статус: автор с
	// удаленным или отклоненным комментарием повторно комментировать не может.
	exists, err := c.commentRepo.HasComment(eventID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: вы уже оставляли комментарий к этому событию", usecase.ErrForbidden)
	}

	comment := &entity.Comment{
		EventID:    eventID,
		AuthorID:   userID,
		AuthorName: user.Name,
		Text:       text,
		Status:     entity.StatusPending,
		Created:    time.Now(),
	}
	id, err := c.commentRepo.AddComment(comment)
	if err != nil {
		// Гонка двух одновременных вставок упирается в уникальный индекс
		if errors.Is(err, repo.ErrCommentExists) {
			return nil, fmt.Errorf("%w: вы уже оставляли комментарий к этому событию", usecase.ErrCommentConflict)
		}
		return nil, err
	}
	comment.ID = id

	log.Infof("Создан комментарий id=%d к событию id=%d от пользователя id=%d", id, eventID, userID)
	c.publishCommentEvent(entity.CommentCreated, comment, "", comment.Status)
	return comment, nil
}

func (c *Comment) UpdateComment(userID, eventID, commentID int64, request *entity.NewCommentRequest) (*entity.Comment, error) {
	text, err := request.ValidatedText()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", usecase.ErrForbidden, err)
	}

	var oldStatus entity.CommentStatus
	updated, err := c.commentRepo.UpdateComment(commentID, func(comment *entity.Comment) (int, error) {
		if comment.EventID != eventID || comment.AuthorID != userID {
			return 0, repo.ErrCommentNotFound
		}
		if comment.Status == entity.StatusRejected {
			return 0, fmt.Errorf("%w: нельзя редактировать отклоненный комментарий", usecase.ErrForbidden)
		}
		if comment.Status == entity.StatusDeleted {
			return 0, fmt.Errorf("%w: комментарий был удален", usecase.ErrForbidden)
		}

		oldStatus = comment.Status
		now := time.Now()
		comment.Text = text
		comment.Edited = &now
		// Правка опубликованного комментария возвращает его на модерацию
		if comment.Status == entity.StatusPublished {
			comment.Status = entity.StatusPending
		}
		return counterDelta(oldStatus, comment.Status), nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			return nil, fmt.Errorf("%w: id=%d", usecase.ErrCommentNotFound, commentID)
		}
		return nil, err
	}

	log.Infof("Обновлен комментарий id=%d", commentID)
	c.publishCommentEvent(entity.CommentEdited, updated, oldStatus, updated.Status)
	return updated, nil
}

func (c *Comment) DeleteComment(userID, eventID, commentID int64) error {
	var oldStatus entity.CommentStatus
	deleted, err := c.commentRepo.UpdateComment(commentID, func(comment *entity.Comment) (int, error) {
		if comment.EventID != eventID || comment.AuthorID != userID {
			return 0, repo.ErrCommentNotFound
		}
		oldStatus = comment.Status
		comment.Status = entity.StatusDeleted
		return counterDelta(oldStatus, comment.Status), nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			return fmt.Errorf("%w: id=%d", usecase.ErrCommentNotFound, commentID)
		}
		return err
	}

	log.Infof("Удален комментарий id=%d пользователем id=%d", commentID, userID)
	c.publishCommentEvent(entity.CommentDeleted, deleted, oldStatus, entity.StatusDeleted)
	return nil
}

func (c *Comment) ModerateComment(commentID int64, request *entity.CommentAdminRequest) (*entity.Comment, error) {
	if !request.Status.IsValid() {
		return nil, fmt.Errorf("%w: недопустимый статус комментария", usecase.ErrForbidden)
	}

	var oldStatus entity.CommentStatus
	moderated, err := c.commentRepo.UpdateComment(commentID, func(comment *entity.Comment) (int, error) {
		oldStatus = comment.Status
		comment.Status = request.Status
		if message := strings.TrimSpace(request.ModeratorMessage); message != "" {
			comment.ModeratorMessage = &message
		} else {
			comment.ModeratorMessage = nil
		}
		return counterDelta(oldStatus, comment.Status), nil
	})
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			return nil, fmt.Errorf("%w: id=%d", usecase.ErrCommentNotFound, commentID)
		}
		return nil, err
	}

	log.Infof("Модерирован комментарий id=%d, статус: %s", commentID, request.Status)
	c.publishCommentEvent(entity.CommentModerated, moderated, oldStatus, moderated.Status)
	return moderated, nil
}

func (c *Comment) DeleteCommentByAdmin(commentID int64) error {
	comment, err := c.commentRepo.GetComment(commentID)
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			return fmt.Errorf("%w: id=%d", usecase.ErrCommentNotFound, commentID)
		}
		return err
	}

	err = c.commentRepo.DeleteComment(commentID, func(old entity.CommentStatus) int {
		return counterDelta(old, entity.StatusDeleted)
	})
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			return fmt.Errorf("%w: id=%d", usecase.ErrCommentNotFound, commentID)
		}
		return err
	}

	log.Infof("Администратором удален комментарий id=%d", commentID)
	c.publishCommentEvent(entity.CommentDeleted, comment, comment.Status, entity.StatusDeleted)
	return nil
}

func (c *Comment) GetPublishedComments(eventID int64, from, size int) ([]*entity.Comment, error) {
	if err := validatePagination(from, size); err != nil {
		return nil, err
	}
	return c.commentRepo.GetEventComments(eventID, entity.StatusPublished, from, size)
}

func (c *Comment) GetPublishedComment(eventID, commentID int64) (*entity.Comment, error) {
	comment, err := c.commentRepo.GetEventComment(commentID, eventID)
	if err != nil {
		if errors.Is(err, repo.ErrCommentNotFound) {
			return nil, fmt.Errorf("%w: id=%d", usecase.ErrCommentNotFound, commentID)
		}
		return nil, err
	}
	if comment.Status != entity.StatusPublished {
		return nil, fmt.Errorf("%w: комментарий не опубликован", usecase.ErrCommentNotFound)
	}
	return comment, nil
}

func (c *Comment) GetPublishedCommentsCount(eventID int64) (int64, error) {
	return c.commentRepo.CountEventComments(eventID, entity.StatusPublished)
}

func (c *Comment) GetPendingComments(from, size int) ([]*entity.Comment, error) {
	if err := validatePagination(from, size); err != nil {
		return nil, err
	}
	return c.commentRepo.GetCommentsByStatus(entity.StatusPending, from, size, true)
}

func (c *Comment) GetCommentsByStatus(status entity.CommentStatus, from, size int) ([]*entity.Comment, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: недопустимый статус комментария", usecase.ErrForbidden)
	}
	if err := validatePagination(from, size); err != nil {
		return nil, err
	}
	return c.commentRepo.GetCommentsByStatus(status, from, size, false)
}

func (c *Comment) GetUserComments(userID int64, from, size int) ([]*entity.Comment, error) {
	if err := validatePagination(from, size); err != nil {
		return nil, err
	}
	return c.commentRepo.GetAuthorComments(userID, from, size)
}

func (c *Comment) GetUserCommentsForEvent(userID, eventID int64) ([]*entity.Comment, error) {
	return c.commentRepo.GetAuthorEventComments(eventID, userID)
}

func (c *Comment) CanUserComment(userID, eventID int64) (bool, error) {
	exists, err := c.commentRepo.HasComment(eventID, userID)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (c *Comment) GetUserCommentStats(userID int64) (*entity.CommentStats, error) {
	if _, err := c.userRepo.GetUser(userID); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: id=%d", usecase.ErrUserNotFound, userID)
		}
		return nil, err
	}
	return c.commentRepo.GetAuthorCommentStats(userID)
}

// SearchComments фильтрует одну страницу опубликованных комментариев на
// стороне приложения. Поиск по всему корпусу потребовал бы индекса в базе.
func (c *Comment) SearchComments(text string, from, size int) ([]*entity.Comment, error) {
	search := strings.ToLower(strings.TrimSpace(text))
	if search == "" {
		return nil, fmt.Errorf("%w: текст для поиска не может быть пустым", usecase.ErrForbidden)
	}
	if err := validatePagination(from, size); err != nil {
		return nil, err
	}

	page, err := c.commentRepo.GetCommentsByStatus(entity.StatusPublished, from, size, false)
	if err != nil {
		return nil, err
	}
	result := make([]*entity.Comment, 0)
	for _, comment := range page {
		if strings.Contains(strings.ToLower(comment.Text), search) {
			result = append(result, comment)
		}
	}
	return result, nil
}

func (c *Comment) GetRecentComments(hours, limit int) ([]*entity.Comment, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("%w: количество часов должно быть положительным", usecase.ErrForbidden)
	}
	if limit < 1 || limit > 100 {
		return nil, fmt.Errorf("%w: лимит должен быть от 1 до 100", usecase.ErrForbidden)
	}
	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	return c.commentRepo.GetRecentComments(since, limit)
}

func (c *Comment) SubscribeCommentEvents(ctx context.Context) (<-chan *entity.CommentEvent, error) {
	if c.commentEventRepo == nil {
		return nil, usecase.ErrEventStreamUnavailable
	}
	return c.commentEventRepo.SubscribeCommentEvents(ctx)
}

// publishCommentEvent отправляет событие жизненного цикла в брокер.
// Публикация не влияет на результат операции: ошибки логируются и не
// возвращаются вызывающему.
func (c *Comment) publishCommentEvent(
	eventType entity.CommentEventType,
	comment *entity.Comment,
	oldStatus, newStatus entity.CommentStatus,
) {
	if c.commentEventRepo == nil {
		return
	}
	event := &entity.CommentEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		CommentID:  comment.ID,
		EventID:    comment.EventID,
		AuthorID:   comment.AuthorID,
		OldStatus:  oldStatus,
		NewStatus:  newStatus,
		OccurredAt: time.Now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		backoff := retry.WithMaxRetries(publishAttempts, retry.NewConstant(200*time.Millisecond))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			if err := c.commentEventRepo.PublishCommentEvent(ctx, event); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			log.Errorf("Не удалось опубликовать событие %s для комментария id=%d: %v", eventType, event.CommentID, err)
		}
	}()
}

func validatePagination(from, size int) error {
	if from < 0 {
		return fmt.Errorf("%w: параметр 'from' должен быть не меньше 0", usecase.ErrForbidden)
	}
	if size < 1 || size > 100 {
		return fmt.Errorf("%w: параметр 'size' должен быть от 1 до 100", usecase.ErrForbidden)
	}
	return nil
}
