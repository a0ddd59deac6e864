package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stats-backend/internal/entity"
	"stats-backend/internal/repo/memory"
	"stats-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validText = "вполне содержательный комментарий"

// newCommentFixture поднимает сервис поверх хранилища в памяти
// с двумя пользователями и двумя событиями.
func newCommentFixture(t *testing.T) (usecase.Comment, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.AddUser(&entity.User{ID: 1, Name: "Иван Иванов", Email: "ivan@example.com"})
	store.AddUser(&entity.User{ID: 2, Name: "Мария Петрова", Email: "maria@example.com"})
	store.AddEvent(&entity.Event{ID: 1, Title: "Концерт в парке", State: entity.EventPublished})
	store.AddEvent(&entity.Event{ID: 2, Title: "Выставка (черновик)", State: entity.EventPending})
	return NewComment(store, store, store, nil), store
}

func eventCommentCount(t *testing.T, store *memory.Store, eventID int64) int64 {
	t.Helper()
	event, err := store.GetEvent(eventID)
	require.NoError(t, err)
	return event.CommentCount
}

// TestCommentLifecycle прогоняет полный путь комментария: создание,
// публикация, правка автором, повторная публикация и удаление
// администратором. Счётчик события меняется только при пересечении
// статуса PUBLISHED.
func TestCommentLifecycle(t *testing.T) {
	commentService, store := newCommentFixture(t)

	// Короткий текст отклоняется до любых обращений к хранилищу
	_, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: "коротко"})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	// Комментировать можно только опубликованное событие
	_, err = commentService.CreateComment(1, 2, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	// Создание: статус PENDING, счётчик не меняется
	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, comment.Status)
	assert.Equal(t, "Иван Иванов", comment.AuthorName)
	assert.Nil(t, comment.Edited)
	assert.Equal(t, int64(0), eventCommentCount(t, store, 1))

	// Публикация модератором: счётчик растет
	published, err := commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPublished, published.Status)
	assert.Equal(t, int64(1), eventCommentCount(t, store, 1))

	// Правка автором возвращает комментарий на модерацию и уменьшает счётчик
	edited, err := commentService.UpdateComment(1, 1, comment.ID, &entity.NewCommentRequest{Text: validText + " (исправлено)"})
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPending, edited.Status)
	require.NotNil(t, edited.Edited)
	assert.Equal(t, validText+" (исправлено)", edited.Text)
	assert.Equal(t, int64(0), eventCommentCount(t, store, 1))

	// Повторная публикация
	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)
	assert.Equal(t, int64(1), eventCommentCount(t, store, 1))

	// Удаление администратором: комментарий исчезает, счётчик падает
	err = commentService.DeleteCommentByAdmin(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), eventCommentCount(t, store, 1))
	_, err = commentService.GetPublishedComment(1, comment.ID)
	assert.ErrorIs(t, err, usecase.ErrCommentNotFound)
}

func TestCreateCommentGuards(t *testing.T) {
	commentService, _ := newCommentFixture(t)

	_, err := commentService.CreateComment(99, 1, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	_, err = commentService.CreateComment(1, 99, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrEventNotFound)
}

// Повторный комментарий запрещен независимо от статуса первого:
// даже отклоненный комментарий блокирует нового.
func TestCreateCommentDuplicateGuardIgnoresStatus(t *testing.T) {
	commentService, _ := newCommentFixture(t)

	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)

	_, err = commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{
		Status:           entity.StatusRejected,
		ModeratorMessage: "нарушение правил",
	})
	require.NoError(t, err)

	_, err = commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	// У другого пользователя ограничений нет
	_, err = commentService.CreateComment(2, 1, &entity.NewCommentRequest{Text: validText})
	assert.NoError(t, err)
}

func TestUpdateCommentGuards(t *testing.T) {
	commentService, _ := newCommentFixture(t)
	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)

	// Чужой комментарий выглядит как несуществующий
	_, err = commentService.UpdateComment(2, 1, comment.ID, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrCommentNotFound)
	_, err = commentService.UpdateComment(1, 2, comment.ID, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrCommentNotFound)

	// Отклоненный комментарий редактировать нельзя
	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusRejected})
	require.NoError(t, err)
	_, err = commentService.UpdateComment(1, 1, comment.ID, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	// Удаленный тоже
	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusDeleted})
	require.NoError(t, err)
	_, err = commentService.UpdateComment(1, 1, comment.ID, &entity.NewCommentRequest{Text: validText})
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestDeleteCommentByAuthor(t *testing.T) {
	commentService, store := newCommentFixture(t)
	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)
	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)
	require.Equal(t, int64(1), eventCommentCount(t, store, 1))

	// Чужой комментарий удалить нельзя
	err = commentService.DeleteComment(2, 1, comment.ID)
	assert.ErrorIs(t, err, usecase.ErrCommentNotFound)

	err = commentService.DeleteComment(1, 1, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), eventCommentCount(t, store, 1))

	// Комментарий остается в хранилище со статусом DELETED
	stored, err := store.GetComment(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDeleted, stored.Status)
}

func TestModerateComment(t *testing.T) {
	commentService, store := newCommentFixture(t)
	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)

	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: "ARCHIVED"})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	_, err = commentService.ModerateComment(99, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	assert.ErrorIs(t, err, usecase.ErrCommentNotFound)

	rejected, err := commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{
		Status:           entity.StatusRejected,
		ModeratorMessage: "  нарушение правил  ",
	})
	require.NoError(t, err)
	require.NotNil(t, rejected.ModeratorMessage)
	assert.Equal(t, "нарушение правил", *rejected.ModeratorMessage)
	assert.Equal(t, int64(0), eventCommentCount(t, store, 1))

	// Повторная установка того же статуса не трогает счётчик
	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)
	published, err := commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)
	assert.Nil(t, published.ModeratorMessage, "пустое сообщение модератора сбрасывается")
	assert.Equal(t, int64(1), eventCommentCount(t, store, 1))
}

func TestGetPublishedComments(t *testing.T) {
	commentService, _ := newCommentFixture(t)
	first, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)
	second, err := commentService.CreateComment(2, 1, &entity.NewCommentRequest{Text: validText + " второй"})
	require.NoError(t, err)
	_, err = commentService.ModerateComment(first.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)

	comments, err := commentService.GetPublishedComments(1, 0, 10)
	require.NoError(t, err)
	require.Len(t, comments, 1, "комментарии на модерации не видны")
	assert.Equal(t, first.ID, comments[0].ID)

	count, err := commentService.GetPublishedCommentsCount(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = commentService.GetPublishedComment(1, second.ID)
	assert.ErrorIs(t, err, usecase.ErrCommentNotFound, "неопубликованный комментарий недоступен")

	// Границы пагинации
	_, err = commentService.GetPublishedComments(1, -1, 10)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	_, err = commentService.GetPublishedComments(1, 0, 0)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	_, err = commentService.GetPublishedComments(1, 0, 101)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestGetPendingCommentsOrderedOldestFirst(t *testing.T) {
	commentService, _ := newCommentFixture(t)
	first, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)
	// Разносим даты создания, чтобы порядок не зависел от ID
	time.Sleep(2 * time.Millisecond)
	second, err := commentService.CreateComment(2, 1, &entity.NewCommentRequest{Text: validText + " второй"})
	require.NoError(t, err)

	pending, err := commentService.GetPendingComments(0, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID, "очередь модерации: старые первыми")
	assert.Equal(t, second.ID, pending[1].ID)
}

func TestGetCommentsByStatus(t *testing.T) {
	commentService, _ := newCommentFixture(t)
	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)
	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusRejected})
	require.NoError(t, err)

	rejected, err := commentService.GetCommentsByStatus(entity.StatusRejected, 0, 10)
	require.NoError(t, err)
	assert.Len(t, rejected, 1)

	_, err = commentService.GetCommentsByStatus("ARCHIVED", 0, 10)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestCanUserComment(t *testing.T) {
	commentService, _ := newCommentFixture(t)

	can, err := commentService.CanUserComment(1, 1)
	require.NoError(t, err)
	assert.True(t, can)

	_, err = commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)

	can, err = commentService.CanUserComment(1, 1)
	require.NoError(t, err)
	assert.False(t, can)
}

func TestGetUserCommentStats(t *testing.T) {
	commentService, _ := newCommentFixture(t)

	_, err := commentService.GetUserCommentStats(99)
	assert.ErrorIs(t, err, usecase.ErrUserNotFound)

	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)
	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)

	stats, err := commentService.GetUserCommentStats(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Total)
	assert.Equal(t, int64(1), stats.Published)
	assert.Equal(t, int64(0), stats.Pending)
	assert.Equal(t, int64(0), stats.Rejected)
}

func TestSearchComments(t *testing.T) {
	commentService, _ := newCommentFixture(t)
	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: "Отличный Концерт, всем рекомендую"})
	require.NoError(t, err)

	_, err = commentService.SearchComments("   ", 0, 10)
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	// Неопубликованные комментарии поиском не находятся
	found, err := commentService.SearchComments("концерт", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)

	found, err = commentService.SearchComments("концерт", 0, 10)
	require.NoError(t, err)
	require.Len(t, found, 1, "поиск не зависит от регистра")
	assert.Equal(t, comment.ID, found[0].ID)

	found, err = commentService.SearchComments("балет", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestGetRecentComments(t *testing.T) {
	commentService, _ := newCommentFixture(t)

	_, err := commentService.GetRecentComments(0, 10)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	_, err = commentService.GetRecentComments(24, 0)
	assert.ErrorIs(t, err, usecase.ErrForbidden)
	_, err = commentService.GetRecentComments(24, 101)
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)
	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)

	recent, err := commentService.GetRecentComments(24, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestSubscribeCommentEventsWithoutBroker(t *testing.T) {
	commentService, _ := newCommentFixture(t)
	_, err := commentService.SubscribeCommentEvents(context.Background())
	assert.ErrorIs(t, err, usecase.ErrEventStreamUnavailable)
}

// TestCommentEventsPublishedToBus проверяет, что операции с комментарием
// порождают события жизненного цикла с корректными переходами статусов.
func TestCommentEventsPublishedToBus(t *testing.T) {
	store := memory.NewStore()
	store.AddUser(&entity.User{ID: 1, Name: "Иван Иванов", Email: "ivan@example.com"})
	store.AddEvent(&entity.Event{ID: 1, Title: "Концерт в парке", State: entity.EventPublished})
	bus := memory.NewCommentEventBus()
	commentService := NewComment(store, store, store, bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, err := commentService.SubscribeCommentEvents(ctx)
	require.NoError(t, err)

	comment, err := commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, entity.CommentCreated, event.Type)
		assert.Equal(t, comment.ID, event.CommentID)
		assert.Equal(t, entity.StatusPending, event.NewStatus)
		assert.NotEmpty(t, event.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("событие о создании комментария не получено")
	}

	_, err = commentService.ModerateComment(comment.ID, &entity.CommentAdminRequest{Status: entity.StatusPublished})
	require.NoError(t, err)

	select {
	case event := <-events:
		assert.Equal(t, entity.CommentModerated, event.Type)
		assert.Equal(t, entity.StatusPending, event.OldStatus)
		assert.Equal(t, entity.StatusPublished, event.NewStatus)
	case <-time.After(2 * time.Second):
		t.Fatal("событие о модерации комментария не получено")
	}
}

func TestCounterDelta(t *testing.T) {
	assert.Equal(t, 1, counterDelta(entity.StatusPending, entity.StatusPublished))
	assert.Equal(t, 1, counterDelta(entity.StatusRejected, entity.StatusPublished))
	assert.Equal(t, -1, counterDelta(entity.StatusPublished, entity.StatusPending))
	assert.Equal(t, -1, counterDelta(entity.StatusPublished, entity.StatusDeleted))
	assert.Equal(t, 0, counterDelta(entity.StatusPending, entity.StatusRejected))
	assert.Equal(t, 0, counterDelta(entity.StatusPublished, entity.StatusPublished))
	assert.Equal(t, 0, counterDelta(entity.StatusPending, entity.StatusPending))
}

func TestCreateCommentRaceMapsToConflict(t *testing.T) {
	// Прямое попадание в уникальный индекс (минуя HasComment) — гонка
	// двух одновременных запросов.
	commentService, store := newCommentFixture(t)
	_, err := store.AddComment(&entity.Comment{
		EventID:  1,
		AuthorID: 1,
		Text:     strings.Repeat("a", entity.MinCommentLength),
		Status:   entity.StatusPending,
		Created:  time.Now(),
	})
	require.NoError(t, err)

	_, err = commentService.CreateComment(1, 1, &entity.NewCommentRequest{Text: validText})
	// Существующий комментарий ловится проверкой HasComment раньше вставки
	require.Error(t, err)
	assert.True(t, errors.Is(err, usecase.ErrForbidden) || errors.Is(err, usecase.ErrCommentConflict))
}
