package entity

import "time"

type CommentEventType string

const (
	CommentCreated   CommentEventType = "created"
	CommentEdited    CommentEventType = "edited"
	CommentDeleted   CommentEventType = "deleted"
	CommentModerated CommentEventType = "moderated"
)

// CommentEvent — событие жизненного цикла комментария, публикуемое в брокер
// после успешного изменения. ID — уникальный идентификатор самого события,
// EventID — идентификатор события-сущности, к которому относится комментарий.
type CommentEvent struct {
	ID         string           `json:"-" msgpack:"id"`
	Type       CommentEventType `json:"type" msgpack:"type"`
	CommentID  int64            `json:"comment_id" msgpack:"comment_id"`
	EventID    int64            `json:"event_id" msgpack:"event_id"`
	AuthorID   int64            `json:"author_id" msgpack:"author_id"`
	OldStatus  CommentStatus    `json:"old_status,omitempty" msgpack:"old_status"`
	NewStatus  CommentStatus    `json:"new_status,omitempty" msgpack:"new_status"`
	OccurredAt time.Time        `json:"occurred_at" msgpack:"occurred_at"`
}
