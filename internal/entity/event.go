package entity

type EventState string

const (
	EventPending   EventState = "PENDING"
	EventPublished EventState = "PUBLISHED"
	EventCanceled  EventState = "CANCELED"
)

// Event — событие, к которому оставляют комментарии. Сущность принадлежит
// основному сервису; здесь хранится минимум, нужный модерации: состояние
// и счётчик опубликованных комментариев.
type Event struct {
	ID           int64      `db:"id"`
	Title        string     `db:"title"`
	State        EventState `db:"state"`
	CommentCount int64      `db:"comment_count"`
}
