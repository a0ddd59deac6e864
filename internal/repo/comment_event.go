package repo

import (
	"context"
	"stats-backend/internal/entity"
)

type CommentEventRepository interface {
	// PublishCommentEvent публикует событие жизненного цикла комментария
	PublishCommentEvent(ctx context.Context, event *entity.CommentEvent) error
	// SubscribeCommentEvents подписывается на события жизненного цикла
	// комментариев. Канал закрывается при отмене контекста.
	SubscribeCommentEvents(ctx context.Context) (<-chan *entity.CommentEvent, error)
}
