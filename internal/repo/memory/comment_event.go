package memory

import (
	"context"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"
	"sync"
)

// CommentEventBus — внутрипроцессная замена Kafka для cmd/mock и тестов.
type CommentEventBus struct {
	mu   sync.Mutex
	subs map[chan *entity.CommentEvent]struct{}
}

func NewCommentEventBus() repo.CommentEventRepository {
	return &CommentEventBus{
		subs: make(map[chan *entity.CommentEvent]struct{}),
	}
}

func (b *CommentEventBus) PublishCommentEvent(_ context.Context, event *entity.CommentEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		// Медленный подписчик не должен блокировать публикацию
		select {
		case sub <- event:
		default:
		}
	}
	return nil
}

func (b *CommentEventBus) SubscribeCommentEvents(ctx context.Context) (<-chan *entity.CommentEvent, error) {
	ch := make(chan *entity.CommentEvent, 16)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.mu.Lock()
		delete(b.subs, ch)
		b.mu.Unlock()
		close(ch)
	}()
	return ch, nil
}
