package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"stats-backend/internal/entity"
	"stats-backend/internal/repo"
	"strconv"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	// Topic — единый топик событий жизненного цикла комментариев
	Topic         = "comment-events"
	NumPartitions = 3
)

type CommentEventKafkaRepository struct {
	writer  *kafka.Writer
	brokers []string
}

// createTopicIfNotExists создает топик, если он не существует
func createTopicIfNotExists(brokers []string, topic string) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	exists, err := checkIfTopicExists(conn, topic)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	controller, err := conn.Controller()
	if err != nil {
		return err
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return err
	}
	defer func() { _ = controllerConn.Close() }()

	return controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     NumPartitions,
		ReplicationFactor: 1,
	})
}

// checkIfTopicExists проверяет, существует ли топик
func checkIfTopicExists(conn *kafka.Conn, topic string) (bool, error) {
	partitions, err := conn.ReadPartitions(topic)
	if err != nil {
		if errors.Is(err, kafka.UnknownTopicOrPartition) {
			return false, nil
		}
		return false, err
	}
	return len(partitions) > 0, nil
}

func NewCommentEventKafkaRepository(brokers []string) (repo.CommentEventRepository, error) {
	if len(brokers) == 0 {
		return nil, errors.New("не предоставлены брокеры Kafka")
	}

	if err := createTopicIfNotExists(brokers, Topic); err != nil {
		return nil, fmt.Errorf("ошибка при создании топика %s: %w", Topic, err)
	}

	return &CommentEventKafkaRepository{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    Topic,
			Balancer: &kafka.LeastBytes{},
		},
		brokers: brokers,
	}, nil
}

func (r *CommentEventKafkaRepository) PublishCommentEvent(ctx context.Context, event *entity.CommentEvent) error {
	b, err := msgpack.Marshal(event)
	if err != nil {
		return err
	}

	// Ключ — ID события-сущности: события одного события попадают в одну
	// партицию и сохраняют порядок.
	return r.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(event.EventID, 10)),
		Value: b,
	})
}

func (r *CommentEventKafkaRepository) SubscribeCommentEvents(ctx context.Context) (<-chan *entity.CommentEvent, error) {
	// Каждый подписчик читает только новые сообщения: группа уникальна на
	// каждое подключение.
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     r.brokers,
		Topic:       Topic,
		GroupID:     fmt.Sprintf("comment-event-listener-%s", uuid.NewString()),
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	ch := make(chan *entity.CommentEvent)
	go func() {
		defer close(ch)
		defer func() { _ = reader.Close() }()
		for {
			m, err := reader.ReadMessage(ctx)
			if err != nil {
				return
			}
			var event entity.CommentEvent
			if err := msgpack.Unmarshal(m.Value, &event); err != nil {
				continue
			}
			select {
			case ch <- &event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch, nil
}
