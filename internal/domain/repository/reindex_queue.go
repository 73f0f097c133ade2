package repository

import (
	"context"

	"github.com/location-search/internal/domain"
)

// ReindexQueue - очередь шагов-продолжений переиндексации
type ReindexQueue interface {
	// CreateConsumerGroup создаёт consumer group
	CreateConsumerGroup(ctx context.Context, group string) error

	// Consume читает шаги из очереди до отмены контекста
	Consume(ctx context.Context, group, consumer string) (<-chan domain.StreamMessage, error)

	// Ack подтверждает обработку шага
	Ack(ctx context.Context, group, messageID string) error

	// Publish ставит шаг в очередь
	Publish(ctx context.Context, step *domain.ReindexStep) error
}
