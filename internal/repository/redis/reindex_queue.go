package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type reindexQueue struct {
	client *redis.Client
	stream string
	logger *zap.Logger
}

// NewReindexQueue создает очередь шагов переиндексации поверх Redis Streams
func NewReindexQueue(client *redis.Client, stream string, logger *zap.Logger) repository.ReindexQueue {
	if stream == "" {
		stream = domain.StreamLocationReindex
	}
	return &reindexQueue{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// CreateConsumerGroup создаёт consumer group для стрима
func (q *reindexQueue) CreateConsumerGroup(ctx context.Context, group string) error {
	// Начинаем с "0": шаг, опубликованный до старта воркера, не должен потеряться
	// MKSTREAM автоматически создаст стрим, если он не существует
	err := q.client.XGroupCreateMkStream(ctx, q.stream, group, "0").Err()
	if err != nil {
		// Игнорируем ошибку BUSYGROUP - группа уже существует
		if strings.HasPrefix(err.Error(), "BUSYGROUP") {
			q.logger.Debug("Consumer group already exists",
				zap.String("stream", q.stream),
				zap.String("group", group))
			return nil
		}
		q.logger.Error("Failed to create consumer group",
			zap.String("stream", q.stream),
			zap.String("group", group),
			zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	q.logger.Info("Consumer group created successfully",
		zap.String("stream", q.stream),
		zap.String("group", group))
	return nil
}

// Consume читает шаги из стрима с использованием consumer group
func (q *reindexQueue) Consume(ctx context.Context, group, consumer string) (<-chan domain.StreamMessage, error) {
	msgChan := make(chan domain.StreamMessage)

	go func() {
		defer close(msgChan)

		for {
			select {
			case <-ctx.Done():
				q.logger.Info("Stream consumer stopped",
					zap.String("stream", q.stream),
					zap.String("consumer", consumer))
				return
			default:
			}

			// Шаги обрабатываются по одному: Count = 1
			result, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{q.stream, ">"},
				Count:    1,
				Block:    time.Second,
			}).Result()
			if err != nil {
				if errors.Is(err, redis.Nil) {
					continue
				}
				if ctx.Err() != nil {
					return
				}
				q.logger.Error("Failed to read from stream",
					zap.String("stream", q.stream),
					zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			for _, s := range result {
				for _, msg := range s.Messages {
					data, ok := msg.Values["data"].(string)
					if !ok {
						q.logger.Warn("Message does not contain 'data' field",
							zap.String("message_id", msg.ID))
						continue
					}

					select {
					case msgChan <- domain.StreamMessage{ID: msg.ID, Data: data}:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return msgChan, nil
}

// Ack подтверждает обработку шага
func (q *reindexQueue) Ack(ctx context.Context, group, messageID string) error {
	if err := q.client.XAck(ctx, q.stream, group, messageID).Err(); err != nil {
		q.logger.Error("Failed to acknowledge message",
			zap.String("stream", q.stream),
			zap.String("group", group),
			zap.String("message_id", messageID),
			zap.Error(err))
		return fmt.Errorf("failed to acknowledge message: %w", err)
	}

	q.logger.Debug("Message acknowledged", zap.String("message_id", messageID))
	return nil
}

// Publish публикует шаг в стрим
func (q *reindexQueue) Publish(ctx context.Context, step *domain.ReindexStep) error {
	jsonData, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("failed to marshal step: %w", err)
	}

	id, err := q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.stream,
		Values: map[string]interface{}{
			"data": string(jsonData),
		},
	}).Result()
	if err != nil {
		q.logger.Error("Failed to publish to stream",
			zap.String("stream", q.stream),
			zap.Error(err))
		return fmt.Errorf("failed to publish to stream: %w", err)
	}

	q.logger.Debug("Reindex step published",
		zap.String("stream", q.stream),
		zap.String("message_id", id),
		zap.String("job_id", step.JobID.String()),
		zap.String("cursor", step.Cursor))
	return nil
}
