package reindex

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/worker"
)

// WorkerName - имя воркера в логах и в имени consumer-а
const WorkerName = "location-reindex"

// PageIndexer - обработка одного шага переиндексации
type PageIndexer interface {
	IndexPage(ctx context.Context, step *domain.ReindexStep) (*domain.ReindexStep, error)
}

// Worker читает шаги из очереди и переиндексирует страницу за шагом.
// Сообщение подтверждается только после успешной обработки.
type Worker struct {
	*worker.BaseWorker
	queue   repository.ReindexQueue
	indexer PageIndexer
}

// NewWorker - создание нового Worker
func NewWorker(
	queue repository.ReindexQueue,
	indexer PageIndexer,
	consumerGroup string,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		BaseWorker: worker.NewBaseWorker(WorkerName, consumerGroup, logger),
		queue:      queue,
		indexer:    indexer,
	}
}

// Start - основной цикл; возвращается при Stop, отмене контекста
// или закрытии канала очереди
func (w *Worker) Start(ctx context.Context) error {
	logger := w.Logger()

	if err := w.queue.CreateConsumerGroup(ctx, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	messages, err := w.queue.Consume(ctx, w.ConsumerGroup(), w.ConsumerName())
	if err != nil {
		return fmt.Errorf("failed to consume reindex queue: %w", err)
	}

	logger.Info("Reindex worker started",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()))

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				logger.Info("Reindex queue closed")
				return nil
			}
			w.handle(ctx, msg)
		}
	}
}

// handle обрабатывает одно сообщение. Битое сообщение подтверждается,
// чтобы не застревать; при ошибке обработки сообщение остаётся в pending.
func (w *Worker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger().With(zap.String("message_id", msg.ID))

	var step domain.ReindexStep
	if err := json.Unmarshal([]byte(msg.Data), &step); err != nil {
		logger.Warn("Failed to parse reindex step, skipping", zap.Error(err))
		w.ack(ctx, msg.ID)
		return
	}

	next, err := w.indexer.IndexPage(ctx, &step)
	if err != nil {
		logger.Error("Failed to index page",
			zap.String("job_id", step.JobID.String()),
			zap.String("cursor", step.Cursor),
			zap.Error(err))
		return
	}

	w.ack(ctx, msg.ID)
	if next == nil {
		logger.Debug("Reindex step completed the job", zap.String("job_id", step.JobID.String()))
	}
}

func (w *Worker) ack(ctx context.Context, id string) {
	if err := w.queue.Ack(ctx, w.ConsumerGroup(), id); err != nil {
		w.Logger().Error("Failed to ack message", zap.String("message_id", id), zap.Error(err))
	}
}
