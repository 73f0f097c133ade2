package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
)

// ReindexQueue - очередь шагов переиндексации в памяти. Consumer group
// игнорируется: все потребители делят одну очередь.
type ReindexQueue struct {
	mu        sync.Mutex
	seq       int
	pending   []domain.StreamMessage
	published []domain.ReindexStep
	acked     map[string]bool
	notify    chan struct{}
}

var _ repository.ReindexQueue = (*ReindexQueue)(nil)

func NewReindexQueue() *ReindexQueue {
	return &ReindexQueue{
		acked:  make(map[string]bool),
		notify: make(chan struct{}, 1),
	}
}

func (q *ReindexQueue) CreateConsumerGroup(ctx context.Context, group string) error {
	return nil
}

func (q *ReindexQueue) Publish(ctx context.Context, step *domain.ReindexStep) error {
	data, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("failed to marshal step: %w", err)
	}
	q.mu.Lock()
	q.published = append(q.published, *step)
	q.mu.Unlock()
	return q.PublishRaw(ctx, string(data))
}

// PublishRaw кладёт в очередь произвольное тело сообщения
func (q *ReindexQueue) PublishRaw(ctx context.Context, data string) error {
	q.mu.Lock()
	q.seq++
	q.pending = append(q.pending, domain.StreamMessage{
		ID:   strconv.Itoa(q.seq),
		Data: data,
	})
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	return nil
}

func (q *ReindexQueue) Consume(ctx context.Context, group, consumer string) (<-chan domain.StreamMessage, error) {
	out := make(chan domain.StreamMessage)

	go func() {
		defer close(out)
		for {
			msg, ok := q.pop()
			if !ok {
				select {
				case <-q.notify:
					continue
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- msg:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (q *ReindexQueue) Ack(ctx context.Context, group, messageID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.acked[messageID] = true
	return nil
}

func (q *ReindexQueue) pop() (domain.StreamMessage, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return domain.StreamMessage{}, false
	}
	msg := q.pending[0]
	q.pending = q.pending[1:]
	return msg, true
}

// Drain забирает все ожидающие сообщения без блокировки
func (q *ReindexQueue) Drain() []domain.StreamMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.pending
	q.pending = nil
	return out
}

// Published возвращает все когда-либо опубликованные шаги
func (q *ReindexQueue) Published() []domain.ReindexStep {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]domain.ReindexStep(nil), q.published...)
}

// Acked сообщает, подтверждено ли сообщение
func (q *ReindexQueue) Acked(messageID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.acked[messageID]
}
