package reindex_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/repository/memory"
	"github.com/location-search/internal/worker"
	"github.com/location-search/internal/worker/reindex"
)

// MockPageIndexer is a mock of PageIndexer
type MockPageIndexer struct {
	mock.Mock
}

func (m *MockPageIndexer) IndexPage(ctx context.Context, step *domain.ReindexStep) (*domain.ReindexStep, error) {
	args := m.Called(ctx, step)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReindexStep), args.Error(1)
}

func startWorker(t *testing.T, w *reindex.Worker) (stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Start(ctx)
	}()
	return func() {
		_ = w.Stop()
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("worker did not stop")
		}
	}
}

func TestWorker_Name(t *testing.T) {
	w := reindex.NewWorker(memory.NewReindexQueue(), &MockPageIndexer{}, "test-group", zap.NewNop())
	assert.Equal(t, reindex.WorkerName, w.Name())
	assert.Contains(t, w.ConsumerName(), reindex.WorkerName)
}

func TestWorker_StopIsIdempotent(t *testing.T) {
	w := reindex.NewWorker(memory.NewReindexQueue(), &MockPageIndexer{}, "test-group", zap.NewNop())

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())
	assert.True(t, w.IsStopped())
}

func TestWorker_AcksProcessedSteps(t *testing.T) {
	queue := memory.NewReindexQueue()
	indexer := &MockPageIndexer{}
	jobID := uuid.New()

	indexer.On("IndexPage", mock.Anything, mock.MatchedBy(func(s *domain.ReindexStep) bool {
		return s.JobID == jobID
	})).Return(nil, nil)

	require.NoError(t, queue.Publish(context.Background(), &domain.ReindexStep{JobID: jobID}))

	w := reindex.NewWorker(queue, indexer, "test-group", zap.NewNop())
	stop := startWorker(t, w)
	defer stop()

	assert.Eventually(t, func() bool { return queue.Acked("1") }, time.Second, 10*time.Millisecond)
	indexer.AssertNumberOfCalls(t, "IndexPage", 1)
}

func TestWorker_DoesNotAckFailedSteps(t *testing.T) {
	queue := memory.NewReindexQueue()
	indexer := &MockPageIndexer{}
	failing := uuid.New()
	ok := uuid.New()

	indexer.On("IndexPage", mock.Anything, mock.MatchedBy(func(s *domain.ReindexStep) bool {
		return s.JobID == failing
	})).Return(nil, errors.New("storage unavailable"))
	indexer.On("IndexPage", mock.Anything, mock.MatchedBy(func(s *domain.ReindexStep) bool {
		return s.JobID == ok
	})).Return(nil, nil)

	require.NoError(t, queue.Publish(context.Background(), &domain.ReindexStep{JobID: failing}))
	require.NoError(t, queue.Publish(context.Background(), &domain.ReindexStep{JobID: ok}))

	w := reindex.NewWorker(queue, indexer, "test-group", zap.NewNop())
	stop := startWorker(t, w)
	defer stop()

	assert.Eventually(t, func() bool { return queue.Acked("2") }, time.Second, 10*time.Millisecond)
	assert.False(t, queue.Acked("1"))
}

func TestWorker_AcksMalformedMessages(t *testing.T) {
	queue := memory.NewReindexQueue()
	indexer := &MockPageIndexer{}

	require.NoError(t, queue.PublishRaw(context.Background(), "not json"))

	w := reindex.NewWorker(queue, indexer, "test-group", zap.NewNop())
	stop := startWorker(t, w)
	defer stop()

	assert.Eventually(t, func() bool { return queue.Acked("1") }, time.Second, 10*time.Millisecond)
	indexer.AssertNotCalled(t, "IndexPage", mock.Anything, mock.Anything)
}

func TestManager_RunsWorkersUntilStopped(t *testing.T) {
	queue := memory.NewReindexQueue()
	indexer := &MockPageIndexer{}
	indexer.On("IndexPage", mock.Anything, mock.Anything).Return(nil, nil)

	manager := worker.NewManager(zap.NewNop(), time.Second)
	assert.Error(t, manager.Start(context.Background()))

	manager.Register(reindex.NewWorker(queue, indexer, "test-group", zap.NewNop()))
	require.NoError(t, manager.Start(context.Background()))

	require.NoError(t, queue.Publish(context.Background(), &domain.ReindexStep{JobID: uuid.New()}))
	assert.Eventually(t, func() bool { return queue.Acked("1") }, time.Second, 10*time.Millisecond)

	assert.NoError(t, manager.Stop())
}
