package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/domain/repository"
	"github.com/location-search/internal/pkg/errors"
	"github.com/location-search/internal/pkg/geoindex"
	"github.com/location-search/internal/pkg/metrics"
)

const (
	// DefaultReindexPageSize - локаций на один шаг
	DefaultReindexPageSize = 100
	// reindexProgressTTL - сколько хранится прогресс задачи
	reindexProgressTTL = 24 * time.Hour
)

// ReindexUseCase - пакетная переиндексация: страница за страницей, каждый
// шаг ставит в очередь следующий. Одновременно идёт только одна задача.
type ReindexUseCase struct {
	locationRepo repository.LocationRepository
	indexRepo    repository.LocationIndexRepository
	queue        repository.ReindexQueue
	cacheRepo    repository.CacheRepository
	fields       *geoindex.FieldBuilder
	pageSize     int
	lockTTL      time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewReindexUseCase - создание нового ReindexUseCase
func NewReindexUseCase(
	locationRepo repository.LocationRepository,
	indexRepo repository.LocationIndexRepository,
	queue repository.ReindexQueue,
	cacheRepo repository.CacheRepository,
	fields *geoindex.FieldBuilder,
	pageSize int,
	lockTTL time.Duration,
	logger *zap.Logger,
) *ReindexUseCase {
	if pageSize <= 0 {
		pageSize = DefaultReindexPageSize
	}
	if lockTTL <= 0 {
		lockTTL = time.Hour
	}
	return &ReindexUseCase{
		locationRepo: locationRepo,
		indexRepo:    indexRepo,
		queue:        queue,
		cacheRepo:    cacheRepo,
		fields:       fields,
		pageSize:     pageSize,
		lockTTL:      lockTTL,
		logger:       logger,
		now:          time.Now,
	}
}

// ReindexAll - запуск задачи: берёт блокировку и ставит первый шаг
func (uc *ReindexUseCase) ReindexAll(ctx context.Context) (*domain.ReindexProgress, error) {
	jobID := uuid.New()

	acquired, err := uc.cacheRepo.SetNX(ctx, domain.ReindexLockKey, []byte(jobID.String()), uc.lockTTL)
	if err != nil {
		uc.logger.Error("Failed to acquire reindex lock", zap.Error(err))
		return nil, errors.ErrCacheError
	}
	if !acquired {
		return nil, errors.ErrReindexInProgress
	}

	now := uc.now().UTC()
	progress := &domain.ReindexProgress{
		JobID:     jobID,
		Status:    domain.ReindexRunning,
		StartedAt: now,
		UpdatedAt: now,
	}
	if err := uc.cacheRepo.SetReindexProgress(ctx, progress, reindexProgressTTL); err != nil {
		uc.releaseLock(ctx)
		return nil, errors.ErrCacheError
	}

	if err := uc.queue.Publish(ctx, &domain.ReindexStep{JobID: jobID, Cursor: "", Completed: 0}); err != nil {
		uc.fail(ctx, progress, err)
		return nil, err
	}

	uc.logger.Info("Reindex job started", zap.String("job_id", jobID.String()))
	return progress, nil
}

// IndexPage - один шаг: страница локаций -> новые строки индекса (без
// удаления прежних) -> следующий шаг, если страница не последняя.
// Возвращает запланированный шаг или nil, если задача завершена.
// Ошибка останавливает задачу.
func (uc *ReindexUseCase) IndexPage(ctx context.Context, step *domain.ReindexStep) (*domain.ReindexStep, error) {
	start := time.Now()

	progress, err := uc.cacheRepo.GetReindexProgress(ctx, step.JobID)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = &domain.ReindexProgress{JobID: step.JobID, Status: domain.ReindexRunning, StartedAt: uc.now().UTC()}
	}
	if progress.Status != domain.ReindexRunning {
		uc.logger.Warn("Skipping step of a finished job",
			zap.String("job_id", step.JobID.String()),
			zap.String("status", string(progress.Status)))
		return nil, nil
	}

	page, err := uc.locationRepo.Paginate(ctx, step.Cursor, uc.pageSize)
	if err != nil {
		uc.fail(ctx, progress, err)
		return nil, err
	}

	for _, loc := range page.Items {
		field, err := uc.fields.Build(loc.Coordinates)
		if err != nil {
			err = fmt.Errorf("location %s: %w", loc.ID, err)
			uc.fail(ctx, progress, err)
			return nil, err
		}
		if err := uc.indexRepo.Insert(ctx, domain.NewLocationIndexRow(loc, field)); err != nil {
			uc.fail(ctx, progress, err)
			return nil, err
		}
	}
	if len(page.Items) > 0 {
		invalidateSearchCache(ctx, uc.cacheRepo, uc.logger)
	}
	metrics.ReindexPagesTotal.Inc()
	metrics.ReindexRowsTotal.Add(float64(len(page.Items)))

	completed := step.Completed + len(page.Items)
	progress.Completed = completed
	progress.Pages++
	progress.UpdatedAt = uc.now().UTC()

	uc.logger.Info("Indexed page",
		zap.String("job_id", step.JobID.String()),
		zap.Int("page", len(page.Items)),
		zap.Int("completed", completed),
		zap.Duration("duration", time.Since(start)))

	if page.IsDone {
		progress.Status = domain.ReindexDone
		uc.saveProgress(ctx, progress)
		uc.releaseLock(ctx)
		uc.logger.Info("Reindex job finished",
			zap.String("job_id", step.JobID.String()),
			zap.Int("completed", completed))
		return nil, nil
	}

	next := &domain.ReindexStep{JobID: step.JobID, Cursor: page.ContinueCursor, Completed: completed}
	if err := uc.queue.Publish(ctx, next); err != nil {
		uc.fail(ctx, progress, err)
		return nil, err
	}
	uc.saveProgress(ctx, progress)
	return next, nil
}

// Progress - прогресс задачи
func (uc *ReindexUseCase) Progress(ctx context.Context, jobID uuid.UUID) (*domain.ReindexProgress, error) {
	progress, err := uc.cacheRepo.GetReindexProgress(ctx, jobID)
	if err != nil {
		uc.logger.Error("Failed to read reindex progress", zap.Error(err))
		return nil, errors.ErrCacheError
	}
	if progress == nil {
		return nil, errors.ErrReindexJobNotFound
	}
	return progress, nil
}

func (uc *ReindexUseCase) fail(ctx context.Context, progress *domain.ReindexProgress, cause error) {
	metrics.ReindexFailuresTotal.Inc()
	uc.logger.Error("Reindex job halted",
		zap.String("job_id", progress.JobID.String()),
		zap.Int("completed", progress.Completed),
		zap.Error(cause))

	progress.Status = domain.ReindexFailed
	progress.Error = cause.Error()
	progress.UpdatedAt = uc.now().UTC()
	uc.saveProgress(ctx, progress)
	uc.releaseLock(ctx)
}

func (uc *ReindexUseCase) saveProgress(ctx context.Context, progress *domain.ReindexProgress) {
	if err := uc.cacheRepo.SetReindexProgress(ctx, progress, reindexProgressTTL); err != nil {
		uc.logger.Warn("Failed to save reindex progress", zap.Error(err))
	}
}

func (uc *ReindexUseCase) releaseLock(ctx context.Context) {
	if err := uc.cacheRepo.Delete(ctx, domain.ReindexLockKey); err != nil {
		uc.logger.Warn("Failed to release reindex lock", zap.Error(err))
	}
}
