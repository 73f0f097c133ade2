package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/location-search/internal/bootstrap"
	"github.com/location-search/internal/config"
	"github.com/location-search/internal/domain"
	"github.com/location-search/internal/pkg/logger"
	"github.com/location-search/internal/usecase"
	"github.com/location-search/internal/usecase/dto"
)

// maxLineSize - одна строка выгрузки (с описанием и категориями) бывает большой
const maxLineSize = 4 * 1024 * 1024

func main() {
	path := flag.String("file", "", "NDJSON file with raw location rows (default stdin)")
	reindex := flag.Bool("reindex", false, "store rows without index rows and build the index with a reindex job")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Log.Level, "ingest")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, *path, *reindex); err != nil {
		log.Fatal("Ingest failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, path string, reindex bool) error {
	input := io.Reader(os.Stdin)
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close()
		input = f
	}

	rows, err := readRows(input)
	if err != nil {
		return err
	}
	log.Info("Rows read", zap.Int("rows", len(rows)))

	stores, err := bootstrap.OpenStores(cfg, log)
	if err != nil {
		return err
	}
	defer stores.Close()
	uc := bootstrap.NewUseCases(cfg, stores, log)

	rows, counts, stats := usecase.CleanRows(rows)
	log.Info("Rows cleaned",
		zap.Int("kept", stats.Kept),
		zap.Int("skipped_no_coordinates", stats.SkippedNoLocation),
		zap.Int("dropped_price_values", stats.DroppedPriceValues),
		zap.Int("categories", len(counts)))

	if len(counts) > 0 {
		if err := stores.Categories.Upsert(ctx, counts); err != nil {
			return fmt.Errorf("upsert categories: %w", err)
		}
	}

	// С -reindex строки индекса строит переиндексация, иначе у каждой
	// локации оказалось бы две строки
	store := uc.Ingest.IngestRow
	if reindex {
		store = uc.Ingest.StoreRow
	}

	start := time.Now()
	ingested, failed := 0, 0
	for i := range rows {
		if ctx.Err() != nil {
			log.Warn("Interrupted", zap.Int("ingested", ingested))
			return ctx.Err()
		}
		if _, err := store(ctx, &rows[i]); err != nil {
			failed++
			log.Warn("Row rejected",
				zap.Int("row", i),
				zap.String("name", rows[i].Name),
				zap.Error(err))
			continue
		}
		ingested++
		if ingested%1000 == 0 {
			log.Info("Progress", zap.Int("ingested", ingested), zap.Int("failed", failed))
		}
	}

	log.Info("Ingest finished",
		zap.Int("ingested", ingested),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))

	if reindex {
		progress, err := uc.Reindex.ReindexAll(ctx)
		if err != nil {
			return fmt.Errorf("start reindex: %w", err)
		}
		if stores.SharedQueue {
			log.Info("Reindex job queued", zap.String("job_id", progress.JobID.String()))
			return nil
		}
		// Очередь в памяти процесса: воркера нет, страницы обрабатываются здесь
		step := &domain.ReindexStep{JobID: progress.JobID}
		for step != nil {
			if step, err = uc.Reindex.IndexPage(ctx, step); err != nil {
				return fmt.Errorf("reindex: %w", err)
			}
		}
		log.Info("Reindex job finished", zap.String("job_id", progress.JobID.String()))
	}
	return nil
}

func readRows(r io.Reader) ([]dto.RawLocationRow, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var rows []dto.RawLocationRow
	line := 0
	for scanner.Scan() {
		line++
		data := scanner.Bytes()
		if len(data) == 0 {
			continue
		}
		var row dto.RawLocationRow
		if err := json.Unmarshal(data, &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return rows, nil
}
