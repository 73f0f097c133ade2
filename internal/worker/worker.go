package worker

import (
	"context"
)

// Worker - фоновый обработчик очереди
type Worker interface {
	// Start блокируется до остановки или отмены контекста
	Start(ctx context.Context) error

	// Stop сигнализирует о завершении; повторный вызов безопасен
	Stop() error

	Name() string
}
