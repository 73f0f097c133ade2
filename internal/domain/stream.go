package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamLocationReindex = "stream:location:reindex"
)

// ReindexStep - сообщение-продолжение пакетной переиндексации.
// Пустой Cursor означает первую страницу.
type ReindexStep struct {
	JobID     uuid.UUID `json:"job_id"`
	Cursor    string    `json:"cursor"`
	Completed int       `json:"completed"`
}

// ReindexStatus - состояние задачи переиндексации
type ReindexStatus string

const (
	ReindexRunning ReindexStatus = "running"
	ReindexDone    ReindexStatus = "done"
	ReindexFailed  ReindexStatus = "failed"
)

// ReindexProgress - прогресс задачи, хранится в кеше
type ReindexProgress struct {
	JobID     uuid.UUID     `json:"job_id"`
	Status    ReindexStatus `json:"status"`
	Completed int           `json:"completed"`
	Pages     int           `json:"pages"`
	Error     string        `json:"error,omitempty"`
	StartedAt time.Time     `json:"started_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
