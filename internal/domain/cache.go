package domain

import "github.com/google/uuid"

// Cache keys
const (
	SearchCacheKeyPrefix = "search:"
	SearchGenerationKey  = "search:generation"
	ReindexLockKey       = "reindex:lock"
	reindexProgressKey   = "reindex:progress:"
)

// ReindexProgressKey - ключ прогресса задачи переиндексации
func ReindexProgressKey(jobID uuid.UUID) string {
	return reindexProgressKey + jobID.String()
}
