package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/location-search/internal/pkg/utils"
	"github.com/location-search/internal/usecase"
	"github.com/location-search/internal/usecase/dto"
)

// ReindexHandler - запуск пакетной переиндексации и её прогресс
type ReindexHandler struct {
	reindexUC *usecase.ReindexUseCase
	logger    *zap.Logger
}

// NewReindexHandler - создание нового ReindexHandler
func NewReindexHandler(reindexUC *usecase.ReindexUseCase, logger *zap.Logger) *ReindexHandler {
	return &ReindexHandler{reindexUC: reindexUC, logger: logger}
}

// Start godoc
// @Summary Запуск переиндексации
// @Description Ставит в очередь первый шаг; страницы обрабатывает воркер. Одновременно может идти только одна задача.
// @Tags Reindex
// @Produce json
// @Success 202 {object} utils.SuccessResponse{data=dto.ReindexResponse}
// @Failure 409 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/reindex [post]
func (h *ReindexHandler) Start(c *fiber.Ctx) error {
	progress, err := h.reindexUC.ReindexAll(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Status(fiber.StatusAccepted)
	return utils.SendSuccess(c, dto.ReindexResponse{JobID: progress.JobID, Status: progress.Status}, nil)
}

// Progress godoc
// @Summary Прогресс переиндексации
// @Tags Reindex
// @Produce json
// @Param job_id path string true "ID задачи"
// @Success 200 {object} utils.SuccessResponse{data=domain.ReindexProgress}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/reindex/{job_id} [get]
func (h *ReindexHandler) Progress(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("job_id"))
	if err != nil {
		return utils.SendError(c, invalidParam("job_id"))
	}

	progress, err := h.reindexUC.Progress(c.Context(), jobID)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, progress, nil)
}
