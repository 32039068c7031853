// Package handler 提供 HTTP 请求处理器
package handler

import (
	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/internal/domain/repository"
	"slidegen-ai-api/internal/infrastructure/messaging"
	"slidegen-ai-api/internal/interfaces/http/dto"
	"slidegen-ai-api/pkg/logger"
	"slidegen-ai-api/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// JobHandler 异步生成任务处理器
type JobHandler struct {
	cfg      *config.Config
	jobRepo  repository.DeckJobRepository
	producer *messaging.Producer
}

// NewJobHandler 创建任务处理器
func NewJobHandler(cfg *config.Config, jobRepo repository.DeckJobRepository, producer *messaging.Producer) *JobHandler {
	return &JobHandler{
		cfg:      cfg,
		jobRepo:  jobRepo,
		producer: producer,
	}
}

// SubmitJob 提交异步生成任务
// @Summary 提交生成任务
// @Description 创建异步生成任务并入队,立即返回任务 ID
// @Tags Jobs
// @Accept json
// @Produce json
// @Param request body dto.GenerateDeckRequest true "生成请求"
// @Success 202 {object} dto.Response[dto.DeckJobResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /v1/decks [post]
func (h *JobHandler) SubmitJob(c *gin.Context) {
	ctx := c.Request.Context()

	if h.jobRepo == nil || h.producer == nil {
		dto.ServiceUnavailable(c, "async generation not configured")
		return
	}

	var req dto.GenerateDeckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request: "+err.Error())
		return
	}

	provider, model, err := resolveProviderModel(h.cfg, req.Provider, req.Model)
	if err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	job := entity.NewDeckJob(uuid.New().String(), req.Prompt, req.ContextText, req.OutputFile)
	job.Provider = provider
	job.Model = model

	if err := h.jobRepo.Create(ctx, job); err != nil {
		logger.Error(ctx, "failed to create job", err)
		dto.FromError(c, err)
		return
	}

	if _, err := h.producer.PublishDeckJob(ctx, &messaging.DeckJobMessage{
		JobID:       job.ID,
		Prompt:      job.Prompt,
		ContextText: job.ContextText,
		OutputFile:  job.OutputFile,
		Provider:    provider,
		Model:       model,
	}); err != nil {
		logger.Error(ctx, "failed to enqueue job", err, "job_id", job.ID)
		job.MarkFailed("enqueue failed: " + err.Error())
		if updateErr := h.jobRepo.Update(ctx, job); updateErr != nil {
			logger.Error(ctx, "failed to mark job failed", updateErr, "job_id", job.ID)
		}
		dto.ServiceUnavailable(c, "failed to enqueue job")
		return
	}

	metrics.JobsTotal.WithLabelValues("submitted").Inc()
	logger.Info(ctx, "deck job submitted", "job_id", job.ID, "provider", provider)

	dto.Accepted(c, dto.ToDeckJobResponse(job))
}

// GetJob 获取任务详情
// @Summary 获取任务详情
// @Description 获取指定任务的状态与产物
// @Tags Jobs
// @Produce json
// @Param id path string true "任务 ID"
// @Success 200 {object} dto.Response[dto.DeckJobResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/jobs/{id} [get]
func (h *JobHandler) GetJob(c *gin.Context) {
	ctx := c.Request.Context()
	jobID := c.Param("id")

	if h.jobRepo == nil {
		dto.ServiceUnavailable(c, "job storage not configured")
		return
	}

	job, err := h.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		dto.FromError(c, err)
		return
	}
	if job == nil {
		dto.NotFound(c, "job not found")
		return
	}

	dto.Success(c, dto.ToDeckJobResponse(job))
}
