// Package handler 提供 HTTP 请求处理器
package handler

import (
	"strconv"

	"slidegen-ai-api/internal/application/deck"
	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/internal/domain/repository"
	"slidegen-ai-api/internal/infrastructure/persistence/redis"
	"slidegen-ai-api/internal/interfaces/http/dto"
	"slidegen-ai-api/pkg/errors"
	"slidegen-ai-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DeckHandler 演示文稿处理器
type DeckHandler struct {
	cfg      *config.Config
	pipeline *deck.Pipeline
	deckRepo repository.DeckRepository
	cache    *redis.DeckCache
}

// NewDeckHandler 创建演示文稿处理器
func NewDeckHandler(cfg *config.Config, pipeline *deck.Pipeline, deckRepo repository.DeckRepository, cache *redis.DeckCache) *DeckHandler {
	return &DeckHandler{
		cfg:      cfg,
		pipeline: pipeline,
		deckRepo: deckRepo,
		cache:    cache,
	}
}

// GenerateDeck 同步生成演示文稿
// @Summary 生成演示文稿
// @Description 根据自然语言提示同步生成 .pptx 文件
// @Tags Decks
// @Accept json
// @Produce json
// @Param request body dto.GenerateDeckRequest true "生成请求"
// @Success 201 {object} dto.Response[dto.GenerateDeckResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/decks/generate [post]
func (h *DeckHandler) GenerateDeck(c *gin.Context) {
	ctx := c.Request.Context()

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

	result, err := h.pipeline.RunWithOptions(ctx, req.Prompt, req.ContextText, req.OutputFile, &deck.RunOptions{
		Provider: provider,
		Model:    model,
	})
	if err != nil {
		logger.Error(ctx, "deck generation failed", err, "provider", provider)
		dto.FromError(c, err)
		return
	}

	deckID := uuid.New().String()
	record, err := entity.NewDeckRecord(deckID, result.Deck, result.OutputPath)
	if err != nil {
		logger.Error(ctx, "failed to build deck record", err)
		dto.InternalError(c, "failed to persist deck")
		return
	}

	if h.deckRepo != nil {
		if err := h.deckRepo.Create(ctx, record); err != nil {
			logger.Error(ctx, "failed to persist deck", err, "deck_id", deckID)
			dto.FromError(c, err)
			return
		}
		if h.cache != nil {
			// 缓存失败只降级,不影响响应
			_ = h.cache.Store(ctx, record)
		}
	}

	resp := &dto.GenerateDeckResponse{
		DeckID:     deckID,
		Title:      result.Deck.Meta.Title,
		SlideCount: len(result.Deck.Slides),
		OutputPath: result.OutputPath,
		Slides:     dto.ToSlideSummaries(result.Deck.Slides),
	}
	if result.Evaluation != nil {
		resp.QAPassed = result.Evaluation.Scorecard.Passed
		resp.QATickets = dto.ToQATicketResponses(result.Evaluation.Tickets)
	}

	dto.Created(c, resp)
}

// GetDeck 获取演示文稿详情
// @Summary 获取演示文稿详情
// @Tags Decks
// @Produce json
// @Param id path string true "演示文稿 ID"
// @Success 200 {object} dto.Response[dto.DeckResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/decks/{id} [get]
func (h *DeckHandler) GetDeck(c *gin.Context) {
	ctx := c.Request.Context()
	deckID := c.Param("id")

	if h.deckRepo == nil {
		dto.ServiceUnavailable(c, "deck storage not configured")
		return
	}

	loader := func() (*entity.DeckRecord, error) {
		return h.deckRepo.GetByID(ctx, deckID)
	}

	var record *entity.DeckRecord
	var err error
	if h.cache != nil {
		record, err = h.cache.GetOrLoad(ctx, deckID, loader)
	} else {
		record, err = loader()
	}
	if err != nil {
		appErr := errors.AsAppError(err)
		if appErr.Code != errors.CodeDeckNotFound {
			logger.Error(ctx, "failed to get deck", err, "deck_id", deckID)
		}
		dto.FromError(c, err)
		return
	}
	if record == nil {
		dto.NotFound(c, "deck not found")
		return
	}

	dto.Success(c, dto.ToDeckResponse(record))
}

// ListDecks 分页列出演示文稿
// @Summary 演示文稿列表
// @Tags Decks
// @Produce json
// @Param page query int false "页码"
// @Param page_size query int false "每页数量"
// @Success 200 {object} dto.Response[dto.DeckListResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/decks [get]
func (h *DeckHandler) ListDecks(c *gin.Context) {
	ctx := c.Request.Context()

	if h.deckRepo == nil {
		dto.ServiceUnavailable(c, "deck storage not configured")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = parsePage(page, pageSize)

	records, total, err := h.deckRepo.List(ctx, (page-1)*pageSize, pageSize)
	if err != nil {
		logger.Error(ctx, "failed to list decks", err)
		dto.FromError(c, err)
		return
	}

	dto.SuccessWithPage(c, dto.ToDeckListResponse(records), dto.NewPageMeta(page, pageSize, int(total)))
}

// DeleteDeck 删除演示文稿
// @Summary 删除演示文稿
// @Tags Decks
// @Produce json
// @Param id path string true "演示文稿 ID"
// @Success 204
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/decks/{id} [delete]
func (h *DeckHandler) DeleteDeck(c *gin.Context) {
	ctx := c.Request.Context()
	deckID := c.Param("id")

	if h.deckRepo == nil {
		dto.ServiceUnavailable(c, "deck storage not configured")
		return
	}

	if err := h.deckRepo.Delete(ctx, deckID); err != nil {
		logger.Error(ctx, "failed to delete deck", err, "deck_id", deckID)
		dto.FromError(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.Invalidate(ctx, deckID)
	}

	dto.NoContent(c)
}
