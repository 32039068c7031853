package deck

import (
	"context"
	"strings"

	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/domain/entity"
	wfmodel "slidegen-ai-api/internal/workflow/model"
	"slidegen-ai-api/internal/workflow/node"
	"slidegen-ai-api/pkg/errors"
	"slidegen-ai-api/pkg/logger"
	"slidegen-ai-api/pkg/metrics"
)

// ContentChain 生成链的最小依赖，便于测试替身
type ContentChain interface {
	Invoke(ctx context.Context, in *wfmodel.DeckGenerateInput) (*wfmodel.DeckGenerateOutput, error)
}

// Generator 驱动四阶段生成链并把结果解析为 DeckIR
type Generator struct {
	chain    ContentChain
	provider string
	model    string
	language string
	preview  int
}

// NewGenerator 创建生成器；provider 为空时由 LLM 工厂回退到默认提供商
func NewGenerator(chain ContentChain, cfg *config.Config) *Generator {
	g := &Generator{chain: chain, preview: 2000, language: "pt-BR"}
	if cfg != nil {
		g.provider = cfg.LLM.DefaultProvider
		if p, ok := cfg.LLM.Providers[cfg.LLM.DefaultProvider]; ok {
			g.model = p.Model
		}
		if cfg.Pipeline.SourcePreviewChars > 0 {
			g.preview = cfg.Pipeline.SourcePreviewChars
		}
		if strings.TrimSpace(cfg.Pipeline.Language) != "" {
			g.language = cfg.Pipeline.Language
		}
	}
	return g
}

// Generate 根据 ContextPack 生成并校验 DeckIR。
// 生成链或解析失败均为致命错误，由调用方决定是否中止整条流水线。
func (g *Generator) Generate(ctx context.Context, pack *entity.ContextPack) (*entity.DeckIR, *wfmodel.DeckGenerateOutput, error) {
	if g == nil || g.chain == nil {
		return nil, nil, errors.New(errors.CodeGenerationFailed, "content chain not configured")
	}
	if pack == nil {
		return nil, nil, errors.New(errors.CodeInvalidParam, "context pack is nil")
	}

	in := &wfmodel.DeckGenerateInput{
		Prompt:        pack.Prompt,
		SourcePreview: node.TruncateByRunes(pack.CleanedText, g.preview),
		SlideTarget:   pack.SlideTarget(5),
		Language:      g.language,
		Provider:      pack.MetaString(entity.MetaKeyProvider, g.provider),
		Model:         pack.MetaString(entity.MetaKeyModel, g.model),
	}

	out, err := g.chain.Invoke(ctx, in)
	if err != nil {
		metrics.DeckGenerationTotal.WithLabelValues("error").Inc()
		return nil, nil, errors.Wrap(err, errors.CodeGenerationFailed, "content generation failed")
	}

	deck, jsonText, err := ParseDeckPayload(out.RawPayload)
	if err != nil {
		metrics.DeckGenerationTotal.WithLabelValues("error").Inc()
		logger.Error(ctx, "deck payload rejected", err, "payload_len", len(jsonText))
		return nil, out, err
	}

	metrics.DeckGenerationTotal.WithLabelValues("success").Inc()
	metrics.DeckSlideCount.Observe(float64(len(deck.Slides)))
	logger.Info(ctx, "deck generated",
		"title", deck.Meta.Title,
		"slides", len(deck.Slides),
		"stages", len(out.Stages),
	)
	return deck, out, nil
}
