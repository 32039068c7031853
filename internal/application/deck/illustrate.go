package deck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/pkg/logger"
	"slidegen-ai-api/pkg/metrics"
)

// ImageGenerator 配图生成服务边界：返回本地文件路径
type ImageGenerator interface {
	Generate(ctx context.Context, prompt, slideID string) (string, error)
	Backend() string
}

// ImageValidator 配图校验边界：存在性与最小体积检查
type ImageValidator interface {
	Validate(ctx context.Context, path, prompt string) bool
}

// Illustrator 逐页补全配图。
// 失败不致命：生成或校验失败的页置为 error 状态，流水线继续。
type Illustrator struct {
	gen       ImageGenerator
	validator ImageValidator
}

func NewIllustrator(gen ImageGenerator, validator ImageValidator) *Illustrator {
	return &Illustrator{gen: gen, validator: validator}
}

// Illustrate 按页序就地补全 deck 的配图引用。
// ready 同时要求返回路径非空且通过校验；否则置为 error，排版阶段会退回无图布局。
func (il *Illustrator) Illustrate(ctx context.Context, d *entity.DeckIR) {
	if il == nil || il.gen == nil || d == nil {
		return
	}

	for _, s := range d.Slides {
		if s == nil {
			continue
		}
		if s.Image == nil {
			s.Image = entity.NewMissingImage()
		}
		if s.Image.Status == entity.ImageStatusReady {
			continue
		}
		if strings.TrimSpace(s.Image.Prompt) == "" {
			s.Image.Prompt = SynthesizeImagePrompt(s)
		}

		il.illustrateSlide(ctx, s)
	}
}

func (il *Illustrator) illustrateSlide(ctx context.Context, s *entity.SlideIR) {
	ctx = logger.WithContext(ctx, logger.SlideIDKey, s.ID)
	backend := il.gen.Backend()
	s.Image.Status = entity.ImageStatusGenerating

	start := time.Now()
	path, err := il.gen.Generate(ctx, s.Image.Prompt, s.ID)
	metrics.ImageGenerationDuration.WithLabelValues(backend).Observe(time.Since(start).Seconds())

	if err != nil || strings.TrimSpace(path) == "" {
		s.Image.Status = entity.ImageStatusError
		metrics.ImageGenerationTotal.WithLabelValues(backend, "error").Inc()
		logger.Warn(ctx, "image generation failed, slide continues without image",
			"error", err,
		)
		return
	}

	if il.validator != nil && !il.validator.Validate(ctx, path, s.Image.Prompt) {
		s.Image.Status = entity.ImageStatusError
		s.Image.LocalPath = path
		metrics.ImageGenerationTotal.WithLabelValues(backend, "rejected").Inc()
		logger.Warn(ctx, "image rejected by validator", "path", path)
		return
	}

	s.Image.LocalPath = path
	s.Image.Status = entity.ImageStatusReady
	metrics.ImageGenerationTotal.WithLabelValues(backend, "success").Inc()
	logger.Info(ctx, "image ready", "path", path)
}

// SynthesizeImagePrompt 由标题与开头两条 bullets 构造生成指令
func SynthesizeImagePrompt(s *entity.SlideIR) string {
	if s == nil {
		return ""
	}
	preview := s.Title
	if len(s.Bullets) > 0 {
		n := len(s.Bullets)
		if n > 2 {
			n = 2
		}
		preview = strings.Join(s.Bullets[:n], ". ")
	}
	return fmt.Sprintf(
		"Professional illustration, cinematic lighting, 8k. Subject: %s. Context: %s. Style: Futuristic Minimalism.",
		s.Title, preview,
	)
}
