package deck

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/domain/entity"
	wfmodel "slidegen-ai-api/internal/workflow/model"
	"slidegen-ai-api/internal/workflow/node"
	"slidegen-ai-api/pkg/errors"
	"slidegen-ai-api/pkg/logger"
	"slidegen-ai-api/pkg/metrics"
)

// DeckGenerator 生成阶段的最小依赖
type DeckGenerator interface {
	Generate(ctx context.Context, pack *entity.ContextPack) (*entity.DeckIR, *wfmodel.DeckGenerateOutput, error)
}

// Renderer 文档渲染边界：把排版结果写入 path 并返回最终路径
type Renderer interface {
	Render(ctx context.Context, layout *entity.LayoutDeck, path string) (string, error)
}

// PipelineResult 一次流水线运行的产物
type PipelineResult struct {
	Deck       *entity.DeckIR             `json:"deck"`
	Evaluation *entity.EvaluationEnvelope `json:"evaluation"`
	Layout     *entity.LayoutDeck         `json:"-"`
	OutputPath string                     `json:"output_path"`
}

// Pipeline 顶层流水线驱动：
// 页数识别 → 文本清洗 → 内容生成 → 编辑审计与修正 → 配图 → 排版 → 渲染。
// 生成与渲染失败致命；审计修正与配图失败可恢复。
type Pipeline struct {
	cfg         *config.Config
	generator   DeckGenerator
	auditor     *Auditor
	illustrator *Illustrator
	renderer    Renderer
}

func NewPipeline(cfg *config.Config, gen DeckGenerator, auditor *Auditor, il *Illustrator, renderer Renderer) *Pipeline {
	if auditor == nil {
		auditor = NewAuditor()
	}
	return &Pipeline{
		cfg:         cfg,
		generator:   gen,
		auditor:     auditor,
		illustrator: il,
		renderer:    renderer,
	}
}

// RunOptions 单次运行的可选覆盖
type RunOptions struct {
	Provider string
	Model    string
}

// Run 执行完整流水线，成功时返回渲染文件路径
func (p *Pipeline) Run(ctx context.Context, prompt, contextText, outputFile string) (*PipelineResult, error) {
	return p.RunWithOptions(ctx, prompt, contextText, outputFile, nil)
}

// RunWithOptions 执行完整流水线，opts 可覆盖模型路由
func (p *Pipeline) RunWithOptions(ctx context.Context, prompt, contextText, outputFile string, opts *RunOptions) (*PipelineResult, error) {
	if p == nil || p.generator == nil || p.renderer == nil {
		return nil, errors.New(errors.CodeInternalError, "pipeline not fully wired")
	}
	if strings.TrimSpace(prompt) == "" {
		return nil, errors.New(errors.CodeInvalidParam, "prompt is empty")
	}

	target := node.DetectSlideTarget(prompt, p.defaultSlideCount())
	logger.Info(ctx, "pipeline started", "prompt", prompt, "slide_target", target)

	pack := p.buildContextPack(prompt, contextText, target, opts)

	start := time.Now()
	deck, _, err := p.generator.Generate(ctx, pack)
	metrics.DeckGenerationDuration.WithLabelValues("generate").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}

	env := p.auditor.Audit(deck)
	for _, t := range env.Tickets {
		metrics.QATicketsTotal.WithLabelValues(string(t.IssueCode)).Inc()
	}
	if !env.Scorecard.Passed {
		logger.Info(ctx, "editorial audit found issues, applying fixes",
			"tickets", len(env.Tickets),
		)
		deck = p.auditor.ApplyFixes(deck, env.Tickets)
	}

	if p.illustrator != nil {
		start = time.Now()
		p.illustrator.Illustrate(ctx, deck)
		metrics.DeckGenerationDuration.WithLabelValues("illustrate").Observe(time.Since(start).Seconds())
	}

	layout := ComputeLayout(deck)

	start = time.Now()
	path, err := p.renderer.Render(ctx, layout, p.resolveOutputPath(outputFile))
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeRenderFailed, "render failed")
	}

	logger.Info(ctx, "pipeline completed", "output", path, "slides", len(deck.Slides))
	return &PipelineResult{
		Deck:       deck,
		Evaluation: env,
		Layout:     layout,
		OutputPath: path,
	}, nil
}

func (p *Pipeline) buildContextPack(prompt, contextText string, target int, opts *RunOptions) *entity.ContextPack {
	constraints := entity.DefaultConstraints()
	if p.cfg != nil {
		c := p.cfg.Pipeline.Constraints
		if c.MaxBullets > 0 {
			constraints.MaxBullets = c.MaxBullets
		}
		if c.MaxWordsBullet > 0 {
			constraints.MaxWordsBullet = c.MaxWordsBullet
		}
		if c.MaxTitleWords > 0 {
			constraints.MaxTitleWords = c.MaxTitleWords
		}
	}
	meta := map[string]any{entity.MetaKeySlideTarget: target}
	if opts != nil {
		if strings.TrimSpace(opts.Provider) != "" {
			meta[entity.MetaKeyProvider] = opts.Provider
		}
		if strings.TrimSpace(opts.Model) != "" {
			meta[entity.MetaKeyModel] = opts.Model
		}
	}
	return &entity.ContextPack{
		Prompt:      prompt,
		SourceText:  contextText,
		CleanedText: node.Sanitize(contextText),
		Constraints: constraints,
		Meta:        meta,
	}
}

func (p *Pipeline) defaultSlideCount() int {
	if p.cfg != nil && p.cfg.Pipeline.DefaultSlideCount > 0 {
		return p.cfg.Pipeline.DefaultSlideCount
	}
	return 5
}

func (p *Pipeline) resolveOutputPath(outputFile string) string {
	dir, name := "output", "output.pptx"
	if p.cfg != nil {
		if strings.TrimSpace(p.cfg.Render.OutputDir) != "" {
			dir = p.cfg.Render.OutputDir
		}
		if strings.TrimSpace(p.cfg.Render.DefaultFilename) != "" {
			name = p.cfg.Render.DefaultFilename
		}
	}
	if strings.TrimSpace(outputFile) == "" {
		return filepath.Join(dir, name)
	}
	if filepath.IsAbs(outputFile) || strings.ContainsRune(outputFile, filepath.Separator) {
		return outputFile
	}
	return filepath.Join(dir, outputFile)
}
