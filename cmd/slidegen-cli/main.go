// Package main 命令行生成入口
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"slidegen-ai-api/internal/application/deck"
	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/infrastructure/imagegen"
	"slidegen-ai-api/internal/infrastructure/imageval"
	"slidegen-ai-api/internal/infrastructure/llm"
	"slidegen-ai-api/internal/infrastructure/pptx"
	einoobs "slidegen-ai-api/internal/observability/eino"
	"slidegen-ai-api/internal/workflow/chain"
	"slidegen-ai-api/pkg/logger"

	"github.com/joho/godotenv"
)

// Version 版本信息，构建时注入
var Version = "dev"

func main() {
	prompt := flag.String("prompt", "", "natural language prompt describing the deck")
	contextText := flag.String("context", "", "optional source material to ground the content")
	output := flag.String("output", "", "output .pptx path (default from config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	if strings.TrimSpace(*prompt) == "" {
		fmt.Fprintln(os.Stderr, "Error: --prompt is required")
		flag.Usage()
		os.Exit(2)
	}

	// 加载 .env 文件（如果存在）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(
		cfg.Observability.Logging.Level,
		cfg.Observability.Logging.Format,
	)

	ctx := context.Background()

	provider := cfg.LLM.DefaultProvider
	if p, ok := cfg.LLM.Providers[provider]; !ok || strings.TrimSpace(p.APIKey) == "" {
		fmt.Fprintf(os.Stderr, "Error: no API key configured for provider %q, set it in config or environment\n", provider)
		os.Exit(1)
	}

	// Eino 全局 callbacks（指标/追踪/日志）
	einoobs.Init()

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to build pipeline", err)
	}

	result, err := pipeline.Run(ctx, *prompt, *contextText, *output)
	if err != nil {
		logger.Fatal(ctx, "deck generation failed", err)
	}

	fmt.Printf("Deck written to %s (%d slides)\n", result.OutputPath, len(result.Deck.Slides))
}

func buildPipeline(cfg *config.Config) (*deck.Pipeline, error) {
	factory := llm.NewEinoFactory(cfg)
	generator := deck.NewGenerator(chain.NewDeckChain(factory), cfg)

	imageSvc, err := imagegen.NewService(cfg.Image)
	if err != nil {
		return nil, err
	}
	illustrator := deck.NewIllustrator(imageSvc, imageval.NewValidator(cfg.Image.MinFileSize))

	return deck.NewPipeline(cfg, generator, auditorFromConfig(cfg), illustrator, pptx.NewRenderer()), nil
}

func auditorFromConfig(cfg *config.Config) *deck.Auditor {
	a := deck.NewAuditor()
	c := cfg.Pipeline.Constraints
	if c.MinSlides > 0 {
		a.MinSlides = c.MinSlides
	}
	if c.WeakTitleWords > 0 {
		a.WeakTitleWords = c.WeakTitleWords
	}
	if c.TitleTruncWords > 0 {
		a.TitleKeepWords = c.TitleTruncWords
	}
	return a
}
