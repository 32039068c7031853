// Package imagegen 提供幻灯片配图生成服务：
// OpenAI 图像后端，不可用时降级为本地合成占位图。
package imagegen

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/pkg/logger"
)

const (
	BackendOpenAI      = "openai"
	BackendPlaceholder = "placeholder"
)

// Service 配图生成服务。
// 远端失败后整个进程余下时间都走本地占位图，避免反复撞同一个故障端点。
type Service struct {
	outputDir string
	model     string
	timeout   time.Duration

	mu     sync.Mutex
	client *openai.Client
}

// NewService 创建配图生成服务并准备输出目录
func NewService(cfg config.ImageConfig) (*Service, error) {
	outputDir := cfg.OutputDir
	if strings.TrimSpace(outputDir) == "" {
		outputDir = "output/assets"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare image output dir: %w", err)
	}

	s := &Service{
		outputDir: outputDir,
		model:     cfg.Model,
		timeout:   cfg.Timeout,
	}
	if s.model == "" {
		s.model = "dall-e-3"
	}

	if strings.EqualFold(cfg.Backend, BackendOpenAI) && strings.TrimSpace(cfg.APIKey) != "" {
		opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
		if strings.TrimSpace(cfg.BaseURL) != "" {
			opts = append(opts, option.WithBaseURL(cfg.BaseURL))
		}
		client := openai.NewClient(opts...)
		s.client = &client
	}
	return s, nil
}

// Backend 当前生效的后端名称
func (s *Service) Backend() string {
	if s == nil {
		return BackendPlaceholder
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return BackendOpenAI
	}
	return BackendPlaceholder
}

// Generate 生成配图并返回本地文件路径。
// 文件名为 {slideID}_{unix}.png，写入固定输出目录。
func (s *Service) Generate(ctx context.Context, prompt, slideID string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("image service is nil")
	}
	filename := filepath.Join(s.outputDir, fmt.Sprintf("%s_%d.png", slideID, time.Now().Unix()))
	safePrompt := strings.TrimSpace(prompt)
	if safePrompt == "" {
		safePrompt = fmt.Sprintf("Slide %s", slideID)
	}

	s.mu.Lock()
	client := s.client
	s.mu.Unlock()

	if client != nil {
		if path, err := s.generateRemote(ctx, client, safePrompt, filename); err == nil {
			return path, nil
		} else {
			logger.Warn(ctx, "remote image backend failed, falling back to placeholder",
				"error", err.Error(),
			)
			s.mu.Lock()
			s.client = nil
			s.mu.Unlock()
		}
	}

	return s.generatePlaceholder(safePrompt, slideID, filename)
}

func (s *Service) generateRemote(ctx context.Context, client *openai.Client, prompt, filename string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt:         prompt,
		Model:          openai.ImageModel(s.model),
		N:              openai.Int(1),
		Size:           openai.ImageGenerateParamsSize1792x1024,
		ResponseFormat: openai.ImageGenerateParamsResponseFormatB64JSON,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", fmt.Errorf("image api returned no data")
	}

	raw, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return "", fmt.Errorf("failed to decode image payload: %w", err)
	}
	if err := os.WriteFile(filename, raw, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image file: %w", err)
	}
	return filename, nil
}
