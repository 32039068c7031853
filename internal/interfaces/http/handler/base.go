package handler

import (
	"fmt"
	"strings"

	"slidegen-ai-api/internal/config"
)

// resolveProviderModel 解析 LLM Provider 和 Model
func resolveProviderModel(cfg *config.Config, provider, model string) (string, string, error) {
	if cfg == nil {
		return "", "", fmt.Errorf("server config not configured")
	}

	p := strings.TrimSpace(provider)
	if p == "" {
		p = strings.TrimSpace(cfg.LLM.DefaultProvider)
	}
	if p == "" {
		return "", "", fmt.Errorf("llm provider not specified")
	}

	providerCfg, ok := cfg.LLM.Providers[p]
	if !ok {
		return "", "", fmt.Errorf("llm provider not found: %s", p)
	}

	m := strings.TrimSpace(model)
	if m == "" {
		m = strings.TrimSpace(providerCfg.Model)
	}
	if len(m) > 128 {
		return "", "", fmt.Errorf("llm model too long")
	}
	return p, m, nil
}

// parsePage 规范化分页参数
func parsePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
