package service

import (
	"context"
	"strings"
)

type llmCtxKey string

const (
	llmCtxKeyWorkflow llmCtxKey = "llm_workflow"
	llmCtxKeyProvider llmCtxKey = "llm_provider"
)

// WithWorkflow 将工作流名称注入 context，供 LLM 调用观测使用
func WithWorkflow(ctx context.Context, workflow string) context.Context {
	if ctx == nil {
		return nil
	}
	w := strings.TrimSpace(workflow)
	if w == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyWorkflow, w)
}

// WithProvider 将提供商名称注入 context
func WithProvider(ctx context.Context, provider string) context.Context {
	if ctx == nil {
		return nil
	}
	p := strings.TrimSpace(provider)
	if p == "" {
		return ctx
	}
	return context.WithValue(ctx, llmCtxKeyProvider, p)
}

// WithWorkflowProvider 同时注入工作流与提供商
func WithWorkflowProvider(ctx context.Context, workflow, provider string) context.Context {
	return WithProvider(WithWorkflow(ctx, workflow), provider)
}

// WorkflowFromContext 读取工作流名称，缺省返回 "unknown"
func WorkflowFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(llmCtxKeyWorkflow).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}

// ProviderFromContext 读取提供商名称，缺省返回 "unknown"
func ProviderFromContext(ctx context.Context) string {
	if ctx == nil {
		return "unknown"
	}
	s, ok := ctx.Value(llmCtxKeyProvider).(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "unknown"
	}
	return strings.TrimSpace(s)
}
