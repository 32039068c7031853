package model

import "time"

// LLMUsageMeta 记录一次 LLM 调用的用量信息
type LLMUsageMeta struct {
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Temperature      float64
	GeneratedAt      time.Time
}
