package model

// DeckGenerateInput 四阶段生成链的输入
type DeckGenerateInput struct {
	Prompt        string
	SourcePreview string
	SlideTarget   int
	Language      string

	Provider    string
	Model       string
	Temperature *float32
	MaxTokens   *int
}

// StageTrace 记录单个阶段的原始输出，便于排障与审计
type StageTrace struct {
	Stage  string
	Output string
	Usage  LLMUsageMeta
}

// DeckGenerateOutput 链的终态：格式化阶段的原始文本与各阶段轨迹
type DeckGenerateOutput struct {
	RawPayload string
	Stages     []StageTrace
}
