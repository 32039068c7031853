// Package deck 实现演示文稿生成的应用层编排：
// 内容生成、载荷解析与结构修复、编辑审计、配图、排版。
package deck

import (
	"encoding/json"
	"fmt"
	"strings"

	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/internal/workflow/node"
	"slidegen-ai-api/pkg/errors"
	"slidegen-ai-api/pkg/metrics"
)

// ParseDeckPayload 从格式化阶段的原始输出解析 DeckIR，并返回截取后的 JSON 文本。
// 解析失败是致命错误；顶层结构不是 meta+slides 时走结构修复，修复本身永不失败，
// 但修复结果仍需通过 Validate。
func ParseDeckPayload(rawText string) (*entity.DeckIR, string, error) {
	jsonText := node.ExtractJSONObject(rawText)
	if strings.TrimSpace(jsonText) == "" {
		return nil, jsonText, errors.New(errors.CodeDeckParseFailed, "empty deck payload")
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &probe); err != nil {
		return nil, jsonText, errors.Wrap(err, errors.CodeDeckParseFailed, "failed to parse deck json")
	}

	deck, ok := decodeWellFormed(jsonText, probe)
	if !ok {
		deck = HealDeckPayload(jsonText)
		metrics.DeckHealingTotal.Inc()
	}

	deck.Normalize()
	if err := deck.Validate(); err != nil {
		return nil, jsonText, errors.Wrap(err, errors.CodeDeckInvalid, "deck failed schema validation")
	}
	return deck, jsonText, nil
}

// decodeWellFormed 顶层同时带 meta 与 slides 时按标准 schema 解码。
// 键存在但形状解不开时交给结构修复兜底。
func decodeWellFormed(jsonText string, probe map[string]json.RawMessage) (*entity.DeckIR, bool) {
	if _, hasMeta := probe["meta"]; !hasMeta {
		return nil, false
	}
	if _, hasSlides := probe["slides"]; !hasSlides {
		return nil, false
	}

	var deck entity.DeckIR
	if err := json.Unmarshal([]byte(jsonText), &deck); err != nil {
		return nil, false
	}
	for i, s := range deck.Slides {
		if s == nil {
			deck.Slides[i] = &entity.SlideIR{}
			s = deck.Slides[i]
		}
		if strings.TrimSpace(s.ID) == "" {
			s.ID = fmt.Sprintf("s%d", i+1)
		}
	}
	return &deck, true
}
