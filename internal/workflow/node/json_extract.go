package node

import (
	"encoding/json"
	"strings"
)

// ExtractJSONObject 从模型输出中截取候选 JSON 对象文本。
// 容错逻辑：先剥掉 Markdown 代码围栏，再截取首个 "{" 到最后一个 "}" 之间
// 的子串；模型经常在 JSON 前后夹杂说明性文本。
func ExtractJSONObject(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	// 剥离代码围栏标记
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	raw = strings.TrimSpace(raw)

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	// 简单校验：确保 Decoder 至少能消费到一个对象起始
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	if tok, err := dec.Token(); err == nil {
		if d, ok := tok.(json.Delim); ok && d == '{' {
			return raw
		}
	}
	return raw
}
