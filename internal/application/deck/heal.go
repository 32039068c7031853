package deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"slidegen-ai-api/internal/domain/entity"
)

// 修复时的兜底标题
const healedDeckTitle = "Apresentação"

// 修复时按优先级识别的键名（小写比较）
var (
	titleLikeKeys = map[string]struct{}{
		"title":       {},
		"titulo":      {},
		"título":      {},
		"header":      {},
		"heading":     {},
		"name":        {},
		"slide_title": {},
	}
	contentLikeKeys = map[string]struct{}{
		"content":     {},
		"text":        {},
		"body":        {},
		"description": {},
		"conteudo":    {},
		"conteúdo":    {},
		"texto":       {},
		"corpo":       {},
	}
)

// HealDeckPayload 对顶层结构不符合 meta+slides 的载荷做结构修复。
// 假定载荷是 slide 标签到 slide 内容的映射，按条目出现顺序提取，
// 每个条目恢复为一张 TITLE_BULLETS 幻灯片，id 为 s_{n}。
// 提取规则按固定优先级：标题键 → 首个列表值字段 → 内容键 → 标量键值对字符串化。
// 永不失败：最坏情况下返回零幻灯片的合法 deck。
func HealDeckPayload(jsonText string) *entity.DeckIR {
	deck := &entity.DeckIR{
		Meta: entity.DeckMeta{Title: healedDeckTitle},
	}

	entries, err := decodeOrderedObject([]byte(jsonText))
	if err != nil {
		return deck
	}

	for i, e := range entries {
		deck.Slides = append(deck.Slides, healSlide(e.Key, e.Raw, i+1))
	}
	return deck
}

func healSlide(label string, raw json.RawMessage, seq int) *entity.SlideIR {
	slide := &entity.SlideIR{
		ID:    fmt.Sprintf("s_%d", seq),
		Type:  entity.SlideTypeTitleBullets,
		Title: strings.TrimSpace(label),
		Image: entity.NewMissingImage(),
	}

	fields, err := decodeOrderedObject(raw)
	if err != nil {
		// 条目不是对象：标签当标题，值本身当内容
		slide.Bullets = bulletsFromValue(raw)
		return slide
	}

	titleKey := ""
	for _, f := range fields {
		if _, ok := titleLikeKeys[strings.ToLower(f.Key)]; !ok {
			continue
		}
		if s, ok := decodeString(f.Raw); ok && strings.TrimSpace(s) != "" {
			slide.Title = strings.TrimSpace(s)
			titleKey = f.Key
			break
		}
	}

	// 规则 1：首个列表值字段
	for _, f := range fields {
		if f.Key == titleKey {
			continue
		}
		if items, ok := decodeList(f.Raw); ok {
			slide.Bullets = items
			return slide
		}
	}

	// 规则 2：内容键
	for _, f := range fields {
		if f.Key == titleKey {
			continue
		}
		if _, ok := contentLikeKeys[strings.ToLower(f.Key)]; !ok {
			continue
		}
		if s, ok := decodeString(f.Raw); ok && strings.TrimSpace(s) != "" {
			slide.Bullets = []string{strings.TrimSpace(s)}
			return slide
		}
	}

	// 规则 3：标量键值对字符串化
	for _, f := range fields {
		if f.Key == titleKey {
			continue
		}
		if s, ok := stringifyScalar(f.Raw); ok {
			slide.Bullets = append(slide.Bullets, fmt.Sprintf("%s: %s", f.Key, s))
		}
	}
	return slide
}

type orderedField struct {
	Key string
	Raw json.RawMessage
}

// decodeOrderedObject 按出现顺序展开 JSON 对象的字段。
// encoding/json 的 map 解码不保留键序，这里用 Decoder 逐 token 读取。
func decodeOrderedObject(raw []byte) ([]orderedField, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not a json object")
	}

	var fields []orderedField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected object key token: %v", keyTok)
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		fields = append(fields, orderedField{Key: key, Raw: val})
	}
	return fields, nil
}

func decodeString(raw json.RawMessage) (string, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeList(raw json.RawMessage) ([]string, bool) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := decodeString(it); ok {
			if strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
			continue
		}
		if s, ok := stringifyScalar(it); ok {
			out = append(out, s)
			continue
		}
		out = append(out, string(bytes.TrimSpace(it)))
	}
	return out, true
}

func bulletsFromValue(raw json.RawMessage) []string {
	if items, ok := decodeList(raw); ok {
		return items
	}
	if s, ok := decodeString(raw); ok {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		return []string{strings.TrimSpace(s)}
	}
	if s, ok := stringifyScalar(raw); ok {
		return []string{s}
	}
	return nil
}

// stringifyScalar 把数字、布尔等标量转为展示文本；对象、数组与 null 不算
func stringifyScalar(raw json.RawMessage) (string, bool) {
	t := bytes.TrimSpace(raw)
	if len(t) == 0 || t[0] == '{' || t[0] == '[' {
		return "", false
	}
	if string(t) == "null" {
		return "", false
	}
	if s, ok := decodeString(t); ok {
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return strings.TrimSpace(s), true
	}
	return string(t), true
}
