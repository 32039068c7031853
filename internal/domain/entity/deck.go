// Package entity 定义领域实体
package entity

import (
	"fmt"
	"strings"
)

// SlideType 幻灯片变体标签，决定哪些内容字段在语义上生效
type SlideType string

const (
	SlideTypeTitle        SlideType = "TITLE"
	SlideTypeTitleBullets SlideType = "TITLE_BULLETS"
	SlideTypeTwoColumns   SlideType = "TWO_COLUMNS"
	SlideTypeImageCaption SlideType = "IMAGE_CAPTION"
	SlideTypeSection      SlideType = "SECTION"
)

// IsKnown 检查变体标签是否为已定义值
func (t SlideType) IsKnown() bool {
	switch t {
	case SlideTypeTitle, SlideTypeTitleBullets, SlideTypeTwoColumns,
		SlideTypeImageCaption, SlideTypeSection:
		return true
	}
	return false
}

// Audience 受众类型
type Audience string

const (
	AudienceExecutive Audience = "executive"
	AudienceTechnical Audience = "technical"
	AudienceMixed     Audience = "mixed"
	AudienceBeginner  Audience = "beginner"
)

// ImageStatus 配图生命周期状态
type ImageStatus string

const (
	ImageStatusMissing    ImageStatus = "missing"
	ImageStatusGenerating ImageStatus = "generating"
	ImageStatusReady      ImageStatus = "ready"
	ImageStatusError      ImageStatus = "error"
)

// DefaultAspectRatio 配图默认宽高比
const DefaultAspectRatio = "16:9"

// ImageRef 配图资产引用
// ready 状态要求本地文件存在且通过校验；生成或校验失败停留在 error
type ImageRef struct {
	Status      ImageStatus `json:"status"`
	Prompt      string      `json:"prompt,omitempty"`
	URI         string      `json:"uri,omitempty"`
	LocalPath   string      `json:"local_path,omitempty"`
	AspectRatio string      `json:"aspect_ratio,omitempty"`
}

// NewMissingImage 创建初始状态的配图引用
func NewMissingImage() *ImageRef {
	return &ImageRef{
		Status:      ImageStatusMissing,
		AspectRatio: DefaultAspectRatio,
	}
}

// IsReady 配图是否可用于排版
func (r *ImageRef) IsReady() bool {
	return r != nil && r.Status == ImageStatusReady && strings.TrimSpace(r.LocalPath) != ""
}

// Clone 深拷贝
func (r *ImageRef) Clone() *ImageRef {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// TwoColumnsData 双栏内容
type TwoColumnsData struct {
	Left  []string `json:"left"`
	Right []string `json:"right"`
}

// Clone 深拷贝
func (c *TwoColumnsData) Clone() *TwoColumnsData {
	if c == nil {
		return nil
	}
	return &TwoColumnsData{
		Left:  append([]string(nil), c.Left...),
		Right: append([]string(nil), c.Right...),
	}
}

// SlideIR 单张幻灯片的中间表示
// 除 id 与 type 外所有字段结构上可选，容忍不完整的生成结果
type SlideIR struct {
	ID       string          `json:"id"`
	Type     SlideType       `json:"type"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle,omitempty"`
	Bullets  []string        `json:"bullets,omitempty"`
	Columns  *TwoColumnsData `json:"columns,omitempty"`
	Image    *ImageRef       `json:"image,omitempty"`
	Caption  string          `json:"caption,omitempty"`
	Notes    string          `json:"notes,omitempty"`
}

// Clone 深拷贝
func (s *SlideIR) Clone() *SlideIR {
	if s == nil {
		return nil
	}
	c := *s
	c.Bullets = append([]string(nil), s.Bullets...)
	c.Columns = s.Columns.Clone()
	c.Image = s.Image.Clone()
	return &c
}

// DeckMeta 演示文稿级元数据
type DeckMeta struct {
	Title    string   `json:"title"`
	Language string   `json:"language,omitempty"`
	Audience Audience `json:"audience,omitempty"`
	ThemeID  string   `json:"theme_id,omitempty"`
}

// DeckIR 演示文稿的完整中间表示
type DeckIR struct {
	Meta   DeckMeta   `json:"meta"`
	Slides []*SlideIR `json:"slides"`
}

// Clone 深拷贝，供 QA 修正等纯函数使用
func (d *DeckIR) Clone() *DeckIR {
	if d == nil {
		return nil
	}
	c := &DeckIR{Meta: d.Meta}
	c.Slides = make([]*SlideIR, 0, len(d.Slides))
	for _, s := range d.Slides {
		c.Slides = append(c.Slides, s.Clone())
	}
	return c
}

// Normalize 填充缺省字段：空 id 按序补为 s{n}，未知变体回退为 TITLE_BULLETS，
// 元数据补默认语言/受众/主题
func (d *DeckIR) Normalize() {
	if d == nil {
		return
	}
	if strings.TrimSpace(d.Meta.Language) == "" {
		d.Meta.Language = "pt-BR"
	}
	if d.Meta.Audience == "" {
		d.Meta.Audience = AudienceMixed
	}
	if strings.TrimSpace(d.Meta.ThemeID) == "" {
		d.Meta.ThemeID = "default"
	}
	for i, s := range d.Slides {
		if s == nil {
			continue
		}
		if strings.TrimSpace(s.ID) == "" {
			s.ID = fmt.Sprintf("s%d", i+1)
		}
		if !s.Type.IsKnown() {
			s.Type = SlideTypeTitleBullets
		}
	}
}

// Validate 结构校验：元数据标题非空、slide id 非空且全局唯一
func (d *DeckIR) Validate() error {
	if d == nil {
		return fmt.Errorf("deck is nil")
	}
	if strings.TrimSpace(d.Meta.Title) == "" {
		return fmt.Errorf("deck meta title is empty")
	}
	seen := make(map[string]struct{}, len(d.Slides))
	for i, s := range d.Slides {
		if s == nil {
			return fmt.Errorf("slide %d is nil", i)
		}
		id := strings.TrimSpace(s.ID)
		if id == "" {
			return fmt.Errorf("slide %d has empty id", i)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("duplicate slide id: %s", id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

// SlideByID 按 id 查找幻灯片
func (d *DeckIR) SlideByID(id string) *SlideIR {
	if d == nil {
		return nil
	}
	for _, s := range d.Slides {
		if s != nil && s.ID == id {
			return s
		}
	}
	return nil
}

// Constraints 幻灯片结构约束
type Constraints struct {
	MaxBullets     int `json:"max_bullets"`
	MaxWordsBullet int `json:"max_words_bullet"`
	MaxTitleWords  int `json:"max_title_words"`
}

// DefaultConstraints 默认结构约束
func DefaultConstraints() Constraints {
	return Constraints{
		MaxBullets:     6,
		MaxWordsBullet: 12,
		MaxTitleWords:  8,
	}
}

// ContextPack 单次流水线运行的输入包
// Normalizer 填充 CleanedText 之后视为不可变
type ContextPack struct {
	Prompt      string         `json:"prompt"`
	SourceText  string         `json:"source_text"`
	CleanedText string         `json:"cleaned_text"`
	Constraints Constraints    `json:"constraints"`
	Meta        map[string]any `json:"meta"`
}

// ContextPack.Meta 预定义键
const (
	// MetaKeySlideTarget 目标页数
	MetaKeySlideTarget = "num_slides"
	// MetaKeyProvider 模型提供商覆盖
	MetaKeyProvider = "provider"
	// MetaKeyModel 模型名覆盖
	MetaKeyModel = "model"
)

// SlideTarget 读取目标页数，未设置时返回 fallback
func (c *ContextPack) SlideTarget(fallback int) int {
	if c == nil || c.Meta == nil {
		return fallback
	}
	switch v := c.Meta[MetaKeySlideTarget].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return fallback
}

// MetaString 读取字符串元数据，未设置或为空白时返回 fallback
func (c *ContextPack) MetaString(key, fallback string) string {
	if c == nil || c.Meta == nil {
		return fallback
	}
	if v, ok := c.Meta[key].(string); ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}
