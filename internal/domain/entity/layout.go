// Package entity 定义领域实体
package entity

// 画布尺寸（英寸），与渲染端 16:9 页面一致
const (
	CanvasWidth  = 13.33
	CanvasHeight = 7.5
)

// 角色固定字号
const (
	TitleFontSize = 40
	BodyFontSize  = 24
)

// BoxKind 排版盒内容类型
type BoxKind string

const (
	BoxKindText  BoxKind = "text"
	BoxKindImage BoxKind = "image"
)

// BoxRole 排版盒语义角色
type BoxRole string

const (
	BoxRoleTitle BoxRole = "title"
	BoxRoleBody  BoxRole = "body"
	BoxRoleHero  BoxRole = "hero"
)

// LayoutBox 定位后的内容区域，坐标与尺寸为画布英寸绝对值
type LayoutBox struct {
	Kind     BoxKind   `json:"kind"`
	Role     BoxRole   `json:"role"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	W        float64   `json:"w"`
	H        float64   `json:"h"`
	FontSize int       `json:"font_size"`
	Text     string    `json:"text,omitempty"`
	Image    *ImageRef `json:"image_ref,omitempty"`
}

// LayoutSlide 单页排版结果
type LayoutSlide struct {
	ID    string      `json:"id"`
	Boxes []LayoutBox `json:"boxes"`
	Notes string      `json:"notes,omitempty"`
}

// LayoutDeck 整份排版结果，仅由 DeckIR 派生，生成后不再修改
type LayoutDeck struct {
	Slides []LayoutSlide `json:"slides"`
}
