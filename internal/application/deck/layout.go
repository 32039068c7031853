package deck

import (
	"strings"

	"slidegen-ai-api/internal/domain/entity"
)

// ComputeLayout 把 DeckIR 确定性映射为渲染就绪的排版结构。
// 纯函数：对任意结构合法的 deck 全定义，不修改输入。
// 每页固定先放标题盒；正文按互斥优先级三选一：
// 配图就绪 → 图文混排；TWO_COLUMNS 且有栏数据 → 双栏；否则单个全宽文本盒。
func ComputeLayout(d *entity.DeckIR) *entity.LayoutDeck {
	out := &entity.LayoutDeck{}
	if d == nil {
		return out
	}

	for _, s := range d.Slides {
		if s == nil {
			continue
		}

		boxes := []entity.LayoutBox{{
			Kind:     entity.BoxKindText,
			Role:     entity.BoxRoleTitle,
			X:        1, Y: 0.5, W: 11.3, H: 1,
			FontSize: entity.TitleFontSize,
			Text:     s.Title,
		}}

		switch {
		case s.Image.IsReady():
			content := s.Caption
			if content == "" {
				content = strings.Join(s.Bullets, "\n")
			}
			boxes = append(boxes,
				entity.LayoutBox{
					Kind:     entity.BoxKindText,
					Role:     entity.BoxRoleBody,
					X:        1.0, Y: 1.8, W: 6.0, H: 5.0,
					FontSize: entity.BodyFontSize,
					Text:     content,
				},
				entity.LayoutBox{
					Kind:  entity.BoxKindImage,
					Role:  entity.BoxRoleHero,
					X:     7.5, Y: 1.8, W: 5.0, H: 5.0,
					Image: s.Image.Clone(),
				},
			)

		case s.Type == entity.SlideTypeTwoColumns && s.Columns != nil:
			boxes = append(boxes,
				entity.LayoutBox{
					Kind:     entity.BoxKindText,
					Role:     entity.BoxRoleBody,
					X:        1.0, Y: 1.8, W: 5.5, H: 5.0,
					FontSize: entity.BodyFontSize,
					Text:     strings.Join(s.Columns.Left, "\n"),
				},
				entity.LayoutBox{
					Kind:     entity.BoxKindText,
					Role:     entity.BoxRoleBody,
					X:        7.0, Y: 1.8, W: 5.5, H: 5.0,
					FontSize: entity.BodyFontSize,
					Text:     strings.Join(s.Columns.Right, "\n"),
				},
			)

		default:
			boxes = append(boxes, entity.LayoutBox{
				Kind:     entity.BoxKindText,
				Role:     entity.BoxRoleBody,
				X:        1.0, Y: 1.8, W: 11.3, H: 5.0,
				FontSize: entity.BodyFontSize,
				Text:     strings.Join(s.Bullets, "\n"),
			})
		}

		out.Slides = append(out.Slides, entity.LayoutSlide{
			ID:    s.ID,
			Boxes: boxes,
			Notes: s.Notes,
		})
	}
	return out
}
