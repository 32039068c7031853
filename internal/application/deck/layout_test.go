package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen-ai-api/internal/domain/entity"
)

func TestComputeLayout_DefaultBody(t *testing.T) {
	d := &entity.DeckIR{
		Meta: entity.DeckMeta{Title: "T"},
		Slides: []*entity.SlideIR{{
			ID:      "s1",
			Type:    entity.SlideTypeTitleBullets,
			Title:   "Título",
			Bullets: []string{"um", "dois"},
		}},
	}

	layout := ComputeLayout(d)
	require.Len(t, layout.Slides, 1)
	boxes := layout.Slides[0].Boxes
	require.Len(t, boxes, 2)

	title := boxes[0]
	assert.Equal(t, entity.BoxRoleTitle, title.Role)
	assert.Equal(t, 1.0, title.X)
	assert.Equal(t, 0.5, title.Y)
	assert.Equal(t, 11.3, title.W)
	assert.Equal(t, 1.0, title.H)
	assert.Equal(t, entity.TitleFontSize, title.FontSize)

	body := boxes[1]
	assert.Equal(t, entity.BoxRoleBody, body.Role)
	assert.Equal(t, 11.3, body.W)
	assert.Equal(t, "um\ndois", body.Text)
}

func TestComputeLayout_HybridWithReadyImage(t *testing.T) {
	d := &entity.DeckIR{
		Meta: entity.DeckMeta{Title: "T"},
		Slides: []*entity.SlideIR{{
			ID:      "s1",
			Type:    entity.SlideTypeImageCaption,
			Title:   "Com imagem",
			Caption: "legenda",
			Image: &entity.ImageRef{
				Status:    entity.ImageStatusReady,
				LocalPath: "/tmp/img.png",
			},
		}},
	}

	layout := ComputeLayout(d)
	boxes := layout.Slides[0].Boxes
	require.Len(t, boxes, 3)

	body := boxes[1]
	assert.Equal(t, entity.BoxKindText, body.Kind)
	assert.Equal(t, 6.0, body.W)
	assert.Equal(t, "legenda", body.Text)

	img := boxes[2]
	assert.Equal(t, entity.BoxKindImage, img.Kind)
	assert.Equal(t, entity.BoxRoleHero, img.Role)
	assert.Equal(t, 7.5, img.X)
	assert.Equal(t, 5.0, img.W)
	require.NotNil(t, img.Image)
	assert.Equal(t, "/tmp/img.png", img.Image.LocalPath)
}

func TestComputeLayout_ImageNotReadyFallsBack(t *testing.T) {
	// 生成失败或校验被拒的配图不参与排版
	for _, status := range []entity.ImageStatus{
		entity.ImageStatusMissing,
		entity.ImageStatusGenerating,
		entity.ImageStatusError,
	} {
		d := &entity.DeckIR{
			Meta: entity.DeckMeta{Title: "T"},
			Slides: []*entity.SlideIR{{
				ID:      "s1",
				Type:    entity.SlideTypeImageCaption,
				Title:   "X",
				Bullets: []string{"b"},
				Image:   &entity.ImageRef{Status: status, LocalPath: "/tmp/img.png"},
			}},
		}
		boxes := ComputeLayout(d).Slides[0].Boxes
		require.Len(t, boxes, 2, "status=%s", status)
		assert.Equal(t, entity.BoxKindText, boxes[1].Kind)
	}

	// ready 但无本地文件路径同样回退
	d := &entity.DeckIR{
		Meta: entity.DeckMeta{Title: "T"},
		Slides: []*entity.SlideIR{{
			ID:    "s1",
			Type:  entity.SlideTypeImageCaption,
			Title: "X",
			Image: &entity.ImageRef{Status: entity.ImageStatusReady},
		}},
	}
	require.Len(t, ComputeLayout(d).Slides[0].Boxes, 2)
}

func TestComputeLayout_TwoColumns(t *testing.T) {
	d := &entity.DeckIR{
		Meta: entity.DeckMeta{Title: "T"},
		Slides: []*entity.SlideIR{{
			ID:    "s1",
			Type:  entity.SlideTypeTwoColumns,
			Title: "Comparação",
			Columns: &entity.TwoColumnsData{
				Left:  []string{"prós"},
				Right: []string{"contras"},
			},
		}},
	}

	boxes := ComputeLayout(d).Slides[0].Boxes
	require.Len(t, boxes, 3)

	left, right := boxes[1], boxes[2]
	assert.Equal(t, 1.0, left.X)
	assert.Equal(t, 5.5, left.W)
	assert.Equal(t, "prós", left.Text)
	assert.Equal(t, 7.0, right.X)
	assert.Equal(t, 5.5, right.W)
	assert.Equal(t, "contras", right.Text)
}

func TestComputeLayout_NilSafe(t *testing.T) {
	assert.Empty(t, ComputeLayout(nil).Slides)

	d := &entity.DeckIR{Slides: []*entity.SlideIR{nil, {ID: "s2", Title: "ok"}}}
	layout := ComputeLayout(d)
	require.Len(t, layout.Slides, 1)
	assert.Equal(t, "s2", layout.Slides[0].ID)
}
