package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeckIR_Normalize(t *testing.T) {
	t.Run("补齐缺省元数据与空id", func(t *testing.T) {
		deck := &DeckIR{
			Meta: DeckMeta{Title: "Plano"},
			Slides: []*SlideIR{
				{Type: SlideTypeTitle, Title: "Abertura"},
				{ID: "custom", Type: SlideTypeSection, Title: "Parte 2"},
				{Type: "BOGUS_TYPE", Title: "Corpo"},
			},
		}

		deck.Normalize()

		assert.Equal(t, "pt-BR", deck.Meta.Language)
		assert.Equal(t, AudienceMixed, deck.Meta.Audience)
		assert.Equal(t, "default", deck.Meta.ThemeID)
		assert.Equal(t, "s1", deck.Slides[0].ID)
		assert.Equal(t, "custom", deck.Slides[1].ID)
		assert.Equal(t, "s3", deck.Slides[2].ID)
		// 未知变体回退为要点页
		assert.Equal(t, SlideTypeTitleBullets, deck.Slides[2].Type)
	})

	t.Run("已有元数据不被覆盖", func(t *testing.T) {
		deck := &DeckIR{
			Meta: DeckMeta{Title: "Plano", Language: "en-US", Audience: AudienceExecutive, ThemeID: "dark"},
		}
		deck.Normalize()
		assert.Equal(t, "en-US", deck.Meta.Language)
		assert.Equal(t, AudienceExecutive, deck.Meta.Audience)
		assert.Equal(t, "dark", deck.Meta.ThemeID)
	})

	t.Run("nil接收者安全", func(t *testing.T) {
		var deck *DeckIR
		assert.NotPanics(t, func() { deck.Normalize() })
	})
}

func TestDeckIR_Validate(t *testing.T) {
	tests := []struct {
		name    string
		deck    *DeckIR
		wantErr bool
	}{
		{
			name: "合法结构",
			deck: &DeckIR{
				Meta:   DeckMeta{Title: "Plano"},
				Slides: []*SlideIR{{ID: "s1", Type: SlideTypeTitle}, {ID: "s2", Type: SlideTypeSection}},
			},
		},
		{
			name:    "nil deck",
			deck:    nil,
			wantErr: true,
		},
		{
			name:    "标题为空",
			deck:    &DeckIR{Meta: DeckMeta{Title: "   "}},
			wantErr: true,
		},
		{
			name: "slide id 为空",
			deck: &DeckIR{
				Meta:   DeckMeta{Title: "Plano"},
				Slides: []*SlideIR{{ID: " ", Type: SlideTypeTitle}},
			},
			wantErr: true,
		},
		{
			name: "slide id 重复",
			deck: &DeckIR{
				Meta:   DeckMeta{Title: "Plano"},
				Slides: []*SlideIR{{ID: "s1"}, {ID: "s1"}},
			},
			wantErr: true,
		},
		{
			name: "nil slide",
			deck: &DeckIR{
				Meta:   DeckMeta{Title: "Plano"},
				Slides: []*SlideIR{nil},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.deck.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImageRef_IsReady(t *testing.T) {
	tests := []struct {
		name string
		ref  *ImageRef
		want bool
	}{
		{"ready且有本地路径", &ImageRef{Status: ImageStatusReady, LocalPath: "/tmp/a.png"}, true},
		{"ready但路径为空", &ImageRef{Status: ImageStatusReady}, false},
		{"ready但路径为空白", &ImageRef{Status: ImageStatusReady, LocalPath: "  "}, false},
		{"missing", &ImageRef{Status: ImageStatusMissing}, false},
		{"error仍保留路径", &ImageRef{Status: ImageStatusError, LocalPath: "/tmp/a.png"}, false},
		{"nil引用", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.IsReady())
		})
	}
}

func TestDeckIR_Clone(t *testing.T) {
	orig := &DeckIR{
		Meta: DeckMeta{Title: "Plano", Language: "pt-BR"},
		Slides: []*SlideIR{
			{
				ID:      "s1",
				Type:    SlideTypeTwoColumns,
				Title:   "Comparação",
				Bullets: []string{"um", "dois"},
				Columns: &TwoColumnsData{Left: []string{"a"}, Right: []string{"b"}},
				Image:   &ImageRef{Status: ImageStatusReady, LocalPath: "/tmp/a.png"},
			},
		},
	}

	clone := orig.Clone()
	require.NotNil(t, clone)

	// 修改克隆不影响原件
	clone.Meta.Title = "Outro"
	clone.Slides[0].Bullets[0] = "alterado"
	clone.Slides[0].Columns.Left[0] = "x"
	clone.Slides[0].Image.Status = ImageStatusError

	assert.Equal(t, "Plano", orig.Meta.Title)
	assert.Equal(t, "um", orig.Slides[0].Bullets[0])
	assert.Equal(t, "a", orig.Slides[0].Columns.Left[0])
	assert.Equal(t, ImageStatusReady, orig.Slides[0].Image.Status)

	var nilDeck *DeckIR
	assert.Nil(t, nilDeck.Clone())
}

func TestContextPack_Meta(t *testing.T) {
	t.Run("SlideTarget多类型取值", func(t *testing.T) {
		assert.Equal(t, 8, (&ContextPack{Meta: map[string]any{MetaKeySlideTarget: 8}}).SlideTarget(5))
		assert.Equal(t, 8, (&ContextPack{Meta: map[string]any{MetaKeySlideTarget: float64(8)}}).SlideTarget(5))
		assert.Equal(t, 5, (&ContextPack{Meta: map[string]any{MetaKeySlideTarget: "8"}}).SlideTarget(5))
		assert.Equal(t, 5, (&ContextPack{}).SlideTarget(5))
	})

	t.Run("MetaString空白回退", func(t *testing.T) {
		pack := &ContextPack{Meta: map[string]any{MetaKeyProvider: "openai", MetaKeyModel: "  "}}
		assert.Equal(t, "openai", pack.MetaString(MetaKeyProvider, "groq"))
		assert.Equal(t, "llama-3.3-70b-versatile", pack.MetaString(MetaKeyModel, "llama-3.3-70b-versatile"))

		var nilPack *ContextPack
		assert.Equal(t, "groq", nilPack.MetaString(MetaKeyProvider, "groq"))
	})
}
