package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/pkg/errors"
)

func TestParseDeckPayload_WellFormed(t *testing.T) {
	raw := `{
		"meta": {"title": "Go em Produção", "language": "pt-BR"},
		"slides": [
			{"id": "s1", "type": "TITLE", "title": "Go em Produção"},
			{"id": "s2", "type": "TITLE_BULLETS", "title": "Por quê Go", "bullets": ["simples", "rápido"]}
		]
	}`

	deck, _, err := ParseDeckPayload(raw)
	require.NoError(t, err)
	require.Len(t, deck.Slides, 2)
	assert.Equal(t, "Go em Produção", deck.Meta.Title)
	assert.Equal(t, "s1", deck.Slides[0].ID)
	assert.Equal(t, entity.SlideTypeTitle, deck.Slides[0].Type)
	assert.Equal(t, []string{"simples", "rápido"}, deck.Slides[1].Bullets)
}

func TestParseDeckPayload_FencedOutput(t *testing.T) {
	raw := "Segue o deck:\n```json\n{\"meta\": {\"title\": \"T\"}, \"slides\": [{\"type\": \"TITLE\", \"title\": \"T\"}]}\n```"

	deck, _, err := ParseDeckPayload(raw)
	require.NoError(t, err)
	require.Len(t, deck.Slides, 1)
	// 缺省 id 按序补齐
	assert.Equal(t, "s1", deck.Slides[0].ID)
}

func TestParseDeckPayload_NormalizeDefaults(t *testing.T) {
	raw := `{"meta": {"title": "T"}, "slides": [{"id": "s1", "type": "BOGUS_TYPE", "title": "X"}]}`

	deck, _, err := ParseDeckPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "pt-BR", deck.Meta.Language)
	assert.Equal(t, entity.AudienceMixed, deck.Meta.Audience)
	assert.Equal(t, "default", deck.Meta.ThemeID)
	// 未知变体回退为 TITLE_BULLETS
	assert.Equal(t, entity.SlideTypeTitleBullets, deck.Slides[0].Type)
}

func TestParseDeckPayload_Malformed(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantCode errors.ErrorCode
	}{
		{"空输出", "", errors.CodeDeckParseFailed},
		{"纯说明文本", "não consegui gerar o deck", errors.CodeDeckParseFailed},
		{"截断的 JSON", `{"meta": {"title": "T", "slides": [`, errors.CodeDeckParseFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseDeckPayload(tt.raw)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.AsAppError(err).Code)
		})
	}
}

func TestParseDeckPayload_HealsUnknownShape(t *testing.T) {
	// 顶层不是 meta+slides,走结构修复
	raw := `{"Slide 1": {"title": "Introdução", "bullets": ["a", "b"]}}`

	deck, _, err := ParseDeckPayload(raw)
	require.NoError(t, err)
	assert.Equal(t, "Apresentação", deck.Meta.Title)
	require.Len(t, deck.Slides, 1)
	assert.Equal(t, "s_1", deck.Slides[0].ID)
	assert.Equal(t, "Introdução", deck.Slides[0].Title)
}
