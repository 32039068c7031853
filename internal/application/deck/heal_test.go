package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen-ai-api/internal/domain/entity"
)

func TestHealDeckPayload_SlideMap(t *testing.T) {
	raw := `{
		"Slide 1": {"title": "Visão Geral", "bullets": ["ponto um", "ponto dois"]},
		"Slide 2": {"Título": "Arquitetura", "content": "três camadas"}
	}`

	deck := HealDeckPayload(raw)
	require.NotNil(t, deck)
	assert.Equal(t, "Apresentação", deck.Meta.Title)
	require.Len(t, deck.Slides, 2)

	// 条目顺序保留,id 重编为 s_{n}
	first := deck.Slides[0]
	assert.Equal(t, "s_1", first.ID)
	assert.Equal(t, entity.SlideTypeTitleBullets, first.Type)
	assert.Equal(t, "Visão Geral", first.Title)
	assert.Equal(t, []string{"ponto um", "ponto dois"}, first.Bullets)
	require.NotNil(t, first.Image)
	assert.Equal(t, entity.ImageStatusMissing, first.Image.Status)

	// 标题键大小写与变音符号不敏感,内容键单条成 bullet
	second := deck.Slides[1]
	assert.Equal(t, "s_2", second.ID)
	assert.Equal(t, "Arquitetura", second.Title)
	assert.Equal(t, []string{"três camadas"}, second.Bullets)
}

func TestHealDeckPayload_ListWinsOverContent(t *testing.T) {
	// 列表值字段优先于内容键
	raw := `{"intro": {"content": "resumo", "points": ["a", "b", "c"]}}`

	deck := HealDeckPayload(raw)
	require.Len(t, deck.Slides, 1)
	assert.Equal(t, []string{"a", "b", "c"}, deck.Slides[0].Bullets)
}

func TestHealDeckPayload_ScalarPairs(t *testing.T) {
	// 无列表、无内容键:标量键值对字符串化
	raw := `{"metrics": {"title": "Números", "users": 1200, "uptime": "99.9%"}}`

	deck := HealDeckPayload(raw)
	require.Len(t, deck.Slides, 1)
	s := deck.Slides[0]
	assert.Equal(t, "Números", s.Title)
	assert.Equal(t, []string{"users: 1200", "uptime: 99.9%"}, s.Bullets)
}

func TestHealDeckPayload_NonObjectEntry(t *testing.T) {
	// 条目不是对象:标签当标题,值当内容
	raw := `{"Conclusão": "obrigado pela atenção"}`

	deck := HealDeckPayload(raw)
	require.Len(t, deck.Slides, 1)
	assert.Equal(t, "Conclusão", deck.Slides[0].Title)
	assert.Equal(t, []string{"obrigado pela atenção"}, deck.Slides[0].Bullets)
}

func TestHealDeckPayload_Unrecoverable(t *testing.T) {
	// 连对象都不是:返回零幻灯片的合法 deck
	deck := HealDeckPayload(`[1, 2, 3]`)
	require.NotNil(t, deck)
	assert.Equal(t, "Apresentação", deck.Meta.Title)
	assert.Empty(t, deck.Slides)
	assert.NoError(t, deck.Validate())
}

func TestHealDeckPayload_PreservesEntryOrder(t *testing.T) {
	raw := `{"z": {"title": "Z"}, "a": {"title": "A"}, "m": {"title": "M"}}`

	deck := HealDeckPayload(raw)
	require.Len(t, deck.Slides, 3)
	assert.Equal(t, "Z", deck.Slides[0].Title)
	assert.Equal(t, "A", deck.Slides[1].Title)
	assert.Equal(t, "M", deck.Slides[2].Title)
}
