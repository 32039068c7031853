package deck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/domain/entity"
	wfmodel "slidegen-ai-api/internal/workflow/model"
	apperrors "slidegen-ai-api/pkg/errors"
)

type fakeDeckGenerator struct {
	deck *entity.DeckIR
	err  error
	pack *entity.ContextPack
}

func (f *fakeDeckGenerator) Generate(_ context.Context, pack *entity.ContextPack) (*entity.DeckIR, *wfmodel.DeckGenerateOutput, error) {
	f.pack = pack
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.deck, &wfmodel.DeckGenerateOutput{}, nil
}

type fakeRenderer struct {
	layout *entity.LayoutDeck
	path   string
	err    error
}

func (f *fakeRenderer) Render(_ context.Context, layout *entity.LayoutDeck, path string) (string, error) {
	f.layout = layout
	f.path = path
	if f.err != nil {
		return "", f.err
	}
	return path, nil
}

func threeSlideDeck() *entity.DeckIR {
	return &entity.DeckIR{
		Meta: entity.DeckMeta{Title: "Go"},
		Slides: []*entity.SlideIR{
			{ID: "s1", Type: entity.SlideTypeTitle, Title: "Go"},
			{ID: "s2", Type: entity.SlideTypeTitleBullets, Title: "Básico", Bullets: []string{"a"}},
			{ID: "s3", Type: entity.SlideTypeTitleBullets, Title: "Fim"},
		},
	}
}

func TestPipeline_Run(t *testing.T) {
	gen := &fakeDeckGenerator{deck: threeSlideDeck()}
	renderer := &fakeRenderer{}
	p := NewPipeline(nil, gen, nil, nil, renderer)

	result, err := p.Run(context.Background(), "uma apresentação com 3 slides sobre Go", "material de apoio", "deck.pptx")
	require.NoError(t, err)

	// 页数识别进入 ContextPack
	require.NotNil(t, gen.pack)
	assert.Equal(t, 3, gen.pack.SlideTarget(0))
	assert.Equal(t, "material de apoio", gen.pack.CleanedText)

	// 审计通过,无工单
	require.NotNil(t, result.Evaluation)
	assert.True(t, result.Evaluation.Scorecard.Passed)

	// 每页排版:标题盒+正文盒
	require.Len(t, result.Layout.Slides, 3)
	assert.Len(t, result.Layout.Slides[0].Boxes, 2)

	assert.Equal(t, result.OutputPath, renderer.path)
	assert.Contains(t, result.OutputPath, "deck.pptx")
}

func TestPipeline_Run_AppliesQAFixes(t *testing.T) {
	deck := &entity.DeckIR{
		Meta: entity.DeckMeta{Title: "T"},
		Slides: []*entity.SlideIR{{
			ID:    "s1",
			Type:  entity.SlideTypeTitleBullets,
			Title: "um dois três quatro cinco seis sete oito nove dez onze doze treze",
		}},
	}
	gen := &fakeDeckGenerator{deck: deck}
	renderer := &fakeRenderer{}
	p := NewPipeline(nil, gen, nil, nil, renderer)

	result, err := p.Run(context.Background(), "apresentação", "", "")
	require.NoError(t, err)

	assert.False(t, result.Evaluation.Scorecard.Passed)
	// NARRATIVE_GAP (1 < 2 páginas) + WEAK_TITLE
	assert.Len(t, result.Evaluation.Tickets, 2)
	assert.Equal(t, "um dois três quatro cinco seis sete oito...", result.Deck.Slides[0].Title)
}

func TestPipeline_Run_EmptyPrompt(t *testing.T) {
	p := NewPipeline(nil, &fakeDeckGenerator{deck: threeSlideDeck()}, nil, nil, &fakeRenderer{})

	_, err := p.Run(context.Background(), "   ", "", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidParam, apperrors.AsAppError(err).Code)
}

func TestPipeline_Run_GeneratorFailureIsFatal(t *testing.T) {
	gen := &fakeDeckGenerator{err: errors.New("llm timeout")}
	p := NewPipeline(nil, gen, nil, nil, &fakeRenderer{})

	_, err := p.Run(context.Background(), "apresentação", "", "")
	require.Error(t, err)
}

func TestPipeline_Run_RenderFailureIsFatal(t *testing.T) {
	renderer := &fakeRenderer{err: errors.New("disk full")}
	p := NewPipeline(nil, &fakeDeckGenerator{deck: threeSlideDeck()}, nil, nil, renderer)

	_, err := p.Run(context.Background(), "apresentação", "", "")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRenderFailed, apperrors.AsAppError(err).Code)
}

func TestPipeline_ResolveOutputPath(t *testing.T) {
	cfg := &config.Config{}
	cfg.Render.OutputDir = "artifacts"
	cfg.Render.DefaultFilename = "deck.pptx"
	p := NewPipeline(cfg, &fakeDeckGenerator{}, nil, nil, &fakeRenderer{})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"空输入用配置默认", "", "artifacts/deck.pptx"},
		{"纯文件名拼到输出目录", "minha.pptx", "artifacts/minha.pptx"},
		{"带目录的相对路径保留", "out/minha.pptx", "out/minha.pptx"},
		{"绝对路径保留", "/tmp/minha.pptx", "/tmp/minha.pptx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.resolveOutputPath(tt.input))
		})
	}
}

func TestPipeline_RunWithOptions_ProviderOverride(t *testing.T) {
	gen := &fakeDeckGenerator{deck: threeSlideDeck()}
	p := NewPipeline(nil, gen, nil, nil, &fakeRenderer{})

	_, err := p.RunWithOptions(context.Background(), "apresentação", "", "", &RunOptions{
		Provider: "openai",
		Model:    "gpt-4o-mini",
	})
	require.NoError(t, err)
	assert.Equal(t, "openai", gen.pack.MetaString(entity.MetaKeyProvider, ""))
	assert.Equal(t, "gpt-4o-mini", gen.pack.MetaString(entity.MetaKeyModel, ""))
}
