package deck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen-ai-api/internal/config"
	"slidegen-ai-api/internal/domain/entity"
	wfmodel "slidegen-ai-api/internal/workflow/model"
	"slidegen-ai-api/pkg/errors"
)

type fakeChain struct {
	payload string
	in      *wfmodel.DeckGenerateInput
}

func (f *fakeChain) Invoke(_ context.Context, in *wfmodel.DeckGenerateInput) (*wfmodel.DeckGenerateOutput, error) {
	f.in = in
	return &wfmodel.DeckGenerateOutput{RawPayload: f.payload}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.DefaultProvider = "groq"
	cfg.LLM.Providers = map[string]config.ProviderConfig{
		"groq": {Model: "llama-3.3-70b-versatile"},
	}
	cfg.Pipeline.SourcePreviewChars = 10
	cfg.Pipeline.Language = "pt-BR"
	return cfg
}

func TestGenerator_Generate(t *testing.T) {
	chain := &fakeChain{payload: `{"meta": {"title": "Go"}, "slides": [{"id": "s1", "type": "TITLE", "title": "Go"}]}`}
	g := NewGenerator(chain, testConfig())

	pack := &entity.ContextPack{
		Prompt:      "apresentação sobre Go",
		CleanedText: "um texto de apoio bastante longo",
		Meta:        map[string]any{entity.MetaKeySlideTarget: 4},
	}

	deck, out, err := g.Generate(context.Background(), pack)
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, "Go", deck.Meta.Title)

	// 链输入携带配置与截断后的素材预览
	require.NotNil(t, chain.in)
	assert.Equal(t, 4, chain.in.SlideTarget)
	assert.Equal(t, "groq", chain.in.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", chain.in.Model)
	assert.Equal(t, "pt-BR", chain.in.Language)
	assert.Equal(t, "um texto d", chain.in.SourcePreview)
}

func TestGenerator_Generate_ProviderOverride(t *testing.T) {
	chain := &fakeChain{payload: `{"meta": {"title": "T"}, "slides": []}`}
	g := NewGenerator(chain, testConfig())

	pack := &entity.ContextPack{
		Prompt: "x",
		Meta: map[string]any{
			entity.MetaKeyProvider: "openai",
			entity.MetaKeyModel:    "gpt-4o-mini",
		},
	}

	_, _, err := g.Generate(context.Background(), pack)
	require.NoError(t, err)
	assert.Equal(t, "openai", chain.in.Provider)
	assert.Equal(t, "gpt-4o-mini", chain.in.Model)
}

func TestGenerator_Generate_InvalidPayload(t *testing.T) {
	chain := &fakeChain{payload: "sem json aqui"}
	g := NewGenerator(chain, testConfig())

	_, _, err := g.Generate(context.Background(), &entity.ContextPack{Prompt: "x"})
	require.Error(t, err)
	assert.Equal(t, errors.CodeDeckParseFailed, errors.AsAppError(err).Code)
}

func TestGenerator_Generate_NilPack(t *testing.T) {
	g := NewGenerator(&fakeChain{}, testConfig())
	_, _, err := g.Generate(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidParam, errors.AsAppError(err).Code)
}
