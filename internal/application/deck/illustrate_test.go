package deck

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen-ai-api/internal/domain/entity"
)

type fakeImageGen struct {
	path    string
	err     error
	prompts []string
}

func (f *fakeImageGen) Generate(_ context.Context, prompt, _ string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.path, f.err
}

func (f *fakeImageGen) Backend() string { return "fake" }

type fakeValidator struct{ ok bool }

func (f *fakeValidator) Validate(context.Context, string, string) bool { return f.ok }

func TestIllustrator_AllSlidesGetImages(t *testing.T) {
	gen := &fakeImageGen{path: "/tmp/out.png"}
	il := NewIllustrator(gen, &fakeValidator{ok: true})

	d := &entity.DeckIR{
		Meta: entity.DeckMeta{Title: "T"},
		Slides: []*entity.SlideIR{
			{ID: "s1", Title: "Primeiro"},
			{ID: "s2", Title: "Segundo", Image: entity.NewMissingImage()},
		},
	}

	il.Illustrate(context.Background(), d)

	for _, s := range d.Slides {
		require.NotNil(t, s.Image)
		assert.Equal(t, entity.ImageStatusReady, s.Image.Status)
		assert.Equal(t, "/tmp/out.png", s.Image.LocalPath)
		assert.True(t, s.Image.IsReady())
	}
	assert.Len(t, gen.prompts, 2)
}

func TestIllustrator_SynthesizesPrompt(t *testing.T) {
	gen := &fakeImageGen{path: "/tmp/out.png"}
	il := NewIllustrator(gen, nil)

	d := &entity.DeckIR{
		Meta: entity.DeckMeta{Title: "T"},
		Slides: []*entity.SlideIR{{
			ID:      "s1",
			Title:   "Arquitetura",
			Bullets: []string{"camadas", "portas", "adaptadores"},
		}},
	}
	il.Illustrate(context.Background(), d)

	require.Len(t, gen.prompts, 1)
	assert.Equal(t,
		"Professional illustration, cinematic lighting, 8k. Subject: Arquitetura. Context: camadas. portas. Style: Futuristic Minimalism.",
		gen.prompts[0],
	)
}

func TestIllustrator_GenerationFailure(t *testing.T) {
	gen := &fakeImageGen{err: errors.New("backend down")}
	il := NewIllustrator(gen, &fakeValidator{ok: true})

	d := &entity.DeckIR{Slides: []*entity.SlideIR{{ID: "s1", Title: "X"}}}
	il.Illustrate(context.Background(), d)

	img := d.Slides[0].Image
	require.NotNil(t, img)
	assert.Equal(t, entity.ImageStatusError, img.Status)
	assert.False(t, img.IsReady())
}

func TestIllustrator_ValidatorRejection(t *testing.T) {
	gen := &fakeImageGen{path: "/tmp/small.png"}
	il := NewIllustrator(gen, &fakeValidator{ok: false})

	d := &entity.DeckIR{Slides: []*entity.SlideIR{{ID: "s1", Title: "X"}}}
	il.Illustrate(context.Background(), d)

	img := d.Slides[0].Image
	assert.Equal(t, entity.ImageStatusError, img.Status)
	// 路径保留便于排查,但不参与排版
	assert.Equal(t, "/tmp/small.png", img.LocalPath)
	assert.False(t, img.IsReady())
}

func TestIllustrator_SkipsReadyImages(t *testing.T) {
	gen := &fakeImageGen{path: "/tmp/new.png"}
	il := NewIllustrator(gen, nil)

	d := &entity.DeckIR{Slides: []*entity.SlideIR{{
		ID:    "s1",
		Title: "X",
		Image: &entity.ImageRef{Status: entity.ImageStatusReady, LocalPath: "/tmp/old.png"},
	}}}
	il.Illustrate(context.Background(), d)

	assert.Empty(t, gen.prompts)
	assert.Equal(t, "/tmp/old.png", d.Slides[0].Image.LocalPath)
}

func TestSynthesizeImagePrompt_FallsBackToTitle(t *testing.T) {
	s := &entity.SlideIR{Title: "Só título"}
	got := SynthesizeImagePrompt(s)
	assert.Contains(t, got, "Subject: Só título")
	assert.Contains(t, got, "Context: Só título")
}
