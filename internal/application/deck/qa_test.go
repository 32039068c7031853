package deck

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidegen-ai-api/internal/domain/entity"
)

func deckWithSlides(titles ...string) *entity.DeckIR {
	d := &entity.DeckIR{Meta: entity.DeckMeta{Title: "T"}}
	for i, title := range titles {
		d.Slides = append(d.Slides, &entity.SlideIR{
			ID:    "s" + string(rune('1'+i)),
			Type:  entity.SlideTypeTitleBullets,
			Title: title,
		})
	}
	return d
}

func TestAuditor_Audit_Passes(t *testing.T) {
	a := NewAuditor()
	env := a.Audit(deckWithSlides("Primeiro", "Segundo", "Terceiro"))

	assert.True(t, env.Scorecard.Passed)
	assert.Empty(t, env.Tickets)
}

func TestAuditor_Audit_NarrativeGap(t *testing.T) {
	a := NewAuditor()
	env := a.Audit(deckWithSlides("Único slide"))

	require.Len(t, env.Tickets, 1)
	assert.False(t, env.Scorecard.Passed)
	ticket := env.Tickets[0]
	assert.Equal(t, entity.IssueNarrativeGap, ticket.IssueCode)
	assert.Empty(t, ticket.SlideID)
	assert.Equal(t, "Adicionar mais slides de conteúdo.", ticket.SuggestedFix)
}

func TestAuditor_Audit_WeakTitle(t *testing.T) {
	a := NewAuditor()
	longTitle := strings.Repeat("palavra ", 15)
	env := a.Audit(deckWithSlides("Curto", longTitle, "Outro"))

	require.Len(t, env.Tickets, 1)
	ticket := env.Tickets[0]
	assert.Equal(t, entity.IssueWeakTitle, ticket.IssueCode)
	assert.Equal(t, "s2", ticket.SlideID)
	assert.Equal(t, "Encurtar título.", ticket.SuggestedFix)
}

func TestAuditor_Audit_RulesIndependent(t *testing.T) {
	// 页数不足与标题超长同时触发
	a := NewAuditor()
	env := a.Audit(deckWithSlides(strings.Repeat("w ", 20)))

	require.Len(t, env.Tickets, 2)
	assert.Equal(t, entity.IssueNarrativeGap, env.Tickets[0].IssueCode)
	assert.Equal(t, entity.IssueWeakTitle, env.Tickets[1].IssueCode)
}

func TestAuditor_ApplyFixes_TruncatesTitle(t *testing.T) {
	a := NewAuditor()
	long := "um dois três quatro cinco seis sete oito nove dez onze doze treze"
	original := deckWithSlides(long)

	env := a.Audit(original)
	fixed := a.ApplyFixes(original, env.Tickets)

	// 原 deck 不被修改
	assert.Equal(t, long, original.Slides[0].Title)

	got := fixed.Slides[0].Title
	assert.Equal(t, "um dois três quatro cinco seis sete oito...", got)
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestAuditor_ApplyFixes_IgnoresUnknownCodes(t *testing.T) {
	a := NewAuditor()
	d := deckWithSlides("Título")
	fixed := a.ApplyFixes(d, []entity.FeedbackTicket{
		{IssueCode: "UNKNOWN_RULE", SlideID: "s1"},
		{IssueCode: entity.IssueNarrativeGap},
	})

	assert.Equal(t, "Título", fixed.Slides[0].Title)
	assert.Len(t, fixed.Slides, 1)
}

func TestAuditor_ConfigurableThresholds(t *testing.T) {
	a := &Auditor{MinSlides: 4, WeakTitleWords: 3, TitleKeepWords: 2}
	env := a.Audit(deckWithSlides("um dois três quatro", "b", "c"))

	// 3 < 4 页触发 NARRATIVE_GAP,4 > 3 词触发 WEAK_TITLE
	require.Len(t, env.Tickets, 2)

	fixed := a.ApplyFixes(deckWithSlides("um dois três quatro"), env.Tickets[1:])
	assert.Equal(t, "um dois...", fixed.Slides[0].Title)
}
