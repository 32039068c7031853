package deck

import (
	"strings"

	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/internal/workflow/node"
)

// Auditor 编辑审计规则引擎，阈值可由配置覆盖
type Auditor struct {
	MinSlides      int // 少于该页数触发 NARRATIVE_GAP
	WeakTitleWords int // 标题词数超过该值触发 WEAK_TITLE
	TitleKeepWords int // 修正时保留的标题词数
}

// NewAuditor 使用默认阈值创建审计器
func NewAuditor() *Auditor {
	return &Auditor{
		MinSlides:      2,
		WeakTitleWords: 12,
		TitleKeepWords: 8,
	}
}

// Audit 审计 deck 并汇总工单；规则相互独立，不短路。
// passed 当且仅当零工单。
func (a *Auditor) Audit(deck *entity.DeckIR) *entity.EvaluationEnvelope {
	var tickets []entity.FeedbackTicket
	if deck != nil {
		if len(deck.Slides) < a.minSlides() {
			tickets = append(tickets, entity.FeedbackTicket{
				IssueCode:    entity.IssueNarrativeGap,
				SuggestedFix: "Adicionar mais slides de conteúdo.",
			})
		}
		for _, s := range deck.Slides {
			if s == nil {
				continue
			}
			if len(strings.Fields(s.Title)) > a.weakTitleWords() {
				tickets = append(tickets, entity.FeedbackTicket{
					IssueCode:    entity.IssueWeakTitle,
					SlideID:      s.ID,
					SuggestedFix: "Encurtar título.",
				})
			}
		}
	}

	return &entity.EvaluationEnvelope{
		Scorecard: entity.Scorecard{
			Passed:  len(tickets) == 0,
			Tickets: tickets,
		},
		Tickets: tickets,
	}
}

// ApplyFixes 按工单应用机械修正，返回深拷贝，原 deck 不被修改。
// WEAK_TITLE 截断标题并追加省略号；没有对应修正规则的工单静默忽略。
func (a *Auditor) ApplyFixes(deck *entity.DeckIR, tickets []entity.FeedbackTicket) *entity.DeckIR {
	fixed := deck.Clone()
	if fixed == nil {
		return nil
	}

	for _, t := range tickets {
		switch t.IssueCode {
		case entity.IssueWeakTitle:
			if t.SlideID == "" {
				continue
			}
			if s := fixed.SlideByID(t.SlideID); s != nil {
				s.Title = node.TruncateWords(s.Title, a.titleKeepWords())
			}
		}
	}
	return fixed
}

func (a *Auditor) minSlides() int {
	if a == nil || a.MinSlides <= 0 {
		return 2
	}
	return a.MinSlides
}

func (a *Auditor) weakTitleWords() int {
	if a == nil || a.WeakTitleWords <= 0 {
		return 12
	}
	return a.WeakTitleWords
}

func (a *Auditor) titleKeepWords() int {
	if a == nil || a.TitleKeepWords <= 0 {
		return 8
	}
	return a.TitleKeepWords
}
