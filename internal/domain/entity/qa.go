// Package entity 定义领域实体
package entity

// IssueCode 编辑审计规则编号
type IssueCode string

const (
	// IssueNarrativeGap 整份触发一次：内容页数不足
	IssueNarrativeGap IssueCode = "NARRATIVE_GAP"
	// IssueWeakTitle 按页触发：标题超长
	IssueWeakTitle IssueCode = "WEAK_TITLE"
)

// FeedbackTicket 一条审计发现
type FeedbackTicket struct {
	IssueCode    IssueCode `json:"issue_code"`
	SlideID      string    `json:"slide_id,omitempty"`
	SuggestedFix string    `json:"suggested_fix"`
}

// Scorecard 审计汇总：passed 当且仅当零工单
type Scorecard struct {
	Passed  bool             `json:"passed"`
	Tickets []FeedbackTicket `json:"tickets"`
}

// EvaluationEnvelope 一次审计-修正周期内的完整产物
type EvaluationEnvelope struct {
	Scorecard Scorecard        `json:"scorecard"`
	Tickets   []FeedbackTicket `json:"tickets"`
}
