package dto

import (
	"encoding/json"
	"time"

	"slidegen-ai-api/internal/domain/entity"
)

// GenerateDeckRequest 生成演示文稿请求
type GenerateDeckRequest struct {
	Prompt      string `json:"prompt" binding:"required,min=1,max=4000"`
	ContextText string `json:"context_text,omitempty" binding:"max=100000"`
	OutputFile  string `json:"output_file,omitempty" binding:"max=255"`
	Provider    string `json:"provider,omitempty" binding:"max=64"`
	Model       string `json:"model,omitempty" binding:"max=128"`
}

// GenerateDeckResponse 同步生成响应
type GenerateDeckResponse struct {
	DeckID     string              `json:"deck_id"`
	Title      string              `json:"title"`
	SlideCount int                 `json:"slide_count"`
	OutputPath string              `json:"output_path"`
	QAPassed   bool                `json:"qa_passed"`
	QATickets  []*QATicketResponse `json:"qa_tickets,omitempty"`
	Slides     []*SlideSummary     `json:"slides,omitempty"`
}

// QATicketResponse 质检问题响应
type QATicketResponse struct {
	IssueCode    string `json:"issue_code"`
	SlideID      string `json:"slide_id,omitempty"`
	SuggestedFix string `json:"suggested_fix,omitempty"`
}

// SlideSummary 幻灯片摘要
type SlideSummary struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	BulletCount int    `json:"bullet_count"`
	ImageStatus string `json:"image_status,omitempty"`
}

// DeckResponse 演示文稿详情响应
type DeckResponse struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Language   string          `json:"language,omitempty"`
	Audience   string          `json:"audience,omitempty"`
	ThemeID    string          `json:"theme_id,omitempty"`
	SlideCount int             `json:"slide_count"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	FilePath   string          `json:"file_path,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// DeckListItem 演示文稿列表项
type DeckListItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Language   string    `json:"language,omitempty"`
	SlideCount int       `json:"slide_count"`
	FilePath   string    `json:"file_path,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DeckListResponse 演示文稿列表响应
type DeckListResponse struct {
	Decks []*DeckListItem `json:"decks"`
}

// DeckJobResponse 异步任务响应
type DeckJobResponse struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	Progress     int       `json:"progress"`
	RetryCount   int       `json:"retry_count"`
	DeckID       string    `json:"deck_id,omitempty"`
	OutputPath   string    `json:"output_path,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	StartedAt    time.Time `json:"started_at,omitempty"`
	CompletedAt  time.Time `json:"completed_at,omitempty"`
}

// ToQATicketResponses 将质检问题转换为响应 DTO
func ToQATicketResponses(tickets []entity.FeedbackTicket) []*QATicketResponse {
	resp := make([]*QATicketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, &QATicketResponse{
			IssueCode:    string(t.IssueCode),
			SlideID:      t.SlideID,
			SuggestedFix: t.SuggestedFix,
		})
	}
	return resp
}

// ToSlideSummaries 将幻灯片列表转换为摘要 DTO
func ToSlideSummaries(slides []*entity.SlideIR) []*SlideSummary {
	resp := make([]*SlideSummary, 0, len(slides))
	for _, s := range slides {
		if s == nil {
			continue
		}
		item := &SlideSummary{
			ID:          s.ID,
			Type:        string(s.Type),
			Title:       s.Title,
			BulletCount: len(s.Bullets),
		}
		if s.Image != nil {
			item.ImageStatus = string(s.Image.Status)
		}
		resp = append(resp, item)
	}
	return resp
}

// ToDeckResponse 将持久化记录转换为响应 DTO
func ToDeckResponse(r *entity.DeckRecord) *DeckResponse {
	if r == nil {
		return nil
	}
	return &DeckResponse{
		ID:         r.ID,
		Title:      r.Title,
		Language:   r.Language,
		Audience:   string(r.Audience),
		ThemeID:    r.ThemeID,
		SlideCount: r.SlideCount,
		Payload:    r.Payload,
		FilePath:   r.FilePath,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

// ToDeckListResponse 将持久化记录列表转换为列表响应
func ToDeckListResponse(records []*entity.DeckRecord) *DeckListResponse {
	resp := &DeckListResponse{
		Decks: make([]*DeckListItem, 0, len(records)),
	}
	for _, r := range records {
		if r == nil {
			continue
		}
		resp.Decks = append(resp.Decks, &DeckListItem{
			ID:         r.ID,
			Title:      r.Title,
			Language:   r.Language,
			SlideCount: r.SlideCount,
			FilePath:   r.FilePath,
			CreatedAt:  r.CreatedAt,
		})
	}
	return resp
}

// ToDeckJobResponse 将任务实体转换为响应 DTO
func ToDeckJobResponse(j *entity.DeckJob) *DeckJobResponse {
	if j == nil {
		return nil
	}

	resp := &DeckJobResponse{
		ID:           j.ID,
		Status:       string(j.Status),
		Progress:     j.Progress,
		RetryCount:   j.RetryCount,
		DeckID:       j.DeckID,
		OutputPath:   j.OutputPath,
		ErrorMessage: j.ErrorMessage,
		CreatedAt:    j.CreatedAt,
		UpdatedAt:    j.UpdatedAt,
	}

	if j.StartedAt != nil {
		resp.StartedAt = *j.StartedAt
	}
	if j.CompletedAt != nil {
		resp.CompletedAt = *j.CompletedAt
	}

	return resp
}
