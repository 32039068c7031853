// Package entity 定义领域实体
package entity

import (
	"encoding/json"
	"time"
)

// JobStatus 任务状态
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// DeckJob 异步生成任务
type DeckJob struct {
	ID           string     `json:"id" gorm:"type:uuid;primaryKey"`
	Prompt       string     `json:"prompt" gorm:"type:text;not null"`
	ContextText  string     `json:"context_text,omitempty" gorm:"type:text"`
	OutputFile   string     `json:"output_file,omitempty" gorm:"type:varchar(255)"`
	Provider     string     `json:"provider,omitempty" gorm:"type:varchar(64)"`
	Model        string     `json:"model,omitempty" gorm:"type:varchar(128)"`
	Status       JobStatus  `json:"status" gorm:"type:varchar(32);default:'pending';index"`
	Progress     int        `json:"progress" gorm:"default:0"`
	RetryCount   int        `json:"retry_count" gorm:"default:0"`
	DeckID       string     `json:"deck_id,omitempty" gorm:"type:uuid;index"`
	OutputPath   string     `json:"output_path,omitempty" gorm:"type:varchar(512)"`
	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// TableName 指定表名
func (DeckJob) TableName() string {
	return "deck_jobs"
}

// NewDeckJob 创建新任务
func NewDeckJob(id, prompt, contextText, outputFile string) *DeckJob {
	now := time.Now()
	return &DeckJob{
		ID:          id,
		Prompt:      prompt,
		ContextText: contextText,
		OutputFile:  outputFile,
		Status:      JobStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MarkRunning 标记开始执行
func (j *DeckJob) MarkRunning() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkCompleted 标记执行成功
func (j *DeckJob) MarkCompleted(deckID, outputPath string) {
	now := time.Now()
	j.Status = JobStatusCompleted
	j.DeckID = deckID
	j.OutputPath = outputPath
	j.Progress = 100
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkFailed 标记执行失败
func (j *DeckJob) MarkFailed(errMsg string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// DeckRecord 已生成演示文稿的持久化记录
type DeckRecord struct {
	ID         string          `json:"id" gorm:"type:uuid;primaryKey"`
	Title      string          `json:"title" gorm:"type:varchar(255);not null"`
	Language   string          `json:"language,omitempty" gorm:"type:varchar(16)"`
	Audience   Audience        `json:"audience,omitempty" gorm:"type:varchar(32)"`
	ThemeID    string          `json:"theme_id,omitempty" gorm:"type:varchar(64)"`
	SlideCount int             `json:"slide_count" gorm:"default:0"`
	Payload    json.RawMessage `json:"payload" gorm:"type:jsonb"`
	FilePath   string          `json:"file_path,omitempty" gorm:"type:varchar(512)"`
	CreatedAt  time.Time       `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName 指定表名
func (DeckRecord) TableName() string {
	return "decks"
}

// NewDeckRecord 由 Deck IR 构建持久化记录
func NewDeckRecord(id string, deck *DeckIR, filePath string) (*DeckRecord, error) {
	payload, err := json.Marshal(deck)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &DeckRecord{
		ID:         id,
		Title:      deck.Meta.Title,
		Language:   deck.Meta.Language,
		Audience:   deck.Meta.Audience,
		ThemeID:    deck.Meta.ThemeID,
		SlideCount: len(deck.Slides),
		Payload:    payload,
		FilePath:   filePath,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// DeckIR 还原中间表示
func (r *DeckRecord) DeckIR() (*DeckIR, error) {
	var deck DeckIR
	if err := json.Unmarshal(r.Payload, &deck); err != nil {
		return nil, err
	}
	return &deck, nil
}
