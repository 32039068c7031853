// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"slidegen-ai-api/internal/domain/entity"
)

// DeckRepository 演示文稿仓储接口
type DeckRepository interface {
	// Create 保存生成结果
	Create(ctx context.Context, deck *entity.DeckRecord) error

	// GetByID 根据 ID 获取
	GetByID(ctx context.Context, id string) (*entity.DeckRecord, error)

	// List 按创建时间倒序分页列出
	List(ctx context.Context, offset, limit int) ([]*entity.DeckRecord, int64, error)

	// Delete 删除记录
	Delete(ctx context.Context, id string) error
}

// DeckJobRepository 生成任务仓储接口
type DeckJobRepository interface {
	// Create 创建任务
	Create(ctx context.Context, job *entity.DeckJob) error

	// GetByID 根据 ID 获取任务
	GetByID(ctx context.Context, id string) (*entity.DeckJob, error)

	// Update 更新任务
	Update(ctx context.Context, job *entity.DeckJob) error

	// UpdateProgress 更新任务进度（0-100）
	UpdateProgress(ctx context.Context, id string, progress int) error

	// ListPending 获取待处理任务
	ListPending(ctx context.Context, limit int) ([]*entity.DeckJob, error)
}
