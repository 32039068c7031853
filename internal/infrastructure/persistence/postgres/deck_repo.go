package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/pkg/errors"
)

// DeckRepository 演示文稿仓储实现
type DeckRepository struct {
	client *Client
}

// NewDeckRepository 创建演示文稿仓储
func NewDeckRepository(client *Client) *DeckRepository {
	return &DeckRepository{client: client}
}

// Create 保存生成结果
func (r *DeckRepository) Create(ctx context.Context, deck *entity.DeckRecord) error {
	ctx, span := tracer.Start(ctx, "postgres.DeckRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(deck).Error; err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to create deck record")
	}
	return nil
}

// GetByID 根据 ID 获取
func (r *DeckRepository) GetByID(ctx context.Context, id string) (*entity.DeckRecord, error) {
	ctx, span := tracer.Start(ctx, "postgres.DeckRepository.GetByID")
	defer span.End()

	var record entity.DeckRecord
	if err := r.client.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeDeckNotFound, fmt.Sprintf("deck %s not found", id))
		}
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get deck record")
	}
	return &record, nil
}

// List 按创建时间倒序分页列出
func (r *DeckRepository) List(ctx context.Context, offset, limit int) ([]*entity.DeckRecord, int64, error) {
	ctx, span := tracer.Start(ctx, "postgres.DeckRepository.List")
	defer span.End()

	db := r.client.db.WithContext(ctx).Model(&entity.DeckRecord{})

	var total int64
	if err := db.Count(&total).Error; err != nil {
		span.RecordError(err)
		return nil, 0, errors.Wrap(err, errors.CodeDatabaseError, "failed to count deck records")
	}

	var records []*entity.DeckRecord
	if err := db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&records).Error; err != nil {
		span.RecordError(err)
		return nil, 0, errors.Wrap(err, errors.CodeDatabaseError, "failed to list deck records")
	}
	return records, total, nil
}

// Delete 删除记录
func (r *DeckRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "postgres.DeckRepository.Delete")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Delete(&entity.DeckRecord{}, "id = ?", id).Error; err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to delete deck record")
	}
	return nil
}
