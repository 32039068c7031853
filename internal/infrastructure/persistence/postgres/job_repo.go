package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"slidegen-ai-api/internal/domain/entity"
	"slidegen-ai-api/pkg/errors"
)

// JobRepository 生成任务仓储实现
type JobRepository struct {
	client *Client
}

// NewJobRepository 创建任务仓储
func NewJobRepository(client *Client) *JobRepository {
	return &JobRepository{client: client}
}

// Create 创建任务
func (r *JobRepository) Create(ctx context.Context, job *entity.DeckJob) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.Create")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Create(job).Error; err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to create job")
	}
	return nil
}

// GetByID 根据 ID 获取任务
func (r *JobRepository) GetByID(ctx context.Context, id string) (*entity.DeckJob, error) {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.GetByID")
	defer span.End()

	var job entity.DeckJob
	if err := r.client.db.WithContext(ctx).First(&job, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.New(errors.CodeJobNotFound, fmt.Sprintf("job %s not found", id))
		}
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to get job")
	}
	return &job, nil
}

// Update 更新任务
func (r *JobRepository) Update(ctx context.Context, job *entity.DeckJob) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.Update")
	defer span.End()

	if err := r.client.db.WithContext(ctx).Save(job).Error; err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to update job")
	}
	return nil
}

// UpdateProgress 更新任务进度（0-100）
func (r *JobRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.UpdateProgress")
	defer span.End()

	err := r.client.db.WithContext(ctx).
		Model(&entity.DeckJob{}).
		Where("id = ?", id).
		Update("progress", progress).Error
	if err != nil {
		span.RecordError(err)
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to update job progress")
	}
	return nil
}

// ListPending 获取待处理任务
func (r *JobRepository) ListPending(ctx context.Context, limit int) ([]*entity.DeckJob, error) {
	ctx, span := tracer.Start(ctx, "postgres.JobRepository.ListPending")
	defer span.End()

	var jobs []*entity.DeckJob
	err := r.client.db.WithContext(ctx).
		Where("status = ?", entity.JobStatusPending).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list pending jobs")
	}
	return jobs, nil
}
