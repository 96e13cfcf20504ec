package repository

import (
	"context"

	"gorm.io/gorm"

	"summit-guard/backend/internal/model"
)

// LeadRepository 销售线索数据访问接口
type LeadRepository interface {
	Create(ctx context.Context, lead *model.Lead) error
	GetByID(ctx context.Context, id string) (*model.Lead, error)
	List(ctx context.Context, status string, offset, limit int) ([]model.Lead, int64, error)
	UpdateStatus(ctx context.Context, leadID, status, operatorID string) error
}

type leadRepo struct {
	db *gorm.DB
}

func NewLeadRepo(db *gorm.DB) LeadRepository {
	return &leadRepo{db: db}
}

func (r *leadRepo) Create(ctx context.Context, lead *model.Lead) error {
	return r.db.WithContext(ctx).Create(lead).Error
}

func (r *leadRepo) GetByID(ctx context.Context, id string) (*model.Lead, error) {
	var lead model.Lead
	err := r.db.WithContext(ctx).
		Where("lead_id = ?", id).
		First(&lead).Error
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (r *leadRepo) List(ctx context.Context, status string, offset, limit int) ([]model.Lead, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Lead{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []model.Lead
	err := query.
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&leads).Error
	if err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

func (r *leadRepo) UpdateStatus(ctx context.Context, leadID, status, operatorID string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Lead{}).
		Where("lead_id = ?", leadID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_by": operatorID,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
