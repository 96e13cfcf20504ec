package repository

import (
	"context"

	"gorm.io/gorm"

	"summit-guard/backend/internal/model"
)

// SiteRepository 客户驻点数据访问接口
type SiteRepository interface {
	Create(ctx context.Context, site *model.Site) error
	GetByID(ctx context.Context, id string) (*model.Site, error)
	List(ctx context.Context, offset, limit int) ([]model.Site, int64, error)
	Update(ctx context.Context, site *model.Site) error
	Delete(ctx context.Context, id, operatorID string) error
}

type siteRepo struct {
	db *gorm.DB
}

func NewSiteRepo(db *gorm.DB) SiteRepository {
	return &siteRepo{db: db}
}

func (r *siteRepo) Create(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

func (r *siteRepo) GetByID(ctx context.Context, id string) (*model.Site, error) {
	var site model.Site
	err := r.db.WithContext(ctx).
		Where("site_id = ?", id).
		First(&site).Error
	if err != nil {
		return nil, err
	}
	return &site, nil
}

func (r *siteRepo) List(ctx context.Context, offset, limit int) ([]model.Site, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Site{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sites []model.Site
	err := query.
		Order("name ASC").
		Offset(offset).Limit(limit).
		Find(&sites).Error
	if err != nil {
		return nil, 0, err
	}
	return sites, total, nil
}

func (r *siteRepo) Update(ctx context.Context, site *model.Site) error {
	return r.db.WithContext(ctx).
		Model(site).
		Where("site_id = ?", site.SiteID).
		Updates(map[string]interface{}{
			"name":       site.Name,
			"address":    site.Address,
			"latitude":   site.Latitude,
			"longitude":  site.Longitude,
			"is_active":  site.IsActive,
			"updated_by": site.UpdatedBy,
		}).Error
}

func (r *siteRepo) Delete(ctx context.Context, id, operatorID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Site{}).
		Where("site_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_at": gorm.Expr("CURRENT_TIMESTAMP"),
			"deleted_by": operatorID,
		}).Error
}
