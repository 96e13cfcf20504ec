package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"summit-guard/backend/internal/model"
)

// CertificationRepository 保安资质数据访问接口
type CertificationRepository interface {
	Create(ctx context.Context, cert *model.Certification) error
	GetByID(ctx context.Context, id string) (*model.Certification, error)
	ListByGuard(ctx context.Context, guardID string) ([]model.Certification, error)
	Update(ctx context.Context, cert *model.Certification) error
	ListExpiringWithin(ctx context.Context, deadline time.Time) ([]model.Certification, error)
}

type certificationRepo struct {
	db *gorm.DB
}

func NewCertificationRepo(db *gorm.DB) CertificationRepository {
	return &certificationRepo{db: db}
}

func (r *certificationRepo) Create(ctx context.Context, cert *model.Certification) error {
	return r.db.WithContext(ctx).Create(cert).Error
}

func (r *certificationRepo) GetByID(ctx context.Context, id string) (*model.Certification, error) {
	var cert model.Certification
	err := r.db.WithContext(ctx).
		Where("certification_id = ?", id).
		First(&cert).Error
	if err != nil {
		return nil, err
	}
	return &cert, nil
}

func (r *certificationRepo) ListByGuard(ctx context.Context, guardID string) ([]model.Certification, error) {
	var certs []model.Certification
	err := r.db.WithContext(ctx).
		Where("guard_id = ?", guardID).
		Order("expires_at ASC").
		Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}

func (r *certificationRepo) Update(ctx context.Context, cert *model.Certification) error {
	return r.db.WithContext(ctx).
		Model(cert).
		Where("certification_id = ?", cert.CertificationID).
		Updates(map[string]interface{}{
			"expires_at": cert.ExpiresAt,
			"status":     cert.Status,
			"updated_by": cert.UpdatedBy,
		}).Error
}

// ListExpiringWithin 查询在 deadline 前到期且尚未标记为 expired 的资质
func (r *certificationRepo) ListExpiringWithin(ctx context.Context, deadline time.Time) ([]model.Certification, error) {
	var certs []model.Certification
	err := r.db.WithContext(ctx).
		Where("expires_at <= ? AND status != ?", deadline, model.CertStatusExpired).
		Order("expires_at ASC").
		Find(&certs).Error
	if err != nil {
		return nil, err
	}
	return certs, nil
}
