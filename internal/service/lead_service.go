package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/model"
	"summit-guard/backend/internal/repository"
)

// ── 线索模块业务错误 ──

var (
	ErrLeadNotFound      = errors.New("线索不存在")
	ErrInvalidLeadStatus = errors.New("非法的线索状态")
)

// LeadService 销售线索业务接口
// Create 由官网公开表单触发，其余操作仅限内部角色
type LeadService interface {
	Create(ctx context.Context, req *dto.CreateLeadRequest) (*model.Lead, error)
	List(ctx context.Context, req *dto.ListLeadsRequest) ([]model.Lead, int64, error)
	UpdateStatus(ctx context.Context, leadID string, req *dto.UpdateLeadStatusRequest, callerID string) error
}

type leadService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeadService 创建 LeadService 实例
func NewLeadService(repo *repository.Repository, logger *zap.Logger) LeadService {
	return &leadService{repo: repo, logger: logger}
}

func (s *leadService) Create(ctx context.Context, req *dto.CreateLeadRequest) (*model.Lead, error) {
	lead := &model.Lead{
		Company:     req.Company,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		ServiceType: req.ServiceType,
		Message:     req.Message,
		Status:      model.LeadStatusNew,
	}
	if err := s.repo.Lead.Create(ctx, lead); err != nil {
		s.logger.Error("创建线索失败", zap.Error(err))
		return nil, err
	}
	s.logger.Info("收到新线索",
		zap.String("lead_id", lead.LeadID),
		zap.String("company", lead.Company))
	return lead, nil
}

func (s *leadService) List(ctx context.Context, req *dto.ListLeadsRequest) ([]model.Lead, int64, error) {
	req.Normalize()
	return s.repo.Lead.List(ctx, req.Status, req.Offset(), req.PageSize)
}

func (s *leadService) UpdateStatus(ctx context.Context, leadID string, req *dto.UpdateLeadStatusRequest, callerID string) error {
	if !model.ValidLeadStatus(req.Status) {
		return ErrInvalidLeadStatus
	}
	err := s.repo.Lead.UpdateStatus(ctx, leadID, req.Status, callerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrLeadNotFound
	}
	return err
}
