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

// SiteService 客户驻点管理业务接口
type SiteService interface {
	Create(ctx context.Context, req *dto.CreateSiteRequest, callerID string) (*model.Site, error)
	GetByID(ctx context.Context, siteID string) (*model.Site, error)
	List(ctx context.Context, page *dto.PaginationRequest) ([]model.Site, int64, error)
	Update(ctx context.Context, siteID string, req *dto.UpdateSiteRequest, callerID string) (*model.Site, error)
	Delete(ctx context.Context, siteID, callerID string) error
}

type siteService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSiteService 创建 SiteService 实例
func NewSiteService(repo *repository.Repository, logger *zap.Logger) SiteService {
	return &siteService{repo: repo, logger: logger}
}

func (s *siteService) Create(ctx context.Context, req *dto.CreateSiteRequest, callerID string) (*model.Site, error) {
	site := &model.Site{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsActive:  true,
	}
	site.CreatedBy = &callerID
	site.UpdatedBy = &callerID

	if err := s.repo.Site.Create(ctx, site); err != nil {
		s.logger.Error("创建驻点失败", zap.Error(err))
		return nil, err
	}
	return site, nil
}

func (s *siteService) GetByID(ctx context.Context, siteID string) (*model.Site, error) {
	site, err := s.repo.Site.GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return site, nil
}

func (s *siteService) List(ctx context.Context, page *dto.PaginationRequest) ([]model.Site, int64, error) {
	page.Normalize()
	return s.repo.Site.List(ctx, page.Offset(), page.PageSize)
}

func (s *siteService) Update(ctx context.Context, siteID string, req *dto.UpdateSiteRequest, callerID string) (*model.Site, error) {
	site, err := s.repo.Site.GetByID(ctx, siteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		site.Name = *req.Name
	}
	if req.Address != nil {
		site.Address = *req.Address
	}
	if req.Latitude != nil {
		site.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		site.Longitude = req.Longitude
	}
	if req.IsActive != nil {
		site.IsActive = *req.IsActive
	}
	site.UpdatedBy = &callerID

	if err := s.repo.Site.Update(ctx, site); err != nil {
		return nil, err
	}
	return site, nil
}

func (s *siteService) Delete(ctx context.Context, siteID, callerID string) error {
	if _, err := s.repo.Site.GetByID(ctx, siteID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSiteNotFound
		}
		return err
	}
	return s.repo.Site.Delete(ctx, siteID, callerID)
}
