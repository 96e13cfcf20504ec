package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/service"
	"summit-guard/backend/pkg/response"
)

// SiteHandler 客户驻点模块 HTTP 处理器
type SiteHandler struct {
	siteSvc service.SiteService
}

// NewSiteHandler 创建 SiteHandler
func NewSiteHandler(siteSvc service.SiteService) *SiteHandler {
	return &SiteHandler{siteSvc: siteSvc}
}

// Create 创建驻点
// POST /api/v1/sites
func (h *SiteHandler) Create(c *gin.Context) {
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	site, err := h.siteSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, site)
}

// Get 驻点详情
// GET /api/v1/sites/:id
func (h *SiteHandler) Get(c *gin.Context) {
	site, err := h.siteSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, site)
}

// List 驻点列表
// GET /api/v1/sites
func (h *SiteHandler) List(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	sites, total, err := h.siteSvc.List(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, sites, total, page.Page, page.PageSize)
}

// Update 更新驻点
// PUT /api/v1/sites/:id
func (h *SiteHandler) Update(c *gin.Context) {
	var req dto.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 12001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	site, err := h.siteSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, site)
}

// Delete 删除驻点（软删除）
// DELETE /api/v1/sites/:id
func (h *SiteHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.siteSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleSiteError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *SiteHandler) handleSiteError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrSiteNotFound) {
		response.NotFound(c, 12101, "驻点不存在")
		return
	}
	response.InternalError(c)
}
