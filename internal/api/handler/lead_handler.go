package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/service"
	"summit-guard/backend/pkg/response"
)

// LeadHandler 销售线索模块 HTTP 处理器
type LeadHandler struct {
	leadSvc service.LeadService
}

// NewLeadHandler 创建 LeadHandler
func NewLeadHandler(leadSvc service.LeadService) *LeadHandler {
	return &LeadHandler{leadSvc: leadSvc}
}

// Create 提交询价表单（公开接口，限流保护）
// POST /api/v1/leads
func (h *LeadHandler) Create(c *gin.Context) {
	var req dto.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	lead, err := h.leadSvc.Create(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, gin.H{"lead_id": lead.LeadID})
}

// List 线索列表
// GET /api/v1/leads
func (h *LeadHandler) List(c *gin.Context) {
	var req dto.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	leads, total, err := h.leadSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OKPage(c, leads, total, req.Page, req.PageSize)
}

// UpdateStatus 推进线索状态
// PUT /api/v1/leads/:id/status
func (h *LeadHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateLeadStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 16001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.leadSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrLeadNotFound):
			response.NotFound(c, 16101, "线索不存在")
		case errors.Is(err, service.ErrInvalidLeadStatus):
			response.BadRequest(c, 16102, "非法的线索状态")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}
