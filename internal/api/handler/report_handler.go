package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"summit-guard/backend/internal/dto"
	"summit-guard/backend/internal/service"
	"summit-guard/backend/pkg/response"
)

// ReportHandler 运营报表模块 HTTP 处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler 创建 ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Coverage 驻点排班覆盖率报表
// GET /api/v1/reports/coverage
func (h *ReportHandler) Coverage(c *gin.Context) {
	var req dto.CoverageReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 18001, "参数校验失败")
		return
	}

	report, err := h.reportSvc.Coverage(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDate) {
			response.BadRequest(c, 18002, "日期格式错误，应为 YYYY-MM-DD")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, report)
}

// ExpiringCertifications 即将到期的资质清单
// GET /api/v1/reports/certifications/expiring?within_days=30
func (h *ReportHandler) ExpiringCertifications(c *gin.Context) {
	var req dto.ExpiringCertsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 18001, "参数校验失败")
		return
	}

	certs, err := h.reportSvc.ExpiringCertifications(c.Request.Context(), req.WithinDays)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, gin.H{"list": certs})
}
