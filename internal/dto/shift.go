package dto

import "time"

// CreateShiftRequest 创建班次
type CreateShiftRequest struct {
	SiteID        string    `json:"site_id" binding:"required,uuid"`
	StartTime     time.Time `json:"start_time" binding:"required"`
	EndTime       time.Time `json:"end_time" binding:"required"`
	RequiredCerts []string  `json:"required_certs"`
	RequiredCount int       `json:"required_count" binding:"omitempty,min=1"`
	Priority      int       `json:"priority" binding:"omitempty,min=1,max=5"`
	Notes         string    `json:"notes"`
}

// UpdateShiftRequest 更新班次（乐观锁）
type UpdateShiftRequest struct {
	StartTime     *time.Time `json:"start_time"`
	EndTime       *time.Time `json:"end_time"`
	RequiredCerts *[]string  `json:"required_certs"`
	RequiredCount *int       `json:"required_count" binding:"omitempty,min=1"`
	Priority      *int       `json:"priority" binding:"omitempty,min=1,max=5"`
	Notes         *string    `json:"notes"`
	Version       int        `json:"version" binding:"required,min=1"`
}

// UpdateShiftStatusRequest 显式状态转移
type UpdateShiftStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Version int    `json:"version" binding:"required,min=1"`
}

// ListShiftsRequest 班次列表查询
type ListShiftsRequest struct {
	PaginationRequest
	SiteID   string `form:"site_id" binding:"omitempty,uuid"`
	Status   string `form:"status"`
	DateFrom string `form:"date_from"` // YYYY-MM-DD
	DateTo   string `form:"date_to"`   // YYYY-MM-DD
}

// BulkArchiveRequest 批量归档
type BulkArchiveRequest struct {
	ShiftIDs []string `json:"shift_ids" binding:"required,min=1,dive,uuid"`
}

// BulkArchiveResult 批量归档结果（逐条隔离，失败不影响其他条目）
type BulkArchiveResult struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Errors    map[string]string `json:"errors,omitempty"` // shift_id -> 失败原因
}

// CreateSiteRequest 创建驻点
type CreateSiteRequest struct {
	Name      string   `json:"name" binding:"required,max=200"`
	Address   string   `json:"address" binding:"max=500"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// UpdateSiteRequest 更新驻点
type UpdateSiteRequest struct {
	Name      *string  `json:"name" binding:"omitempty,max=200"`
	Address   *string  `json:"address" binding:"omitempty,max=500"`
	Latitude  *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	IsActive  *bool    `json:"is_active"`
}
