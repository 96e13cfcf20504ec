package dto

// SweepResult 告警扫描结果汇总
type SweepResult struct {
	ShiftsScanned int `json:"shifts_scanned"`
	Created       int `json:"created"`
	Escalated     int `json:"escalated"`
	Resolved      int `json:"resolved"`
	Expired       int `json:"expired"`
}

// ListAlertsRequest 告警列表查询
type ListAlertsRequest struct {
	PaginationRequest
	Status    string `form:"status" binding:"omitempty,oneof=active acknowledged resolved expired"`
	Priority  string `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	AlertType string `form:"alert_type"`
}
