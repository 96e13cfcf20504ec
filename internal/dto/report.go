package dto

// CoverageReportRequest 驻点排班覆盖率报表查询
type CoverageReportRequest struct {
	SiteID   string `form:"site_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"required"` // YYYY-MM-DD
	DateTo   string `form:"date_to" binding:"required"`   // YYYY-MM-DD
}

// SiteCoverage 单驻点覆盖率
type SiteCoverage struct {
	SiteID        string  `json:"site_id"`
	SiteName      string  `json:"site_name"`
	TotalShifts   int     `json:"total_shifts"`
	StaffedShifts int     `json:"staffed_shifts"`
	CoverageRate  float64 `json:"coverage_rate"` // 0-1
}

// CoverageReport 覆盖率报表
type CoverageReport struct {
	DateFrom string         `json:"date_from"`
	DateTo   string         `json:"date_to"`
	Sites    []SiteCoverage `json:"sites"`
}

// ExpiringCertsRequest 资质到期报表查询
type ExpiringCertsRequest struct {
	WithinDays int `form:"within_days" binding:"omitempty,min=1,max=365"`
}

// ExpiringCert 即将到期的资质条目
type ExpiringCert struct {
	CertificationID string `json:"certification_id"`
	GuardID         string `json:"guard_id"`
	GuardName       string `json:"guard_name"`
	CertType        string `json:"cert_type"`
	ExpiresAt       string `json:"expires_at"`
	DaysLeft        int    `json:"days_left"`
}
