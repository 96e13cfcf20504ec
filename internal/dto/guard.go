package dto

import "time"

// CreateGuardRequest 创建保安档案
type CreateGuardRequest struct {
	Name             string   `json:"name" binding:"required,max=100"`
	Email            string   `json:"email" binding:"required,email"`
	Phone            string   `json:"phone" binding:"max=30"`
	EmploymentType   string   `json:"employment_type" binding:"omitempty,oneof=full_time part_time"`
	LicenseNumber    string   `json:"license_number" binding:"required,max=50"`
	LicenseExpiry    string   `json:"license_expiry" binding:"required"` // YYYY-MM-DD
	AvailableDay     *bool    `json:"available_day"`
	AvailableNight   *bool    `json:"available_night"`
	AvailableWeekend *bool    `json:"available_weekend"`
	AvailableHoliday *bool    `json:"available_holiday"`
	PerformanceScore *float64 `json:"performance_score" binding:"omitempty,min=0,max=100"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
}

// UpdateGuardRequest 更新保安档案（指针字段区分未传与清空）
type UpdateGuardRequest struct {
	Name             *string  `json:"name" binding:"omitempty,max=100"`
	Email            *string  `json:"email" binding:"omitempty,email"`
	Phone            *string  `json:"phone" binding:"omitempty,max=30"`
	Status           *string  `json:"status" binding:"omitempty,oneof=active inactive"`
	EmploymentType   *string  `json:"employment_type" binding:"omitempty,oneof=full_time part_time"`
	LicenseNumber    *string  `json:"license_number" binding:"omitempty,max=50"`
	LicenseExpiry    *string  `json:"license_expiry"`
	AvailableDay     *bool    `json:"available_day"`
	AvailableNight   *bool    `json:"available_night"`
	AvailableWeekend *bool    `json:"available_weekend"`
	AvailableHoliday *bool    `json:"available_holiday"`
	PerformanceScore *float64 `json:"performance_score" binding:"omitempty,min=0,max=100"`
	Latitude         *float64 `json:"latitude" binding:"omitempty,min=-90,max=90"`
	Longitude        *float64 `json:"longitude" binding:"omitempty,min=-180,max=180"`
	Version          int      `json:"version" binding:"required,min=1"`
}

// ListGuardsRequest 保安列表查询
type ListGuardsRequest struct {
	PaginationRequest
	Status   string `form:"status" binding:"omitempty,oneof=active inactive"`
	CertType string `form:"cert_type"`
	Keyword  string `form:"keyword"`
}

// AddCertificationRequest 为保安添加资质
type AddCertificationRequest struct {
	CertType  string `json:"cert_type" binding:"required,max=50"`
	IssuedAt  string `json:"issued_at" binding:"required"`  // YYYY-MM-DD
	ExpiresAt string `json:"expires_at" binding:"required"` // YYYY-MM-DD
}

// RenewCertificationRequest 资质续期
type RenewCertificationRequest struct {
	ExpiresAt string `json:"expires_at" binding:"required"` // YYYY-MM-DD
}

// ParseDate 解析 YYYY-MM-DD 日期参数
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
