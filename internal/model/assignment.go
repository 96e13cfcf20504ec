package model

import "time"

// 分配方式
const (
	AssignMethodManual = "manual"
	AssignMethodAuto   = "auto"
)

// 分配状态
const (
	AssignmentStatusActive    = "active"
	AssignmentStatusCancelled = "cancelled"
)

// Assignment 班次分配表 — 对应 assignments
// 取消分配时保留记录（status=cancelled）并写入 UnassignmentLog
type Assignment struct {
	AssignmentID     string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	ShiftID          string  `gorm:"type:uuid;not null"                             json:"shift_id"`
	GuardID          string  `gorm:"type:uuid;not null;index:idx_assignments_guard" json:"guard_id"`
	Method           string  `gorm:"type:varchar(10);not null;default:'manual'"     json:"method"`
	Override         bool    `gorm:"not null;default:false"                         json:"override"`
	OverrideReason   string  `gorm:"type:text"                                      json:"override_reason,omitempty"`
	EligibilityScore float64 `gorm:"not null;default:0"                             json:"eligibility_score"`
	Status           string  `gorm:"type:varchar(20);not null;default:'active';index:idx_assignments_guard" json:"status"`
	BaseModel

	// 关联
	Shift *Shift `gorm:"foreignKey:ShiftID;references:ShiftID" json:"shift,omitempty"`
	Guard *Guard `gorm:"foreignKey:GuardID;references:GuardID" json:"guard,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// UnassignmentLog 取消分配流水表 — 对应 unassignment_logs
type UnassignmentLog struct {
	LogID        string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"log_id"`
	AssignmentID string    `gorm:"type:uuid;not null"                             json:"assignment_id"`
	ShiftID      string    `gorm:"type:uuid;not null;index"                       json:"shift_id"`
	GuardID      string    `gorm:"type:uuid;not null"                             json:"guard_id"`
	OperatorID   string    `gorm:"type:uuid;not null"                             json:"operator_id"`
	Reason       string    `gorm:"type:text"                                      json:"reason"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (UnassignmentLog) TableName() string { return "unassignment_logs" }
