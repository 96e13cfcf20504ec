package model

// 通知类型
const (
	NotifyTypeAssignment   = "assignment"
	NotifyTypeUnassignment = "unassignment"
	NotifyTypeUrgentAlert  = "urgent_alert"
	NotifyTypeCertExpiry   = "cert_expiry"
)

// Notification 站内通知表 — 对应 notifications
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	RecipientID    string  `gorm:"type:uuid;not null;index:idx_notifications_recipient" json:"recipient_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false;index:idx_notifications_recipient" json:"is_read"`
	RelatedType    string  `gorm:"type:varchar(20)"                               json:"related_type,omitempty"`
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	SoftDeleteModel
}

// TableName 指定表名
func (Notification) TableName() string { return "notifications" }
