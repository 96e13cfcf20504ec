package model

// 线索状态流水线
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusQualified = "qualified"
	LeadStatusConverted = "converted"
	LeadStatusClosed    = "closed"
)

// ValidLeadStatus 判断线索状态取值是否合法
func ValidLeadStatus(s string) bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified,
		LeadStatusConverted, LeadStatusClosed:
		return true
	}
	return false
}

// Lead 销售线索表 — 对应 leads（官网询价表单落库）
type Lead struct {
	LeadID      string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"lead_id"`
	Company     string `gorm:"type:varchar(200);not null"                     json:"company"`
	ContactName string `gorm:"type:varchar(100);not null"                     json:"contact_name"`
	Email       string `gorm:"type:varchar(255);not null"                     json:"email"`
	Phone       string `gorm:"type:varchar(30)"                               json:"phone"`
	ServiceType string `gorm:"type:varchar(50)"                               json:"service_type"`
	Message     string `gorm:"type:text"                                      json:"message"`
	Status      string `gorm:"type:varchar(20);not null;default:'new'"        json:"status"`
	BaseModel
}

// TableName 指定表名
func (Lead) TableName() string { return "leads" }
