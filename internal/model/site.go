package model

// Site 客户驻点表 — 对应 sites
type Site struct {
	SiteID    string   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"site_id"`
	Name      string   `gorm:"type:varchar(200);not null"                     json:"name"`
	Address   string   `gorm:"type:varchar(500)"                              json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	IsActive  bool     `gorm:"not null;default:true" json:"is_active"`
	SoftDeleteModel
}

// TableName 指定表名
func (Site) TableName() string { return "sites" }
