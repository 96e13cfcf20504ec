package model

// User 账号表 — 对应 users
// 角色: admin | manager | guard；保安账号通过 GuardID 关联保安档案
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string  `gorm:"type:varchar(20);not null;default:'manager'"    json:"role"`
	GuardID      *string `gorm:"type:uuid"                                      json:"guard_id,omitempty"`
	VersionedModel

	// 关联
	Guard *Guard `gorm:"foreignKey:GuardID;references:GuardID" json:"guard,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
