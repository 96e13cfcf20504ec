package dto

// CreateLeadRequest 官网询价表单（公开接口）
type CreateLeadRequest struct {
	Company     string `json:"company" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"required,max=100"`
	Email       string `json:"email" binding:"required,email"`
	Phone       string `json:"phone" binding:"max=30"`
	ServiceType string `json:"service_type" binding:"max=50"`
	Message     string `json:"message" binding:"max=2000"`
}

// UpdateLeadStatusRequest 线索状态推进
type UpdateLeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted qualified converted closed"`
}

// ListLeadsRequest 线索列表查询
type ListLeadsRequest struct {
	PaginationRequest
	Status string `form:"status" binding:"omitempty,oneof=new contacted qualified converted closed"`
}
