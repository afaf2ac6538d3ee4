package request

type CreateMemberDTO struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6,max=128"`
	DisplayName string `json:"display_name" binding:"required,max=100"`
	Phone       string `json:"phone" binding:"omitempty,e164"`
	Role        string `json:"role" binding:"required,oneof=admin cashier"`
}

type UpdateMemberDTO struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=100"`
	Phone       *string `json:"phone" binding:"omitempty,e164"`
	Role        *string `json:"role" binding:"omitempty,oneof=admin cashier"`
	Disabled    *bool   `json:"disabled"`
}

type ListMembersQuery struct {
	Role     string `form:"role" binding:"omitempty,oneof=admin cashier"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
