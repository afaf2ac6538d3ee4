package response

import (
	"time"

	"retail_backoffice/service/members/model/document"
)

type MemberResponseDTO struct {
	ID          string    `json:"id"`
	UID         string    `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	Role        string    `json:"role"`
	Disabled    bool      `json:"disabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type MemberListDTO struct {
	Items    []MemberResponseDTO `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

func FromDocument(m document.Member) MemberResponseDTO {
	return MemberResponseDTO{
		ID:          m.ID.Hex(),
		UID:         m.UID,
		Email:       m.Email,
		DisplayName: m.DisplayName,
		Phone:       m.Phone,
		Role:        m.Role,
		Disabled:    m.Disabled,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}
