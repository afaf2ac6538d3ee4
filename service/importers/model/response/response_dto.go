package response

import (
	"time"

	"retail_backoffice/service/importers/model/document"
)

type ImporterResponseDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ImporterListDTO struct {
	Items    []ImporterResponseDTO `json:"items"`
	Total    int64                 `json:"total"`
	Page     int                   `json:"page"`
	PageSize int                   `json:"page_size"`
}

func FromDocument(i document.Importer) ImporterResponseDTO {
	return ImporterResponseDTO{
		ID:        i.ID.Hex(),
		Name:      i.Name,
		Phone:     i.Phone,
		Email:     i.Email,
		Address:   i.Address,
		Note:      i.Note,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
