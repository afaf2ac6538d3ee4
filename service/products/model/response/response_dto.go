package response

import (
	"time"

	"github.com/shopspring/decimal"

	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/products/model/document"
)

type ProductResponseDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Barcode     string          `json:"barcode"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	Featured    bool            `json:"featured"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProductListDTO struct {
	Items    []ProductResponseDTO `json:"items"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
}

func FromDocument(p document.Product) ProductResponseDTO {
	return ProductResponseDTO{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Barcode:     p.Barcode,
		Category:    p.Category,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Unit:        p.Unit,
		Price:       database.DecimalFromBSON(p.Price),
		Cost:        database.DecimalFromBSON(p.Cost),
		Stock:       p.Stock,
		Featured:    p.Featured,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
