package response

import (
	"github.com/shopspring/decimal"

	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/products/model/document"
)

// PublicProductDTO is what shoppers see: no cost and no stock count.
type PublicProductDTO struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	Description string          `json:"description,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Price       decimal.Decimal `json:"price"`
	InStock     bool            `json:"in_stock"`
}

type LandingDTO struct {
	StoreName   string             `json:"store_name"`
	Featured    []PublicProductDTO `json:"featured"`
	NewArrivals []PublicProductDTO `json:"new_arrivals"`
	Categories  []string           `json:"categories"`
}

type CatalogDTO struct {
	Items    []PublicProductDTO `json:"items"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

func FromDocument(p document.Product) PublicProductDTO {
	return PublicProductDTO{
		ID:          p.ID.Hex(),
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Unit:        p.Unit,
		Price:       database.DecimalFromBSON(p.Price),
		InStock:     p.Stock > 0,
	}
}

func FromDocuments(products []document.Product) []PublicProductDTO {
	out := make([]PublicProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, FromDocument(p))
	}
	return out
}
