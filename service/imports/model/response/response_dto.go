package response

import (
	"time"

	"github.com/shopspring/decimal"

	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/imports/model/document"
)

type ImportLineDTO struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	LineCost    decimal.Decimal `json:"line_cost"`
}

type ImportResponseDTO struct {
	ID           string          `json:"id"`
	ImporterID   string          `json:"importer_id"`
	ImporterName string          `json:"importer_name"`
	Items        []ImportLineDTO `json:"items"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	Note         string          `json:"note,omitempty"`
	CreatedBy    string          `json:"created_by"`
	CreatedAt    time.Time       `json:"created_at"`
}

type ImportListDTO struct {
	Items    []ImportResponseDTO `json:"items"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
}

func FromDocument(e document.ImportEntry) ImportResponseDTO {
	lines := make([]ImportLineDTO, 0, len(e.Items))
	for _, l := range e.Items {
		lines = append(lines, ImportLineDTO{
			ProductID:   l.ProductID.Hex(),
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			UnitCost:    database.DecimalFromBSON(l.UnitCost),
			LineCost:    database.DecimalFromBSON(l.LineCost),
		})
	}
	return ImportResponseDTO{
		ID:           e.ID.Hex(),
		ImporterID:   e.ImporterID.Hex(),
		ImporterName: e.ImporterName,
		Items:        lines,
		TotalCost:    database.DecimalFromBSON(e.TotalCost),
		Note:         e.Note,
		CreatedBy:    e.CreatedBy,
		CreatedAt:    e.CreatedAt,
	}
}
