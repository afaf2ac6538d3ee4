package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type ImportLineDTO struct {
	ProductID string          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0,lte=100000"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
}

type RecordImportDTO struct {
	ImporterID string          `json:"importer_id" binding:"required"`
	Items      []ImportLineDTO `json:"items" binding:"required,min=1,dive"`
	Note       string          `json:"note" binding:"max=1000"`
	// UpdateCost copies each line's unit cost onto the product.
	UpdateCost bool `json:"update_cost"`
}

type ListImportsQuery struct {
	ImporterID string    `form:"importer_id"`
	From       time.Time `form:"from" time_format:"2006-01-02"`
	To         time.Time `form:"to" time_format:"2006-01-02"`
	Page       int       `form:"page"`
	PageSize   int       `form:"page_size"`
}
