package request

import "github.com/shopspring/decimal"

type CreateProductDTO struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Barcode     string          `json:"barcode" binding:"required,max=64"`
	Category    string          `json:"category" binding:"max=100"`
	Description string          `json:"description" binding:"max=2000"`
	ImageURL    string          `json:"image_url" binding:"omitempty,url"`
	Unit        string          `json:"unit" binding:"max=20"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock" binding:"gte=0,lte=100000"`
	Featured    bool            `json:"featured"`
	Active      *bool           `json:"active"` // defaults to true
}

// UpdateProductDTO only touches the fields that are present. Stock is
// changed through imports, sales and stock adjustments.
type UpdateProductDTO struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Barcode     *string          `json:"barcode" binding:"omitempty,min=1,max=64"`
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Description *string          `json:"description" binding:"omitempty,max=2000"`
	ImageURL    *string          `json:"image_url"`
	Unit        *string          `json:"unit" binding:"omitempty,max=20"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Featured    *bool            `json:"featured"`
	Active      *bool            `json:"active"`
}

type AdjustStockDTO struct {
	Delta  int    `json:"delta" binding:"required,min=-100000,max=100000"`
	Reason string `json:"reason" binding:"required,max=200"`
}

type ListProductsQuery struct {
	Q        string `form:"q"`
	Category string `form:"category"`
	Active   *bool  `form:"active"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
