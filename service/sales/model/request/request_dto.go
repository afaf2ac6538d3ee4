package request

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartLineDTO struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0,lte=100000"`
}

type CheckoutDTO struct {
	Items         []CartLineDTO   `json:"items" binding:"required,min=1,dive"`
	Discount      decimal.Decimal `json:"discount"`
	Paid          decimal.Decimal `json:"paid"`
	PaymentMethod string          `json:"payment_method" binding:"required,oneof=cash card transfer"`
}

type ListSalesQuery struct {
	From       time.Time `form:"from" time_format:"2006-01-02"`
	To         time.Time `form:"to" time_format:"2006-01-02"`
	CashierUID string    `form:"cashier_uid"`
	Page       int       `form:"page"`
	PageSize   int       `form:"page_size"`
}

type SalesReportQuery struct {
	From time.Time `form:"from" time_format:"2006-01-02"`
	To   time.Time `form:"to" time_format:"2006-01-02"`
}
