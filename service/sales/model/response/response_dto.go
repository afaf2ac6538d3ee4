package response

import (
	"time"

	"github.com/shopspring/decimal"

	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/sales/model/document"
)

type SaleLineDTO struct {
	ProductID string          `json:"product_id"`
	Barcode   string          `json:"barcode"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type SaleResponseDTO struct {
	ID            string          `json:"id"`
	ReceiptNo     string          `json:"receipt_no"`
	CashierUID    string          `json:"cashier_uid"`
	CashierName   string          `json:"cashier_name,omitempty"`
	Items         []SaleLineDTO   `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	Paid          decimal.Decimal `json:"paid"`
	Change        decimal.Decimal `json:"change"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     time.Time       `json:"created_at"`
}

type CheckoutResponseDTO struct {
	Sale SaleResponseDTO `json:"sale"`
	// LowStock lists products that reached the low stock threshold.
	LowStock []string `json:"low_stock,omitempty"`
}

type SaleListDTO struct {
	Items    []SaleResponseDTO `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type TodaySalesDTO struct {
	Date      string            `json:"date"`
	SaleCount int               `json:"sale_count"`
	Revenue   decimal.Decimal   `json:"revenue"`
	Sales     []SaleResponseDTO `json:"sales"`
}

type DailyRevenueDTO struct {
	Date      string          `json:"date"`
	SaleCount int             `json:"sale_count"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type TopProductDTO struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type SalesReportDTO struct {
	From            time.Time                  `json:"from"`
	To              time.Time                  `json:"to"`
	SaleCount       int                        `json:"sale_count"`
	ItemsSold       int                        `json:"items_sold"`
	Revenue         decimal.Decimal            `json:"revenue"`
	Discount        decimal.Decimal            `json:"discount"`
	AverageTicket   decimal.Decimal            `json:"average_ticket"`
	Daily           []DailyRevenueDTO          `json:"daily"`
	TopProducts     []TopProductDTO            `json:"top_products"`
	ByPaymentMethod map[string]decimal.Decimal `json:"by_payment_method"`
}

func FromDocument(s document.Sale) SaleResponseDTO {
	lines := make([]SaleLineDTO, 0, len(s.Items))
	for _, l := range s.Items {
		lines = append(lines, SaleLineDTO{
			ProductID: l.ProductID.Hex(),
			Barcode:   l.Barcode,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: database.DecimalFromBSON(l.UnitPrice),
			LineTotal: database.DecimalFromBSON(l.LineTotal),
		})
	}
	return SaleResponseDTO{
		ID:            s.ID.Hex(),
		ReceiptNo:     s.ReceiptNo,
		CashierUID:    s.CashierUID,
		CashierName:   s.CashierName,
		Items:         lines,
		Subtotal:      database.DecimalFromBSON(s.Subtotal),
		Discount:      database.DecimalFromBSON(s.Discount),
		Total:         database.DecimalFromBSON(s.Total),
		Paid:          database.DecimalFromBSON(s.Paid),
		Change:        database.DecimalFromBSON(s.Change),
		PaymentMethod: s.PaymentMethod,
		CreatedAt:     s.CreatedAt,
	}
}

func FromDocuments(sales []document.Sale) []SaleResponseDTO {
	out := make([]SaleResponseDTO, 0, len(sales))
	for _, s := range sales {
		out = append(out, FromDocument(s))
	}
	return out
}
