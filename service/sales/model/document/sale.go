package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentCash     = "cash"
	PaymentCard     = "card"
	PaymentTransfer = "transfer"
)

type SaleLine struct {
	ProductID primitive.ObjectID   `bson:"product_id"`
	Barcode   string               `bson:"barcode"`
	Name      string               `bson:"name"`
	Quantity  int                  `bson:"quantity"`
	UnitPrice primitive.Decimal128 `bson:"unit_price"`
	LineTotal primitive.Decimal128 `bson:"line_total"`
}

type Sale struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	ReceiptNo     string               `bson:"receipt_no"`
	CashierUID    string               `bson:"cashier_uid"`
	CashierName   string               `bson:"cashier_name,omitempty"`
	Items         []SaleLine           `bson:"items"`
	Subtotal      primitive.Decimal128 `bson:"subtotal"`
	Discount      primitive.Decimal128 `bson:"discount"`
	Total         primitive.Decimal128 `bson:"total"`
	Paid          primitive.Decimal128 `bson:"paid"`
	Change        primitive.Decimal128 `bson:"change"`
	PaymentMethod string               `bson:"payment_method"`
	CreatedAt     time.Time            `bson:"created_at"`
}
