package usecase

import (
	"fmt"
	"strings"

	"retail_backoffice/pkg/apperr"
	productdoc "retail_backoffice/service/products/model/document"
)

var (
	ErrInsufficientStock = apperr.New(apperr.KindUnprocessable, "insufficient stock")
	ErrEmptyCart         = apperr.Invalid("cart is empty")
	ErrDiscountTooLarge  = apperr.Invalid("discount must be between zero and the subtotal")
	ErrUnderpaid         = apperr.Invalid("paid amount is less than the total")
	ErrPaymentMethod     = apperr.Invalid("payment method must be cash, card or transfer")

	errQuantityTooLarge = apperr.Invalid(fmt.Sprintf("quantity per product must be at most %d", productdoc.MaxQuantity))
)

type ShortLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// StockError lists every cart line that cannot be filled. It matches
// ErrInsufficientStock with errors.Is.
type StockError struct {
	Lines []ShortLine
}

func (e *StockError) Error() string {
	parts := make([]string, 0, len(e.Lines))
	for _, l := range e.Lines {
		parts = append(parts, fmt.Sprintf("%s (requested %d, available %d)", l.Name, l.Requested, l.Available))
	}
	return "insufficient stock: " + strings.Join(parts, ", ")
}

func (e *StockError) Kind() apperr.Kind { return apperr.KindUnprocessable }

func (e *StockError) Is(target error) bool { return target == ErrInsufficientStock }
