package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/pkg/metrics"
	"retail_backoffice/pkg/middleware"
	invmodel "retail_backoffice/service/inventory/model"
	"retail_backoffice/service/inventory/publisher"
	productdoc "retail_backoffice/service/products/model/document"
	productrepo "retail_backoffice/service/products/repository"
	"retail_backoffice/service/sales/model/document"
	"retail_backoffice/service/sales/model/request"
	"retail_backoffice/service/sales/model/response"
	"retail_backoffice/service/sales/repository"
)

type ISaleUseCase interface {
	Checkout(ctx context.Context, dto request.CheckoutDTO, cashier middleware.Actor) (response.CheckoutResponseDTO, error)
	GetSale(ctx context.Context, id string) (response.SaleResponseDTO, error)
	GetCashierSale(ctx context.Context, id string, cashier middleware.Actor) (response.SaleResponseDTO, error)
	ListSales(ctx context.Context, query request.ListSalesQuery) (response.SaleListDTO, error)
	TodaySales(ctx context.Context, cashierUID string) (response.TodaySalesDTO, error)
}

type saleUseCase struct {
	saleRepo          repository.ISaleRepository
	productRepo       productrepo.IProductRepository
	publisher         publisher.IPublisher
	lowStockThreshold int
	syncTimeout       time.Duration
	log               *zap.Logger
	now               func() time.Time
}

func NewSaleUseCase(
	saleRepo repository.ISaleRepository,
	productRepo productrepo.IProductRepository,
	pub publisher.IPublisher,
	lowStockThreshold int,
	syncTimeout time.Duration,
	log *zap.Logger,
) ISaleUseCase {
	return &saleUseCase{
		saleRepo:          saleRepo,
		productRepo:       productRepo,
		publisher:         pub,
		lowStockThreshold: lowStockThreshold,
		syncTimeout:       syncTimeout,
		log:               log.Named("sales"),
		now:               time.Now,
	}
}

type cartLine struct {
	productID primitive.ObjectID
	quantity  int
}

func mergeCart(items []request.CartLineDTO) ([]cartLine, error) {
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	index := make(map[primitive.ObjectID]int, len(items))
	lines := make([]cartLine, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Invalid("quantity must be greater than zero")
		}
		if item.Quantity > productdoc.MaxQuantity {
			return nil, errQuantityTooLarge
		}
		id, err := database.ParseID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if i, ok := index[id]; ok {
			if lines[i].quantity > productdoc.MaxQuantity-item.Quantity {
				return nil, errQuantityTooLarge
			}
			lines[i].quantity += item.Quantity
			continue
		}
		index[id] = len(lines)
		lines = append(lines, cartLine{productID: id, quantity: item.Quantity})
	}
	return lines, nil
}

func validPaymentMethod(m string) bool {
	switch m {
	case document.PaymentCash, document.PaymentCard, document.PaymentTransfer:
		return true
	}
	return false
}

// NewReceiptNo formats R-YYYYMMDD-XXXXXXXX.
func NewReceiptNo(at time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("R-%s-%s", at.Format("20060102"), strings.ToUpper(id[:8]))
}

func (u *saleUseCase) Checkout(ctx context.Context, dto request.CheckoutDTO, cashier middleware.Actor) (response.CheckoutResponseDTO, error) {
	sale, changes, err := u.priceCart(ctx, dto, cashier)
	if err != nil {
		u.countCheckout(err)
		return response.CheckoutResponseDTO{}, err
	}

	updated, failedAt, unrestored, err := productrepo.ApplyStockChanges(ctx, u.productRepo, changes)
	if err != nil {
		u.logUnrestored(sale.ReceiptNo, unrestored)
		if errors.Is(err, productrepo.ErrStockConflict) {
			line := sale.Items[failedAt]
			err = &StockError{Lines: []ShortLine{u.shortLine(ctx, line)}}
		}
		u.countCheckout(err)
		return response.CheckoutResponseDTO{}, err
	}

	if err := u.saleRepo.Insert(ctx, &sale); err != nil {
		u.log.Error("failed to record sale, restoring stock", zap.String("receipt_no", sale.ReceiptNo), zap.Error(err))
		u.logUnrestored(sale.ReceiptNo, productrepo.RevertStockChanges(ctx, u.productRepo, changes))
		metrics.Checkouts.WithLabelValues("error").Inc()
		return response.CheckoutResponseDTO{}, err
	}
	metrics.Checkouts.WithLabelValues("ok").Inc()
	u.log.Info("checkout completed",
		zap.String("receipt_no", sale.ReceiptNo),
		zap.String("cashier_uid", sale.CashierUID),
		zap.Int("lines", len(sale.Items)),
		zap.String("total", database.DecimalFromBSON(sale.Total).StringFixed(2)))

	lowStock := u.syncStock(ctx, sale.ReceiptNo, updated)
	return response.CheckoutResponseDTO{Sale: response.FromDocument(sale), LowStock: lowStock}, nil
}

// priceCart validates the cart against current products and builds the sale
// together with the stock decrements it needs.
func (u *saleUseCase) priceCart(ctx context.Context, dto request.CheckoutDTO, cashier middleware.Actor) (document.Sale, []productrepo.StockChange, error) {
	if !validPaymentMethod(dto.PaymentMethod) {
		return document.Sale{}, nil, ErrPaymentMethod
	}
	if dto.Discount.IsNegative() || dto.Paid.IsNegative() {
		return document.Sale{}, nil, apperr.Invalid("amounts must not be negative")
	}
	lines, err := mergeCart(dto.Items)
	if err != nil {
		return document.Sale{}, nil, err
	}

	ids := make([]primitive.ObjectID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.productID)
	}
	found, err := u.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return document.Sale{}, nil, err
	}
	products := make(map[primitive.ObjectID]productdoc.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	now := u.now()
	sale := document.Sale{
		ReceiptNo:     NewReceiptNo(now),
		CashierUID:    cashier.UID,
		CashierName:   cashier.Name,
		Items:         make([]document.SaleLine, 0, len(lines)),
		PaymentMethod: dto.PaymentMethod,
		CreatedAt:     now.UTC(),
	}
	changes := make([]productrepo.StockChange, 0, len(lines))
	var short []ShortLine
	subtotal := decimal.Zero

	for _, l := range lines {
		p, ok := products[l.productID]
		if !ok || !p.Active {
			return document.Sale{}, nil, productrepo.ErrProductNotFound
		}
		if p.Stock < l.quantity {
			short = append(short, ShortLine{ProductID: p.ID.Hex(), Name: p.Name, Requested: l.quantity, Available: p.Stock})
		}
		price := database.DecimalFromBSON(p.Price)
		lineTotal := price.Mul(decimal.NewFromInt(int64(l.quantity))).Round(2)
		subtotal = subtotal.Add(lineTotal)
		sale.Items = append(sale.Items, document.SaleLine{
			ProductID: p.ID,
			Barcode:   p.Barcode,
			Name:      p.Name,
			Quantity:  l.quantity,
			UnitPrice: p.Price,
			LineTotal: database.DecimalToBSON(lineTotal),
		})
		changes = append(changes, productrepo.StockChange{ProductID: p.ID, Delta: -l.quantity})
	}
	if len(short) > 0 {
		return document.Sale{}, nil, &StockError{Lines: short}
	}

	discount := dto.Discount.Round(2)
	if discount.GreaterThan(subtotal) {
		return document.Sale{}, nil, ErrDiscountTooLarge
	}
	total := subtotal.Sub(discount)
	paid := dto.Paid.Round(2)
	change := decimal.Zero
	if dto.PaymentMethod == document.PaymentCash {
		if paid.LessThan(total) {
			return document.Sale{}, nil, ErrUnderpaid
		}
		change = paid.Sub(total)
	} else {
		paid = total
	}

	sale.Subtotal = database.DecimalToBSON(subtotal)
	sale.Discount = database.DecimalToBSON(discount)
	sale.Total = database.DecimalToBSON(total)
	sale.Paid = database.DecimalToBSON(paid)
	sale.Change = database.DecimalToBSON(change)
	return sale, changes, nil
}

func (u *saleUseCase) shortLine(ctx context.Context, line document.SaleLine) ShortLine {
	available := 0
	if p, err := u.productRepo.GetByID(ctx, line.ProductID); err == nil {
		available = p.Stock
	}
	return ShortLine{ProductID: line.ProductID.Hex(), Name: line.Name, Requested: line.Quantity, Available: available}
}

// syncStock pushes the new stock levels to the lookup cache within the sync
// timeout. The sale is already durable, so failures are only logged.
func (u *saleUseCase) syncStock(ctx context.Context, receiptNo string, updated []productdoc.Product) []string {
	events := make([]invmodel.SyncEvent, 0, len(updated))
	var lowStock []string
	for _, p := range updated {
		ev := invmodel.NewSyncEvent(invmodel.KindStockAdjust, p.Snapshot(), u.lowStockThreshold)
		if ev.LowStock {
			lowStock = append(lowStock, p.ID.Hex())
		}
		events = append(events, ev)
	}

	syncCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.syncTimeout)
	defer cancel()
	if err := publisher.PublishAll(syncCtx, u.publisher, events); err != nil {
		metrics.Checkouts.WithLabelValues("sync_failed").Inc()
		u.log.Warn("checkout stock sync failed", zap.String("receipt_no", receiptNo), zap.Error(err))
	}
	return lowStock
}

func (u *saleUseCase) countCheckout(err error) {
	switch {
	case errors.Is(err, ErrInsufficientStock):
		metrics.Checkouts.WithLabelValues("insufficient_stock").Inc()
	case apperr.KindOf(err) == apperr.KindInternal:
		metrics.Checkouts.WithLabelValues("error").Inc()
	default:
		metrics.Checkouts.WithLabelValues("rejected").Inc()
	}
}

func (u *saleUseCase) logUnrestored(receiptNo string, ids []primitive.ObjectID) {
	if len(ids) == 0 {
		return
	}
	hexes := make([]string, 0, len(ids))
	for _, id := range ids {
		hexes = append(hexes, id.Hex())
	}
	u.log.Error("stock compensation failed, manual correction needed",
		zap.String("receipt_no", receiptNo),
		zap.Strings("product_ids", hexes))
}

func (u *saleUseCase) GetSale(ctx context.Context, id string) (response.SaleResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.SaleResponseDTO{}, err
	}
	sale, err := u.saleRepo.GetByID(ctx, oid)
	if err != nil {
		return response.SaleResponseDTO{}, err
	}
	return response.FromDocument(sale), nil
}

// GetCashierSale hides other cashiers' receipts unless the caller is an admin.
func (u *saleUseCase) GetCashierSale(ctx context.Context, id string, cashier middleware.Actor) (response.SaleResponseDTO, error) {
	sale, err := u.GetSale(ctx, id)
	if err != nil {
		return response.SaleResponseDTO{}, err
	}
	if cashier.Role != middleware.RoleAdmin && sale.CashierUID != cashier.UID {
		return response.SaleResponseDTO{}, repository.ErrSaleNotFound
	}
	return sale, nil
}

func (u *saleUseCase) ListSales(ctx context.Context, query request.ListSalesQuery) (response.SaleListDTO, error) {
	filter := repository.SaleFilter{CashierUID: strings.TrimSpace(query.CashierUID), From: query.From}
	if !query.To.IsZero() {
		filter.To = query.To.AddDate(0, 0, 1)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return response.SaleListDTO{}, apperr.Invalid("from must be before to")
	}

	page, pageSize := database.NormalizePage(query.Page, query.PageSize)
	sales, total, err := u.saleRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return response.SaleListDTO{}, err
	}
	return response.SaleListDTO{Items: response.FromDocuments(sales), Total: total, Page: page, PageSize: pageSize}, nil
}

func (u *saleUseCase) TodaySales(ctx context.Context, cashierUID string) (response.TodaySalesDTO, error) {
	if cashierUID == "" {
		return response.TodaySalesDTO{}, apperr.New(apperr.KindUnauthorized, "unknown cashier")
	}
	now := u.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sales, err := u.saleRepo.FindAll(ctx, repository.SaleFilter{CashierUID: cashierUID, From: midnight.UTC()})
	if err != nil {
		return response.TodaySalesDTO{}, err
	}
	revenue := decimal.Zero
	for _, s := range sales {
		revenue = revenue.Add(database.DecimalFromBSON(s.Total))
	}
	return response.TodaySalesDTO{
		Date:      midnight.Format("2006-01-02"),
		SaleCount: len(sales),
		Revenue:   revenue,
		Sales:     response.FromDocuments(sales),
	}, nil
}
