package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	invmodel "retail_backoffice/service/inventory/model"
	"retail_backoffice/service/inventory/publisher"
	"retail_backoffice/service/products/model/document"
	"retail_backoffice/service/products/model/request"
	"retail_backoffice/service/products/model/response"
	"retail_backoffice/service/products/repository"
)

var (
	errNegativePrice    = apperr.Invalid("price and cost must not be negative")
	errEmptyUpdate      = apperr.Invalid("no fields to update")
	errQuantityTooLarge = apperr.Invalid(fmt.Sprintf("quantity must be at most %d", document.MaxQuantity))
	// ErrNegativeStock is returned when a manual adjustment would take stock
	// below zero.
	ErrNegativeStock = apperr.New(apperr.KindUnprocessable, "adjustment would make stock negative")
)

type IProductUseCase interface {
	CreateProduct(ctx context.Context, dto request.CreateProductDTO) (response.ProductResponseDTO, error)
	UpdateProduct(ctx context.Context, id string, dto request.UpdateProductDTO) (response.ProductResponseDTO, error)
	AdjustStock(ctx context.Context, id string, dto request.AdjustStockDTO, actor string) (response.ProductResponseDTO, error)
	DeleteProduct(ctx context.Context, id string) error
	GetProduct(ctx context.Context, id string) (response.ProductResponseDTO, error)
	ListProducts(ctx context.Context, query request.ListProductsQuery) (response.ProductListDTO, error)
}

type productUseCase struct {
	productRepo       repository.IProductRepository
	publisher         publisher.IPublisher
	lowStockThreshold int
	log               *zap.Logger
}

func NewProductUseCase(productRepo repository.IProductRepository, pub publisher.IPublisher, lowStockThreshold int, log *zap.Logger) IProductUseCase {
	return &productUseCase{
		productRepo:       productRepo,
		publisher:         pub,
		lowStockThreshold: lowStockThreshold,
		log:               log.Named("products"),
	}
}

func (u *productUseCase) CreateProduct(ctx context.Context, dto request.CreateProductDTO) (response.ProductResponseDTO, error) {
	if dto.Price.IsNegative() || dto.Cost.IsNegative() {
		return response.ProductResponseDTO{}, errNegativePrice
	}
	if dto.Stock < 0 || dto.Stock > document.MaxQuantity {
		return response.ProductResponseDTO{}, errQuantityTooLarge
	}
	active := true
	if dto.Active != nil {
		active = *dto.Active
	}

	now := time.Now().UTC()
	product := document.Product{
		Name:        strings.TrimSpace(dto.Name),
		Barcode:     strings.TrimSpace(dto.Barcode),
		Category:    strings.TrimSpace(dto.Category),
		Description: dto.Description,
		ImageURL:    strings.TrimSpace(dto.ImageURL),
		Unit:        strings.TrimSpace(dto.Unit),
		Price:       database.DecimalToBSON(dto.Price.Round(2)),
		Cost:        database.DecimalToBSON(dto.Cost.Round(2)),
		Stock:       dto.Stock,
		Featured:    dto.Featured,
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if product.Name == "" || product.Barcode == "" {
		return response.ProductResponseDTO{}, apperr.Invalid("name and barcode are required")
	}

	if err := u.productRepo.Create(ctx, &product); err != nil {
		return response.ProductResponseDTO{}, err
	}
	u.log.Info("product created", zap.String("product_id", product.ID.Hex()), zap.String("barcode", product.Barcode))

	u.publish(ctx, invmodel.NewSyncEvent(invmodel.KindProductUpsert, product.Snapshot(), u.lowStockThreshold))
	return response.FromDocument(product), nil
}

func (u *productUseCase) UpdateProduct(ctx context.Context, id string, dto request.UpdateProductDTO) (response.ProductResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.ProductResponseDTO{}, err
	}

	set, err := updateFields(dto)
	if err != nil {
		return response.ProductResponseDTO{}, err
	}

	var previousBarcode string
	if _, ok := set["barcode"]; ok {
		before, err := u.productRepo.GetByID(ctx, oid)
		if err != nil {
			return response.ProductResponseDTO{}, err
		}
		previousBarcode = before.Barcode
	}

	product, err := u.productRepo.Update(ctx, oid, set)
	if err != nil {
		return response.ProductResponseDTO{}, err
	}

	event := invmodel.NewSyncEvent(invmodel.KindProductUpsert, product.Snapshot(), u.lowStockThreshold)
	event.PreviousBarcode = previousBarcode
	u.publish(ctx, event)
	return response.FromDocument(product), nil
}

func updateFields(dto request.UpdateProductDTO) (bson.M, error) {
	set := bson.M{}
	if dto.Name != nil {
		set["name"] = strings.TrimSpace(*dto.Name)
	}
	if dto.Barcode != nil {
		set["barcode"] = strings.TrimSpace(*dto.Barcode)
	}
	if dto.Category != nil {
		set["category"] = strings.TrimSpace(*dto.Category)
	}
	if dto.Description != nil {
		set["description"] = *dto.Description
	}
	if dto.ImageURL != nil {
		set["image_url"] = strings.TrimSpace(*dto.ImageURL)
	}
	if dto.Unit != nil {
		set["unit"] = strings.TrimSpace(*dto.Unit)
	}
	if dto.Price != nil {
		if dto.Price.IsNegative() {
			return nil, errNegativePrice
		}
		set["price"] = database.DecimalToBSON(dto.Price.Round(2))
	}
	if dto.Cost != nil {
		if dto.Cost.IsNegative() {
			return nil, errNegativePrice
		}
		set["cost"] = database.DecimalToBSON(dto.Cost.Round(2))
	}
	if dto.Featured != nil {
		set["featured"] = *dto.Featured
	}
	if dto.Active != nil {
		set["active"] = *dto.Active
	}
	if len(set) == 0 {
		return nil, errEmptyUpdate
	}
	if name, ok := set["name"]; ok && name == "" {
		return nil, apperr.Invalid("name must not be empty")
	}
	if barcode, ok := set["barcode"]; ok && barcode == "" {
		return nil, apperr.Invalid("barcode must not be empty")
	}
	return set, nil
}

func (u *productUseCase) AdjustStock(ctx context.Context, id string, dto request.AdjustStockDTO, actor string) (response.ProductResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.ProductResponseDTO{}, err
	}
	if dto.Delta == 0 {
		return response.ProductResponseDTO{}, apperr.Invalid("delta must not be zero")
	}
	if dto.Delta > document.MaxQuantity || dto.Delta < -document.MaxQuantity {
		return response.ProductResponseDTO{}, errQuantityTooLarge
	}

	product, err := u.productRepo.AdjustStock(ctx, oid, dto.Delta)
	if errors.Is(err, repository.ErrStockConflict) {
		return response.ProductResponseDTO{}, ErrNegativeStock
	}
	if err != nil {
		return response.ProductResponseDTO{}, err
	}
	u.log.Info("stock adjusted",
		zap.String("product_id", id),
		zap.Int("delta", dto.Delta),
		zap.Int("stock", product.Stock),
		zap.String("reason", dto.Reason),
		zap.String("actor", actor))

	u.publish(ctx, invmodel.NewSyncEvent(invmodel.KindStockAdjust, product.Snapshot(), u.lowStockThreshold))
	return response.FromDocument(product), nil
}

func (u *productUseCase) DeleteProduct(ctx context.Context, id string) error {
	oid, err := database.ParseID(id)
	if err != nil {
		return err
	}
	product, err := u.productRepo.Delete(ctx, oid)
	if err != nil {
		return err
	}
	u.log.Info("product deleted", zap.String("product_id", id), zap.String("barcode", product.Barcode))
	u.publish(ctx, invmodel.NewSyncEvent(invmodel.KindProductDelete, product.Snapshot(), u.lowStockThreshold))
	return nil
}

func (u *productUseCase) GetProduct(ctx context.Context, id string) (response.ProductResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.ProductResponseDTO{}, err
	}
	product, err := u.productRepo.GetByID(ctx, oid)
	if err != nil {
		return response.ProductResponseDTO{}, err
	}
	return response.FromDocument(product), nil
}

func (u *productUseCase) ListProducts(ctx context.Context, query request.ListProductsQuery) (response.ProductListDTO, error) {
	filter := repository.ProductFilter{
		Query:    strings.TrimSpace(query.Q),
		Category: strings.TrimSpace(query.Category),
		Active:   query.Active,
	}
	if query.LowStock {
		threshold := u.lowStockThreshold
		filter.MaxStock = &threshold
	}

	page, pageSize := database.NormalizePage(query.Page, query.PageSize)
	products, total, err := u.productRepo.List(ctx, filter, page, pageSize, bson.D{{Key: "name", Value: 1}})
	if err != nil {
		return response.ProductListDTO{}, err
	}

	items := make([]response.ProductResponseDTO, 0, len(products))
	for _, p := range products {
		items = append(items, response.FromDocument(p))
	}
	return response.ProductListDTO{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}

// publish is best effort: MongoDB already holds the change and a resync
// repairs the lookup cache.
func (u *productUseCase) publish(ctx context.Context, event invmodel.SyncEvent) {
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.log.Warn("failed to publish inventory sync event",
			zap.String("kind", string(event.Kind)),
			zap.String("product_id", event.ProductID),
			zap.Error(err))
	}
}
