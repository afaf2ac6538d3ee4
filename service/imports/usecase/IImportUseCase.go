package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
	"retail_backoffice/pkg/infra/database"
	importerrepo "retail_backoffice/service/importers/repository"
	"retail_backoffice/service/imports/model/document"
	"retail_backoffice/service/imports/model/request"
	"retail_backoffice/service/imports/model/response"
	"retail_backoffice/service/imports/repository"
	invmodel "retail_backoffice/service/inventory/model"
	"retail_backoffice/service/inventory/publisher"
	productdoc "retail_backoffice/service/products/model/document"
	productrepo "retail_backoffice/service/products/repository"
)

var errQuantityTooLarge = apperr.Invalid(fmt.Sprintf("quantity per product must be at most %d", productdoc.MaxQuantity))

type IImportUseCase interface {
	RecordImport(ctx context.Context, dto request.RecordImportDTO, actor string) (response.ImportResponseDTO, error)
	GetImport(ctx context.Context, id string) (response.ImportResponseDTO, error)
	ListImports(ctx context.Context, query request.ListImportsQuery) (response.ImportListDTO, error)
}

type importUseCase struct {
	importRepo        repository.IImportRepository
	importerRepo      importerrepo.IImporterRepository
	productRepo       productrepo.IProductRepository
	publisher         publisher.IPublisher
	lowStockThreshold int
	log               *zap.Logger
}

func NewImportUseCase(
	importRepo repository.IImportRepository,
	importerRepo importerrepo.IImporterRepository,
	productRepo productrepo.IProductRepository,
	pub publisher.IPublisher,
	lowStockThreshold int,
	log *zap.Logger,
) IImportUseCase {
	return &importUseCase{
		importRepo:        importRepo,
		importerRepo:      importerRepo,
		productRepo:       productRepo,
		publisher:         pub,
		lowStockThreshold: lowStockThreshold,
		log:               log.Named("imports"),
	}
}

type mergedLine struct {
	productID primitive.ObjectID
	quantity  int
	unitCost  decimal.Decimal
}

// mergeLines folds repeated products into one line. The last unit cost
// given for a product wins.
func mergeLines(items []request.ImportLineDTO) ([]mergedLine, error) {
	index := make(map[primitive.ObjectID]int, len(items))
	lines := make([]mergedLine, 0, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperr.Invalid("quantity must be greater than zero")
		}
		if item.Quantity > productdoc.MaxQuantity {
			return nil, errQuantityTooLarge
		}
		if item.UnitCost.IsNegative() {
			return nil, apperr.Invalid("unit cost must not be negative")
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
			lines[i].unitCost = item.UnitCost.Round(2)
			continue
		}
		index[id] = len(lines)
		lines = append(lines, mergedLine{productID: id, quantity: item.Quantity, unitCost: item.UnitCost.Round(2)})
	}
	if len(lines) == 0 {
		return nil, apperr.Invalid("at least one item is required")
	}
	return lines, nil
}

func (u *importUseCase) RecordImport(ctx context.Context, dto request.RecordImportDTO, actor string) (response.ImportResponseDTO, error) {
	importerID, err := database.ParseID(dto.ImporterID)
	if err != nil {
		return response.ImportResponseDTO{}, err
	}
	lines, err := mergeLines(dto.Items)
	if err != nil {
		return response.ImportResponseDTO{}, err
	}

	importer, err := u.importerRepo.GetByID(ctx, importerID)
	if err != nil {
		return response.ImportResponseDTO{}, err
	}

	ids := make([]primitive.ObjectID, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.productID)
	}
	found, err := u.productRepo.GetByIDs(ctx, ids)
	if err != nil {
		return response.ImportResponseDTO{}, err
	}
	products := make(map[primitive.ObjectID]productdoc.Product, len(found))
	for _, p := range found {
		products[p.ID] = p
	}

	entry := document.ImportEntry{
		ImporterID:   importer.ID,
		ImporterName: importer.Name,
		Items:        make([]document.ImportLine, 0, len(lines)),
		Note:         strings.TrimSpace(dto.Note),
		CreatedBy:    actor,
		CreatedAt:    time.Now().UTC(),
	}
	total := decimal.Zero
	changes := make([]productrepo.StockChange, 0, len(lines))
	for _, l := range lines {
		p, ok := products[l.productID]
		if !ok {
			return response.ImportResponseDTO{}, productrepo.ErrProductNotFound
		}
		lineCost := l.unitCost.Mul(decimal.NewFromInt(int64(l.quantity))).Round(2)
		total = total.Add(lineCost)
		entry.Items = append(entry.Items, document.ImportLine{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.quantity,
			UnitCost:    database.DecimalToBSON(l.unitCost),
			LineCost:    database.DecimalToBSON(lineCost),
		})
		changes = append(changes, productrepo.StockChange{ProductID: p.ID, Delta: l.quantity})
	}
	entry.TotalCost = database.DecimalToBSON(total)

	updated, _, unrestored, err := productrepo.ApplyStockChanges(ctx, u.productRepo, changes)
	if err != nil {
		u.logUnrestored(unrestored)
		return response.ImportResponseDTO{}, err
	}

	if err := u.importRepo.Insert(ctx, &entry); err != nil {
		u.logUnrestored(productrepo.RevertStockChanges(ctx, u.productRepo, changes))
		return response.ImportResponseDTO{}, err
	}
	u.log.Info("import recorded",
		zap.String("import_id", entry.ID.Hex()),
		zap.String("importer_id", importer.ID.Hex()),
		zap.Int("lines", len(entry.Items)),
		zap.String("total_cost", total.StringFixed(2)),
		zap.String("actor", actor))

	if dto.UpdateCost {
		for _, l := range lines {
			if _, err := u.productRepo.Update(ctx, l.productID, bson.M{"cost": database.DecimalToBSON(l.unitCost)}); err != nil {
				u.log.Warn("failed to update product cost", zap.String("product_id", l.productID.Hex()), zap.Error(err))
			}
		}
	}

	events := make([]invmodel.SyncEvent, 0, len(updated))
	for _, p := range updated {
		events = append(events, invmodel.NewSyncEvent(invmodel.KindStockAdjust, p.Snapshot(), u.lowStockThreshold))
	}
	if err := publisher.PublishAll(ctx, u.publisher, events); err != nil {
		u.log.Warn("failed to publish import stock events", zap.String("import_id", entry.ID.Hex()), zap.Error(err))
	}
	return response.FromDocument(entry), nil
}

func (u *importUseCase) logUnrestored(ids []primitive.ObjectID) {
	if len(ids) == 0 {
		return
	}
	hexes := make([]string, 0, len(ids))
	for _, id := range ids {
		hexes = append(hexes, id.Hex())
	}
	u.log.Error("stock compensation failed, manual correction needed", zap.Strings("product_ids", hexes))
}

func (u *importUseCase) GetImport(ctx context.Context, id string) (response.ImportResponseDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.ImportResponseDTO{}, err
	}
	entry, err := u.importRepo.GetByID(ctx, oid)
	if err != nil {
		return response.ImportResponseDTO{}, err
	}
	return response.FromDocument(entry), nil
}

func (u *importUseCase) ListImports(ctx context.Context, query request.ListImportsQuery) (response.ImportListDTO, error) {
	filter := repository.ImportFilter{From: query.From}
	if !query.To.IsZero() {
		// to is an inclusive calendar day
		filter.To = query.To.AddDate(0, 0, 1)
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && !filter.From.Before(filter.To) {
		return response.ImportListDTO{}, apperr.Invalid("from must be before to")
	}
	if query.ImporterID != "" {
		oid, err := database.ParseID(query.ImporterID)
		if err != nil {
			return response.ImportListDTO{}, err
		}
		filter.ImporterID = &oid
	}

	page, pageSize := database.NormalizePage(query.Page, query.PageSize)
	entries, total, err := u.importRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return response.ImportListDTO{}, err
	}
	items := make([]response.ImportResponseDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, response.FromDocument(e))
	}
	return response.ImportListDTO{Items: items, Total: total, Page: page, PageSize: pageSize}, nil
}
