package repositorytest

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/products/model/document"
	"retail_backoffice/service/products/repository"
)

var _ repository.IProductRepository = (*ProductRepository)(nil)

// ProductRepository is an in-process IProductRepository with the same
// conditional stock semantics as the MongoDB one.
type ProductRepository struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]document.Product

	// FailAdjust, when set, is consulted before every AdjustStock call.
	FailAdjust func(id primitive.ObjectID, delta int) error
}

func NewProductRepository(seed ...document.Product) *ProductRepository {
	r := &ProductRepository{products: make(map[primitive.ObjectID]document.Product)}
	for _, p := range seed {
		if p.ID.IsZero() {
			p.ID = primitive.NewObjectID()
		}
		r.products[p.ID] = p
	}
	return r
}

func (r *ProductRepository) Create(_ context.Context, product *document.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == product.Barcode {
			return repository.ErrDuplicateBarcode
		}
	}
	if product.ID.IsZero() {
		product.ID = primitive.NewObjectID()
	}
	r.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) GetByID(_ context.Context, id primitive.ObjectID) (document.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return document.Product{}, repository.ErrProductNotFound
	}
	return p, nil
}

func (r *ProductRepository) GetByIDs(_ context.Context, ids []primitive.ObjectID) ([]document.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]document.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) GetByBarcode(_ context.Context, barcode string) (document.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.Barcode == barcode {
			return p, nil
		}
	}
	return document.Product{}, repository.ErrProductNotFound
}

func (r *ProductRepository) Update(_ context.Context, id primitive.ObjectID, set bson.M) (document.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return document.Product{}, repository.ErrProductNotFound
	}
	if barcode, ok := set["barcode"].(string); ok {
		for otherID, other := range r.products {
			if otherID != id && other.Barcode == barcode {
				return document.Product{}, repository.ErrDuplicateBarcode
			}
		}
	}
	for field, value := range set {
		applyField(&p, field, value)
	}
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return p, nil
}

func applyField(p *document.Product, field string, value interface{}) {
	switch field {
	case "name":
		p.Name = value.(string)
	case "barcode":
		p.Barcode = value.(string)
	case "category":
		p.Category = value.(string)
	case "description":
		p.Description = value.(string)
	case "image_url":
		p.ImageURL = value.(string)
	case "unit":
		p.Unit = value.(string)
	case "price":
		p.Price = value.(primitive.Decimal128)
	case "cost":
		p.Cost = value.(primitive.Decimal128)
	case "featured":
		p.Featured = value.(bool)
	case "active":
		p.Active = value.(bool)
	}
}

func (r *ProductRepository) Delete(_ context.Context, id primitive.ObjectID) (document.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return document.Product{}, repository.ErrProductNotFound
	}
	delete(r.products, id)
	return p, nil
}

func (r *ProductRepository) List(_ context.Context, filter repository.ProductFilter, page, pageSize int, order bson.D) ([]document.Product, int64, error) {
	r.mu.Lock()
	matched := make([]document.Product, 0)
	for _, p := range r.products {
		if matches(p, filter) {
			matched = append(matched, p)
		}
	}
	r.mu.Unlock()

	sortProducts(matched, order)

	page, pageSize = database.NormalizePage(page, pageSize)
	total := int64(len(matched))
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []document.Product{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *ProductRepository) Categories(_ context.Context, filter repository.ProductFilter) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range r.products {
		if p.Category == "" || !matches(p, filter) {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (r *ProductRepository) AdjustStock(_ context.Context, id primitive.ObjectID, delta int) (document.Product, error) {
	if err := repository.CheckDelta(delta); err != nil {
		return document.Product{}, err
	}
	if r.FailAdjust != nil {
		if err := r.FailAdjust(id, delta); err != nil {
			return document.Product{}, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return document.Product{}, repository.ErrProductNotFound
	}
	if p.Stock+delta < 0 {
		return document.Product{}, repository.ErrStockConflict
	}
	p.Stock += delta
	p.UpdatedAt = time.Now().UTC()
	r.products[id] = p
	return p, nil
}

func (r *ProductRepository) ForEach(_ context.Context, fn func(document.Product) error) error {
	r.mu.Lock()
	all := make([]document.Product, 0, len(r.products))
	for _, p := range r.products {
		all = append(all, p)
	}
	r.mu.Unlock()
	for _, p := range all {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

// Stock returns the current stock of id, or -1 when it does not exist.
func (r *ProductRepository) Stock(id primitive.ObjectID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return -1
	}
	return p.Stock
}

func matches(p document.Product, f repository.ProductFilter) bool {
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Barcode), q) {
			return false
		}
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	if f.Active != nil && p.Active != *f.Active {
		return false
	}
	if f.FeaturedOnly && !p.Featured {
		return false
	}
	if f.InStockOnly && p.Stock <= 0 {
		return false
	}
	if f.MaxStock != nil && p.Stock > *f.MaxStock {
		return false
	}
	return true
}

// sortProducts understands the orders the use cases ask for: by name, or
// newest first.
func sortProducts(products []document.Product, order bson.D) {
	byCreated := len(order) > 0 && order[0].Key == "created_at"
	sort.SliceStable(products, func(i, j int) bool {
		if byCreated {
			return products[i].CreatedAt.After(products[j].CreatedAt)
		}
		return products[i].Name < products[j].Name
	})
}
