package usecase

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"retail_backoffice/pkg/infra/database"
	"retail_backoffice/service/products/model/document"
	"retail_backoffice/service/products/repository"
	"retail_backoffice/service/storefront/model/request"
	"retail_backoffice/service/storefront/model/response"
)

const landingSectionSize = 8

type IStorefrontUseCase interface {
	Landing(ctx context.Context) (response.LandingDTO, error)
	Catalog(ctx context.Context, query request.CatalogQuery) (response.CatalogDTO, error)
	Product(ctx context.Context, id string) (response.PublicProductDTO, error)
}

type storefrontUseCase struct {
	productRepo repository.IProductRepository
	storeName   string
}

func NewStorefrontUseCase(productRepo repository.IProductRepository, storeName string) IStorefrontUseCase {
	return &storefrontUseCase{productRepo: productRepo, storeName: storeName}
}

func (u *storefrontUseCase) Landing(ctx context.Context) (response.LandingDTO, error) {
	active := true
	var featured, arrivals []document.Product
	var categories []string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		featured, _, err = u.productRepo.List(gctx,
			repository.ProductFilter{Active: &active, FeaturedOnly: true, InStockOnly: true},
			1, landingSectionSize, bson.D{{Key: "name", Value: 1}})
		return err
	})
	g.Go(func() error {
		var err error
		arrivals, _, err = u.productRepo.List(gctx,
			repository.ProductFilter{Active: &active, InStockOnly: true},
			1, landingSectionSize, bson.D{{Key: "created_at", Value: -1}})
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = u.productRepo.Categories(gctx, repository.ProductFilter{Active: &active})
		return err
	})
	if err := g.Wait(); err != nil {
		return response.LandingDTO{}, err
	}

	if categories == nil {
		categories = []string{}
	}
	return response.LandingDTO{
		StoreName:   u.storeName,
		Featured:    response.FromDocuments(featured),
		NewArrivals: response.FromDocuments(arrivals),
		Categories:  categories,
	}, nil
}

func (u *storefrontUseCase) Catalog(ctx context.Context, query request.CatalogQuery) (response.CatalogDTO, error) {
	active := true
	filter := repository.ProductFilter{
		Query:    strings.TrimSpace(query.Q),
		Category: strings.TrimSpace(query.Category),
		Active:   &active,
	}
	page, pageSize := database.NormalizePage(query.Page, query.PageSize)
	products, total, err := u.productRepo.List(ctx, filter, page, pageSize, bson.D{{Key: "name", Value: 1}})
	if err != nil {
		return response.CatalogDTO{}, err
	}
	return response.CatalogDTO{
		Items:    response.FromDocuments(products),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Product hides inactive products as if they did not exist.
func (u *storefrontUseCase) Product(ctx context.Context, id string) (response.PublicProductDTO, error) {
	oid, err := database.ParseID(id)
	if err != nil {
		return response.PublicProductDTO{}, err
	}
	p, err := u.productRepo.GetByID(ctx, oid)
	if err != nil {
		return response.PublicProductDTO{}, err
	}
	if !p.Active {
		return response.PublicProductDTO{}, repository.ErrProductNotFound
	}
	return response.FromDocument(p), nil
}
