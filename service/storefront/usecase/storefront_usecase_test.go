package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail_backoffice/service/products/model/document"
	"retail_backoffice/service/products/repository"
	"retail_backoffice/service/products/repository/repositorytest"
	"retail_backoffice/service/storefront/model/request"
)

func seed() []document.Product {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []document.Product{
		{Name: "Hidden Gem", Barcode: "h", Category: "secret", Stock: 5, Featured: true, Active: false, CreatedAt: base.Add(100 * time.Hour)},
		{Name: "Sold Out Star", Barcode: "s", Category: "snacks", Stock: 0, Featured: true, Active: true, CreatedAt: base.Add(99 * time.Hour)},
	}
	for i := 0; i < 10; i++ {
		products = append(products, document.Product{
			Name:      fmt.Sprintf("Item %02d", i),
			Barcode:   fmt.Sprintf("b%d", i),
			Category:  []string{"drinks", "snacks"}[i%2],
			Stock:     3,
			Featured:  i < 3,
			Active:    true,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return products
}

func TestLanding(t *testing.T) {
	uc := NewStorefrontUseCase(repositorytest.NewProductRepository(seed()...), "Corner Store")

	landing, err := uc.Landing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Corner Store", landing.StoreName)
	require.Len(t, landing.Featured, 3, "inactive and sold out products are not featured")
	assert.Equal(t, "Item 00", landing.Featured[0].Name)

	require.Len(t, landing.NewArrivals, landingSectionSize)
	assert.Equal(t, "Item 09", landing.NewArrivals[0].Name, "newest first")

	assert.Equal(t, []string{"drinks", "snacks"}, landing.Categories)
}

func TestCatalog_HidesInactive(t *testing.T) {
	uc := NewStorefrontUseCase(repositorytest.NewProductRepository(seed()...), "")

	catalog, err := uc.Catalog(context.Background(), request.CatalogQuery{Q: "gem"})
	require.NoError(t, err)
	assert.Zero(t, catalog.Total)

	catalog, err = uc.Catalog(context.Background(), request.CatalogQuery{Category: "snacks"})
	require.NoError(t, err)
	assert.EqualValues(t, 6, catalog.Total)
	assert.Equal(t, "Item 01", catalog.Items[0].Name)
	assert.False(t, catalog.Items[5].InStock, "sold out products are listed but marked")
}

func TestProduct_InactiveIsNotFound(t *testing.T) {
	repo := repositorytest.NewProductRepository()
	hidden := document.Product{Name: "Hidden", Barcode: "x", Active: false}
	require.NoError(t, repo.Create(context.Background(), &hidden))
	uc := NewStorefrontUseCase(repo, "")

	_, err := uc.Product(context.Background(), hidden.ID.Hex())
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}
