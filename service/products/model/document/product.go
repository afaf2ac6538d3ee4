package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"retail_backoffice/pkg/infra/database"
	invmodel "retail_backoffice/service/inventory/model"
)

// MaxQuantity caps a single stock movement and a merged line quantity.
const MaxQuantity = 100000

type Product struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Name        string               `bson:"name"`
	Barcode     string               `bson:"barcode"`
	Category    string               `bson:"category,omitempty"`
	Description string               `bson:"description,omitempty"`
	ImageURL    string               `bson:"image_url,omitempty"`
	Unit        string               `bson:"unit,omitempty"`
	Price       primitive.Decimal128 `bson:"price"`
	Cost        primitive.Decimal128 `bson:"cost"`
	Stock       int                  `bson:"stock"`
	Featured    bool                 `bson:"featured"`
	Active      bool                 `bson:"active"`
	CreatedAt   time.Time            `bson:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at"`
}

func (p Product) Snapshot() invmodel.ProductSnapshot {
	return invmodel.ProductSnapshot{
		ProductID: p.ID.Hex(),
		Barcode:   p.Barcode,
		Name:      p.Name,
		Price:     database.DecimalFromBSON(p.Price).StringFixed(2),
		Unit:      p.Unit,
		Stock:     p.Stock,
		Active:    p.Active,
		UpdatedAt: p.UpdatedAt.UnixMilli(),
	}
}
