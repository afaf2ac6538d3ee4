package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportLine struct {
	ProductID   primitive.ObjectID   `bson:"product_id"`
	ProductName string               `bson:"product_name"`
	Quantity    int                  `bson:"quantity"`
	UnitCost    primitive.Decimal128 `bson:"unit_cost"`
	LineCost    primitive.Decimal128 `bson:"line_cost"`
}

type ImportEntry struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	ImporterID   primitive.ObjectID   `bson:"importer_id"`
	ImporterName string               `bson:"importer_name"`
	Items        []ImportLine         `bson:"items"`
	TotalCost    primitive.Decimal128 `bson:"total_cost"`
	Note         string               `bson:"note,omitempty"`
	CreatedBy    string               `bson:"created_by"`
	CreatedAt    time.Time            `bson:"created_at"`
}
