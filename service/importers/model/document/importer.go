package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Importer struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Phone     string             `bson:"phone,omitempty"`
	Email     string             `bson:"email,omitempty"`
	Address   string             `bson:"address,omitempty"`
	Note      string             `bson:"note,omitempty"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}
