package document

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Member struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UID         string             `bson:"uid"`
	Email       string             `bson:"email"`
	DisplayName string             `bson:"display_name"`
	Phone       string             `bson:"phone,omitempty"`
	Role        string             `bson:"role"`
	Disabled    bool               `bson:"disabled"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}
