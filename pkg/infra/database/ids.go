package database

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"retail_backoffice/pkg/apperr"
)

var ErrInvalidID = apperr.New(apperr.KindInvalid, "invalid id")

func ParseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
