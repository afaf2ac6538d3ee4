package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestBuildFilter(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, bson.M{}, buildFilter(SaleFilter{}))
	assert.Equal(t, bson.M{
		"cashier_uid": "uid-1",
		"created_at":  bson.M{"$gte": from},
	}, buildFilter(SaleFilter{CashierUID: "uid-1", From: from}))
}
