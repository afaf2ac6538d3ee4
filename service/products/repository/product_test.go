package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilter_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, buildFilter(ProductFilter{}))
}

func TestBuildFilter_Storefront(t *testing.T) {
	active := true
	got := buildFilter(ProductFilter{Active: &active, FeaturedOnly: true, InStockOnly: true, Category: "drinks"})

	assert.Equal(t, bson.M{
		"active":   true,
		"featured": true,
		"category": "drinks",
		"stock":    bson.M{"$gt": 0},
	}, got)
}

func TestBuildFilter_SearchEscapesRegex(t *testing.T) {
	got := buildFilter(ProductFilter{Query: "c++ (1.5L)"})

	or, ok := got["$or"].(bson.A)
	if assert.True(t, ok) {
		assert.Len(t, or, 2)
		name := or[0].(bson.M)["name"].(primitive.Regex)
		assert.Equal(t, `c\+\+ \(1\.5L\)`, name.Pattern)
		assert.Equal(t, "i", name.Options)
	}
}

func TestBuildFilter_LowStock(t *testing.T) {
	threshold := 5
	got := buildFilter(ProductFilter{MaxStock: &threshold})
	assert.Equal(t, bson.M{"stock": bson.M{"$lte": 5}}, got)
}
