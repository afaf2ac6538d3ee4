package model

import (
	"fmt"
	"strconv"

	"firebase.google.com/go/v4/messaging"

	invmodel "retail_backoffice/service/inventory/model"
)

const LowStockTopic = "low-stock"

// LowStockMessage builds the topic push sent to admin devices.
func LowStockMessage(snap invmodel.ProductSnapshot) *messaging.Message {
	return &messaging.Message{
		Topic: LowStockTopic,
		Notification: &messaging.Notification{
			Title: "Low stock",
			Body:  fmt.Sprintf("%s has %d left", snap.Name, snap.Stock),
		},
		Data: map[string]string{
			"type":       "low_stock",
			"product_id": snap.ProductID,
			"barcode":    snap.Barcode,
			"name":       snap.Name,
			"stock":      strconv.Itoa(snap.Stock),
		},
	}
}
