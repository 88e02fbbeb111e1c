// reports.go: filas que devuelven los pipelines de agregación
package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// SalesTotals es el total global de órdenes y ventas.
type SalesTotals struct {
	NumOrders  int64   `bson:"num_orders" json:"numOrders"`
	TotalSales float64 `bson:"total_sales" json:"totalSales"`
}

// DateBucket agrupa órdenes por día (YYYY-MM-DD) o mes (YYYY-MM).
type DateBucket struct {
	Date   string  `bson:"_id" json:"date"`
	Orders int64   `bson:"orders" json:"orders"`
	Sales  float64 `bson:"sales" json:"sales"`
}

type CategoryCount struct {
	Category string `bson:"_id" json:"category"`
	Count    int64  `bson:"count" json:"count"`
}

// ProductQuantity es la cantidad total vendida por producto.
type ProductQuantity struct {
	ProductID     primitive.ObjectID `bson:"product_id" json:"productId"`
	ProductName   string             `bson:"product_name" json:"productName"`
	TotalQuantity int64              `bson:"total_quantity" json:"totalQuantity"`
}

// UserDayCount: órdenes de un usuario en un día calendario (zona fija).
type UserDayCount struct {
	User   primitive.ObjectID `bson:"user" json:"user"`
	Day    string             `bson:"day" json:"day"`
	Orders int64              `bson:"orders" json:"orders"`
}
