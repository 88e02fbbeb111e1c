// models.go
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles de usuario
const (
	RoleAdmin     = "admin"
	RoleLogistics = "logistics"
	RoleDelivery  = "delivery"
	RoleCustomer  = "customer"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`
	UserType string             `bson:"user_type" json:"userType"`

	// Controla si la cuenta ya puede hacer pedidos
	IsAdmitted bool `bson:"is_admitted" json:"isAdmitted"`

	// Política de frecuencia de pedidos (7 = semanal, 14 = quincenal)
	DaysFrequency int `bson:"days_frequency,omitempty" json:"daysFrequency,omitempty"`
	MinOrders     int `bson:"min_orders,omitempty" json:"minOrders,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

type Product struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Slug         string             `bson:"slug" json:"slug"`
	Category     string             `bson:"category" json:"category"`
	ProductQty   string             `bson:"product_qty" json:"productQty"`
	Presentation string             `bson:"presentation" json:"presentation"`
	Exclusive    bool               `bson:"exclusive" json:"exclusive"`
	Image        string             `bson:"image" json:"image"`
	Price        float64            `bson:"price" json:"price"`
	CountInStock int                `bson:"count_in_stock" json:"countInStock"`
	Description  string             `bson:"description" json:"description"`
	IEPS         float64            `bson:"ieps" json:"ieps"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// OrderItem es un snapshot del producto al momento de crear la orden.
// Cambios posteriores de precio en el catálogo no afectan órdenes históricas.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

type ShippingAddress struct {
	FullName   string `bson:"full_name" json:"fullName"`
	Address    string `bson:"address" json:"address"`
	City       string `bson:"city" json:"city"`
	PostalCode string `bson:"postal_code" json:"postalCode"`
}

type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	OrderItems      []OrderItem        `bson:"order_items" json:"orderItems"`
	ReturnItems     []OrderItem        `bson:"return_items,omitempty" json:"returnItems,omitempty"`
	PurchaseOrder   string             `bson:"purchase_order,omitempty" json:"purchaseOrder,omitempty"`
	ShippingAddress ShippingAddress    `bson:"shipping_address" json:"shippingAddress"`

	// totalPrice = subtotal + ieps, calculado al crear la orden
	Subtotal   float64 `bson:"subtotal" json:"subtotal"`
	IEPS       float64 `bson:"ieps" json:"ieps"`
	TotalPrice float64 `bson:"total_price" json:"totalPrice"`

	User primitive.ObjectID `bson:"user" json:"user"`

	// Flags de ciclo de vida: una vez prendidos no se apagan
	NotificationSent  bool       `bson:"notification_sent" json:"notificationSent"`
	EstimatedDelivery *time.Time `bson:"estimated_delivery,omitempty" json:"estimatedDelivery,omitempty"`
	IsReady           bool       `bson:"is_ready" json:"isReady"`
	ReadyAt           *time.Time `bson:"ready_at,omitempty" json:"readyAt,omitempty"`
	IsDelivered       bool       `bson:"is_delivered" json:"isDelivered"`
	DeliveredAt       *time.Time `bson:"delivered_at,omitempty" json:"deliveredAt,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// OrderWithUser es el resultado del $lookup contra users para el listado admin.
type OrderWithUser struct {
	Order    `bson:",inline"`
	UserName string `bson:"user_name" json:"userName"`
}

// OrderUpdate agrupa los campos mutables de una transición.
// Solo los punteros no nulos se escriben en el documento.
type OrderUpdate struct {
	NotificationSent  *bool
	EstimatedDelivery *time.Time
	IsReady           *bool
	ReadyAt           *time.Time
	IsDelivered       *bool
	DeliveredAt       *time.Time
}

// ReportTimezone: zona fija para todos los cortes de calendario de reportes.
// Evita corrimientos de día cuando el servidor corre en UTC.
const ReportTimezone = "America/Mexico_City"
