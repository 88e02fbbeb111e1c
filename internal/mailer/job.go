package mailer

import "samarithanna-api/internal/model"

// Tipos de correo que viajan por la cola.
const (
	KindOrderProcessed    = "order_processed"
	KindEstimatedDelivery = "estimated_delivery"
	KindOrderReady        = "order_ready"
	KindOrderDelivered    = "order_delivered"
	KindWelcome           = "welcome"
)

// EmailJob es el mensaje que el motor de órdenes publica en Rabbit y que el
// worker consume. Lleva el snapshot completo de la orden para que el
// renderizado no toque la base.
type EmailJob struct {
	Kind           string       `json:"kind"`
	RecipientName  string       `json:"recipientName"`
	RecipientEmail string       `json:"recipientEmail"`
	Order          *model.Order `json:"order,omitempty"`
}
