// dto.go
package dto

import (
	"time"

	"samarithanna-api/internal/model"
)

type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse es el perfil que se devuelve junto con el token firmado.
type UserResponse struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	UserType   string `json:"userType"`
	IsAdmitted bool   `json:"isAdmitted"`
	Token      string `json:"token"`
}

// AdminUpdateUserRequest: edición de cuenta por un admin.
// daysFrequency y minOrders se escriben tal cual (cero los borra).
type AdminUpdateUserRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	UserType      string `json:"userType"`
	IsAdmitted    *bool  `json:"isAdmitted"`
	DaysFrequency int    `json:"daysFrequency"`
	MinOrders     int    `json:"minOrders"`
}

// UpdateProfileRequest: edición del propio perfil (nombre/email/password).
type UpdateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OrderItemRequest struct {
	Product  string  `json:"_id" binding:"required"`
	Name     string  `json:"name" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Price    float64 `json:"price"`
}

type ShippingAddressRequest struct {
	FullName   string `json:"fullName" binding:"required"`
	Address    string `json:"address" binding:"required"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItemRequest     `json:"orderItems" binding:"required"`
	ReturnItems     []OrderItemRequest     `json:"returnItems"`
	PurchaseOrder   string                 `json:"purchaseOrder"`
	ShippingAddress ShippingAddressRequest `json:"shippingAddress" binding:"required"`
	Subtotal        float64                `json:"subtotal"`
	IEPS            float64                `json:"ieps"`
}

type EstimatedDeliveryRequest struct {
	EstimatedDelivery time.Time `json:"estimatedDelivery" binding:"required"`
}

// MineStatsResponse: conteos de órdenes propias de hoy y del mes en curso.
type MineStatsResponse struct {
	TodayOrdersCount int64 `json:"todayOrdersCount"`
	MonthOrdersCount int64 `json:"monthOrdersCount"`
}

// SummaryResponse es el paquete completo del reporte admin.
type SummaryResponse struct {
	Orders             model.SalesTotals       `json:"orders"`
	NumUsers           int64                   `json:"numUsers"`
	DailyOrders        []model.DateBucket      `json:"dailyOrders"`
	MonthlyOrders      []model.DateBucket      `json:"monthlyOrders"`
	ProductCategories  []model.CategoryCount   `json:"productCategories"`
	ItemsSoldByProduct []model.ProductQuantity `json:"itemsSoldByProduct"`
}

// CadenceRow: conteo por día de semana (lunes a domingo) contra minOrders.
type CadenceRow struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	MinOrders int    `json:"minOrders"`
	Monday    int64  `json:"monday"`
	Tuesday   int64  `json:"tuesday"`
	Wednesday int64  `json:"wednesday"`
	Thursday  int64  `json:"thursday"`
	Friday    int64  `json:"friday"`
	Saturday  int64  `json:"saturday"`
	Sunday    int64  `json:"sunday"`
	Total     int64  `json:"total"`
}

// WeeklyTrackingResponse: semana ISO (lunes-domingo) con una fila por usuario.
type WeeklyTrackingResponse struct {
	WeekStart string       `json:"weekStart"`
	WeekEnd   string       `json:"weekEnd"`
	Users     []CadenceRow `json:"users"`
}

// BiweeklyTrackingResponse compara la semana en curso con la anterior.
type BiweeklyTrackingResponse struct {
	CurrentWeek  WeeklyTrackingResponse `json:"currentWeek"`
	PreviousWeek WeeklyTrackingResponse `json:"previousWeek"`
}
