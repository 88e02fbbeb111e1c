package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"samarithanna-api/internal/dto"
	"samarithanna-api/internal/middleware"
	"samarithanna-api/internal/service"
)

type OrderController struct {
	Orders  *service.OrderService
	Reports *service.ReportService
	Summary service.SummaryProvider
}

func NewOrderController(orders *service.OrderService, reports *service.ReportService, summary service.SummaryProvider) *OrderController {
	return &OrderController{
		Orders:  orders,
		Reports: reports,
		Summary: summary,
	}
}

func orderID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Order Not Found"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// GET /api/orders — staff
func (ctl *OrderController) List(c *gin.Context) {
	orders, err := ctl.Orders.ListAll(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// POST /api/orders
func (ctl *OrderController) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	order, err := ctl.Orders.Create(c.Request.Context(), middleware.Identity(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "New Order Created", "order": order})
}

// GET /api/orders/summary — admin
func (ctl *OrderController) GetSummary(c *gin.Context) {
	summary, err := ctl.Summary.Summary(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/orders/users-daily-tracking — admin, política semanal
func (ctl *OrderController) UsersDailyTracking(c *gin.Context) {
	report, err := ctl.Reports.WeeklyTracking(c.Request.Context(), time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/orders/users-daily-tracking-2 — admin, política quincenal
func (ctl *OrderController) UsersDailyTracking2(c *gin.Context) {
	report, err := ctl.Reports.BiweeklyTracking(c.Request.Context(), time.Now())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /api/orders/mine
func (ctl *OrderController) Mine(c *gin.Context) {
	orders, err := ctl.Orders.ListMine(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/orders/mine/recent-orders
func (ctl *OrderController) MineRecent(c *gin.Context) {
	orders, err := ctl.Orders.ListMineRecent(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /api/orders/mine/stats
func (ctl *OrderController) MineStats(c *gin.Context) {
	stats, err := ctl.Orders.MineStats(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// GET /api/orders/:id — dueño o admin
func (ctl *OrderController) GetByID(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := ctl.Orders.GetByID(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// PUT /api/orders/:id/order-processed
func (ctl *OrderController) MarkProcessed(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := ctl.Orders.MarkProcessed(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order Processed", "order": order})
}

// PUT /api/orders/:id/estimatedDelivery
func (ctl *OrderController) SetEstimatedDelivery(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req dto.EstimatedDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	order, err := ctl.Orders.SetEstimatedDelivery(c.Request.Context(), middleware.Identity(c), id, req.EstimatedDelivery)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order delivery scheduled", "order": order})
}

// PUT /api/orders/:id/ready
func (ctl *OrderController) MarkReady(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := ctl.Orders.MarkReady(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order Ready", "order": order})
}

// PUT /api/orders/:id/deliver
func (ctl *OrderController) MarkDelivered(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}
	order, err := ctl.Orders.MarkDelivered(c.Request.Context(), middleware.Identity(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order Delivered", "order": order})
}
