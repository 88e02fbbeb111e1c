package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"samarithanna-api/internal/dto"
	"samarithanna-api/internal/mailer"
	"samarithanna-api/internal/metrics"
	"samarithanna-api/internal/model"
	"samarithanna-api/internal/repository"
)

// Interfaz que debe implementar repository
type OrderRepository interface {
	Insert(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	ApplyUpdate(ctx context.Context, id primitive.ObjectID, upd model.OrderUpdate) (*model.Order, error)
	FindAllWithUser(ctx context.Context) ([]model.OrderWithUser, error)
	FindByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]model.Order, error)
	CountByUserSince(ctx context.Context, userID primitive.ObjectID, since time.Time) (int64, error)
}

type UserRepository interface {
	Insert(ctx context.Context, u *model.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindAll(ctx context.Context) ([]model.User, error)
	FindByDaysFrequency(ctx context.Context, days int) ([]model.User, error)
	Update(ctx context.Context, u *model.User) error
	Count(ctx context.Context) (int64, error)
}

// EmailPublisher encola un correo. Publicar después de persistir; un fallo
// aquí jamás tumba el request.
type EmailPublisher interface {
	Publish(ctx context.Context, job mailer.EmailJob) error
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrForbidden   = errors.New("forbidden")
	ErrEmptyOrder  = errors.New("la orden no tiene artículos")
	ErrBadQuantity = errors.New("las cantidades deben ser mayores a cero")
	ErrNotAdmitted = errors.New("la cuenta aún no está admitida para hacer pedidos")
)

// Roles que pueden aplicar cada transición
var (
	processedRoles = []string{model.RoleAdmin, model.RoleLogistics}
	deliveryRoles  = []string{model.RoleAdmin, model.RoleLogistics, model.RoleDelivery}
	staffRoles     = []string{model.RoleAdmin, model.RoleLogistics, model.RoleDelivery}
)

const recentOrdersLimit = 10

type OrderService struct {
	orders    OrderRepository
	users     UserRepository
	publisher EmailPublisher
	log       *logrus.Logger
	metrics   metrics.Recorder
	loc       *time.Location
}

func NewOrderService(orders OrderRepository, users UserRepository, publisher EmailPublisher, log *logrus.Logger, rec metrics.Recorder) *OrderService {
	loc, err := time.LoadLocation(model.ReportTimezone)
	if err != nil {
		// Sin tzdata el corte de día queda en UTC
		log.WithError(err).Warn("No se pudo cargar la zona horaria de reportes")
		loc = time.UTC
	}
	return &OrderService{
		orders:    orders,
		users:     users,
		publisher: publisher,
		log:       log,
		metrics:   rec,
		loc:       loc,
	}
}

// Create registra la orden del cliente con snapshot de artículos y precios.
// El total se calcula aquí: subtotal + ieps. El subtotal viaja del cliente
// tal cual (decisión de producto pendiente recalcularlo de los renglones).
func (s *OrderService) Create(ctx context.Context, ident Identity, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.OrderItems) == 0 {
		return nil, ErrEmptyOrder
	}

	owner, err := s.users.FindByID(ctx, ident.ID)
	if err != nil {
		return nil, err
	}
	if owner.UserType == model.RoleCustomer && !owner.IsAdmitted {
		return nil, ErrNotAdmitted
	}

	items, err := toOrderItems(req.OrderItems)
	if err != nil {
		return nil, err
	}
	returns, err := toOrderItems(req.ReturnItems)
	if err != nil {
		return nil, err
	}

	order := &model.Order{
		OrderItems:    items,
		ReturnItems:   returns,
		PurchaseOrder: req.PurchaseOrder,
		ShippingAddress: model.ShippingAddress{
			FullName:   req.ShippingAddress.FullName,
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
		},
		Subtotal:   req.Subtotal,
		IEPS:       req.IEPS,
		TotalPrice: req.Subtotal + req.IEPS,
		User:       ident.ID,
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

func toOrderItems(in []dto.OrderItemRequest) ([]model.OrderItem, error) {
	var out []model.OrderItem
	for _, it := range in {
		if it.Quantity <= 0 {
			return nil, ErrBadQuantity
		}
		productID, err := primitive.ObjectIDFromHex(it.Product)
		if err != nil {
			return nil, repository.ErrNotFound
		}
		out = append(out, model.OrderItem{
			Product:  productID,
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return out, nil
}

// MarkProcessed marca la orden como notificada y dispara el correo de
// "pedido recibido".
func (s *OrderService) MarkProcessed(ctx context.Context, ident Identity, id primitive.ObjectID) (*model.Order, error) {
	yes := true
	return s.transition(ctx, ident, id, processedRoles,
		model.OrderUpdate{NotificationSent: &yes}, mailer.KindOrderProcessed)
}

// SetEstimatedDelivery fija la fecha estimada y dispara el correo con la ETA.
func (s *OrderService) SetEstimatedDelivery(ctx context.Context, ident Identity, id primitive.ObjectID, date time.Time) (*model.Order, error) {
	return s.transition(ctx, ident, id, processedRoles,
		model.OrderUpdate{EstimatedDelivery: &date}, mailer.KindEstimatedDelivery)
}

// MarkReady marca la orden lista para salir. Repetir la llamada vuelve a
// sellar readyAt y reenvía el correo; así se comporta desde siempre.
func (s *OrderService) MarkReady(ctx context.Context, ident Identity, id primitive.ObjectID) (*model.Order, error) {
	yes := true
	now := time.Now().UTC()
	return s.transition(ctx, ident, id, deliveryRoles,
		model.OrderUpdate{IsReady: &yes, ReadyAt: &now}, mailer.KindOrderReady)
}

func (s *OrderService) MarkDelivered(ctx context.Context, ident Identity, id primitive.ObjectID) (*model.Order, error) {
	yes := true
	now := time.Now().UTC()
	return s.transition(ctx, ident, id, deliveryRoles,
		model.OrderUpdate{IsDelivered: &yes, DeliveredAt: &now}, mailer.KindOrderDelivered)
}

// transition: autorizar rol → mutar y persistir → encolar correo con el
// estado ya actualizado. El correo va después del commit, nunca antes.
func (s *OrderService) transition(ctx context.Context, ident Identity, id primitive.ObjectID, roles []string, upd model.OrderUpdate, kind string) (*model.Order, error) {
	if !ident.HasRole(roles...) {
		return nil, ErrForbidden
	}

	order, err := s.orders.ApplyUpdate(ctx, id, upd)
	if err != nil {
		return nil, err
	}

	s.notifyOwner(ctx, order, kind)
	return order, nil
}

// notifyOwner encola el correo de la transición. Fallos solo al log y a los
// contadores; la mutación ya quedó persistida.
func (s *OrderService) notifyOwner(ctx context.Context, order *model.Order, kind string) {
	owner, err := s.users.FindByID(ctx, order.User)
	if err != nil {
		s.metrics.RecordEmailEnqueueFailed(kind)
		s.log.WithError(err).WithField("order", order.ID.Hex()).Error("No se pudo resolver al dueño de la orden")
		return
	}

	job := mailer.EmailJob{
		Kind:           kind,
		RecipientName:  owner.Name,
		RecipientEmail: owner.Email,
		Order:          order,
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		s.metrics.RecordEmailEnqueueFailed(kind)
		s.log.WithError(err).WithFields(logrus.Fields{
			"order": order.ID.Hex(),
			"kind":  kind,
		}).Error("No se pudo encolar el correo")
		return
	}
	s.metrics.RecordEmailEnqueued(kind)
}

// ListAll: todas las órdenes con nombre de dueño, más recientes primero.
func (s *OrderService) ListAll(ctx context.Context, ident Identity) ([]model.OrderWithUser, error) {
	if !ident.HasRole(staffRoles...) {
		return nil, ErrForbidden
	}
	return s.orders.FindAllWithUser(ctx)
}

// GetByID: solo el dueño o un admin pueden ver la orden.
func (s *OrderService) GetByID(ctx context.Context, ident Identity, id primitive.ObjectID) (*model.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ident.IsAdmin() && order.User != ident.ID {
		return nil, ErrForbidden
	}
	return order, nil
}

func (s *OrderService) ListMine(ctx context.Context, ident Identity) ([]model.Order, error) {
	return s.orders.FindByUser(ctx, ident.ID, 0)
}

func (s *OrderService) ListMineRecent(ctx context.Context, ident Identity) ([]model.Order, error) {
	return s.orders.FindByUser(ctx, ident.ID, recentOrdersLimit)
}

// MineStats cuenta las órdenes propias de hoy y del mes en curso, con el día
// calendario de la zona de reportes.
func (s *OrderService) MineStats(ctx context.Context, ident Identity) (dto.MineStatsResponse, error) {
	now := time.Now().In(s.loc)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, s.loc)

	today, err := s.orders.CountByUserSince(ctx, ident.ID, startOfDay)
	if err != nil {
		return dto.MineStatsResponse{}, err
	}
	month, err := s.orders.CountByUserSince(ctx, ident.ID, startOfMonth)
	if err != nil {
		return dto.MineStatsResponse{}, err
	}

	return dto.MineStatsResponse{
		TodayOrdersCount: today,
		MonthOrdersCount: month,
	}, nil
}
