package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"samarithanna-api/internal/dto"
	"samarithanna-api/internal/mailer"
	"samarithanna-api/internal/metrics"
	"samarithanna-api/internal/model"
	"samarithanna-api/internal/repository"
)

type mockOrderRepo struct {
	InsertFunc           func(o *model.Order) error
	FindByIDFunc         func(id primitive.ObjectID) (*model.Order, error)
	ApplyUpdateFunc      func(id primitive.ObjectID, upd model.OrderUpdate) (*model.Order, error)
	FindAllWithUserFunc  func() ([]model.OrderWithUser, error)
	FindByUserFunc       func(userID primitive.ObjectID, limit int64) ([]model.Order, error)
	CountByUserSinceFunc func(userID primitive.ObjectID, since time.Time) (int64, error)
}

func (m *mockOrderRepo) Insert(_ context.Context, o *model.Order) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(o)
	}
	o.ID = primitive.NewObjectID()
	o.CreatedAt = time.Now().UTC()
	return nil
}

func (m *mockOrderRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.Order, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) ApplyUpdate(_ context.Context, id primitive.ObjectID, upd model.OrderUpdate) (*model.Order, error) {
	if m.ApplyUpdateFunc != nil {
		return m.ApplyUpdateFunc(id, upd)
	}
	return nil, repository.ErrNotFound
}

func (m *mockOrderRepo) FindAllWithUser(_ context.Context) ([]model.OrderWithUser, error) {
	if m.FindAllWithUserFunc != nil {
		return m.FindAllWithUserFunc()
	}
	return nil, nil
}

func (m *mockOrderRepo) FindByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]model.Order, error) {
	if m.FindByUserFunc != nil {
		return m.FindByUserFunc(userID, limit)
	}
	return nil, nil
}

func (m *mockOrderRepo) CountByUserSince(_ context.Context, userID primitive.ObjectID, since time.Time) (int64, error) {
	if m.CountByUserSinceFunc != nil {
		return m.CountByUserSinceFunc(userID, since)
	}
	return 0, nil
}

type mockUserRepo struct {
	InsertFunc              func(u *model.User) error
	FindByIDFunc            func(id primitive.ObjectID) (*model.User, error)
	FindByEmailFunc         func(email string) (*model.User, error)
	FindAllFunc             func() ([]model.User, error)
	FindByDaysFrequencyFunc func(days int) ([]model.User, error)
	UpdateFunc              func(u *model.User) error
	CountFunc               func() (int64, error)
}

func (m *mockUserRepo) Insert(_ context.Context, u *model.User) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(u)
	}
	u.ID = primitive.NewObjectID()
	return nil
}

func (m *mockUserRepo) FindByID(_ context.Context, id primitive.ObjectID) (*model.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(id)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(email)
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepo) FindAll(_ context.Context) ([]model.User, error) {
	if m.FindAllFunc != nil {
		return m.FindAllFunc()
	}
	return nil, nil
}

func (m *mockUserRepo) FindByDaysFrequency(_ context.Context, days int) ([]model.User, error) {
	if m.FindByDaysFrequencyFunc != nil {
		return m.FindByDaysFrequencyFunc(days)
	}
	return nil, nil
}

func (m *mockUserRepo) Update(_ context.Context, u *model.User) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(u)
	}
	return nil
}

func (m *mockUserRepo) Count(_ context.Context) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc()
	}
	return 0, nil
}

type mockPublisher struct {
	PublishFunc func(job mailer.EmailJob) error
	jobs        []mailer.EmailJob
}

func (m *mockPublisher) Publish(_ context.Context, job mailer.EmailJob) error {
	if m.PublishFunc != nil {
		if err := m.PublishFunc(job); err != nil {
			return err
		}
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

// Repo en memoria para simular ApplyUpdate sobre un documento real.
func storeBackedRepo(order *model.Order) *mockOrderRepo {
	return &mockOrderRepo{
		FindByIDFunc: func(id primitive.ObjectID) (*model.Order, error) {
			if id != order.ID {
				return nil, repository.ErrNotFound
			}
			cp := *order
			return &cp, nil
		},
		ApplyUpdateFunc: func(id primitive.ObjectID, upd model.OrderUpdate) (*model.Order, error) {
			if id != order.ID {
				return nil, repository.ErrNotFound
			}
			if upd.NotificationSent != nil {
				order.NotificationSent = *upd.NotificationSent
			}
			if upd.EstimatedDelivery != nil {
				order.EstimatedDelivery = upd.EstimatedDelivery
			}
			if upd.IsReady != nil {
				order.IsReady = *upd.IsReady
			}
			if upd.ReadyAt != nil {
				order.ReadyAt = upd.ReadyAt
			}
			if upd.IsDelivered != nil {
				order.IsDelivered = *upd.IsDelivered
			}
			if upd.DeliveredAt != nil {
				order.DeliveredAt = upd.DeliveredAt
			}
			order.UpdatedAt = time.Now().UTC()
			cp := *order
			return &cp, nil
		},
	}
}

func admittedCustomer(id primitive.ObjectID) *model.User {
	return &model.User{
		ID:         id,
		Name:       "Cliente",
		Email:      "cliente@example.com",
		UserType:   model.RoleCustomer,
		IsAdmitted: true,
	}
}

func TestOrderService_Create(t *testing.T) {
	ownerID := primitive.NewObjectID()
	ident := Identity{ID: ownerID, UserType: model.RoleCustomer}
	users := &mockUserRepo{
		FindByIDFunc: func(id primitive.ObjectID) (*model.User, error) {
			return admittedCustomer(ownerID), nil
		},
	}

	req := dto.CreateOrderRequest{
		OrderItems: []dto.OrderItemRequest{
			{Product: primitive.NewObjectID().Hex(), Name: "Pan Árabe", Quantity: 2, Price: 120},
		},
		ShippingAddress: dto.ShippingAddressRequest{FullName: "Cliente", Address: "Calle 1"},
		Subtotal:        240,
		IEPS:            0,
	}

	t.Run("computes total as subtotal plus ieps", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{}, users, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

		order, err := svc.Create(context.Background(), ident, req)
		require.NoError(t, err)
		assert.Equal(t, 240.0, order.Subtotal)
		assert.Equal(t, 240.0, order.TotalPrice)
		assert.Equal(t, ownerID, order.User)
		assert.False(t, order.ID.IsZero())
		assert.Len(t, order.OrderItems, 1)
		assert.Equal(t, "Pan Árabe", order.OrderItems[0].Name)
	})

	t.Run("total includes excise tax", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{}, users, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

		taxed := req
		taxed.Subtotal = 100
		taxed.IEPS = 8
		order, err := svc.Create(context.Background(), ident, taxed)
		require.NoError(t, err)
		assert.Equal(t, 108.0, order.TotalPrice)
	})

	t.Run("rejects empty item list", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{}, users, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

		empty := req
		empty.OrderItems = nil
		_, err := svc.Create(context.Background(), ident, empty)
		assert.ErrorIs(t, err, ErrEmptyOrder)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		svc := NewOrderService(&mockOrderRepo{}, users, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

		bad := req
		bad.OrderItems = []dto.OrderItemRequest{{Product: primitive.NewObjectID().Hex(), Name: "Pan", Quantity: 0}}
		_, err := svc.Create(context.Background(), ident, bad)
		assert.ErrorIs(t, err, ErrBadQuantity)
	})

	t.Run("rejects customer not yet admitted", func(t *testing.T) {
		notAdmitted := &mockUserRepo{
			FindByIDFunc: func(id primitive.ObjectID) (*model.User, error) {
				u := admittedCustomer(ownerID)
				u.IsAdmitted = false
				return u, nil
			},
		}
		svc := NewOrderService(&mockOrderRepo{}, notAdmitted, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

		_, err := svc.Create(context.Background(), ident, req)
		assert.ErrorIs(t, err, ErrNotAdmitted)
	})
}

func TestOrderService_Transitions(t *testing.T) {
	ownerID := primitive.NewObjectID()
	admin := Identity{ID: primitive.NewObjectID(), UserType: model.RoleAdmin}
	delivery := Identity{ID: primitive.NewObjectID(), UserType: model.RoleDelivery}
	customer := Identity{ID: ownerID, UserType: model.RoleCustomer}

	users := &mockUserRepo{
		FindByIDFunc: func(id primitive.ObjectID) (*model.User, error) {
			return admittedCustomer(ownerID), nil
		},
	}

	newOrder := func() *model.Order {
		return &model.Order{
			ID:         primitive.NewObjectID(),
			User:       ownerID,
			OrderItems: []model.OrderItem{{Name: "Pan Árabe", Quantity: 2, Price: 120}},
			Subtotal:   240,
			TotalPrice: 240,
			CreatedAt:  time.Now().UTC(),
		}
	}

	t.Run("mark processed sends order received email", func(t *testing.T) {
		order := newOrder()
		pub := &mockPublisher{}
		svc := NewOrderService(storeBackedRepo(order), users, pub, testLogger(), metrics.NopRecorder{})

		updated, err := svc.MarkProcessed(context.Background(), admin, order.ID)
		require.NoError(t, err)
		assert.True(t, updated.NotificationSent)

		require.Len(t, pub.jobs, 1)
		assert.Equal(t, mailer.KindOrderProcessed, pub.jobs[0].Kind)
		assert.Equal(t, "cliente@example.com", pub.jobs[0].RecipientEmail)
		// El correo lleva el estado ya persistido
		assert.True(t, pub.jobs[0].Order.NotificationSent)
	})

	t.Run("customer cannot mark processed", func(t *testing.T) {
		order := newOrder()
		pub := &mockPublisher{}
		svc := NewOrderService(storeBackedRepo(order), users, pub, testLogger(), metrics.NopRecorder{})

		_, err := svc.MarkProcessed(context.Background(), customer, order.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Empty(t, pub.jobs)
	})

	t.Run("delivery role cannot set estimated delivery", func(t *testing.T) {
		order := newOrder()
		svc := NewOrderService(storeBackedRepo(order), users, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

		_, err := svc.SetEstimatedDelivery(context.Background(), delivery, order.ID, time.Now())
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("estimated delivery stores date and notifies", func(t *testing.T) {
		order := newOrder()
		pub := &mockPublisher{}
		svc := NewOrderService(storeBackedRepo(order), users, pub, testLogger(), metrics.NopRecorder{})

		eta := time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)
		updated, err := svc.SetEstimatedDelivery(context.Background(), admin, order.ID, eta)
		require.NoError(t, err)
		require.NotNil(t, updated.EstimatedDelivery)
		assert.Equal(t, eta, *updated.EstimatedDelivery)
		require.Len(t, pub.jobs, 1)
		assert.Equal(t, mailer.KindEstimatedDelivery, pub.jobs[0].Kind)
	})

	t.Run("nonexistent order returns not found and no email", func(t *testing.T) {
		pub := &mockPublisher{}
		svc := NewOrderService(&mockOrderRepo{}, users, pub, testLogger(), metrics.NopRecorder{})

		_, err := svc.MarkProcessed(context.Background(), admin, primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Empty(t, pub.jobs)
	})

	t.Run("ready then delivered keeps timestamps ordered", func(t *testing.T) {
		order := newOrder()
		svc := NewOrderService(storeBackedRepo(order), users, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

		ready, err := svc.MarkReady(context.Background(), delivery, order.ID)
		require.NoError(t, err)
		require.True(t, ready.IsReady)
		require.NotNil(t, ready.ReadyAt)

		delivered, err := svc.MarkDelivered(context.Background(), delivery, order.ID)
		require.NoError(t, err)
		require.True(t, delivered.IsDelivered)
		require.NotNil(t, delivered.DeliveredAt)

		assert.False(t, delivered.DeliveredAt.Before(*delivered.ReadyAt))
		// Los montos no se tocan en ninguna transición
		assert.Equal(t, 240.0, delivered.TotalPrice)
		assert.Equal(t, delivered.Subtotal+delivered.IEPS, delivered.TotalPrice)
	})

	t.Run("mark delivered is idempotent and re-sends the email", func(t *testing.T) {
		order := newOrder()
		pub := &mockPublisher{}
		svc := NewOrderService(storeBackedRepo(order), users, pub, testLogger(), metrics.NopRecorder{})

		first, err := svc.MarkDelivered(context.Background(), admin, order.ID)
		require.NoError(t, err)
		firstAt := *first.DeliveredAt

		second, err := svc.MarkDelivered(context.Background(), admin, order.ID)
		require.NoError(t, err)
		assert.True(t, second.IsDelivered)
		assert.False(t, second.DeliveredAt.Before(firstAt))
		assert.Len(t, pub.jobs, 2)
	})

	t.Run("publish failure does not fail the transition", func(t *testing.T) {
		order := newOrder()
		pub := &mockPublisher{PublishFunc: func(job mailer.EmailJob) error {
			return errors.New("rabbit down")
		}}
		svc := NewOrderService(storeBackedRepo(order), users, pub, testLogger(), metrics.NopRecorder{})

		updated, err := svc.MarkReady(context.Background(), admin, order.ID)
		require.NoError(t, err)
		assert.True(t, updated.IsReady)
	})
}

func TestOrderService_GetByID(t *testing.T) {
	ownerID := primitive.NewObjectID()
	order := &model.Order{ID: primitive.NewObjectID(), User: ownerID, TotalPrice: 240}
	repo := storeBackedRepo(order)
	users := &mockUserRepo{}
	svc := NewOrderService(repo, users, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.GetByID(context.Background(), Identity{ID: ownerID, UserType: model.RoleCustomer}, order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.ID, got.ID)
	})

	t.Run("admin can read", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), Identity{ID: primitive.NewObjectID(), UserType: model.RoleAdmin}, order.ID)
		assert.NoError(t, err)
	})

	t.Run("another customer cannot read", func(t *testing.T) {
		got, err := svc.GetByID(context.Background(), Identity{ID: primitive.NewObjectID(), UserType: model.RoleCustomer}, order.ID)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, got)
	})

	t.Run("missing order is not found", func(t *testing.T) {
		_, err := svc.GetByID(context.Background(), Identity{ID: ownerID, UserType: model.RoleCustomer}, primitive.NewObjectID())
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrderService_ListAll(t *testing.T) {
	repo := &mockOrderRepo{
		FindAllWithUserFunc: func() ([]model.OrderWithUser, error) {
			return []model.OrderWithUser{{UserName: "Cliente"}}, nil
		},
	}
	svc := NewOrderService(repo, &mockUserRepo{}, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

	t.Run("staff roles allowed", func(t *testing.T) {
		for _, role := range []string{model.RoleAdmin, model.RoleLogistics, model.RoleDelivery} {
			orders, err := svc.ListAll(context.Background(), Identity{UserType: role})
			require.NoError(t, err)
			assert.Len(t, orders, 1)
		}
	})

	t.Run("customer rejected", func(t *testing.T) {
		_, err := svc.ListAll(context.Background(), Identity{UserType: model.RoleCustomer})
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestOrderService_MineStats(t *testing.T) {
	ownerID := primitive.NewObjectID()
	var sinces []time.Time
	repo := &mockOrderRepo{
		CountByUserSinceFunc: func(userID primitive.ObjectID, since time.Time) (int64, error) {
			require.Equal(t, ownerID, userID)
			sinces = append(sinces, since)
			return int64(len(sinces)), nil
		},
	}
	svc := NewOrderService(repo, &mockUserRepo{}, &mockPublisher{}, testLogger(), metrics.NopRecorder{})

	stats, err := svc.MineStats(context.Background(), Identity{ID: ownerID, UserType: model.RoleCustomer})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TodayOrdersCount)
	assert.Equal(t, int64(2), stats.MonthOrdersCount)

	require.Len(t, sinces, 2)
	// El corte del día nunca es anterior al del mes
	assert.False(t, sinces[0].Before(sinces[1]))
}
