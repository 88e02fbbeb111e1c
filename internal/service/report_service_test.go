package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"samarithanna-api/internal/model"
)

type mockReportOrderRepo struct {
	totals   model.SalesTotals
	daily    []model.DateBucket
	monthly  []model.DateBucket
	sold     []model.ProductQuantity
	perDay   []model.UserDayCount
	windows  [][2]time.Time
}

func (m *mockReportOrderRepo) SalesTotals(_ context.Context) (model.SalesTotals, error) {
	return m.totals, nil
}

func (m *mockReportOrderRepo) OrdersByDay(_ context.Context) ([]model.DateBucket, error) {
	return m.daily, nil
}

func (m *mockReportOrderRepo) OrdersByMonth(_ context.Context) ([]model.DateBucket, error) {
	return m.monthly, nil
}

func (m *mockReportOrderRepo) QuantitySoldByProduct(_ context.Context) ([]model.ProductQuantity, error) {
	return m.sold, nil
}

func (m *mockReportOrderRepo) OrdersPerUserDay(_ context.Context, start, end time.Time) ([]model.UserDayCount, error) {
	m.windows = append(m.windows, [2]time.Time{start, end})
	var out []model.UserDayCount
	for _, c := range m.perDay {
		day, err := time.ParseInLocation("2006-01-02", c.Day, start.Location())
		if err != nil {
			continue
		}
		if !day.Before(start) && day.Before(end) {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockReportUserRepo struct {
	count  int64
	byFreq map[int][]model.User
}

func (m *mockReportUserRepo) Count(_ context.Context) (int64, error) {
	return m.count, nil
}

func (m *mockReportUserRepo) FindByDaysFrequency(_ context.Context, days int) ([]model.User, error) {
	return m.byFreq[days], nil
}

type mockReportProductRepo struct {
	categories []model.CategoryCount
}

func (m *mockReportProductRepo) CountByCategory(_ context.Context) ([]model.CategoryCount, error) {
	return m.categories, nil
}

func mustReportService(t *testing.T, orders *mockReportOrderRepo, users *mockReportUserRepo, products *mockReportProductRepo) *ReportService {
	t.Helper()
	svc, err := NewReportService(orders, users, products)
	require.NoError(t, err)
	return svc
}

func TestReportService_Summary(t *testing.T) {
	orders := &mockReportOrderRepo{
		totals: model.SalesTotals{NumOrders: 5, TotalSales: 1200},
		daily: []model.DateBucket{
			{Date: "2024-03-25", Orders: 2, Sales: 500},
			{Date: "2024-03-26", Orders: 3, Sales: 700},
		},
		monthly: []model.DateBucket{{Date: "2024-03", Orders: 5, Sales: 1200}},
		sold: []model.ProductQuantity{
			{ProductName: "Pan Árabe", TotalQuantity: 9},
			{ProductName: "Jocoque Seco", TotalQuantity: 4},
		},
	}
	users := &mockReportUserRepo{count: 3}
	products := &mockReportProductRepo{
		categories: []model.CategoryCount{{Category: "Jocoque", Count: 1}, {Category: "Pan", Count: 5}},
	}

	svc := mustReportService(t, orders, users, products)
	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(5), summary.Orders.NumOrders)
	assert.Equal(t, 1200.0, summary.Orders.TotalSales)
	assert.Equal(t, int64(3), summary.NumUsers)
	assert.Len(t, summary.MonthlyOrders, 1)
	assert.Len(t, summary.ProductCategories, 2)

	// La suma de los buckets diarios cubre todas las órdenes
	var daily int64
	for _, b := range summary.DailyOrders {
		daily += b.Orders
	}
	assert.Equal(t, summary.Orders.NumOrders, daily)

	// Más vendido primero
	assert.Equal(t, "Pan Árabe", summary.ItemsSoldByProduct[0].ProductName)
}

func TestReportService_WeeklyTracking(t *testing.T) {
	loc, err := time.LoadLocation(model.ReportTimezone)
	require.NoError(t, err)

	ana := model.User{ID: primitive.NewObjectID(), Name: "Ana", DaysFrequency: 7, MinOrders: 3}
	beto := model.User{ID: primitive.NewObjectID(), Name: "Beto", DaysFrequency: 7, MinOrders: 2}

	// Jueves 28 de marzo de 2024; la semana ISO va del lunes 25 al domingo 31
	now := time.Date(2024, 3, 28, 12, 0, 0, 0, loc)

	orders := &mockReportOrderRepo{
		perDay: []model.UserDayCount{
			{User: ana.ID, Day: "2024-03-25", Orders: 2}, // lunes
			{User: ana.ID, Day: "2024-03-28", Orders: 1}, // jueves
			{User: ana.ID, Day: "2024-03-20", Orders: 4}, // semana anterior, fuera
		},
	}
	users := &mockReportUserRepo{byFreq: map[int][]model.User{7: {ana, beto}}}
	svc := mustReportService(t, orders, users, &mockReportProductRepo{})

	report, err := svc.WeeklyTracking(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-25", report.WeekStart)
	assert.Equal(t, "2024-03-31", report.WeekEnd)
	require.Len(t, report.Users, 2)

	// Orden alfabético por nombre
	assert.Equal(t, "Ana", report.Users[0].Name)
	assert.Equal(t, int64(2), report.Users[0].Monday)
	assert.Equal(t, int64(1), report.Users[0].Thursday)
	assert.Equal(t, int64(0), report.Users[0].Sunday)
	assert.Equal(t, int64(3), report.Users[0].Total)
	assert.Equal(t, 3, report.Users[0].MinOrders)

	// Usuario sin órdenes aparece con puros ceros, no desaparece
	assert.Equal(t, "Beto", report.Users[1].Name)
	assert.Equal(t, int64(0), report.Users[1].Total)
	assert.Equal(t, int64(0), report.Users[1].Monday)
}

func TestReportService_WeeklyTracking_SundayBelongsToCurrentWeek(t *testing.T) {
	loc, err := time.LoadLocation(model.ReportTimezone)
	require.NoError(t, err)

	ana := model.User{ID: primitive.NewObjectID(), Name: "Ana", DaysFrequency: 7, MinOrders: 1}

	// Domingo 31 de marzo: sigue siendo la semana del lunes 25
	now := time.Date(2024, 3, 31, 23, 0, 0, 0, loc)
	orders := &mockReportOrderRepo{
		perDay: []model.UserDayCount{{User: ana.ID, Day: "2024-03-31", Orders: 1}},
	}
	users := &mockReportUserRepo{byFreq: map[int][]model.User{7: {ana}}}
	svc := mustReportService(t, orders, users, &mockReportProductRepo{})

	report, err := svc.WeeklyTracking(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-25", report.WeekStart)
	assert.Equal(t, int64(1), report.Users[0].Sunday)
}

func TestReportService_BiweeklyTracking(t *testing.T) {
	loc, err := time.LoadLocation(model.ReportTimezone)
	require.NoError(t, err)

	carla := model.User{ID: primitive.NewObjectID(), Name: "Carla", DaysFrequency: 14, MinOrders: 4}
	now := time.Date(2024, 3, 28, 12, 0, 0, 0, loc)

	orders := &mockReportOrderRepo{
		perDay: []model.UserDayCount{
			{User: carla.ID, Day: "2024-03-26", Orders: 2}, // martes, semana actual
			{User: carla.ID, Day: "2024-03-19", Orders: 3}, // martes, semana anterior
		},
	}
	users := &mockReportUserRepo{byFreq: map[int][]model.User{14: {carla}}}
	svc := mustReportService(t, orders, users, &mockReportProductRepo{})

	report, err := svc.BiweeklyTracking(context.Background(), now)
	require.NoError(t, err)

	assert.Equal(t, "2024-03-25", report.CurrentWeek.WeekStart)
	assert.Equal(t, "2024-03-18", report.PreviousWeek.WeekStart)

	require.Len(t, report.CurrentWeek.Users, 1)
	require.Len(t, report.PreviousWeek.Users, 1)
	assert.Equal(t, int64(2), report.CurrentWeek.Users[0].Tuesday)
	assert.Equal(t, int64(2), report.CurrentWeek.Users[0].Total)
	assert.Equal(t, int64(3), report.PreviousWeek.Users[0].Tuesday)
	assert.Equal(t, int64(3), report.PreviousWeek.Users[0].Total)

	// Ambas semanas salen de la misma consulta parametrizada por ventana
	require.Len(t, orders.windows, 2)
	assert.Equal(t, orders.windows[0][0].AddDate(0, 0, -7), orders.windows[1][0])
}

func TestStartOfISOWeek(t *testing.T) {
	loc, err := time.LoadLocation(model.ReportTimezone)
	require.NoError(t, err)

	cases := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday stays", time.Date(2024, 3, 25, 9, 0, 0, 0, loc), "2024-03-25"},
		{"thursday rewinds", time.Date(2024, 3, 28, 9, 0, 0, 0, loc), "2024-03-25"},
		{"sunday closes the week", time.Date(2024, 3, 31, 9, 0, 0, 0, loc), "2024-03-25"},
		{"next monday starts fresh", time.Date(2024, 4, 1, 0, 0, 0, 0, loc), "2024-04-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := startOfISOWeek(tc.in, loc)
			assert.Equal(t, tc.want, got.Format("2006-01-02"))
			assert.Equal(t, 0, got.Hour())
		})
	}
}
