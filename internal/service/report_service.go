package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"samarithanna-api/internal/dto"
	"samarithanna-api/internal/model"
)

// Agregaciones de solo lectura que expone el repositorio de órdenes.
type ReportOrderRepository interface {
	SalesTotals(ctx context.Context) (model.SalesTotals, error)
	OrdersByDay(ctx context.Context) ([]model.DateBucket, error)
	OrdersByMonth(ctx context.Context) ([]model.DateBucket, error)
	QuantitySoldByProduct(ctx context.Context) ([]model.ProductQuantity, error)
	OrdersPerUserDay(ctx context.Context, start, end time.Time) ([]model.UserDayCount, error)
}

type ReportUserRepository interface {
	Count(ctx context.Context) (int64, error)
	FindByDaysFrequency(ctx context.Context, days int) ([]model.User, error)
}

type ReportProductRepository interface {
	CountByCategory(ctx context.Context) ([]model.CategoryCount, error)
}

// SummaryProvider existe para poder decorar el resumen con caché.
type SummaryProvider interface {
	Summary(ctx context.Context) (dto.SummaryResponse, error)
}

// ReportService calcula el resumen global y los reportes de cadencia.
// Todo el corte de calendario se hace en la zona fija de reportes.
type ReportService struct {
	orders   ReportOrderRepository
	users    ReportUserRepository
	products ReportProductRepository
	loc      *time.Location
}

func NewReportService(orders ReportOrderRepository, users ReportUserRepository, products ReportProductRepository) (*ReportService, error) {
	loc, err := time.LoadLocation(model.ReportTimezone)
	if err != nil {
		return nil, err
	}
	return &ReportService{
		orders:   orders,
		users:    users,
		products: products,
		loc:      loc,
	}, nil
}

func (s *ReportService) Summary(ctx context.Context) (dto.SummaryResponse, error) {
	totals, err := s.orders.SalesTotals(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	numUsers, err := s.users.Count(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	daily, err := s.orders.OrdersByDay(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	monthly, err := s.orders.OrdersByMonth(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	categories, err := s.products.CountByCategory(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}
	sold, err := s.orders.QuantitySoldByProduct(ctx)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	return dto.SummaryResponse{
		Orders:             totals,
		NumUsers:           numUsers,
		DailyOrders:        daily,
		MonthlyOrders:      monthly,
		ProductCategories:  categories,
		ItemsSoldByProduct: sold,
	}, nil
}

// WeeklyTracking: usuarios con política semanal (daysFrequency = 7) contra la
// semana ISO en curso. Un usuario sin órdenes aparece con puros ceros.
func (s *ReportService) WeeklyTracking(ctx context.Context, now time.Time) (dto.WeeklyTrackingResponse, error) {
	users, err := s.users.FindByDaysFrequency(ctx, 7)
	if err != nil {
		return dto.WeeklyTrackingResponse{}, err
	}

	start := startOfISOWeek(now, s.loc)
	return s.buildWeek(ctx, users, start)
}

// BiweeklyTracking: usuarios quincenales (daysFrequency = 14), semana en
// curso y la anterior por separado para comparar.
func (s *ReportService) BiweeklyTracking(ctx context.Context, now time.Time) (dto.BiweeklyTrackingResponse, error) {
	users, err := s.users.FindByDaysFrequency(ctx, 14)
	if err != nil {
		return dto.BiweeklyTrackingResponse{}, err
	}

	start := startOfISOWeek(now, s.loc)
	current, err := s.buildWeek(ctx, users, start)
	if err != nil {
		return dto.BiweeklyTrackingResponse{}, err
	}
	previous, err := s.buildWeek(ctx, users, start.AddDate(0, 0, -7))
	if err != nil {
		return dto.BiweeklyTrackingResponse{}, err
	}

	return dto.BiweeklyTrackingResponse{
		CurrentWeek:  current,
		PreviousWeek: previous,
	}, nil
}

// buildWeek arma una fila por usuario con el conteo por día de la semana que
// empieza en start (lunes). Comparte la ventana con ambos reportes.
func (s *ReportService) buildWeek(ctx context.Context, users []model.User, start time.Time) (dto.WeeklyTrackingResponse, error) {
	end := start.AddDate(0, 0, 7)

	counts, err := s.orders.OrdersPerUserDay(ctx, start, end)
	if err != nil {
		return dto.WeeklyTrackingResponse{}, err
	}

	// día calendario → índice lunes=0 ... domingo=6
	dayIndex := make(map[string]int, 7)
	for i := 0; i < 7; i++ {
		dayIndex[start.AddDate(0, 0, i).Format("2006-01-02")] = i
	}

	perUser := make(map[primitive.ObjectID]*[7]int64)
	for _, c := range counts {
		idx, ok := dayIndex[c.Day]
		if !ok {
			continue
		}
		week := perUser[c.User]
		if week == nil {
			week = &[7]int64{}
			perUser[c.User] = week
		}
		week[idx] += c.Orders
	}

	resp := dto.WeeklyTrackingResponse{
		WeekStart: start.Format("2006-01-02"),
		WeekEnd:   start.AddDate(0, 0, 6).Format("2006-01-02"),
	}
	for _, u := range users {
		row := dto.CadenceRow{
			UserID:    u.ID.Hex(),
			Name:      u.Name,
			MinOrders: u.MinOrders,
		}
		if week := perUser[u.ID]; week != nil {
			row.Monday = week[0]
			row.Tuesday = week[1]
			row.Wednesday = week[2]
			row.Thursday = week[3]
			row.Friday = week[4]
			row.Saturday = week[5]
			row.Sunday = week[6]
			for _, n := range week {
				row.Total += n
			}
		}
		resp.Users = append(resp.Users, row)
	}
	return resp, nil
}

// startOfISOWeek: lunes 00:00 de la semana de t, en la zona dada.
func startOfISOWeek(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // domingo cierra la semana, no la abre
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, loc)
}
