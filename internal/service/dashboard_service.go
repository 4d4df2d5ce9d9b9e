package service

import (
	"time"

	"bikeparts/internal/domain"

	"github.com/google/uuid"
)

// DashboardStats are the admin dashboard figures, derived on demand from the
// current order and product snapshots; nothing here is stored.
type DashboardStats struct {
	TotalRevenue    float64                    `json:"total_revenue"`
	TotalOrders     int                        `json:"total_orders"`
	TotalCustomers  int                        `json:"total_customers"`
	StatusCounts    map[domain.OrderStatus]int `json:"status_counts"`
	LowStock        []domain.Product           `json:"low_stock"`
	MonthlyOrders   int                        `json:"monthly_orders"`
	MonthlyRevenue  float64                    `json:"monthly_revenue"`
}

// DashboardService derives admin statistics from store snapshots
type DashboardService interface {
	Stats(orders []domain.Order, products []domain.Product) DashboardStats
}

type dashboardService struct {
	now func() time.Time
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService() DashboardService {
	return &dashboardService{now: time.Now}
}

// NewDashboardServiceWithClock creates a DashboardService with an injected
// clock, used by tests to pin the current month.
func NewDashboardServiceWithClock(now func() time.Time) DashboardService {
	return &dashboardService{now: now}
}

// Stats reduces the given snapshots into dashboard figures. Monthly figures
// cover the current calendar month by local wall clock at evaluation time.
func (s *dashboardService) Stats(orders []domain.Order, products []domain.Product) DashboardStats {
	stats := DashboardStats{
		StatusCounts: make(map[domain.OrderStatus]int, len(domain.OrderStatuses)),
	}
	for _, status := range domain.OrderStatuses {
		stats.StatusCounts[status] = 0
	}

	now := s.now()
	customers := make(map[uuid.UUID]struct{})

	for _, order := range orders {
		stats.TotalRevenue += order.Total
		stats.TotalOrders++
		customers[order.UserID] = struct{}{}
		stats.StatusCounts[order.Status]++

		created := order.CreatedAt.Local()
		if created.Year() == now.Year() && created.Month() == now.Month() {
			stats.MonthlyOrders++
			stats.MonthlyRevenue += order.Total
		}
	}
	stats.TotalCustomers = len(customers)

	for _, product := range products {
		if product.Stock < domain.LowStockThreshold {
			stats.LowStock = append(stats.LowStock, product)
		}
	}

	return stats
}
