package dashboard

import "context"

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetDashboard returns today's headcount figures, the month's deductions and the latest transactions
	GetDashboard(ctx context.Context) (*DashboardResponse, error)
}
