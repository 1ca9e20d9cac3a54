package dashboard

import (
	"context"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/domain/dashboard"
	"github.com/cmlabs-hris/payroll-engine/internal/domain/transaction"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const recentTransactionsLimit = 5

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository) dashboard.DashboardService {
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		now:                 time.Now,
	}
}

// GetDashboard runs the four independent queries in parallel.
func (s *DashboardServiceImpl) GetDashboard(ctx context.Context) (*dashboard.DashboardResponse, error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		active     int64
		present    int64
		deductions decimal.Decimal
		recent     []transaction.Transaction
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.CountActiveEmployees(gCtx)
		active = n
		return err
	})

	g.Go(func() error {
		n, err := s.CountPresentOn(gCtx, today)
		present = n
		return err
	})

	g.Go(func() error {
		sum, err := s.SumDeductionsForMonth(gCtx, today.Year(), int(today.Month()))
		deductions = sum
		return err
	})

	g.Go(func() error {
		list, err := s.ListRecentTransactions(gCtx, recentTransactionsLimit)
		recent = list
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &dashboard.DashboardResponse{
		Date:                today.Format(time.DateOnly),
		ActiveEmployees:     active,
		PresentToday:        present,
		NotPresentToday:     max(active-present, 0),
		MonthDeductionTotal: deductions,
		RecentTransactions:  transaction.ToResponses(recent),
	}, nil
}
