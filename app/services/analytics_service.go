package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// RecentWindow is the span of the "recent orders" figure.
const RecentWindow = 30 * 24 * time.Hour

// Dashboard holds the four analytics series.
type Dashboard struct {
	ProductsPerCategory []repositories.Bucket `json:"products_per_category"`
	OrdersLast30Days    int64                 `json:"orders_last_30_days"`
	OrdersPerState      []repositories.Bucket `json:"orders_per_state"`
	OrdersPerMonth      []repositories.Bucket `json:"orders_per_month"`
}

type AnalyticsService struct {
	repo *repositories.AnalyticsRepository
	pool *workerpool.Pool
	now  func() time.Time
}

func NewAnalyticsService(repo *repositories.AnalyticsRepository, pool *workerpool.Pool) *AnalyticsService {
	return &AnalyticsService{repo: repo, pool: pool, now: time.Now}
}

// Dashboard runs the four queries concurrently. Any failure fails the whole
// dashboard.
func (s *AnalyticsService) Dashboard(ctx context.Context) (Dashboard, error) {
	var d Dashboard
	since := s.now().Add(-RecentWindow)

	err := s.pool.Run(ctx,
		func(ctx context.Context) (err error) {
			d.ProductsPerCategory, err = s.repo.ProductsPerCategory(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			d.OrdersLast30Days, err = s.repo.OrdersSince(ctx, since)
			return err
		},
		func(ctx context.Context) (err error) {
			d.OrdersPerState, err = s.repo.OrdersPerState(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			d.OrdersPerMonth, err = s.repo.OrdersPerMonth(ctx)
			return err
		},
	)
	if err != nil {
		return Dashboard{}, fmt.Errorf("analytics: dashboard: %w", err)
	}

	for _, series := range []*[]repositories.Bucket{&d.ProductsPerCategory, &d.OrdersPerState, &d.OrdersPerMonth} {
		if *series == nil {
			*series = []repositories.Bucket{}
		}
	}
	return d, nil
}
