// Package service implements the API operations on top of the store, the
// shared validation rules and the evaluation core.
package service

import (
	"context"

	"github.com/jueunk617/subscription-keep-or-cut/internal/cache"
	"github.com/jueunk617/subscription-keep-or-cut/internal/database"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
)

// Store is the persistence the service needs. *database.DB implements it.
type Store interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)

	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	ListSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error)
	GetSubscription(ctx context.Context, id int64, userID string) (*model.Subscription, error)
	SubscriptionNames(ctx context.Context, userID string) ([]string, error)
	DeleteSubscription(ctx context.Context, id int64, userID string) error

	UpsertUsage(ctx context.Context, rec *model.UsageRecord) error
	ListMonthlyUsages(ctx context.Context, userID string, month model.YearMonth) ([]database.MonthlyUsage, error)
}

type Service struct {
	store Store
	cache cache.DashboardCache
}

// New creates a Service. A nil cache disables dashboard caching.
func New(store Store, c cache.DashboardCache) *Service {
	if c == nil {
		c = cache.Nop{}
	}
	return &Service{store: store, cache: c}
}

// Categories returns the category catalog as stored
func (s *Service) Categories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}
