// Package seeder fills a database with development data.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/jueunk617/subscription-keep-or-cut/internal/database"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
	"github.com/jueunk617/subscription-keep-or-cut/internal/service"
	"github.com/jueunk617/subscription-keep-or-cut/internal/validation"
)

// Months of usage history the seeder produces
const Months = 12

// Service is the part of *service.Service the seeder drives
type Service interface {
	ListSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error)
	DeleteSubscription(ctx context.Context, userID string, id int64) error
	CreateSubscription(ctx context.Context, userID string, in validation.SubscriptionInput) (*model.Subscription, error)
	RecordUsage(ctx context.Context, userID string, in service.UsageInput) (*model.UsageRecord, error)
}

type sample struct {
	input validation.SubscriptionInput
	// share of the category reference value used in an average month
	usageRatio float64
}

var samples = []sample{
	{validation.SubscriptionInput{CategoryID: 1, Name: "Netflix", TotalCost: 17000, UserShareCost: 4250, BillingCycle: model.CycleMonthly, Status: model.StatusActive}, 0.9},
	{validation.SubscriptionInput{CategoryID: 2, Name: "Spotify", TotalCost: 10900, UserShareCost: 10900, BillingCycle: model.CycleMonthly, Status: model.StatusActive}, 0.5},
	{validation.SubscriptionInput{CategoryID: 3, Name: "밀리의 서재", TotalCost: 99000, UserShareCost: 99000, BillingCycle: model.CycleAnnual, Status: model.StatusActive}, 0.1},
	{validation.SubscriptionInput{CategoryID: 4, Name: "ChatGPT Plus", TotalCost: 29000, UserShareCost: 29000, BillingCycle: model.CycleMonthly, Status: model.StatusActive}, 1.2},
	{validation.SubscriptionInput{CategoryID: 5, Name: "Notion", TotalCost: 36000, UserShareCost: 36000, BillingCycle: model.CycleQuarterly, Status: model.StatusActive}, 0.6},
	{validation.SubscriptionInput{CategoryID: 6, Name: "iCloud+", TotalCost: 4400, UserShareCost: 4400, BillingCycle: model.CycleMonthly, Status: model.StatusTrial}, 0.3},
}

// SeedDevelopmentData replaces userID's subscriptions with the sample set and
// records random usage for the Months months ending with now's month.
func SeedDevelopmentData(ctx context.Context, svc Service, categories []model.Category, userID string, now time.Time, rng *rand.Rand) error {
	if userID == "" {
		log.Printf("No test user ID provided, skipping seed data")
		return nil
	}
	log.Printf("Starting seed data for test user: %s", userID)

	existing, err := svc.ListSubscriptions(ctx, userID)
	if err != nil {
		return fmt.Errorf("list subscriptions: %w", err)
	}
	for _, sub := range existing {
		if err := svc.DeleteSubscription(ctx, userID, sub.ID); err != nil {
			return fmt.Errorf("delete subscription %d: %w", sub.ID, err)
		}
	}

	byID := make(map[int64]model.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	current := model.YearMonthOf(now)
	for _, s := range samples {
		category, found := byID[s.input.CategoryID]
		if !found {
			return fmt.Errorf("sample %q: category %d not seeded", s.input.Name, s.input.CategoryID)
		}

		sub, err := svc.CreateSubscription(ctx, userID, s.input)
		if err != nil {
			return fmt.Errorf("create subscription %s: %w", s.input.Name, err)
		}
		log.Printf("Created subscription: %s (ID: %d, %s/월)", sub.Name, sub.ID, model.FormatWon(sub.MonthlyShareCost))

		for i := 0; i < Months; i++ {
			month := current.AddMonths(-i)
			value := randomUsage(rng, category, month, s.usageRatio)
			if _, err := svc.RecordUsage(ctx, userID, service.UsageInput{SubscriptionID: sub.ID, Date: month.String(), UsageValue: value}); err != nil {
				return fmt.Errorf("record usage for %s in %s: %w", sub.Name, month, err)
			}
		}
		log.Printf("Created %d months of usage for subscription ID %d", Months, sub.ID)
	}

	log.Printf("Successfully seeded test data for user: %s", userID)
	return nil
}

// UsageStore is what FillMissingUsage needs from the database
type UsageStore interface {
	ListAllSubscriptions(ctx context.Context) ([]model.Subscription, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	GetUsage(ctx context.Context, subscriptionID int64, month model.YearMonth) (*model.UsageRecord, error)
	UpsertUsage(ctx context.Context, rec *model.UsageRecord) error
}

// Invalidator drops cached dashboards of a user
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// FillMissingUsage records random usage for every subscription and month of
// the last Months months that has no record yet. Existing records are kept.
// Cached dashboards of every user that got new records are invalidated.
// It returns the number of records written.
func FillMissingUsage(ctx context.Context, store UsageStore, dashboards Invalidator, now time.Time, rng *rand.Rand) (int, error) {
	subs, err := store.ListAllSubscriptions(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return 0, errors.New("no subscriptions found, create at least one subscription first")
	}

	touched := map[string]bool{}
	defer func() {
		for userID := range touched {
			if err := dashboards.Invalidate(ctx, userID); err != nil {
				log.Printf("Error invalidating dashboard cache for user %s: %v", userID, err)
			}
		}
	}()

	current := model.YearMonthOf(now)
	inserted := 0
	for _, sub := range subs {
		category, err := store.GetCategory(ctx, sub.CategoryID)
		if err != nil {
			return inserted, fmt.Errorf("load category %d: %w", sub.CategoryID, err)
		}
		ratio := 0.2 + rng.Float64()

		for i := 0; i < Months; i++ {
			month := current.AddMonths(-i)
			_, err := store.GetUsage(ctx, sub.ID, month)
			if err == nil {
				continue
			}
			if !errors.Is(err, database.ErrNotFound) {
				return inserted, err
			}

			rec := &model.UsageRecord{SubscriptionID: sub.ID, Month: month, UsageValue: randomUsage(rng, *category, month, ratio)}
			if err := store.UpsertUsage(ctx, rec); err != nil {
				return inserted, fmt.Errorf("insert usage: %w", err)
			}
			touched[sub.UserID] = true
			inserted++
		}
		log.Printf("Generated usage for subscription ID: %d (User: %s)", sub.ID, sub.UserID)
	}
	return inserted, nil
}

// randomUsage varies ratio×reference by ±30% and keeps it within the month's bound.
// Summer months run a little higher.
func randomUsage(rng *rand.Rand, category model.Category, month model.YearMonth, ratio float64) int {
	if month.Month >= time.June && month.Month <= time.August {
		ratio += 0.1
	}
	variation := 0.7 + rng.Float64()*0.6
	value := int(float64(category.ReferenceValue) * ratio * variation)
	if value < 0 {
		value = 0
	}
	if limit := validation.MaxUsage(category.Unit, month); value > limit {
		value = limit
	}
	return value
}
