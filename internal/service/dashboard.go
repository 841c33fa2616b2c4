package service

import (
	"context"
	"fmt"
	"log"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"
	"github.com/jueunk617/subscription-keep-or-cut/internal/evaluation"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
	"github.com/jueunk617/subscription-keep-or-cut/internal/validation"
)

// Dashboard evaluates every subscription of the user that has usage recorded
// for the month. Subscriptions without a record are left out.
func (s *Service) Dashboard(ctx context.Context, userID string, year, month int) (*model.Dashboard, error) {
	ym, errs := validation.DashboardMonth(year, month)
	if len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	// The generation is read before the rows so that a write landing in
	// between makes the stored entry unreachable.
	cached, gen, err := s.cache.Get(ctx, userID, ym)
	cacheable := err == nil
	if err != nil {
		log.Printf("Error reading dashboard cache for user %s, month %s: %v", userID, ym, err)
	} else if cached != nil {
		return cached, nil
	}

	usages, err := s.store.ListMonthlyUsages(ctx, userID, ym)
	if err != nil {
		return nil, fmt.Errorf("load usages for %s: %w", ym, err)
	}

	inputs := make([]evaluation.Input, 0, len(usages))
	for _, u := range usages {
		inputs = append(inputs, evaluation.Input{Subscription: u.Subscription, Category: u.Category, Usage: u.Usage})
	}
	d := evaluation.Aggregate(evaluation.ClassifyAll(inputs))

	if cacheable {
		if err := s.cache.Set(ctx, userID, gen, ym, &d); err != nil {
			log.Printf("Error writing dashboard cache for user %s, month %s: %v", userID, ym, err)
		}
	}
	return &d, nil
}
