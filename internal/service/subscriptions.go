package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"
	"github.com/jueunk617/subscription-keep-or-cut/internal/database"
	"github.com/jueunk617/subscription-keep-or-cut/internal/evaluation"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
	"github.com/jueunk617/subscription-keep-or-cut/internal/validation"
)

var duplicateName = apperr.FieldError{Field: "name", Message: "이미 등록된 구독 이름입니다"}

// CreateSubscription validates and stores a new subscription for userID
func (s *Service) CreateSubscription(ctx context.Context, userID string, in validation.SubscriptionInput) (*model.Subscription, error) {
	names, err := s.store.SubscriptionNames(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load subscription names: %w", err)
	}
	if errs := validation.Subscription(in, names); len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	category, err := s.store.GetCategory(ctx, in.CategoryID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.New(apperr.CategoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load category %d: %w", in.CategoryID, err)
	}

	sub := &model.Subscription{
		UserID:           userID,
		CategoryID:       category.ID,
		Name:             strings.TrimSpace(in.Name),
		TotalCost:        in.TotalCost,
		UserShareCost:    in.UserShareCost,
		MonthlyShareCost: evaluation.MonthlyEquivalent(in.UserShareCost, in.BillingCycle),
		BillingCycle:     in.BillingCycle,
		Status:           in.Status,
	}
	err = s.store.CreateSubscription(ctx, sub)
	if errors.Is(err, database.ErrDuplicate) {
		return nil, apperr.Validation(duplicateName)
	}
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}

	log.Printf("Created subscription %d (%s, %s/월) for user %s", sub.ID, sub.Name, model.FormatWon(sub.MonthlyShareCost), userID)
	s.invalidate(ctx, userID)
	return sub, nil
}

// ListSubscriptions returns all of the user's subscriptions
func (s *Service) ListSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	return s.store.ListSubscriptions(ctx, userID)
}

// DeleteSubscription removes one of the user's subscriptions and its usage
func (s *Service) DeleteSubscription(ctx context.Context, userID string, id int64) error {
	err := s.store.DeleteSubscription(ctx, id, userID)
	if errors.Is(err, database.ErrNotFound) {
		return apperr.New(apperr.SubscriptionNotFound)
	}
	if err != nil {
		return fmt.Errorf("delete subscription %d: %w", id, err)
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		log.Printf("Error invalidating dashboard cache for user %s: %v", userID, err)
	}
}
