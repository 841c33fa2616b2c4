package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"
	"github.com/jueunk617/subscription-keep-or-cut/internal/database"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
	"github.com/jueunk617/subscription-keep-or-cut/internal/validation"
)

// UsageInput is a usage submission for one subscription and month
type UsageInput struct {
	SubscriptionID int64
	Date           string
	UsageValue     int
}

// RecordUsage stores the month's usage for a subscription, replacing any
// earlier value for the same month.
func (s *Service) RecordUsage(ctx context.Context, userID string, in UsageInput) (*model.UsageRecord, error) {
	var fieldErrs []apperr.FieldError
	if in.SubscriptionID <= 0 {
		fieldErrs = append(fieldErrs, apperr.FieldError{Field: "subscriptionId", Message: "구독 정보는 필수입니다."})
	}
	month, errs := validation.UsageMonth(in.Date)
	fieldErrs = append(fieldErrs, errs...)
	if len(fieldErrs) > 0 {
		return nil, apperr.Validation(fieldErrs...)
	}
	if in.UsageValue < 0 {
		return nil, &apperr.Error{
			Code:    apperr.InvalidUsageValue,
			Message: apperr.InvalidUsageValue.Message,
			Fields:  []apperr.FieldError{validation.NegativeUsage},
		}
	}

	sub, err := s.store.GetSubscription(ctx, in.SubscriptionID, userID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, apperr.New(apperr.SubscriptionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load subscription %d: %w", in.SubscriptionID, err)
	}

	category, err := s.store.GetCategory(ctx, sub.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("load category %d: %w", sub.CategoryID, err)
	}
	if errs := validation.Usage(in.UsageValue, category.Unit, month); len(errs) > 0 {
		return nil, apperr.Validation(errs...)
	}

	rec := &model.UsageRecord{SubscriptionID: sub.ID, Month: month, UsageValue: in.UsageValue}
	if err := s.store.UpsertUsage(ctx, rec); err != nil {
		return nil, fmt.Errorf("record usage: %w", err)
	}

	s.invalidate(ctx, userID)
	return rec, nil
}
