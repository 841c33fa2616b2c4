package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
)

// MonthlyUsage is a subscription joined with its category and its usage
// record for one month
type MonthlyUsage struct {
	Subscription model.Subscription
	Category     model.Category
	Usage        model.UsageRecord
}

// UpsertUsage stores a usage record. A record for the same subscription and
// month is replaced.
func (db *DB) UpsertUsage(ctx context.Context, rec *model.UsageRecord) error {
	rec.UpdatedAt = time.Now().UTC()
	_, err := db.NamedExecContext(ctx,
		`INSERT INTO subscription_usages (subscription_id, usage_month, usage_value, updated_at)
		 VALUES (:subscription_id, :usage_month, :usage_value, :updated_at)
		 ON CONFLICT (subscription_id, usage_month)
		 DO UPDATE SET usage_value = excluded.usage_value, updated_at = excluded.updated_at`,
		rec)
	return err
}

// GetUsage returns the usage record of a subscription for a month
func (db *DB) GetUsage(ctx context.Context, subscriptionID int64, month model.YearMonth) (*model.UsageRecord, error) {
	var rec model.UsageRecord
	err := db.GetContext(ctx, &rec,
		`SELECT subscription_id, usage_month, usage_value, updated_at
		 FROM subscription_usages WHERE subscription_id = ? AND usage_month = ?`,
		subscriptionID, month)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

type monthlyUsageRow struct {
	model.Subscription
	RefValue  int                `db:"reference_value"`
	Unit      model.UsageUnit    `db:"unit"`
	Type      model.CategoryType `db:"type"`
	Month     model.YearMonth    `db:"usage_month"`
	Value     int                `db:"usage_value"`
	UpdatedAt time.Time          `db:"updated_at"`
}

// ListMonthlyUsages returns every subscription of the user that has a usage
// record for month, in subscription id order
func (db *DB) ListMonthlyUsages(ctx context.Context, userID string, month model.YearMonth) ([]MonthlyUsage, error) {
	var rows []monthlyUsageRow
	err := db.SelectContext(ctx, &rows,
		`SELECT s.id, s.user_id, s.category_id, c.name AS category_name, s.name,
		        s.total_cost, s.user_share_cost, s.monthly_share_cost,
		        s.billing_cycle, s.status, s.created_at,
		        c.reference_value, c.unit, c.type,
		        u.usage_month, u.usage_value, u.updated_at
		 FROM subscription_usages u
		 JOIN subscriptions s ON s.id = u.subscription_id
		 JOIN categories c ON c.id = s.category_id
		 WHERE s.user_id = ? AND u.usage_month = ?
		 ORDER BY s.id`,
		userID, month)
	if err != nil {
		return nil, err
	}

	usages := make([]MonthlyUsage, 0, len(rows))
	for _, r := range rows {
		usages = append(usages, MonthlyUsage{
			Subscription: r.Subscription,
			Category: model.Category{
				ID:             r.CategoryID,
				Name:           r.CategoryName,
				ReferenceValue: r.RefValue,
				Unit:           r.Unit,
				Type:           r.Type,
			},
			Usage: model.UsageRecord{
				SubscriptionID: r.ID,
				Month:          r.Month,
				UsageValue:     r.Value,
				UpdatedAt:      r.UpdatedAt,
			},
		})
	}
	return usages, nil
}
