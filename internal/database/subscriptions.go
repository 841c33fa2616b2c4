package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jueunk617/subscription-keep-or-cut/internal/model"

	"github.com/mattn/go-sqlite3"
)

const selectSubscription = `
SELECT s.id, s.user_id, s.category_id, c.name AS category_name, s.name,
       s.total_cost, s.user_share_cost, s.monthly_share_cost,
       s.billing_cycle, s.status, s.created_at
FROM subscriptions s
JOIN categories c ON c.id = s.category_id`

// CreateSubscription inserts a new subscription and fills in its id,
// category name and creation time
func (db *DB) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	sub.CreatedAt = time.Now().UTC()
	result, err := db.NamedExecContext(ctx,
		`INSERT INTO subscriptions
		   (user_id, category_id, name, total_cost, user_share_cost, monthly_share_cost, billing_cycle, status, created_at)
		 VALUES
		   (:user_id, :category_id, :name, :total_cost, :user_share_cost, :monthly_share_cost, :billing_cycle, :status, :created_at)`,
		sub)
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	sub.ID = id

	return db.GetContext(ctx, &sub.CategoryName, "SELECT name FROM categories WHERE id = ?", sub.CategoryID)
}

// ListSubscriptions returns all of a user's subscriptions in id order
func (db *DB) ListSubscriptions(ctx context.Context, userID string) ([]model.Subscription, error) {
	subscriptions := []model.Subscription{}
	err := db.SelectContext(ctx, &subscriptions, selectSubscription+" WHERE s.user_id = ? ORDER BY s.id", userID)
	return subscriptions, err
}

// ListAllSubscriptions returns every user's subscriptions in id order
func (db *DB) ListAllSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	subscriptions := []model.Subscription{}
	err := db.SelectContext(ctx, &subscriptions, selectSubscription+" ORDER BY s.id")
	return subscriptions, err
}

// GetSubscription returns a single subscription owned by userID
func (db *DB) GetSubscription(ctx context.Context, id int64, userID string) (*model.Subscription, error) {
	var sub model.Subscription
	err := db.GetContext(ctx, &sub, selectSubscription+" WHERE s.id = ? AND s.user_id = ?", id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// SubscriptionNames returns the names of a user's subscriptions
func (db *DB) SubscriptionNames(ctx context.Context, userID string) ([]string, error) {
	var names []string
	err := db.SelectContext(ctx, &names, "SELECT name FROM subscriptions WHERE user_id = ?", userID)
	return names, err
}

// DeleteSubscription removes a user's subscription along with its usage records
func (db *DB) DeleteSubscription(ctx context.Context, id int64, userID string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM subscriptions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
