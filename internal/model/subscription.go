package model

import "time"

// BillingCycle is how often a subscription is billed
type BillingCycle string

const (
	CycleMonthly   BillingCycle = "MONTHLY"
	CycleQuarterly BillingCycle = "QUARTERLY"
	CycleAnnual    BillingCycle = "ANNUAL"
)

// SubscriptionStatus is the lifecycle state of a subscription
type SubscriptionStatus string

const (
	StatusActive SubscriptionStatus = "ACTIVE"
	StatusTrial  SubscriptionStatus = "TRIAL"
)

func (c BillingCycle) Valid() bool {
	switch c {
	case CycleMonthly, CycleQuarterly, CycleAnnual:
		return true
	}
	return false
}

// Months returns the number of months one billing period covers.
func (c BillingCycle) Months() int64 {
	switch c {
	case CycleMonthly:
		return 1
	case CycleQuarterly:
		return 3
	case CycleAnnual:
		return 12
	}
	panic("model: unknown billing cycle " + string(c))
}

func (s SubscriptionStatus) Valid() bool {
	switch s {
	case StatusActive, StatusTrial:
		return true
	}
	return false
}

// Subscription represents a recurring paid service tracked by a user
type Subscription struct {
	ID               int64              `json:"id" db:"id"`
	UserID           string             `json:"-" db:"user_id"`
	CategoryID       int64              `json:"-" db:"category_id"`
	CategoryName     string             `json:"categoryName" db:"category_name"`
	Name             string             `json:"name" db:"name"`
	TotalCost        int64              `json:"-" db:"total_cost"`
	UserShareCost    int64              `json:"-" db:"user_share_cost"`
	MonthlyShareCost int64              `json:"monthlyShareCost" db:"monthly_share_cost"`
	BillingCycle     BillingCycle       `json:"billingCycle" db:"billing_cycle"`
	Status           SubscriptionStatus `json:"status" db:"status"`
	CreatedAt        time.Time          `json:"-" db:"created_at"`
}

// IsTrial reports whether the subscription is in a free evaluation period
func (s Subscription) IsTrial() bool {
	return s.Status == StatusTrial
}

// UsageRecord is one subscription's usage for one calendar month
type UsageRecord struct {
	SubscriptionID int64     `json:"subscriptionId" db:"subscription_id"`
	Month          YearMonth `json:"date" db:"usage_month"`
	UsageValue     int       `json:"usageValue" db:"usage_value"`
	UpdatedAt      time.Time `json:"-" db:"updated_at"`
}
