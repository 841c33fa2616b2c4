// Package cache stores computed dashboards so repeated month views skip the
// classification pass. Each user has a generation counter that every write
// bumps; entries are keyed by generation, so a dashboard computed before a
// write can never be served after it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jueunk617/subscription-keep-or-cut/internal/model"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "dashboard:v1:"

// DashboardCache caches dashboards per user and month.
//
// Get returns the cached dashboard, or nil on a miss, together with the
// user's current generation. Set stores a dashboard under the generation
// that was current before its data was loaded.
type DashboardCache interface {
	Get(ctx context.Context, userID string, month model.YearMonth) (*model.Dashboard, int64, error)
	Set(ctx context.Context, userID string, gen int64, month model.YearMonth, d *model.Dashboard) error
	Invalidate(ctx context.Context, userID string) error
}

// Nop is a DashboardCache that never stores anything
type Nop struct{}

func (Nop) Get(context.Context, string, model.YearMonth) (*model.Dashboard, int64, error) {
	return nil, 0, nil
}

func (Nop) Set(context.Context, string, int64, model.YearMonth, *model.Dashboard) error { return nil }

func (Nop) Invalidate(context.Context, string) error { return nil }

// Redis is a DashboardCache backed by a Redis server
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the Redis server at url (redis://host:port/db)
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func genKey(userID string) string {
	return keyPrefix + "gen:" + userID
}

func dataKey(userID string, gen int64, month model.YearMonth) string {
	return fmt.Sprintf("%sdata:%s:%d:%s", keyPrefix, userID, gen, month)
}

func (r *Redis) generation(ctx context.Context, userID string) (int64, error) {
	gen, err := r.client.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (r *Redis) Get(ctx context.Context, userID string, month model.YearMonth) (*model.Dashboard, int64, error) {
	gen, err := r.generation(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	data, err := r.client.Get(ctx, dataKey(userID, gen, month)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, nil
	}
	if err != nil {
		return nil, 0, err
	}

	var d cachedDashboard
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, 0, err
	}
	return d.toModel(), gen, nil
}

func (r *Redis) Set(ctx context.Context, userID string, gen int64, month model.YearMonth, d *model.Dashboard) error {
	data, err := json.Marshal(fromModel(d))
	if err != nil {
		return err
	}
	return r.client.Set(ctx, dataKey(userID, gen, month), data, r.ttl).Err()
}

// Invalidate moves the user to a new generation. Entries of older
// generations are no longer read and expire with their TTL.
func (r *Redis) Invalidate(ctx context.Context, userID string) error {
	return r.client.Incr(ctx, genKey(userID)).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// cachedDashboard keeps the monthly cost that the API response omits.
type cachedDashboard struct {
	TotalMonthlyCost         int64                  `json:"totalMonthlyCost"`
	TotalAnnualWasteEstimate int64                  `json:"totalAnnualWasteEstimate"`
	Subscriptions            []model.Classification `json:"subscriptions"`
	MonthlyCosts             []int64                `json:"monthlyCosts"`
}

func fromModel(d *model.Dashboard) cachedDashboard {
	c := cachedDashboard{
		TotalMonthlyCost:         d.TotalMonthlyCost,
		TotalAnnualWasteEstimate: d.TotalAnnualWasteEstimate,
		Subscriptions:            d.Subscriptions,
		MonthlyCosts:             make([]int64, len(d.Subscriptions)),
	}
	for i, s := range d.Subscriptions {
		c.MonthlyCosts[i] = s.MonthlyCost
	}
	return c
}

func (c cachedDashboard) toModel() *model.Dashboard {
	d := &model.Dashboard{
		TotalMonthlyCost:         c.TotalMonthlyCost,
		TotalAnnualWasteEstimate: c.TotalAnnualWasteEstimate,
		Subscriptions:            c.Subscriptions,
	}
	if d.Subscriptions == nil {
		d.Subscriptions = []model.Classification{}
	}
	for i := range d.Subscriptions {
		if i < len(c.MonthlyCosts) {
			d.Subscriptions[i].MonthlyCost = c.MonthlyCosts[i]
		}
	}
	return d
}
