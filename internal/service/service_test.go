package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jueunk617/subscription-keep-or-cut/internal/apperr"
	"github.com/jueunk617/subscription-keep-or-cut/internal/cache"
	"github.com/jueunk617/subscription-keep-or-cut/internal/catalog"
	"github.com/jueunk617/subscription-keep-or-cut/internal/database"
	"github.com/jueunk617/subscription-keep-or-cut/internal/model"
	"github.com/jueunk617/subscription-keep-or-cut/internal/validation"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUser = "local-user"

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.SeedCategories(ctx, catalog.All()))

	mr := miniredis.RunT(t)
	rc, err := cache.NewRedis(ctx, "redis://"+mr.Addr(), 10*time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })

	return New(db, rc), mr
}

func netflix() validation.SubscriptionInput {
	return validation.SubscriptionInput{
		CategoryID:    1,
		Name:          "Netflix",
		TotalCost:     17000,
		UserShareCost: 17000,
		BillingCycle:  model.CycleMonthly,
		Status:        model.StatusActive,
	}
}

func requireCode(t *testing.T, err error, code apperr.Code) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, code.Code, e.Code.Code)
	return e
}

func TestCreateSubscription(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := netflix()
	in.Name = "  Netflix  "
	in.BillingCycle = model.CycleQuarterly
	in.TotalCost = 50000
	in.UserShareCost = 50000

	sub, err := svc.CreateSubscription(ctx, testUser, in)
	require.NoError(t, err)
	assert.NotZero(t, sub.ID)
	assert.Equal(t, "Netflix", sub.Name)
	assert.Equal(t, "OTT", sub.CategoryName)
	assert.Equal(t, int64(16666), sub.MonthlyShareCost)

	subs, err := svc.ListSubscriptions(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, sub.ID, subs[0].ID)
}

func TestCreateSubscription_ValidationErrors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := netflix()
	in.Name = " "
	in.UserShareCost = 20000
	in.BillingCycle = "WEEKLY"

	_, err := svc.CreateSubscription(ctx, testUser, in)
	e := requireCode(t, err, apperr.BadRequest)
	assert.Equal(t, apperr.ValidationFailedMessage, e.Message)

	fields := map[string]string{}
	for _, f := range e.Fields {
		fields[f.Field] = f.Message
	}
	assert.Equal(t, "구독 이름을 입력해주세요", fields["name"])
	assert.Equal(t, "사용자 부담 금액은 총 비용보다 클 수 없습니다", fields["userShareCost"])
	assert.Equal(t, "결제 주기를 선택해주세요", fields["billingCycle"])
}

func TestCreateSubscription_DuplicateNamePerUser(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSubscription(ctx, testUser, netflix())
	require.NoError(t, err)

	dup := netflix()
	dup.Name = "netflix "
	_, err = svc.CreateSubscription(ctx, testUser, dup)
	e := requireCode(t, err, apperr.BadRequest)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "name", e.Fields[0].Field)

	_, err = svc.CreateSubscription(ctx, "other-user", netflix())
	assert.NoError(t, err)
}

func TestCreateSubscription_UnknownCategory(t *testing.T) {
	svc, _ := newTestService(t)

	in := netflix()
	in.CategoryID = 42
	_, err := svc.CreateSubscription(context.Background(), testUser, in)
	requireCode(t, err, apperr.CategoryNotFound)
}

func TestDeleteSubscription(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, testUser, netflix())
	require.NoError(t, err)

	requireCode(t, svc.DeleteSubscription(ctx, "other-user", sub.ID), apperr.SubscriptionNotFound)
	require.NoError(t, svc.DeleteSubscription(ctx, testUser, sub.ID))
	requireCode(t, svc.DeleteSubscription(ctx, testUser, sub.ID), apperr.SubscriptionNotFound)
}

func TestRecordUsage(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, testUser, netflix())
	require.NoError(t, err)

	rec, err := svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-02", UsageValue: 600})
	require.NoError(t, err)
	assert.Equal(t, "2024-02", rec.Month.String())

	// February 2024 has 29 days
	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-02", UsageValue: 29 * 1440})
	assert.NoError(t, err)

	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-02", UsageValue: 29*1440 + 1})
	e := requireCode(t, err, apperr.BadRequest)
	require.Len(t, e.Fields, 1)
	assert.Equal(t, "2월의 최대 이용 가능 시간은 41760분입니다", e.Fields[0].Message)
}

func TestRecordUsage_DaysBound(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	in := netflix()
	in.CategoryID = 4
	in.Name = "ChatGPT"
	sub, err := svc.CreateSubscription(ctx, testUser, in)
	require.NoError(t, err)

	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2023-04", UsageValue: 31})
	e := requireCode(t, err, apperr.BadRequest)
	assert.Equal(t, "4월은 30일까지 있습니다", e.Fields[0].Message)
}

func TestRecordUsage_Errors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, testUser, netflix())
	require.NoError(t, err)

	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-01", UsageValue: -1})
	e := requireCode(t, err, apperr.InvalidUsageValue)
	assert.Equal(t, []apperr.FieldError{{Field: "usageValue", Message: "0 이상의 숫자를 입력해주세요"}}, e.Fields)

	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024/01", UsageValue: 1})
	e = requireCode(t, err, apperr.BadRequest)
	assert.Equal(t, "date", e.Fields[0].Field)

	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: 999, Date: "2024-01", UsageValue: 1})
	requireCode(t, err, apperr.SubscriptionNotFound)

	_, err = svc.RecordUsage(ctx, "other-user", UsageInput{SubscriptionID: sub.ID, Date: "2024-01", UsageValue: 1})
	requireCode(t, err, apperr.SubscriptionNotFound)
}

func TestDashboard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	ott, err := svc.CreateSubscription(ctx, testUser, netflix())
	require.NoError(t, err)

	music := netflix()
	music.CategoryID = 2
	music.Name = "Spotify"
	music.TotalCost = 12000
	music.UserShareCost = 12000
	ghost, err := svc.CreateSubscription(ctx, testUser, music)
	require.NoError(t, err)

	trial := netflix()
	trial.CategoryID = 4
	trial.Name = "Claude"
	trial.TotalCost = 30000
	trial.UserShareCost = 30000
	trial.Status = model.StatusTrial
	tr, err := svc.CreateSubscription(ctx, testUser, trial)
	require.NoError(t, err)

	unrecorded := netflix()
	unrecorded.Name = "Disney+"
	_, err = svc.CreateSubscription(ctx, testUser, unrecorded)
	require.NoError(t, err)

	for _, u := range []UsageInput{
		{SubscriptionID: ott.ID, Date: "2024-05", UsageValue: 1980},
		{SubscriptionID: ghost.ID, Date: "2024-05", UsageValue: 0},
		{SubscriptionID: tr.ID, Date: "2024-05", UsageValue: 6},
	} {
		_, err := svc.RecordUsage(ctx, testUser, u)
		require.NoError(t, err)
	}

	d, err := svc.Dashboard(ctx, testUser, 2024, 5)
	require.NoError(t, err)
	require.Len(t, d.Subscriptions, 3)

	assert.Equal(t, int64(17000+12000), d.TotalMonthlyCost)
	assert.Equal(t, int64(12000*12), d.TotalAnnualWasteEstimate)

	byName := map[string]model.Classification{}
	for _, c := range d.Subscriptions {
		byName[c.Name] = c
	}
	assert.Equal(t, model.EvalEfficient, byName["Netflix"].Status)
	assert.Equal(t, model.EvalGhost, byName["Spotify"].Status)
	assert.Nil(t, byName["Spotify"].CostPerUnit)

	claude := byName["Claude"]
	assert.True(t, claude.Trial)
	assert.Equal(t, model.EvalReview, claude.Status)
	assert.Zero(t, claude.AnnualWaste)
	assert.Equal(t, int64(180000), claude.PotentialAnnualWaste)
}

func TestDashboard_EmptyMonth(t *testing.T) {
	svc, _ := newTestService(t)

	d, err := svc.Dashboard(context.Background(), testUser, 2024, 1)
	require.NoError(t, err)
	assert.NotNil(t, d.Subscriptions)
	assert.Empty(t, d.Subscriptions)
	assert.Zero(t, d.TotalMonthlyCost)
}

func TestDashboard_InvalidMonth(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Dashboard(context.Background(), testUser, 1999, 13)
	e := requireCode(t, err, apperr.BadRequest)
	assert.Len(t, e.Fields, 2)
}

func TestDashboard_CachedAndInvalidated(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, testUser, netflix())
	require.NoError(t, err)
	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-05", UsageValue: 900})
	require.NoError(t, err)

	// create and record each bumped the generation
	first, err := svc.Dashboard(ctx, testUser, 2024, 5)
	require.NoError(t, err)
	assert.True(t, mr.Exists("dashboard:v1:data:local-user:2:2024-05"))

	second, err := svc.Dashboard(ctx, testUser, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-05", UsageValue: 1800})
	require.NoError(t, err)
	gen, err := mr.Get("dashboard:v1:gen:local-user")
	require.NoError(t, err)
	assert.Equal(t, "3", gen)

	third, err := svc.Dashboard(ctx, testUser, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, model.EvalEfficient, third.Subscriptions[0].Status)
	assert.Equal(t, model.EvalReview, first.Subscriptions[0].Status)
}

func TestDashboard_CacheUnavailable(t *testing.T) {
	svc, mr := newTestService(t)
	ctx := context.Background()

	sub, err := svc.CreateSubscription(ctx, testUser, netflix())
	require.NoError(t, err)
	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-05", UsageValue: 1800})
	require.NoError(t, err)

	mr.Close()

	d, err := svc.Dashboard(ctx, testUser, 2024, 5)
	require.NoError(t, err)
	require.Len(t, d.Subscriptions, 1)
	assert.Equal(t, model.EvalEfficient, d.Subscriptions[0].Status)
}

// writeDuringLoad runs write once, right after the monthly rows were read and
// before the dashboard built from them is cached.
type writeDuringLoad struct {
	Store
	write func()
}

func (s *writeDuringLoad) ListMonthlyUsages(ctx context.Context, userID string, month model.YearMonth) ([]database.MonthlyUsage, error) {
	usages, err := s.Store.ListMonthlyUsages(ctx, userID, month)
	if s.write != nil {
		w := s.write
		s.write = nil
		w()
	}
	return usages, err
}

func TestDashboard_WriteDuringLoadIsNotMaskedByCache(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.SeedCategories(ctx, catalog.All()))

	mr := miniredis.RunT(t)
	rc, err := cache.NewRedis(ctx, "redis://"+mr.Addr(), 10*time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { rc.Close() })

	store := &writeDuringLoad{Store: db}
	svc := New(store, rc)

	sub, err := svc.CreateSubscription(ctx, testUser, netflix())
	require.NoError(t, err)
	_, err = svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-05", UsageValue: 900})
	require.NoError(t, err)

	store.write = func() {
		_, err := svc.RecordUsage(ctx, testUser, UsageInput{SubscriptionID: sub.ID, Date: "2024-05", UsageValue: 1800})
		require.NoError(t, err)
	}

	stale, err := svc.Dashboard(ctx, testUser, 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, model.EvalReview, stale.Subscriptions[0].Status)

	d, err := svc.Dashboard(ctx, testUser, 2024, 5)
	require.NoError(t, err)
	require.Len(t, d.Subscriptions, 1)
	assert.Equal(t, model.EvalEfficient, d.Subscriptions[0].Status)
	assert.Equal(t, float64(100), d.Subscriptions[0].EfficiencyRate)
}
