package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trade-journal/internal/models"
	"trade-journal/internal/payments"
	"trade-journal/internal/repositories"
)

type fakeProvider struct {
	lastPlan       string
	lastPercentOff int
	err            error
}

func (f *fakeProvider) CreateCheckoutSession(_ context.Context, _ uint, plan string, percentOff int) (*payments.CheckoutSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastPlan = plan
	f.lastPercentOff = percentOff
	return &payments.CheckoutSession{ID: "cs_test", URL: "https://checkout.example/cs_test"}, nil
}

func newBillingFixture(t *testing.T) (*BillingService, *repositories.BillingRepository, *fakeProvider) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}, &models.PromoCode{}))

	repo := repositories.NewBillingRepository(db)
	provider := &fakeProvider{}
	return NewBillingService(repo, provider, zap.NewNop()), repo, provider
}

func TestSubscribeWithPromoCode(t *testing.T) {
	svc, repo, provider := newBillingFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.CreatePromoCode(ctx, &models.PromoCode{
		Code: "welcome20", PercentOff: 20, Active: true,
	}))

	session, err := svc.Subscribe(ctx, 1, "pro", "WELCOME20")
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)
	assert.Equal(t, "pro", provider.lastPlan)
	assert.Equal(t, 20, provider.lastPercentOff)

	// Redemption counted.
	promo, err := repo.FindPromoCode(ctx, "welcome20")
	require.NoError(t, err)
	assert.Equal(t, 1, promo.Redemptions)
}

func TestSubscribeRejectsBadPromoCodes(t *testing.T) {
	svc, repo, _ := newBillingFixture(t)
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	require.NoError(t, repo.CreatePromoCode(ctx, &models.PromoCode{
		Code: "OLD", PercentOff: 10, Active: true, ExpiresAt: &expired,
	}))
	require.NoError(t, repo.CreatePromoCode(ctx, &models.PromoCode{
		Code: "USEDUP", PercentOff: 10, Active: true, MaxRedemptions: 1, Redemptions: 1,
	}))

	for _, code := range []string{"NOSUCH", "OLD", "USEDUP"} {
		_, err := svc.Subscribe(ctx, 1, "pro", code)
		assert.True(t, errors.Is(err, ErrPromoNotRedeemable), "code %q should be rejected", code)
	}
}

func TestSubscribeWithoutPromoCode(t *testing.T) {
	svc, _, provider := newBillingFixture(t)

	session, err := svc.Subscribe(context.Background(), 1, "basic", "")
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)
	assert.Zero(t, provider.lastPercentOff)
}

func TestHandleEventLifecycle(t *testing.T) {
	svc, _, _ := newBillingFixture(t)
	ctx := context.Background()

	periodEnd := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	require.NoError(t, svc.HandleEvent(ctx, &payments.Event{
		Type:           payments.EventCheckoutCompleted,
		SubscriptionID: "sub_42",
		Plan:           "pro",
		UserID:         1,
		PeriodEnd:      &periodEnd,
	}))

	sub, err := svc.GetSubscription(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, "pro", sub.Plan)

	require.NoError(t, svc.HandleEvent(ctx, &payments.Event{
		Type:           payments.EventSubscriptionUpdated,
		SubscriptionID: "sub_42",
		Status:         models.SubscriptionStatusPastDue,
	}))
	sub, err = svc.GetSubscription(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusPastDue, sub.Status)

	require.NoError(t, svc.HandleEvent(ctx, &payments.Event{
		Type:           payments.EventSubscriptionDeleted,
		SubscriptionID: "sub_42",
	}))
	sub, err = svc.GetSubscription(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCanceled, sub.Status)
}

func TestHandleEventIgnoresUnknownTypesAndSubscriptions(t *testing.T) {
	svc, _, _ := newBillingFixture(t)
	ctx := context.Background()

	assert.NoError(t, svc.HandleEvent(ctx, &payments.Event{Type: "invoice.paid"}))
	assert.NoError(t, svc.HandleEvent(ctx, &payments.Event{
		Type:           payments.EventSubscriptionUpdated,
		SubscriptionID: "sub_missing",
	}))

	sub, err := svc.GetSubscription(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, sub, "never-subscribed user has no subscription row")
}
