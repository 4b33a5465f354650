package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"trade-journal/internal/models"
	"trade-journal/internal/payments"
	"trade-journal/internal/repositories"
)

var ErrPromoNotRedeemable = errors.New("promo code is not valid")

// BillingService drives subscriptions through the payments provider and
// mirrors the provider's state locally via webhook events.
type BillingService struct {
	billing  *repositories.BillingRepository
	provider payments.Provider
	logger   *zap.Logger
}

func NewBillingService(billing *repositories.BillingRepository, provider payments.Provider, logger *zap.Logger) *BillingService {
	return &BillingService{billing: billing, provider: provider, logger: logger}
}

// Subscribe validates an optional promo code and creates a hosted checkout
// session for the plan. The subscription row is written when the provider's
// webhook confirms checkout, not here.
func (s *BillingService) Subscribe(ctx context.Context, userID uint, plan, promoCode string) (*payments.CheckoutSession, error) {
	percentOff := 0
	var promo *models.PromoCode
	if promoCode != "" {
		found, err := s.billing.FindPromoCode(ctx, promoCode)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPromoNotRedeemable
		}
		if err != nil {
			return nil, err
		}
		if !found.Redeemable(time.Now()) {
			return nil, ErrPromoNotRedeemable
		}
		percentOff = found.PercentOff
		promo = found
	}

	session, err := s.provider.CreateCheckoutSession(ctx, userID, plan, percentOff)
	if err != nil {
		return nil, err
	}

	if promo != nil {
		if err := s.billing.MarkPromoCodeRedeemed(ctx, promo.ID); err != nil {
			// The discount is already applied at the provider; a lost
			// counter increment is not worth failing the checkout.
			s.logger.Warn("failed to record promo redemption",
				zap.String("code", promo.Code), zap.Error(err))
		}
	}

	return session, nil
}

// GetSubscription returns the user's mirrored subscription state, nil when
// they never subscribed.
func (s *BillingService) GetSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	sub, err := s.billing.FindSubscription(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	return sub, err
}

// HandleEvent applies one verified provider webhook event to the local
// subscription mirror.
func (s *BillingService) HandleEvent(ctx context.Context, event *payments.Event) error {
	switch event.Type {
	case payments.EventCheckoutCompleted:
		return s.billing.UpsertSubscription(ctx, &models.Subscription{
			UserID:                 event.UserID,
			Plan:                   event.Plan,
			Status:                 models.SubscriptionStatusActive,
			ProviderSubscriptionID: event.SubscriptionID,
			CurrentPeriodEnd:       event.PeriodEnd,
		})

	case payments.EventSubscriptionUpdated:
		sub, err := s.billing.FindSubscriptionByProviderID(ctx, event.SubscriptionID)
		if errors.Is(err, repositories.ErrNotFound) {
			s.logger.Warn("webhook for unknown subscription",
				zap.String("providerID", event.SubscriptionID))
			return nil
		}
		if err != nil {
			return err
		}
		sub.Status = event.Status
		if event.PeriodEnd != nil {
			sub.CurrentPeriodEnd = event.PeriodEnd
		}
		return s.billing.UpsertSubscription(ctx, sub)

	case payments.EventSubscriptionDeleted:
		sub, err := s.billing.FindSubscriptionByProviderID(ctx, event.SubscriptionID)
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.billing.UpdateSubscriptionStatus(ctx, sub.ID, models.SubscriptionStatusCanceled)

	default:
		s.logger.Debug("ignoring webhook event", zap.String("type", event.Type))
		return nil
	}
}
