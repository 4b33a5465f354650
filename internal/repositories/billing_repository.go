package repositories

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"trade-journal/internal/models"
)

type BillingRepository struct {
	db *gorm.DB
}

// NewBillingRepository creates a new instance of BillingRepository
func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

// FindSubscription retrieves the user's subscription, if any.
func (r *BillingRepository) FindSubscription(ctx context.Context, userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpsertSubscription writes the provider's latest subscription state.
func (r *BillingRepository) UpsertSubscription(ctx context.Context, sub *models.Subscription) error {
	if sub == nil {
		return errors.New("subscription cannot be nil")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan",
			"status",
			"provider_subscription_id",
			"current_period_end",
			"updated_at",
		}),
	}).Create(sub).Error
}

// FindSubscriptionByProviderID resolves a webhook event back to a local row.
func (r *BillingRepository) FindSubscriptionByProviderID(ctx context.Context, providerID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.WithContext(ctx).
		Where("provider_subscription_id = ?", providerID).
		First(&sub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// UpdateSubscriptionStatus updates the status of a subscription row.
func (r *BillingRepository) UpdateSubscriptionStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// CreatePromoCode adds a new promo code.
func (r *BillingRepository) CreatePromoCode(ctx context.Context, code *models.PromoCode) error {
	if code == nil {
		return errors.New("promo code cannot be nil")
	}
	code.Code = strings.ToUpper(strings.TrimSpace(code.Code))
	return r.db.WithContext(ctx).Create(code).Error
}

// FindPromoCode retrieves a promo code by its code string.
func (r *BillingRepository) FindPromoCode(ctx context.Context, code string) (*models.PromoCode, error) {
	var promo models.PromoCode
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&promo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &promo, nil
}

// FindAllPromoCodes retrieves every promo code. Admin use only.
func (r *BillingRepository) FindAllPromoCodes(ctx context.Context) ([]models.PromoCode, error) {
	var codes []models.PromoCode
	err := r.db.WithContext(ctx).Order("created_at desc").Find(&codes).Error
	return codes, err
}

// MarkPromoCodeRedeemed increments the redemption counter.
func (r *BillingRepository) MarkPromoCodeRedeemed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.PromoCode{}).
		Where("id = ?", id).
		Update("redemptions", gorm.Expr("redemptions + 1")).Error
}

// DeletePromoCode removes a promo code.
func (r *BillingRepository) DeletePromoCode(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.PromoCode{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
