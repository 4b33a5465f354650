package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"trade-journal/internal/models"
)

type AccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new instance of AccountRepository
func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create adds a new Account record to the database
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}
	return r.db.WithContext(ctx).Create(account).Error
}

// FindByID retrieves an account owned by the given user.
func (r *AccountRepository) FindByID(ctx context.Context, userID, id uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByUser retrieves all accounts owned by the given user.
func (r *AccountRepository) FindByUser(ctx context.Context, userID uint) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&accounts).Error
	return accounts, err
}

// FindActive retrieves the user's active account, if any.
func (r *AccountRepository) FindActive(ctx context.Context, userID uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Update modifies an existing account owned by the given user.
func (r *AccountRepository) Update(ctx context.Context, userID uint, account *models.Account) error {
	if account == nil {
		return errors.New("account cannot be nil")
	}
	res := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND user_id = ?", account.ID, userID).
		Updates(map[string]any{
			"name":            account.Name,
			"currency":        account.Currency,
			"initial_balance": account.InitialBalance,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Activate marks one account active and all the user's others inactive,
// inside a single transaction so the single-active invariant holds.
func (r *AccountRepository) Activate(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Account{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_active", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Model(&models.Account{}).
			Where("user_id = ? AND id <> ?", userID, id).
			Update("is_active", false).Error
	})
}

// Delete removes an account and its trades.
func (r *AccountRepository) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Account{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("account_id = ?", id).Delete(&models.Trade{}).Error
	})
}
