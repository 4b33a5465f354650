package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"trade-journal/internal/models"
)

// TradeFilter narrows trade queries. Zero values mean "no filter".
type TradeFilter struct {
	AccountID uint
	From      time.Time
	To        time.Time
}

type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new instance of TradeRepository
func NewTradeRepository(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// scoped returns a trade query joined against accounts so that every read
// and write is filtered to the requesting user's own accounts. Ownership is
// enforced here, not by a database constraint alone.
func (r *TradeRepository) scoped(ctx context.Context, userID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Trade{}).
		Joins("JOIN accounts ON accounts.id = trades.account_id").
		Where("accounts.user_id = ?", userID)
}

// Create adds a trade after verifying the target account belongs to the user.
func (r *TradeRepository) Create(ctx context.Context, userID uint, trade *models.Trade) error {
	if trade == nil {
		return errors.New("trade cannot be nil")
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND user_id = ?", trade.AccountID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return r.db.WithContext(ctx).Create(trade).Error
}

// CreateBatch inserts imported trades for one account in a single transaction.
func (r *TradeRepository) CreateBatch(ctx context.Context, userID, accountID uint, trades []models.Trade) error {
	if len(trades) == 0 {
		return nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ? AND user_id = ?", accountID, userID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	for i := range trades {
		trades[i].AccountID = accountID
	}
	return r.db.WithContext(ctx).CreateInBatches(trades, 200).Error
}

// FindByID retrieves one trade visible to the user.
func (r *TradeRepository) FindByID(ctx context.Context, userID, id uint) (*models.Trade, error) {
	var trade models.Trade
	err := r.scoped(ctx, userID).
		Where("trades.id = ?", id).
		First(&trade).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

// Find retrieves the user's trades, oldest first, with optional filters.
func (r *TradeRepository) Find(ctx context.Context, userID uint, filter TradeFilter) ([]models.Trade, error) {
	query := r.scoped(ctx, userID)
	if filter.AccountID != 0 {
		query = query.Where("trades.account_id = ?", filter.AccountID)
	}
	if !filter.From.IsZero() {
		query = query.Where("trades.open_time >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		query = query.Where("trades.open_time <= ?", filter.To)
	}
	var trades []models.Trade
	err := query.Order("trades.open_time asc").Find(&trades).Error
	return trades, err
}

// FindRecent retrieves the user's most recently opened trades, newest first.
func (r *TradeRepository) FindRecent(ctx context.Context, userID uint, limit int) ([]models.Trade, error) {
	if limit <= 0 {
		limit = 10
	}
	var trades []models.Trade
	err := r.scoped(ctx, userID).
		Order("trades.open_time desc").
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

// Count counts all trades visible to the user.
func (r *TradeRepository) Count(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.scoped(ctx, userID).Count(&count).Error
	return count, err
}

// Update modifies an existing trade after an ownership check.
func (r *TradeRepository) Update(ctx context.Context, userID uint, trade *models.Trade) error {
	if trade == nil {
		return errors.New("trade cannot be nil")
	}
	existing, err := r.FindByID(ctx, userID, trade.ID)
	if err != nil {
		return err
	}
	trade.AccountID = existing.AccountID
	return r.db.WithContext(ctx).Save(trade).Error
}

// Delete removes a trade visible to the user.
func (r *TradeRepository) Delete(ctx context.Context, userID, id uint) error {
	existing, err := r.FindByID(ctx, userID, id)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(existing).Error
}
