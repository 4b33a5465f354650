package services

import (
	"context"
	"errors"
	"io"

	"go.uber.org/zap"

	"trade-journal/internal/importer"
	"trade-journal/internal/models"
	"trade-journal/internal/repositories"
)

var ErrInvalidDirection = errors.New("direction must be buy or sell")

// TradeService owns trade CRUD and CSV import. Every mutation triggers a
// quiet achievement evaluation afterwards; gamification failures never fail
// the trade write.
type TradeService struct {
	trades       *repositories.TradeRepository
	accounts     *repositories.AccountRepository
	gamification *GamificationService
	logger       *zap.Logger
}

func NewTradeService(
	trades *repositories.TradeRepository,
	accounts *repositories.AccountRepository,
	gamification *GamificationService,
	logger *zap.Logger,
) *TradeService {
	return &TradeService{
		trades:       trades,
		accounts:     accounts,
		gamification: gamification,
		logger:       logger,
	}
}

// Create validates and persists one manually entered trade.
func (s *TradeService) Create(ctx context.Context, userID uint, trade *models.Trade) error {
	if trade.Direction != models.DirectionBuy && trade.Direction != models.DirectionSell {
		return ErrInvalidDirection
	}
	if err := s.trades.Create(ctx, userID, trade); err != nil {
		return err
	}
	s.gamification.EvaluateQuietly(ctx, userID)
	return nil
}

// List returns the user's trades with optional account/date filters.
func (s *TradeService) List(ctx context.Context, userID uint, filter repositories.TradeFilter) ([]models.Trade, error) {
	return s.trades.Find(ctx, userID, filter)
}

// Recent returns the user's newest trades plus the total count, for the
// dashboard's recent-activity panel.
func (s *TradeService) Recent(ctx context.Context, userID uint, limit int) ([]models.Trade, int64, error) {
	trades, err := s.trades.FindRecent(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.trades.Count(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return trades, total, nil
}

// Get returns one trade owned by the user.
func (s *TradeService) Get(ctx context.Context, userID, id uint) (*models.Trade, error) {
	return s.trades.FindByID(ctx, userID, id)
}

// Update saves an explicit edit to a trade.
func (s *TradeService) Update(ctx context.Context, userID uint, trade *models.Trade) error {
	if trade.Direction != models.DirectionBuy && trade.Direction != models.DirectionSell {
		return ErrInvalidDirection
	}
	if err := s.trades.Update(ctx, userID, trade); err != nil {
		return err
	}
	s.gamification.EvaluateQuietly(ctx, userID)
	return nil
}

// Delete removes a trade. Achievements already unlocked stay unlocked.
func (s *TradeService) Delete(ctx context.Context, userID, id uint) error {
	return s.trades.Delete(ctx, userID, id)
}

// Import parses a broker CSV and persists the rows that parsed cleanly into
// the given account. The report says how many rows were kept and skipped.
func (s *TradeService) Import(ctx context.Context, userID, accountID uint, r io.Reader) (importer.Report, error) {
	if _, err := s.accounts.FindByID(ctx, userID, accountID); err != nil {
		return importer.Report{}, err
	}

	trades, report, err := importer.Parse(r)
	if err != nil {
		return report, err
	}
	if err := s.trades.CreateBatch(ctx, userID, accountID, trades); err != nil {
		return report, err
	}

	s.logger.Info("trade history imported",
		zap.Uint("userID", userID),
		zap.Uint("accountID", accountID),
		zap.Int("imported", report.Imported),
		zap.Int("skipped", report.Skipped))

	s.gamification.EvaluateQuietly(ctx, userID)
	return report, nil
}
