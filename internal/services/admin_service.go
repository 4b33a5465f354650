package services

import (
	"context"

	"go.uber.org/zap"

	"trade-journal/internal/models"
	"trade-journal/internal/repositories"
)

// AdminService backs the role-gated administration endpoints: user listing
// and suspension, plus promo-code management.
type AdminService struct {
	users   *repositories.UserRepository
	billing *repositories.BillingRepository
	logger  *zap.Logger
}

func NewAdminService(users *repositories.UserRepository, billing *repositories.BillingRepository, logger *zap.Logger) *AdminService {
	return &AdminService{users: users, billing: billing, logger: logger}
}

func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) ([]models.User, error) {
	users, err := s.users.FindAll(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

// SetUserActive suspends or reinstates a user.
func (s *AdminService) SetUserActive(ctx context.Context, userID uint, active bool) error {
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return err
	}
	s.logger.Info("user active flag changed",
		zap.Uint("userID", userID), zap.Bool("active", active))
	return nil
}

func (s *AdminService) CreatePromoCode(ctx context.Context, code *models.PromoCode) error {
	return s.billing.CreatePromoCode(ctx, code)
}

func (s *AdminService) ListPromoCodes(ctx context.Context) ([]models.PromoCode, error) {
	return s.billing.FindAllPromoCodes(ctx)
}

func (s *AdminService) DeletePromoCode(ctx context.Context, id uint) error {
	return s.billing.DeletePromoCode(ctx, id)
}
