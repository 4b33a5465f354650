package services

import (
	"context"

	"trade-journal/internal/models"
	"trade-journal/internal/repositories"
)

type AccountService struct {
	accounts *repositories.AccountRepository
}

func NewAccountService(accounts *repositories.AccountRepository) *AccountService {
	return &AccountService{accounts: accounts}
}

// Create persists a new account. The user's first account becomes active
// automatically.
func (s *AccountService) Create(ctx context.Context, userID uint, account *models.Account) error {
	account.UserID = userID
	existing, err := s.accounts.FindByUser(ctx, userID)
	if err != nil {
		return err
	}
	account.IsActive = len(existing) == 0
	return s.accounts.Create(ctx, account)
}

func (s *AccountService) List(ctx context.Context, userID uint) ([]models.Account, error) {
	return s.accounts.FindByUser(ctx, userID)
}

func (s *AccountService) Get(ctx context.Context, userID, id uint) (*models.Account, error) {
	return s.accounts.FindByID(ctx, userID, id)
}

func (s *AccountService) Update(ctx context.Context, userID uint, account *models.Account) error {
	return s.accounts.Update(ctx, userID, account)
}

// Activate makes the account the user's single active one.
func (s *AccountService) Activate(ctx context.Context, userID, id uint) error {
	return s.accounts.Activate(ctx, userID, id)
}

// Delete removes the account and all of its trades.
func (s *AccountService) Delete(ctx context.Context, userID, id uint) error {
	return s.accounts.Delete(ctx, userID, id)
}
