package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"trade-journal/internal/models"
	"trade-journal/internal/repositories"
)

var (
	ErrCredentials   = errors.New("invalid username or password")
	ErrUserExists    = errors.New("username or email already exists")
	ErrUserSuspended = errors.New("account is suspended")
)

type AuthService struct {
	users  *repositories.UserRepository
	logger *zap.Logger
}

func NewAuthService(users *repositories.UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// Register creates a new user
func (s *AuthService) Register(ctx context.Context, user *models.User) error {
	exists, err := s.users.ExistsByUsernameOrEmail(ctx, user.Username, user.Email)
	if err != nil {
		return err
	}
	if exists {
		return ErrUserExists
	}

	if err := user.HashPassword(); err != nil {
		return err
	}
	user.Role = models.RoleUser
	user.Active = true

	if err := s.users.Create(ctx, user); err != nil {
		return err
	}

	s.logger.Info("new user registered", zap.String("username", user.Username))
	return nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.CheckPassword(password) {
		return nil, ErrCredentials
	}
	if !user.Active {
		return nil, ErrUserSuspended
	}

	user.Password = ""
	return user, nil
}

// GetUserByID returns a user by their ID
func (s *AuthService) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
