package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/models"
)

// userService is the concrete implementation of UserService. It manages
// administrative accounts through a UserRepository.
type userService struct {
	userRepository store.UserRepository
	logger         *logger.Logger
}

// NewUserService constructs a UserService wired to the given UserRepository.
func NewUserService(userRepository store.UserRepository, logger *logger.Logger) UserService {
	return &userService{
		userRepository: userRepository,
		logger:         logger,
	}
}

// CreateUser creates a new administrative account.
//
// Returns the persisted user (with a server-assigned UserID) or:
//   - ErrInvalidDataProvided if name or email is empty, or the email has no
//     "@".
//   - A wrapped storage error if the repository call fails.
func (u *userService) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Name == "" || user.Email == "" || !strings.Contains(user.Email, "@") {
		log.Error().Str("func", "userService.CreateUser").Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}

	createdUser, err := u.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "userService.CreateUser").Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return createdUser, nil
}

// ListUsers returns every administrative account.
func (u *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := u.userRepository.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users failed: %w", err)
	}

	return users, nil
}

// DeleteUser removes an account permanently. Dependent assignments vanish
// with it; the scan log keeps its rows with a NULL assignment reference.
//
// Returns store.ErrUserNotFound (wrapped) when the id does not exist.
func (u *userService) DeleteUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if userID <= 0 {
		return ErrInvalidDataProvided
	}

	if err := u.userRepository.DeleteUser(ctx, userID); err != nil {
		log.Err(err).Str("func", "userService.DeleteUser").Int64("user_id", userID).Msg("user deletion ended with error")
		return fmt.Errorf("user deletion ended with error: %w", err)
	}

	return nil
}
