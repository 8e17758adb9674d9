// SPDX-License-Identifier: Apache-2.0

package service

import (
	"context"
	"testing"

	"github.com/panelportal/server/internal/logger"
	"github.com/panelportal/server/internal/store"
	"github.com/panelportal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUserService(users *mockUserRepository) *userService {
	return &userService{
		userRepository: users,
		logger:         logger.Nop(),
	}
}

func TestUserService_CreateUser_Success(t *testing.T) {
	users := &mockUserRepository{
		createUserFn: func(_ context.Context, user models.User) (models.User, error) {
			user.UserID = 42
			return user, nil
		},
	}
	svc := newTestUserService(users)

	created, err := svc.CreateUser(context.Background(), models.User{Name: "Alice", Email: "alice@example.com"})

	require.NoError(t, err)
	assert.Equal(t, int64(42), created.UserID)
	assert.Equal(t, "Alice", created.Name)
}

func TestUserService_CreateUser_InvalidData(t *testing.T) {
	tests := []struct {
		name string
		user models.User
	}{
		{name: "empty name", user: models.User{Email: "alice@example.com"}},
		{name: "empty email", user: models.User{Name: "Alice"}},
		{name: "email without at sign", user: models.User{Name: "Alice", Email: "alice.example.com"}},
	}

	svc := newTestUserService(&mockUserRepository{
		createUserFn: func(context.Context, models.User) (models.User, error) {
			t.Fatal("repository must not be called for invalid input")
			return models.User{}, nil
		},
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateUser(context.Background(), tt.user)
			assert.ErrorIs(t, err, ErrInvalidDataProvided)
		})
	}
}

func TestUserService_CreateUser_StorageError(t *testing.T) {
	users := &mockUserRepository{
		createUserFn: func(context.Context, models.User) (models.User, error) {
			return models.User{}, errStorage
		},
	}
	svc := newTestUserService(users)

	_, err := svc.CreateUser(context.Background(), models.User{Name: "Alice", Email: "alice@example.com"})

	assert.ErrorIs(t, err, errStorage)
}

func TestUserService_ListUsers(t *testing.T) {
	expected := []models.User{{UserID: 1, Name: "Alice"}, {UserID: 2, Name: "Bob"}}
	users := &mockUserRepository{
		listUsersFn: func(context.Context) ([]models.User, error) { return expected, nil },
	}
	svc := newTestUserService(users)

	got, err := svc.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Equal(t, expected, got)
}

func TestUserService_DeleteUser_InvalidID(t *testing.T) {
	svc := newTestUserService(&mockUserRepository{})

	err := svc.DeleteUser(context.Background(), 0)

	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestUserService_DeleteUser_NotFound(t *testing.T) {
	users := &mockUserRepository{
		deleteUserFn: func(context.Context, int64) error { return store.ErrUserNotFound },
	}
	svc := newTestUserService(users)

	err := svc.DeleteUser(context.Background(), 99)

	assert.ErrorIs(t, err, store.ErrUserNotFound)
}
