package services

import (
	"context"
	"testing"

	"github.com/Renal37/wastecollect/internal/database"
	"github.com/Renal37/wastecollect/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[string]database.UserDB

func (u fakeUsers) CreateUser(ctx context.Context, user database.UserDB) (*database.UserDB, error) {
	if _, ok := u[user.Login]; ok {
		return nil, database.ErrDuplicateUser
	}
	user.ID = "id-" + user.Login
	u[user.Login] = user
	return &user, nil
}

func (u fakeUsers) EnsureUser(ctx context.Context, user database.UserDB) (*database.UserDB, error) {
	if existing, ok := u[user.Login]; ok {
		return &existing, nil
	}
	return u.CreateUser(ctx, user)
}

func (u fakeUsers) FindUser(ctx context.Context, login string) (*database.UserDB, error) {
	user, ok := u[login]
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func credentials(login, password string) models.UnknownUser {
	return models.UnknownUser{Login: &login, Password: &password}
}

func TestAuthService(t *testing.T) {
	ctx := context.Background()
	service := NewAuthService(fakeUsers{})

	require.NoError(t, service.Register(ctx, credentials("driver", "secret")))

	assert.ErrorIs(t, service.Register(ctx, credentials("driver", "secret")), ErrUserIsAlreadyRegistered)
	assert.ErrorIs(t, service.Register(ctx, credentials(models.SystemActor, "secret")), ErrLoginIsReserved)
	assert.ErrorIs(t, service.Register(ctx, credentials("", "secret")), ErrInvalidCredentials)

	assert.NoError(t, service.Login(ctx, credentials("driver", "secret")))
	assert.ErrorIs(t, service.Login(ctx, credentials("driver", "wrong")), ErrPasswordIsIncorrect)
	assert.ErrorIs(t, service.Login(ctx, credentials("ghost", "secret")), ErrUserIsNotExist)

	user, err := service.GetUser(ctx, "driver")
	require.NoError(t, err)
	assert.Equal(t, "id-driver", user.ID)
	assert.NotEqual(t, "secret", user.Hash)

	_, err = service.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, ErrUserIsNotExist)
}

func TestEnsureSystemActor(t *testing.T) {
	ctx := context.Background()
	users := fakeUsers{}
	service := NewAuthService(users)

	first, err := service.EnsureSystemActor(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.SystemActor, first.Login)

	second, err := service.EnsureSystemActor(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, users, 1)

	actor, err := service.GetUser(ctx, models.SystemActor)
	require.NoError(t, err)
	assert.Equal(t, first.ID, actor.ID)

	assert.ErrorIs(t, service.Login(ctx, credentials(models.SystemActor, systemActorHash)), ErrUserIsNotExist)
}
