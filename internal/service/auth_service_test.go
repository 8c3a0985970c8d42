package service

import (
	"exam_prep_backend/internal/config"
	"exam_prep_backend/internal/model"
	"exam_prep_backend/internal/repository"
	"exam_prep_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(t *testing.T) (*AuthService, *repository.UserRepository) {
	db := newTestDB(t)
	userRepo := repository.NewUserRepository(db)
	cfg := &config.Config{
		JWT: config.JWTConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
	return NewAuthService(userRepo, cfg), userRepo
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)

	user := &model.User{
		Name:     "Asha",
		Email:    "asha@example.com",
		Password: "secret123",
	}
	require.NoError(t, svc.Register(user))
	assert.Equal(t, model.Student, user.Role)
	assert.NotEqual(t, "secret123", user.Password, "password must be hashed")

	token, err := svc.Login("asha@example.com", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)

	first := &model.User{Name: "A", Email: "dup@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(first))

	second := &model.User{Name: "B", Email: "dup@example.com", Password: "secret456"}
	assert.ErrorIs(t, svc.Register(second), util.ErrEmailRegistered)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthService(t)

	user := &model.User{Name: "A", Email: "a@example.com", Password: "secret123"}
	require.NoError(t, svc.Register(user))

	_, err := svc.Login("a@example.com", "wrong")
	assert.Error(t, err)

	_, err = svc.Login("nobody@example.com", "secret123")
	assert.Error(t, err)
}
