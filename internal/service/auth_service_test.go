package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"notekeeper-be/internal/apperrors"
	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthServiceForTest(t *testing.T) (IAuthService, *MockUserRepository, *capturingPublisher, *stubEmailService) {
	t.Helper()
	factory, users, _ := newMockFactory()
	publisher := &capturingPublisher{}
	email := &stubEmailService{}
	svc := NewAuthService(factory, email, publisher, noopLogger{}, "http://localhost:8080")
	return svc, users, publisher, email
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthService_Register(t *testing.T) {
	t.Run("creates the user with a hashed password", func(t *testing.T) {
		svc, users, publisher, _ := newAuthServiceForTest(t)

		users.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)

		var created *entity.User
		users.On("Create", mock.Anything, mock.AnythingOfType("*entity.User")).
			Run(func(args mock.Arguments) {
				created = args.Get(1).(*entity.User)
			}).
			Return(nil)

		res, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, "alice", res.Username)
		assert.Equal(t, "alice@example.com", res.Email)
		assert.NotEqual(t, uuid.Nil, res.Id)

		require.NotNil(t, created)
		assert.NotEqual(t, "secret123", created.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret123")))

		assert.Contains(t, publisher.Types(), events.UserRegistered)
		users.AssertExpectations(t)
	})

	t.Run("rejects a duplicate email", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		users.On("FindOne", mock.Anything, mock.Anything).Return(&entity.User{
			Id:    uuid.New(),
			Email: "alice@example.com",
		}, nil)

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "secret123",
		})

		assert.ErrorIs(t, err, apperrors.ErrEmailRegistered)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects a short password before touching the repository", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		_, err := svc.Register(context.Background(), &dto.RegisterRequest{
			Username: "alice",
			Email:    "alice@example.com",
			Password: "abc",
		})

		assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)
		users.AssertNotCalled(t, "FindOne", mock.Anything, mock.Anything)
	})
}

func TestAuthService_Login(t *testing.T) {
	userId := uuid.New()
	stored := &entity.User{
		Id:       userId,
		Username: "alice",
		Email:    "alice@example.com",
	}

	t.Run("returns a signed token on valid credentials", func(t *testing.T) {
		svc, users, publisher, _ := newAuthServiceForTest(t)

		found := *stored
		found.PasswordHash = hashOf(t, "secret123")
		users.On("FindOne", mock.Anything, mock.Anything).Return(&found, nil)

		res, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "alice@example.com",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, "alice", res.User.Username)
		assert.Equal(t, userId, res.User.Id)
		assert.NotEmpty(t, res.AccessToken)
		assert.Contains(t, publisher.Types(), events.UserLogin)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		found := *stored
		found.PasswordHash = hashOf(t, "secret123")
		users.On("FindOne", mock.Anything, mock.Anything).Return(&found, nil)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "alice@example.com",
			Password: "wrong-password",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("rejects an unknown email with the same error", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		users.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)

		_, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "nobody@example.com",
			Password: "secret123",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})
}

func TestAuthService_ForgotPassword(t *testing.T) {
	t.Run("persists a single-use token and returns the link", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		userId := uuid.New()
		users.On("FindOne", mock.Anything, mock.Anything).Return(&entity.User{
			Id:    userId,
			Email: "alice@example.com",
		}, nil)

		var saved *entity.PasswordResetToken
		users.On("CreatePasswordResetToken", mock.Anything, mock.AnythingOfType("*entity.PasswordResetToken")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*entity.PasswordResetToken)
			}).
			Return(nil)

		link, err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{
			Email: "alice@example.com",
		})

		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, userId, saved.UserId)
		assert.False(t, saved.Used)
		assert.True(t, saved.ExpiresAt.After(time.Now()))
		assert.True(t, strings.HasSuffix(link, "/reset-password/"+saved.Token))
	})

	t.Run("reports an unknown email", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		users.On("FindOne", mock.Anything, mock.Anything).Return(nil, nil)

		_, err := svc.ForgotPassword(context.Background(), &dto.ForgotPasswordRequest{
			Email: "nobody@example.com",
		})

		assert.ErrorIs(t, err, apperrors.ErrEmailNotFound)
		users.AssertNotCalled(t, "CreatePasswordResetToken", mock.Anything, mock.Anything)
	})
}

func TestAuthService_ValidateResetToken(t *testing.T) {
	valid := &entity.PasswordResetToken{
		Id:        uuid.New(),
		UserId:    uuid.New(),
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	tests := []struct {
		name    string
		stored  *entity.PasswordResetToken
		wantErr error
	}{
		{name: "valid token passes", stored: valid, wantErr: nil},
		{name: "unknown token fails", stored: nil, wantErr: apperrors.ErrInvalidResetToken},
		{
			name: "used token fails",
			stored: &entity.PasswordResetToken{
				Id: valid.Id, UserId: valid.UserId, Token: "tok",
				ExpiresAt: valid.ExpiresAt, Used: true,
			},
			wantErr: apperrors.ErrInvalidResetToken,
		},
		{
			name: "expired token fails",
			stored: &entity.PasswordResetToken{
				Id: valid.Id, UserId: valid.UserId, Token: "tok",
				ExpiresAt: time.Now().Add(-time.Minute),
			},
			wantErr: apperrors.ErrInvalidResetToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, users, _, _ := newAuthServiceForTest(t)

			if tt.stored == nil {
				users.On("FindPasswordResetToken", mock.Anything, mock.Anything).Return(nil, nil)
			} else {
				users.On("FindPasswordResetToken", mock.Anything, mock.Anything).Return(tt.stored, nil)
			}

			err := svc.ValidateResetToken(context.Background(), "tok")
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestAuthService_ResetPassword(t *testing.T) {
	t.Run("updates the hash and consumes the token", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		tokenId := uuid.New()
		userId := uuid.New()
		users.On("FindPasswordResetToken", mock.Anything, mock.Anything).Return(&entity.PasswordResetToken{
			Id:        tokenId,
			UserId:    userId,
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)

		var newHash string
		users.On("UpdatePassword", mock.Anything, userId, mock.AnythingOfType("string")).
			Run(func(args mock.Arguments) {
				newHash = args.Get(2).(string)
			}).
			Return(nil)
		users.On("MarkTokenUsed", mock.Anything, tokenId).Return(nil)

		err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
			Token:       "tok",
			NewPassword: "brand-new-pass",
		})

		require.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(newHash), []byte("brand-new-pass")))
		users.AssertExpectations(t)
	})

	t.Run("rejects a consumed token on replay", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		users.On("FindPasswordResetToken", mock.Anything, mock.Anything).Return(&entity.PasswordResetToken{
			Id:        uuid.New(),
			UserId:    uuid.New(),
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
			Used:      true,
		}, nil)

		err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
			Token:       "tok",
			NewPassword: "brand-new-pass",
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidResetToken)
		users.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a short replacement password", func(t *testing.T) {
		svc, users, _, _ := newAuthServiceForTest(t)

		users.On("FindPasswordResetToken", mock.Anything, mock.Anything).Return(&entity.PasswordResetToken{
			Id:        uuid.New(),
			UserId:    uuid.New(),
			Token:     "tok",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)

		err := svc.ResetPassword(context.Background(), &dto.ResetPasswordRequest{
			Token:       "tok",
			NewPassword: "abc",
		})

		assert.ErrorIs(t, err, apperrors.ErrPasswordTooShort)
	})
}
