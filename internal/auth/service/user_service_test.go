package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/beststarli/double-token-demo/config"
	"github.com/beststarli/double-token-demo/internal/auth/domain"
	"github.com/beststarli/double-token-demo/internal/auth/dto"
	"github.com/beststarli/double-token-demo/internal/auth/service"
	autherror "github.com/beststarli/double-token-demo/internal/errors"
	"github.com/beststarli/double-token-demo/internal/mocks"
)

func TestUserService_Register_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

	input := dto.RegisterInput{
		Email:    "test@example.com",
		Password: "password123",
	}
	expiresAt := time.Now().Add(7 * 24 * time.Hour)

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, nil)
	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, user *domain.User) error {
			assert.Equal(t, input.Email, user.Email)
			assert.NotEmpty(t, user.ID)
			assert.NotEmpty(t, user.PasswordHash)
			assert.NotEqual(t, input.Password, user.PasswordHash)
			assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)))
			return nil
		})
	mockTokenService.EXPECT().Generate(gomock.Any(), input.Email).Return("access-token", "refresh-token", expiresAt, nil)
	mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, rt *domain.RefreshToken) error {
			assert.Equal(t, "refresh-token", rt.Token)
			assert.False(t, rt.Revoked)
			assert.Equal(t, expiresAt, rt.ExpiresAt)
			return nil
		})

	resp, err := s.Register(context.Background(), input)

	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, "access-token", resp.AccessToken)
	assert.Equal(t, "refresh-token", resp.RefreshToken)
	assert.Equal(t, input.Email, resp.User.Email)
}

func TestUserService_Register_EmailAlreadyExists(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

	input := dto.RegisterInput{Email: "test@example.com", Password: "password123"}

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(&domain.User{ID: "existing-id", Email: input.Email}, nil)

	resp, err := s.Register(context.Background(), input)

	assert.ErrorIs(t, err, autherror.ErrEmailAlreadyInUse)
	assert.Nil(t, resp)
}

func TestUserService_Register_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	mockTokenService := mocks.NewMockTokenGenerator(ctrl)
	s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

	input := dto.RegisterInput{Email: "test@example.com", Password: "password123"}
	expectedErr := errors.New("database error")

	mockRepo.EXPECT().GetByEmail(gomock.Any(), input.Email).Return(nil, expectedErr)

	resp, err := s.Register(context.Background(), input)

	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, resp)
}

func TestUserService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	require.NoError(t, err)
	user := &domain.User{ID: "user-123", Email: "a@x.com", PasswordHash: string(hashed)}

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

		expiresAt := time.Now().Add(7 * 24 * time.Hour)

		mockRepo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		mockTokenService.EXPECT().Generate(user.ID, user.Email).Return("access-token", "refresh-token", expiresAt, nil)
		mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).Return(nil)

		resp, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "secret123"})

		require.NoError(t, err)
		assert.Equal(t, "access-token", resp.AccessToken)
		assert.Equal(t, "refresh-token", resp.RefreshToken)
		assert.Equal(t, user.Email, resp.User.Email)
	})

	t.Run("wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

		mockRepo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)

		resp, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "wrong-password"})

		assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
		assert.Nil(t, resp)
	})

	t.Run("unknown email yields the same error as wrong password", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

		mockRepo.EXPECT().GetByEmail(gomock.Any(), "nobody@x.com").Return(nil, nil)

		resp, err := s.Login(context.Background(), dto.LoginInput{Email: "nobody@x.com", Password: "whatever1"})

		assert.ErrorIs(t, err, autherror.ErrInvalidCredentials)
		assert.Nil(t, resp)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

		expectedErr := errors.New("insert failed")

		mockRepo.EXPECT().GetByEmail(gomock.Any(), user.Email).Return(user, nil)
		mockTokenService.EXPECT().Generate(user.ID, user.Email).Return("a", "r", time.Now(), nil)
		mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).Return(expectedErr)

		resp, err := s.Login(context.Background(), dto.LoginInput{Email: user.Email, Password: "secret123"})

		assert.ErrorIs(t, err, expectedErr)
		assert.Nil(t, resp)
	})
}

func TestUserService_Refresh(t *testing.T) {
	record := &domain.RefreshToken{
		ID:        "rt-1",
		UserID:    "user-123",
		Token:     "refresh-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	claims := &service.JWTCustomClaims{UserID: "user-123", Email: "a@x.com"}

	t.Run("missing token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

		resp, err := s.Refresh(context.Background(), dto.RefreshInput{})

		assert.ErrorIs(t, err, autherror.ErrMissingRefreshToken)
		assert.Nil(t, resp)
	})

	t.Run("ledger miss rejects before any signature check", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

		// No VerifyRefreshToken expectation: the controller fails the test
		// if the service verifies a token the ledger does not know.
		mockRepo.EXPECT().GetActiveRefreshToken(gomock.Any(), "refresh-token").Return(nil, nil)

		resp, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "refresh-token"})

		assert.ErrorIs(t, err, autherror.ErrRefreshTokenNotFound)
		assert.Nil(t, resp)
	})

	t.Run("ledger hit with failed verification", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{}, nil)

		mockRepo.EXPECT().GetActiveRefreshToken(gomock.Any(), "refresh-token").Return(record, nil)
		mockTokenService.EXPECT().VerifyRefreshToken("refresh-token").Return(nil, errors.New("signature is invalid"))

		resp, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "refresh-token"})

		assert.ErrorIs(t, err, autherror.ErrRefreshTokenInvalid)
		assert.Nil(t, resp)
	})

	t.Run("success without rotation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{RotateRefreshOnUse: false}, nil)

		mockRepo.EXPECT().GetActiveRefreshToken(gomock.Any(), "refresh-token").Return(record, nil)
		mockTokenService.EXPECT().VerifyRefreshToken("refresh-token").Return(claims, nil)
		mockTokenService.EXPECT().GenerateAccessToken(claims.UserID, claims.Email).Return("new-access-token", nil)

		resp, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "refresh-token"})

		require.NoError(t, err)
		assert.Equal(t, "new-access-token", resp.AccessToken)
		assert.Empty(t, resp.RefreshToken)
	})

	t.Run("success with rotation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		mockTokenService := mocks.NewMockTokenGenerator(ctrl)
		s := service.NewUserService(mockRepo, mockTokenService, &config.Config{RotateRefreshOnUse: true}, nil)

		expiresAt := time.Now().Add(7 * 24 * time.Hour)

		gomock.InOrder(
			mockRepo.EXPECT().GetActiveRefreshToken(gomock.Any(), "refresh-token").Return(record, nil),
			mockTokenService.EXPECT().VerifyRefreshToken("refresh-token").Return(claims, nil),
			mockRepo.EXPECT().RevokeRefreshToken(gomock.Any(), "refresh-token").Return(nil),
			mockTokenService.EXPECT().Generate(claims.UserID, claims.Email).Return("new-access-token", "new-refresh-token", expiresAt, nil),
			mockRepo.EXPECT().StoreRefreshToken(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, rt *domain.RefreshToken) error {
					assert.Equal(t, "new-refresh-token", rt.Token)
					assert.Equal(t, record.UserID, rt.UserID)
					return nil
				}),
		)

		resp, err := s.Refresh(context.Background(), dto.RefreshInput{RefreshToken: "refresh-token"})

		require.NoError(t, err)
		assert.Equal(t, "new-access-token", resp.AccessToken)
		assert.Equal(t, "new-refresh-token", resp.RefreshToken)
	})
}

func TestUserService_Logout(t *testing.T) {
	t.Run("revokes the presented token", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		s := service.NewUserService(mockRepo, nil, &config.Config{}, nil)

		mockRepo.EXPECT().RevokeRefreshToken(gomock.Any(), "refresh-token").Return(nil)

		s.Logout(context.Background(), dto.LogoutInput{RefreshToken: "refresh-token"})
	})

	t.Run("missing token is a no-op", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		s := service.NewUserService(mockRepo, nil, &config.Config{}, nil)

		s.Logout(context.Background(), dto.LogoutInput{})
	})

	t.Run("internal failure is swallowed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mocks.NewMockUserRepository(ctrl)
		s := service.NewUserService(mockRepo, nil, &config.Config{}, nil)

		mockRepo.EXPECT().RevokeRefreshToken(gomock.Any(), "refresh-token").Return(errors.New("db down"))

		s.Logout(context.Background(), dto.LogoutInput{RefreshToken: "refresh-token"})
	})
}

func TestUserService_LogoutAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockUserRepository(ctrl)
	s := service.NewUserService(mockRepo, nil, &config.Config{}, nil)

	mockRepo.EXPECT().RevokeAllForUser(gomock.Any(), "user-123").Return(nil)

	assert.NoError(t, s.LogoutAll(context.Background(), "user-123"))
}
