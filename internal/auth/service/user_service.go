package service

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/beststarli/double-token-demo/internal/auth/domain UserRepository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/beststarli/double-token-demo/config"
	"github.com/beststarli/double-token-demo/internal/auth/domain"
	"github.com/beststarli/double-token-demo/internal/auth/dto"
	autherror "github.com/beststarli/double-token-demo/internal/errors"
	"github.com/beststarli/double-token-demo/internal/observability/metrics"
)

type UserService struct {
	repo         domain.UserRepository
	tokenService TokenGenerator
	cfg          *config.Config
	log          *zap.Logger
}

func NewUserService(repo domain.UserRepository, tokenService TokenGenerator, cfg *config.Config, log *zap.Logger) *UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserService{
		repo:         repo,
		tokenService: tokenService,
		cfg:          cfg,
		log:          log,
	}
}

// normalizeEmail keeps the users table lowercase so lookups never depend on
// the caller's casing.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new user and issues a token pair, so a fresh
// registration behaves exactly like a first login.
func (s *UserService) Register(ctx context.Context, input dto.RegisterInput) (*dto.AuthResponse, error) {
	input.Email = normalizeEmail(input.Email)

	existingUser, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, autherror.ErrEmailAlreadyInUse
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.RegistrationsTotal.Inc()

	return s.issueTokens(ctx, user)
}

func (s *UserService) Login(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	input.Email = normalizeEmail(input.Email)

	user, err := s.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}

	// Same error for unknown email and wrong password so callers cannot
	// enumerate accounts.
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)) != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, autherror.ErrInvalidCredentials
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()

	return resp, nil
}

// issueTokens generates a token pair and persists the refresh token. Storing
// revokes any prior active token for the user, keeping a single active
// session per account.
func (s *UserService) issueTokens(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	accessToken, refreshToken, expiresAt, err := s.tokenService.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	rt := &domain.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     refreshToken,
		Revoked:   false,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}

	if err := s.repo.StoreRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	metrics.TokenPairsIssued.Inc()

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.UserOutput{Email: user.Email},
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The ledger check
// runs before the signature check: the ledger is authoritative on revocation,
// the signature on forgery, and the token is accepted only if both pass.
func (s *UserService) Refresh(ctx context.Context, input dto.RefreshInput) (*dto.RefreshResponse, error) {
	if input.RefreshToken == "" {
		return nil, autherror.ErrMissingRefreshToken
	}

	record, err := s.repo.GetActiveRefreshToken(ctx, input.RefreshToken)
	if err != nil {
		return nil, err
	}
	if record == nil {
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		return nil, autherror.ErrRefreshTokenNotFound
	}

	claims, err := s.tokenService.VerifyRefreshToken(input.RefreshToken)
	if err != nil {
		// Covers an embedded expiry that passed while the ledger row is
		// still unreaped, as well as tampered tokens.
		s.log.Warn("refresh token failed verification despite active ledger record",
			zap.String("user_id", record.UserID),
			zap.Error(err))
		metrics.RefreshesTotal.WithLabelValues("rejected").Inc()
		return nil, autherror.ErrRefreshTokenInvalid
	}

	if !s.cfg.RotateRefreshOnUse {
		accessToken, err := s.tokenService.GenerateAccessToken(claims.UserID, claims.Email)
		if err != nil {
			return nil, err
		}

		metrics.RefreshesTotal.WithLabelValues("success").Inc()

		return &dto.RefreshResponse{AccessToken: accessToken}, nil
	}

	// Rotation: revoke the presented token, then issue and store a fresh
	// pair. StoreRefreshToken revokes prior active rows itself, but the
	// explicit revoke keeps the old token dead even if the insert fails.
	if err := s.repo.RevokeRefreshToken(ctx, input.RefreshToken); err != nil {
		return nil, err
	}

	accessToken, newRefreshToken, expiresAt, err := s.tokenService.Generate(claims.UserID, claims.Email)
	if err != nil {
		return nil, err
	}

	rt := &domain.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    record.UserID,
		Token:     newRefreshToken,
		Revoked:   false,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.repo.StoreRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	metrics.RefreshesTotal.WithLabelValues("success").Inc()

	return &dto.RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

// Logout revokes the presented refresh token. It never surfaces a failure:
// revoking an unknown, expired or already revoked token is as good as a
// clean logout from the client's point of view, and internal errors are
// logged rather than returned.
func (s *UserService) Logout(ctx context.Context, input dto.LogoutInput) {
	if input.RefreshToken == "" {
		return
	}

	if err := s.repo.RevokeRefreshToken(ctx, input.RefreshToken); err != nil {
		s.log.Error("failed to revoke refresh token on logout", zap.Error(err))
		return
	}

	metrics.RevocationsTotal.Inc()
}

// LogoutAll revokes every active refresh token owned by the user.
func (s *UserService) LogoutAll(ctx context.Context, userID string) error {
	return s.repo.RevokeAllForUser(ctx, userID)
}
