package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/beststarli/double-token-demo/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	autherror "github.com/beststarli/double-token-demo/internal/errors"
	"github.com/beststarli/double-token-demo/pkg/constant"
)

type TokenGenerator interface {
	Generate(userID, email string) (string, string, time.Time, error)
	GenerateAccessToken(userID, email string) (string, error)
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
	VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error)
	GetRefreshTokenExpiry() time.Duration
}

type TokenService struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
}

type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TokenType string `json:"token_type"`
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		AccessTokenSecret:  accessSecret,
		RefreshTokenSecret: refreshSecret,
		AccessTokenExpiry:  time.Duration(accessMinutes) * time.Minute,
		RefreshTokenExpiry: time.Duration(refreshMinutes) * time.Minute,
	}
}

// Generate issues an access/refresh token pair for the user and returns the
// refresh token's expiry so callers can persist it alongside the token.
func (ts *TokenService) Generate(userID, email string) (string, string, time.Time, error) {
	now := time.Now()

	accessToken, err := ts.sign(userID, email, constant.TokenTypeAccess, ts.AccessTokenSecret, now, ts.AccessTokenExpiry)
	if err != nil {
		return "", "", time.Time{}, err
	}

	refreshToken, err := ts.sign(userID, email, constant.TokenTypeRefresh, ts.RefreshTokenSecret, now, ts.RefreshTokenExpiry)
	if err != nil {
		return "", "", time.Time{}, err
	}

	return accessToken, refreshToken, now.Add(ts.RefreshTokenExpiry), nil
}

// GenerateAccessToken issues a fresh access token only, used by the refresh
// flow when rotation is disabled.
func (ts *TokenService) GenerateAccessToken(userID, email string) (string, error) {
	return ts.sign(userID, email, constant.TokenTypeAccess, ts.AccessTokenSecret, time.Now(), ts.AccessTokenExpiry)
}

// sign embeds a fresh jti so two tokens minted for the same user within the
// same second are still distinct strings.
func (ts *TokenService) sign(userID, email, tokenType, secret string, now time.Time, expiry time.Duration) (string, error) {
	claims := JWTCustomClaims{
		UserID:    userID,
		Email:     email,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, ts.AccessTokenSecret, constant.TokenTypeAccess)
}

func (ts *TokenService) VerifyRefreshToken(tokenString string) (*JWTCustomClaims, error) {
	return ts.verify(tokenString, ts.RefreshTokenSecret, constant.TokenTypeRefresh)
}

// verify checks signature integrity before expiry and finally rejects tokens
// whose embedded type does not match the expected kind. Both checks surface
// as jwt.ErrTokenExpired / generic errors so callers can distinguish
// "expired" from "forged".
func (ts *TokenService) verify(tokenString, secret, expectedType string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	if claims.TokenType != expectedType {
		return nil, autherror.ErrTokenTypeMismatch
	}

	return claims, nil
}

func (ts *TokenService) GetRefreshTokenExpiry() time.Duration {
	return ts.RefreshTokenExpiry
}
