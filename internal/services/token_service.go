package services

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"vidtube/internal/config"
	"vidtube/internal/models"
)

var (
	ErrTokenExpired = errors.New("token has expired")
	ErrTokenInvalid = errors.New("token is invalid")
)

// TokenService issues and verifies the signed session tokens. Access and
// refresh tokens use separate secrets and lifetimes; both embed the
// account id as the "user_id" claim.
type TokenService interface {
	IssueAccessToken(user *models.User) (string, error)
	IssueRefreshToken(userID string) (string, error)
	VerifyAccessToken(token string) (string, error)
	VerifyRefreshToken(token string) (string, error)
}

type jwtTokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(cfg *config.Config) TokenService {
	return &jwtTokenService{
		accessSecret:  []byte(cfg.AccessTokenSecret),
		refreshSecret: []byte(cfg.RefreshTokenSecret),
		accessTTL:     cfg.AccessTokenTTL,
		refreshTTL:    cfg.RefreshTokenTTL,
	}
}

func (s *jwtTokenService) IssueAccessToken(user *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"email":    user.Email,
		"iat":      now.Unix(),
		"exp":      now.Add(s.accessTTL).Unix(),
	})
	return token.SignedString(s.accessSecret)
}

func (s *jwtTokenService) IssueRefreshToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(s.refreshTTL).Unix(),
	})
	return token.SignedString(s.refreshSecret)
}

func (s *jwtTokenService) VerifyAccessToken(token string) (string, error) {
	return verify(token, s.accessSecret)
}

func (s *jwtTokenService) VerifyRefreshToken(token string) (string, error) {
	return verify(token, s.refreshSecret)
}

func verify(tokenString string, secret []byte) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}
	if !token.Valid {
		return "", ErrTokenInvalid
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrTokenInvalid
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrTokenInvalid
	}

	return userID, nil
}
