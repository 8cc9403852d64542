package service

import (
	"context"
	"errors"
	"time"

	"consumables/internal/auth"
)

var ErrInvalidSecret = errors.New("invalid admin password")

type UnlockRequest struct {
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService switches a session into admin mode
type AuthService interface {
	Unlock(ctx context.Context, secret string) (TokenResponse, error)
}

type authService struct {
	adminSecret string
	issuer      *auth.Issuer
	now         func() time.Time
}

func NewAuthService(adminSecret string, issuer *auth.Issuer) AuthService {
	return &authService{adminSecret: adminSecret, issuer: issuer, now: time.Now}
}

func (s *authService) Unlock(ctx context.Context, secret string) (TokenResponse, error) {
	if !auth.SecretMatches(secret, s.adminSecret) {
		return TokenResponse{}, ErrInvalidSecret
	}

	token, expires, err := s.issuer.Issue(auth.RoleAdmin, s.now())
	if err != nil {
		return TokenResponse{}, err
	}
	return TokenResponse{Token: token, ExpiresAt: expires}, nil
}
