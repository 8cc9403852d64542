// Package auth implements the shared-secret admin mode switch and the token that
// carries an unlocked admin session.
package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// RoleAdmin is the only elevated role; everyone else is a general user
const RoleAdmin = "admin"

var ErrInvalidToken = errors.New("invalid token")

// SecretMatches compares a supplied admin secret with the configured one. A
// stored value that looks like a bcrypt hash is verified with bcrypt, anything
// else is compared in constant time.
func SecretMatches(supplied, stored string) bool {
	if supplied == "" || stored == "" {
		return false
	}
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(supplied), []byte(stored)) == 1
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

// Claims identify an unlocked session
type Claims struct {
	Subject string
	Role    string
	Expires time.Time
}

// Issuer signs and verifies admin session tokens
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer returns an Issuer signing with HS256
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl}
}

// TTL is the lifetime of issued tokens
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue creates an admin token for subject
func (i *Issuer) Issue(subject string, now time.Time) (string, time.Time, error) {
	expires := now.Add(i.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": RoleAdmin,
		"iat":  now.Unix(),
		"exp":  expires.Unix(),
	})
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Parse verifies a token and returns its claims
func (i *Issuer) Parse(tokenString string) (Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}
	role, _ := mc["role"].(string)
	sub, _ := mc["sub"].(string)
	var expires time.Time
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		expires = exp.Time
	}
	return Claims{Subject: sub, Role: role, Expires: expires}, nil
}
