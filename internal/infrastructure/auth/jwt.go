// Package auth validates the access tokens that identify who operates
// on a declaration. Token issuance belongs to the identity provider;
// this service only verifies and extracts the actor.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	appctx "comexa/internal/core/context"
)

// JWTConfig holds token verification configuration.
type JWTConfig struct {
	Secret string
	Issuer string
}

// Claims are the token claims the engine understands.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid"`
	Email     string `json:"email"`
	Matricula string `json:"matricula,omitempty"` // broker registry code
	IsAdmin   bool   `json:"adm,omitempty"`
}

// JWTService verifies access tokens.
type JWTService struct {
	config JWTConfig
}

// NewJWTService creates a token verifier.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{config: config}
}

// ValidateToken verifies the token and returns the actor it names.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.ActorContext, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if s.config.Issuer != "" && claims.Issuer != s.config.Issuer {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}

	return &appctx.ActorContext{
		UserID:   userID,
		Email:    claims.Email,
		Despacho: claims.Matricula,
		IsAdmin:  claims.IsAdmin,
	}, nil
}
