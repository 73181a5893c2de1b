// Package auth resolves the caller's identity from an HMAC-signed JWT.
package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"reviewapi/internal/model"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Resolver turns a bearer token into a Principal.
type Resolver interface {
	Resolve(token string) (model.Principal, error)
}

// Claims carried by access tokens issued by the identity provider.
type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// JWTResolver validates HS256/384/512 tokens signed with a shared secret.
type JWTResolver struct {
	secret []byte
	parser *jwt.Parser
}

// NewJWTResolver returns a resolver for tokens signed with secret.
func NewJWTResolver(secret string) (*JWTResolver, error) {
	if secret == "" {
		return nil, errors.New("jwt secret not configured")
	}
	return &JWTResolver{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
			jwt.WithExpirationRequired(),
		),
	}, nil
}

func (r *JWTResolver) Resolve(token string) (model.Principal, error) {
	if token == "" {
		return model.Principal{}, ErrMissingToken
	}

	claims := &Claims{}
	_, err := r.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	})
	if err != nil {
		return model.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return model.Principal{}, fmt.Errorf("%w: subject is empty", ErrInvalidToken)
	}

	return model.Principal{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}
