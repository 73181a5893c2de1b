package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reviewapi/internal/model"
)

const secret = "test-secret"

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claimsFor(sub string, exp time.Time) Claims {
	return Claims{
		Email: "ann@example.com",
		Name:  "Ann",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func TestNewJWTResolver_EmptySecret(t *testing.T) {
	r, err := NewJWTResolver("")
	assert.Nil(t, r)
	assert.Error(t, err)
}

func TestJWTResolver_Resolve(t *testing.T) {
	r, err := NewJWTResolver(secret)
	require.NoError(t, err)

	future := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		token   func(t *testing.T) string
		want    model.Principal
		wantErr error
	}{
		{
			name: "valid token",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("user-1", future))
			},
			want: model.Principal{ID: "user-1", Email: "ann@example.com", DisplayName: "Ann"},
		},
		{
			name:    "empty token",
			token:   func(t *testing.T) string { return "" },
			wantErr: ErrMissingToken,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte("other"), claimsFor("user-1", future))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("user-1", time.Now().Add(-time.Hour)))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "no expiry",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}})
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodHS256, []byte(secret), claimsFor("", future))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name: "unsigned token",
			token: func(t *testing.T) string {
				return sign(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, claimsFor("user-1", future))
			},
			wantErr: ErrInvalidToken,
		},
		{
			name:    "garbage",
			token:   func(t *testing.T) string { return "not.a.jwt" },
			wantErr: ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := r.Resolve(tt.token(t))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, p.Authenticated())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
		})
	}
}
