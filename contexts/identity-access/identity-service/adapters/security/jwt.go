package security

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"spotlight/contexts/identity-access/identity-service/ports"

	"github.com/golang-jwt/jwt/v5"
)

// JWTSigner signs and validates HS256 access tokens.
type JWTSigner struct {
	issuer string
	secret []byte
}

func NewJWTSigner(issuer string, secret string) (*JWTSigner, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwt secret must be at least 32 bytes")
	}
	if issuer == "" {
		issuer = "spotlight"
	}
	return &JWTSigner{issuer: issuer, secret: []byte(secret)}, nil
}

// NewEphemeralJWTSigner creates a random in-memory secret for local runs.
// Tokens do not survive a restart.
func NewEphemeralJWTSigner(issuer string) (*JWTSigner, error) {
	secret := make([]byte, 48)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	if issuer == "" {
		issuer = "spotlight"
	}
	return &JWTSigner{issuer: issuer, secret: secret}, nil
}

type accessClaims struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

func (s *JWTSigner) Sign(claims ports.TokenClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims{
		Email:     claims.Email,
		Role:      claims.Role,
		SessionID: claims.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   claims.AccountID,
			ID:        claims.SessionID,
			IssuedAt:  jwt.NewNumericDate(claims.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(claims.ExpiresAt),
		},
	})
	return token.SignedString(s.secret)
}

func (s *JWTSigner) ParseAndValidate(raw string) (ports.TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(raw, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithLeeway(30*time.Second),
	)
	if err != nil {
		return ports.TokenClaims{}, err
	}
	claims, ok := parsed.Claims.(*accessClaims)
	if !ok || !parsed.Valid {
		return ports.TokenClaims{}, errors.New("invalid token claims")
	}
	if claims.Subject == "" || claims.SessionID == "" {
		return ports.TokenClaims{}, errors.New("token is missing subject or session")
	}

	out := ports.TokenClaims{
		AccountID: claims.Subject,
		SessionID: claims.SessionID,
		Email:     claims.Email,
		Role:      claims.Role,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time.UTC()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time.UTC()
	}
	return out, nil
}
