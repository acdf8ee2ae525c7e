// Package identity validates bearer tokens issued by the external
// identity provider. Tokens are HMAC-signed JWTs sharing a secret with
// the provider, so validation happens locally without a network call.
package identity

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// Identity is the authenticated principal as the provider knows it.
// The local user row is resolved (or lazily created) separately.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Avatar  string
}

// Provider resolves a bearer token to an identity.
type Provider interface {
	Verify(token string) (*Identity, error)
}

// JWTProvider validates provider-issued JWTs with a shared HMAC secret.
type JWTProvider struct {
	secret []byte
}

func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{secret: []byte(secret)}
}

func (p *JWTProvider) Verify(tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return p.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return nil, ErrInvalidToken
	}

	id := &Identity{Email: email}
	if sub, ok := claims["sub"].(string); ok {
		id.Subject = sub
	}

	// Providers put profile fields under user_metadata.
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if name, ok := meta["full_name"].(string); ok && name != "" {
			id.Name = name
		} else if name, ok := meta["name"].(string); ok {
			id.Name = name
		}
		if avatar, ok := meta["avatar_url"].(string); ok {
			id.Avatar = avatar
		}
	}

	return id, nil
}
