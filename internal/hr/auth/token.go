// Package auth validates bearer tokens from the external identity
// provider and exposes the authenticated principal to handlers.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Principal is the identity carried by a validated token.
type Principal struct {
	ID          string
	Email       string
	DisplayName string
	Role        string
}

// GenerateToken signs a 24h HS256 token for the given principal.
func GenerateToken(p Principal, secret string) (string, error) {
	claims := jwt.MapClaims{
		"sub":   p.ID,
		"email": p.Email,
		"name":  p.DisplayName,
		"role":  p.Role,
		"exp":   time.Now().Add(time.Hour * 24).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func validateToken(tokenString, secret string) (*Principal, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	p := &Principal{}
	if sub, ok := claims["sub"].(string); ok {
		p.ID = sub
	}
	if email, ok := claims["email"].(string); ok {
		p.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		p.DisplayName = name
	}
	if role, ok := claims["role"].(string); ok {
		p.Role = role
	}
	if p.ID == "" {
		return nil, fmt.Errorf("token missing subject")
	}
	return p, nil
}
