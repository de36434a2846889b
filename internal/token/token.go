package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var jwtKey []byte

// Init sets the signing key used for all tokens
func Init(secret string) {
	jwtKey = []byte(secret)
}

// Identity is the authenticated caller extracted from a token
type Identity struct {
	UserID string
	Role   string
}

// Generate issues a signed token for a user
func Generate(userID, role string) (string, error) {
	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(72 * time.Hour)),
		Subject:   userID,
		Audience:  jwt.ClaimStrings{role},
		Issuer:    "rsr-cabs",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtKey)
	if err != nil {
		return "", fmt.Errorf("error signing token: %w", err)
	}

	return tokenString, nil
}

// Verify parses a token and returns the caller identity
func Verify(tokenString string) (Identity, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return jwtKey, nil
	})
	if err != nil {
		return Identity{}, fmt.Errorf("error parsing token: %w", err)
	}
	if !parsed.Valid {
		return Identity{}, fmt.Errorf("invalid token")
	}

	role := ""
	if len(claims.Audience) > 0 {
		role = claims.Audience[0]
	}
	return Identity{UserID: claims.Subject, Role: role}, nil
}
