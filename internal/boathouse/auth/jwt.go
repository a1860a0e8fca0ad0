// Package auth issues and validates admin session tokens.
package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/boathouse/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims carries the registered claims plus the admin's user name and role.
type Claims struct {
	jwt.RegisteredClaims
	UserName string `json:"usr"`
	IsRoot   bool   `json:"root,omitempty"`
}

func GenerateToken(userName string, isRoot bool, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
		},
		UserName: userName,
		IsRoot:   isRoot,
	})

	return token.SignedString(secretKey)
}

// ParseToken validates tokenString and returns its claims. An expired token
// yields common.ErrTokenExpired; anything else invalid yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserName == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
