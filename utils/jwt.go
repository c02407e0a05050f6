package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"mealplanner/utils/apperr"
)

// Credentials identify the caller of a request. Handlers pass them to the
// services explicitly; Token is forwarded to the remote backend.
type Credentials struct {
	UserID uint
	Email  string
	Token  string
}

// GenerateJWT issues an HS256 token carrying userId and email claims.
func GenerateJWT(secret []byte, userID uint, email string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"email":  email,
		"exp":    time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(secret)
}

// ParseCredentials validates an HS256 token and extracts the caller. The
// user id is read from "userId", falling back to "sub".
func ParseCredentials(secret []byte, tokenString string) (Credentials, error) {
	if len(secret) == 0 {
		return Credentials{}, errors.New("jwt secret not configured")
	}
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return Credentials{}, apperr.Unauthorized("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Credentials{}, apperr.Unauthorized("invalid claims")
	}

	uid, err := userIDClaim(claims)
	if err != nil {
		return Credentials{}, apperr.Unauthorized(err.Error())
	}
	email, _ := claims["email"].(string)
	return Credentials{UserID: uid, Email: email, Token: tokenString}, nil
}

func userIDClaim(claims jwt.MapClaims) (uint, error) {
	v, ok := claims["userId"]
	if !ok {
		v, ok = claims["sub"]
	}
	if !ok {
		return 0, errors.New("user id claim missing")
	}
	switch id := v.(type) {
	case float64:
		if id <= 0 {
			return 0, errors.New("user id claim must be positive")
		}
		return uint(id), nil
	case string:
		n, err := strconv.ParseUint(id, 10, 64)
		if err != nil || n == 0 {
			return 0, fmt.Errorf("user id claim %q is not a positive integer", id)
		}
		return uint(n), nil
	}
	return 0, errors.New("user id claim has unexpected type")
}
