// Package service holds the business logic of the QR code service: short
// code allocation, QR code and lead management, input sanitising and the
// anonymous owner tokens that attribute QR codes to their creators.
package service

//go:generate mockgen -source=auth.go -destination=../../mocks/auth_mock.go -package=mocks

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// AuthIface defines the interface for JWT authentication used in middleware.
type AuthIface interface {
	BuildJWTString() (string, string, error)
	ParseClaims(c *http.Cookie) (*Claims, error)
	ParseRawJWT(tokenString string) (*Claims, error)
}

// Claims are the owner token claims.
type Claims struct {
	jwt.RegisteredClaims
	// UserID identifies the owner of QR codes.
	UserID string `json:"user_id"`
}

// TokenExp defines the expiration time of the JWT token (1 year).
const TokenExp = time.Hour * 24 * 365

// DefaultSecret signs tokens when no secret is configured.
const DefaultSecret = "supersecretkey"

// Auth issues and verifies owner tokens.
type Auth struct {
	s      QRServiceIface
	secret []byte
}

// NewAuth creates a new Auth. An empty secret selects DefaultSecret.
func NewAuth(s QRServiceIface, secret string) *Auth {
	if secret == "" {
		secret = DefaultSecret
	}

	return &Auth{
		s:      s,
		secret: []byte(secret),
	}
}

// BuildJWTString issues a token for a fresh owner id that owns nothing yet.
// It returns the signed token and the owner id.
func (a *Auth) BuildJWTString() (string, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var userID string
	for {
		tempID := uuid.New().String()
		if a.s == nil {
			userID = tempID
			break
		}
		if res, err := a.s.ListQRCodes(ctx, tempID); err != nil || len(res) == 0 {
			userID = tempID
			break
		}
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExp)),
		},
		UserID: userID,
	})

	tokenString, err := token.SignedString(a.secret)
	if err != nil {
		return "", "", err
	}

	return tokenString, userID, nil
}

// ParseClaims parses the owner token carried by cookie.
func (a *Auth) ParseClaims(c *http.Cookie) (*Claims, error) {
	return a.ParseRawJWT(c.Value)
}

func (a *Auth) ParseRawJWT(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return a.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token or claims")
	}

	return claims, nil
}
