package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finanp2p/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type AdminStore interface {
	AdminByUsername(ctx context.Context, username string) (*models.AdminUser, error)
}

type AuthService struct {
	Admins   AdminStore
	Secret   []byte
	TokenTTL time.Duration
	Logger   *zap.Logger
}

// Login verifies the admin credentials and returns a signed bearer token.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.AdminUser, error) {
	admin, err := s.Admins.AdminByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if admin == nil {
		return "", nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":      admin.ID,
		"username": admin.Username,
		"iat":      now.Unix(),
		"exp":      now.Add(s.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.Secret)
	if err != nil {
		return "", nil, err
	}

	s.Logger.Info("admin logged in", zap.String("username", admin.Username))
	return signed, admin, nil
}

// VerifyToken checks the token signature and expiry and returns the admin
// username it was issued to.
func (s *AuthService) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.Secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCredentials
	}
	username, _ := claims["username"].(string)
	if username == "" {
		return "", ErrInvalidCredentials
	}
	return username, nil
}
