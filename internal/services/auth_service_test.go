package services

import (
	"context"
	"testing"
	"time"

	"finanp2p/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type fakeAdminStore struct {
	admin *models.AdminUser
}

func (f *fakeAdminStore) AdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	if f.admin != nil && f.admin.Username == username {
		return f.admin, nil
	}
	return nil, nil
}

func newAuthService(t *testing.T, password string, ttl time.Duration) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &AuthService{
		Admins: &fakeAdminStore{admin: &models.AdminUser{
			ID:           "admin-1",
			Username:     "admin",
			PasswordHash: string(hash),
		}},
		Secret:   []byte("test-secret"),
		TokenTTL: ttl,
		Logger:   zap.NewNop(),
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := newAuthService(t, "admin123", time.Hour)

	token, admin, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", admin.Username)

	username, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", username)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := newAuthService(t, "admin123", time.Hour)

	_, _, err := svc.Login(context.Background(), "admin", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(context.Background(), "ghost", "admin123")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsExpiredToken(t *testing.T) {
	svc := newAuthService(t, "admin123", -time.Minute)

	token, _, err := svc.Login(context.Background(), "admin", "admin123")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newAuthService(t, "admin123", time.Hour)

	_, err := svc.VerifyToken("not-a-token")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
