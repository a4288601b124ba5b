package store

import (
	"context"
	"errors"
	"time"

	"finanp2p/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (s *Store) AdminByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT id, username, password_hash, created_at
		FROM admin_users
		WHERE username=$1
	`, username)

	var admin models.AdminUser
	err := row.Scan(&admin.ID, &admin.Username, &admin.PasswordHash, &admin.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

// CreateAdmin inserts a new admin user; existing usernames are left untouched.
func (s *Store) CreateAdmin(ctx context.Context, username, passwordHash string) (*models.AdminUser, error) {
	admin := &models.AdminUser{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO admin_users (id, username, password_hash, created_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (username) DO NOTHING
	`, admin.ID, admin.Username, admin.PasswordHash, admin.CreatedAt)
	if err != nil {
		return nil, err
	}
	return admin, nil
}
