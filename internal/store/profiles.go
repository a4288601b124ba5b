package store

import (
	"context"
	"errors"
	"time"

	"finanp2p/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const profileColumns = `id, bank_name, account_number, account_holder, qr_image_url, note, admin_wallet_address, usdt_rate, is_active, updated_at`

// ActiveProfile returns the currently active payment profile, or nil when
// none has been configured yet.
func (s *Store) ActiveProfile(ctx context.Context) (*models.PaymentProfile, error) {
	row := s.Pool.QueryRow(ctx, `
		SELECT `+profileColumns+`
		FROM payment_profiles
		WHERE is_active
		ORDER BY updated_at DESC
		LIMIT 1
	`)
	profile, err := scanProfile(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return profile, nil
}

// ActivateProfile deactivates every active profile and inserts the new one as
// active inside a single transaction, so concurrent readers never observe two
// active profiles.
func (s *Store) ActivateProfile(ctx context.Context, profile *models.PaymentProfile) (*models.PaymentProfile, error) {
	tx, err := s.Pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `UPDATE payment_profiles SET is_active=false WHERE is_active`); err != nil {
		return nil, err
	}

	stored := *profile
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	stored.IsActive = true
	stored.UpdatedAt = time.Now().UTC()

	_, err = tx.Exec(ctx, `
		INSERT INTO payment_profiles (
			id, bank_name, account_number, account_holder, qr_image_url,
			note, admin_wallet_address, usdt_rate, is_active, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		stored.ID,
		stored.BankName,
		stored.AccountNumber,
		stored.AccountHolder,
		stored.QRImageURL,
		stored.Note,
		stored.AdminWalletAddress,
		stored.UsdtRate.String(),
		stored.IsActive,
		stored.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &stored, nil
}

func scanProfile(row pgx.Row) (*models.PaymentProfile, error) {
	var profile models.PaymentProfile
	var rate string

	err := row.Scan(
		&profile.ID,
		&profile.BankName,
		&profile.AccountNumber,
		&profile.AccountHolder,
		&profile.QRImageURL,
		&profile.Note,
		&profile.AdminWalletAddress,
		&rate,
		&profile.IsActive,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	profile.UsdtRate, err = decimal.NewFromString(rate)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}
