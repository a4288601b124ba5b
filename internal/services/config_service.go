package services

import (
	"context"
	"fmt"

	"finanp2p/internal/models"

	"go.uber.org/zap"
)

// ProfileStore extends ProfileReader with atomic replacement of the active
// payment profile.
type ProfileStore interface {
	ProfileReader
	ActivateProfile(ctx context.Context, profile *models.PaymentProfile) (*models.PaymentProfile, error)
}

type ConfigService struct {
	Profiles ProfileStore
	Logger   *zap.Logger
}

// ActiveProfile returns the payment profile currently shown to buyers, or nil
// when none has been configured.
func (s *ConfigService) ActiveProfile(ctx context.Context) (*models.PaymentProfile, error) {
	return s.Profiles.ActiveProfile(ctx)
}

// UpdateProfile validates and activates a new payment profile, atomically
// deactivating the previous one.
func (s *ConfigService) UpdateProfile(ctx context.Context, profile *models.PaymentProfile) (*models.PaymentProfile, error) {
	if profile.BankName == "" || profile.AccountNumber == "" || profile.AccountHolder == "" {
		return nil, fmt.Errorf("%w: bank name, account number and account holder are required", ErrInvalidInput)
	}
	if profile.UsdtRate.Sign() <= 0 {
		return nil, fmt.Errorf("%w: usdt rate must be greater than zero", ErrInvalidInput)
	}

	stored, err := s.Profiles.ActivateProfile(ctx, profile)
	if err != nil {
		return nil, err
	}
	s.Logger.Info("payment profile activated",
		zap.String("profile_id", stored.ID),
		zap.String("bank_name", stored.BankName))
	return stored, nil
}
