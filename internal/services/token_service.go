package services

import (
	"context"

	"finanp2p/internal/models"
)

// Symbols commonly traded on BSC, used for the popular-tokens listing.
var popularSymbols = []string{"BNB", "USDT", "USDC", "BUSD", "ETH", "BTCB", "ADA", "DOT", "CAKE"}

type TokenCatalog interface {
	ListTokens(ctx context.Context) ([]*models.Token, error)
	TokenBySymbol(ctx context.Context, symbol string) (*models.Token, error)
	TokensBySymbols(ctx context.Context, symbols []string) ([]*models.Token, error)
}

type TokenService struct {
	Tokens TokenCatalog
}

func (s *TokenService) ListTokens(ctx context.Context) ([]*models.Token, error) {
	return s.Tokens.ListTokens(ctx)
}

func (s *TokenService) PopularTokens(ctx context.Context) ([]*models.Token, error) {
	return s.Tokens.TokensBySymbols(ctx, popularSymbols)
}

func (s *TokenService) TokenBySymbol(ctx context.Context, symbol string) (*models.Token, error) {
	return s.Tokens.TokenBySymbol(ctx, symbol)
}
