package store

import (
	"context"
	"errors"

	"finanp2p/internal/models"

	"github.com/jackc/pgx/v5"
)

const tokenColumns = `address, symbol, name, decimals, logo_uri, updated_at`

func (s *Store) UpsertToken(ctx context.Context, token *models.Token) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO tokens (address, symbol, name, decimals, logo_uri, updated_at)
		VALUES ($1,$2,$3,$4,$5,now())
		ON CONFLICT (address) DO UPDATE SET
			symbol=EXCLUDED.symbol,
			name=EXCLUDED.name,
			decimals=EXCLUDED.decimals,
			logo_uri=EXCLUDED.logo_uri,
			updated_at=now()
	`,
		token.Address,
		token.Symbol,
		token.Name,
		token.Decimals,
		token.LogoURI,
	)
	return err
}

func (s *Store) ListTokens(ctx context.Context) ([]*models.Token, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+tokenColumns+` FROM tokens ORDER BY symbol ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTokens(rows)
}

func (s *Store) TokenBySymbol(ctx context.Context, symbol string) (*models.Token, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+tokenColumns+` FROM tokens WHERE symbol=$1 LIMIT 1`, symbol)
	token, err := scanToken(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return token, nil
}

func (s *Store) TokensBySymbols(ctx context.Context, symbols []string) ([]*models.Token, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+tokenColumns+`
		FROM tokens
		WHERE symbol = ANY($1)
		ORDER BY symbol ASC
	`, symbols)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTokens(rows)
}

func scanToken(row pgx.Row) (*models.Token, error) {
	var token models.Token
	err := row.Scan(
		&token.Address,
		&token.Symbol,
		&token.Name,
		&token.Decimals,
		&token.LogoURI,
		&token.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &token, nil
}

func collectTokens(rows pgx.Rows) ([]*models.Token, error) {
	var tokens []*models.Token
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}
