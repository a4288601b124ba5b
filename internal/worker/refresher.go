package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"finanp2p/internal/models"

	"go.uber.org/zap"
)

const defaultOneInchURL = "https://api.1inch.dev/swap/v5.2"

type TokenStore interface {
	UpsertToken(ctx context.Context, token *models.Token) error
}

// Refresher mirrors the 1inch token list into the local token registry on a
// fixed interval. Failures are logged and retried on the next tick; the
// refresher never takes the service down.
type Refresher struct {
	Store    TokenStore
	Logger   *zap.Logger
	BaseURL  string
	ChainID  int
	Interval time.Duration

	client *http.Client
}

func (r *Refresher) Run(ctx context.Context) {
	if err := r.RefreshOnce(ctx); err != nil {
		r.Logger.Warn("token refresh failed", zap.Error(err))
	}

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RefreshOnce(ctx); err != nil {
				r.Logger.Warn("token refresh failed", zap.Error(err))
			}
		}
	}
}

func (r *Refresher) RefreshOnce(ctx context.Context) error {
	baseURL := r.BaseURL
	if baseURL == "" {
		baseURL = defaultOneInchURL
	}
	endpoint := fmt.Sprintf("%s/%d/tokens", strings.TrimRight(baseURL, "/"), r.ChainID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := r.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(body))
		if msg != "" {
			return fmt.Errorf("token list http status %d: %s", resp.StatusCode, msg)
		}
		return fmt.Errorf("token list http status %d", resp.StatusCode)
	}

	var payload struct {
		Tokens map[string]struct {
			Symbol   string `json:"symbol"`
			Name     string `json:"name"`
			Address  string `json:"address"`
			Decimals int    `json:"decimals"`
			LogoURI  string `json:"logoURI"`
		} `json:"tokens"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return err
	}

	for _, t := range payload.Tokens {
		token := &models.Token{
			Address:  strings.ToLower(t.Address),
			Symbol:   t.Symbol,
			Name:     t.Name,
			Decimals: t.Decimals,
			LogoURI:  t.LogoURI,
		}
		if err := r.Store.UpsertToken(ctx, token); err != nil {
			return fmt.Errorf("upsert token %s: %w", token.Symbol, err)
		}
	}

	r.Logger.Info("token registry refreshed", zap.Int("count", len(payload.Tokens)))
	return nil
}

func (r *Refresher) httpClient() *http.Client {
	if r.client == nil {
		r.client = &http.Client{Timeout: 10 * time.Second}
	}
	return r.client
}
