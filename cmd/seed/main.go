package main

import (
	"context"
	"os"

	"finanp2p/internal/config"
	"finanp2p/internal/db"
	"finanp2p/internal/models"
	"finanp2p/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Seeds the default admin account, the initial payment profile and a handful
// of popular BSC tokens. Safe to run repeatedly.
func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load("")
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer pool.Close()

	st := store.New(pool)

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		logger.Warn("ADMIN_PASSWORD not set, using the default password")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Fatal("password hash failed", zap.Error(err))
	}
	if _, err := st.CreateAdmin(ctx, "admin", string(hash)); err != nil {
		logger.Fatal("seed admin failed", zap.Error(err))
	}
	logger.Info("admin user ready", zap.String("username", "admin"))

	active, err := st.ActiveProfile(ctx)
	if err != nil {
		logger.Fatal("read active profile failed", zap.Error(err))
	}
	if active == nil {
		profile := &models.PaymentProfile{
			BankName:           "Vietcombank",
			AccountNumber:      "1234567890",
			AccountHolder:      "FINAN WALLET ADMIN",
			Note:               "Vui lòng chuyển khoản theo thông tin trên và xác nhận thanh toán.",
			AdminWalletAddress: "0x0000000000000000000000000000000000000000",
			UsdtRate:           decimal.NewFromInt(24000),
		}
		if _, err := st.ActivateProfile(ctx, profile); err != nil {
			logger.Fatal("seed payment profile failed", zap.Error(err))
		}
		logger.Info("default payment profile created", zap.String("bank_name", profile.BankName))
	}

	for _, token := range popularTokens {
		if err := st.UpsertToken(ctx, token); err != nil {
			logger.Fatal("seed token failed", zap.String("symbol", token.Symbol), zap.Error(err))
		}
	}
	logger.Info("popular tokens seeded", zap.Int("count", len(popularTokens)))
}

var popularTokens = []*models.Token{
	{
		Symbol:   "BNB",
		Name:     "BNB",
		Address:  "0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c",
		Decimals: 18,
		LogoURI:  "https://tokens.1inch.io/0xbb4cdb9cbd36b01bd1cbaebf2de08d9173bc095c.png",
	},
	{
		Symbol:   "USDT",
		Name:     "Tether USD",
		Address:  "0x55d398326f99059ff775485246999027b3197955",
		Decimals: 18,
		LogoURI:  "https://tokens.1inch.io/0x55d398326f99059ff775485246999027b3197955.png",
	},
	{
		Symbol:   "USDC",
		Name:     "USD Coin",
		Address:  "0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d",
		Decimals: 18,
		LogoURI:  "https://tokens.1inch.io/0x8ac76a51cc950d9822d68b83fe1ad97b32cd580d.png",
	},
	{
		Symbol:   "BUSD",
		Name:     "Binance USD",
		Address:  "0xe9e7cea3dedca5984780bafc599bd69add087d56",
		Decimals: 18,
		LogoURI:  "https://tokens.1inch.io/0xe9e7cea3dedca5984780bafc599bd69add087d56.png",
	},
}
