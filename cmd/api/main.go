package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"finanp2p/internal/config"
	"finanp2p/internal/db"
	internalhttp "finanp2p/internal/http"
	"finanp2p/internal/pricing"
	"finanp2p/internal/services"
	"finanp2p/internal/store"
	"finanp2p/internal/worker"

	"go.uber.org/zap"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DB.DSN)
	if err != nil {
		logger.Fatal("db connect failed", zap.Error(err))
	}
	defer pool.Close()

	st := store.New(pool)

	orderSvc := &services.OrderService{Orders: st, Profiles: st, Logger: logger}
	configSvc := &services.ConfigService{Profiles: st, Logger: logger}
	tokenSvc := &services.TokenService{Tokens: st}
	authSvc := &services.AuthService{
		Admins:   st,
		Secret:   []byte(cfg.Auth.JWTSecret),
		TokenTTL: time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute,
		Logger:   logger,
	}

	provider := pricing.NewCoinGeckoClient(cfg.Prices.BaseURL)
	priceCache := pricing.NewCache(provider, time.Duration(cfg.Prices.CacheTTLSeconds)*time.Second, logger)

	refresher := &worker.Refresher{
		Store:    st,
		Logger:   logger,
		BaseURL:  cfg.Tokens.BaseURL,
		ChainID:  cfg.Tokens.ChainID,
		Interval: time.Duration(cfg.Tokens.RefreshIntervalHours) * time.Hour,
	}
	go refresher.Run(ctx)

	handler := &internalhttp.Handler{
		Orders: orderSvc,
		Config: configSvc,
		Tokens: tokenSvc,
		Auth:   authSvc,
		Prices: priceCache,
	}
	srv := internalhttp.NewServer(handler)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router,
	}

	go func() {
		logger.Info("api listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
}
