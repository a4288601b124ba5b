package config

import (
	"errors"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DB struct {
		DSN string `yaml:"dsn"`
	} `yaml:"db"`
	Auth struct {
		JWTSecret       string `yaml:"jwt_secret"`
		TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
	} `yaml:"auth"`
	Prices struct {
		BaseURL         string `yaml:"base_url"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"prices"`
	Tokens struct {
		BaseURL              string `yaml:"base_url"`
		ChainID              int    `yaml:"chain_id"`
		RefreshIntervalHours int    `yaml:"refresh_interval_hours"`
	} `yaml:"tokens"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if cfg.Server.Addr == "" {
		return nil, errors.New("server.addr is required")
	}
	if cfg.DB.DSN == "" {
		return nil, errors.New("db.dsn is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("auth.jwt_secret is required")
	}
	return &cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DB_DSN"); v != "" {
		cfg.DB.DSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.Auth.JWTSecret = v
	}
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		cfg.Auth.TokenTTLMinutes = atoiOr(cfg.Auth.TokenTTLMinutes, v)
	}
	if v := os.Getenv("PRICES_BASE_URL"); v != "" {
		cfg.Prices.BaseURL = v
	}
	if v := os.Getenv("PRICE_CACHE_TTL_SECONDS"); v != "" {
		cfg.Prices.CacheTTLSeconds = atoiOr(cfg.Prices.CacheTTLSeconds, v)
	}
	if v := os.Getenv("TOKENS_BASE_URL"); v != "" {
		cfg.Tokens.BaseURL = v
	}
	if v := os.Getenv("TOKENS_CHAIN_ID"); v != "" {
		cfg.Tokens.ChainID = atoiOr(cfg.Tokens.ChainID, v)
	}
	if v := os.Getenv("TOKENS_REFRESH_INTERVAL_HOURS"); v != "" {
		cfg.Tokens.RefreshIntervalHours = atoiOr(cfg.Tokens.RefreshIntervalHours, v)
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Auth.TokenTTLMinutes <= 0 {
		cfg.Auth.TokenTTLMinutes = 60
	}
	if cfg.Prices.CacheTTLSeconds <= 0 {
		cfg.Prices.CacheTTLSeconds = 60
	}
	if cfg.Tokens.ChainID <= 0 {
		cfg.Tokens.ChainID = 56
	}
	if cfg.Tokens.RefreshIntervalHours <= 0 {
		cfg.Tokens.RefreshIntervalHours = 24 * 30
	}
}

func atoiOr(fallback int, v string) int {
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
