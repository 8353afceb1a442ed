package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultAppName        = "SolGate"
	defaultAppEnv         = "development"
	defaultPort           = "8080"
	defaultLogLevel       = "info"
	defaultShutdownDelay  = 10 * time.Second
	defaultRPCURL         = "https://api.mainnet-beta.solana.com"
	defaultTokenMint      = "F7Hwf8ib5DVCoiuyGr618Y3gon429Rnd1r5F9R5upump"
	defaultMinBalance     = 1
	defaultBotWebhookURL  = "http://localhost:3001/verify-status"
	defaultRPCTimeout     = 10 * time.Second
	defaultStoreTimeout   = 5 * time.Second
	defaultNotifyTimeout  = 5 * time.Second
	defaultReplayTTL      = 5 * time.Minute
	shutdownSecondsEnvVar = "SHUTDOWN_TIMEOUT_SECONDS"
	shutdownDurEnvVar     = "SHUTDOWN_TIMEOUT"
)

// Config captures application runtime configuration loaded from environment variables.
type Config struct {
	AppName        string
	AppEnv         string
	Port           string
	LogLevel       string
	DatabaseURL    string
	RedisURL       string
	RPCURL         string
	TokenMint      string
	MinBalance     float64
	BotWebhookURL  string
	RPCTimeout     time.Duration
	StoreTimeout   time.Duration
	NotifyTimeout  time.Duration
	ReplayTTL      time.Duration
	ShutdownPeriod time.Duration
}

// Load reads configuration values from the environment and populates a Config instance.
func Load() (Config, error) {
	cfg := Config{
		AppName:        getEnv("APP_NAME", defaultAppName),
		AppEnv:         getEnv("APP_ENV", defaultAppEnv),
		Port:           getEnv("PORT", defaultPort),
		LogLevel:       strings.ToLower(getEnv("LOG_LEVEL", defaultLogLevel)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RPCURL:         getEnv("SOLANA_RPC_URL", defaultRPCURL),
		TokenMint:      getEnv("TOKEN_MINT_ADDRESS", defaultTokenMint),
		MinBalance:     defaultMinBalance,
		BotWebhookURL:  getEnv("BOT_WEBHOOK_URL", defaultBotWebhookURL),
		RPCTimeout:     defaultRPCTimeout,
		StoreTimeout:   defaultStoreTimeout,
		NotifyTimeout:  defaultNotifyTimeout,
		ReplayTTL:      defaultReplayTTL,
		ShutdownPeriod: defaultShutdownDelay,
	}

	if v := os.Getenv("MIN_TOKEN_BALANCE"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid MIN_TOKEN_BALANCE: %w", err)
		}
		if min < 0 {
			return Config{}, fmt.Errorf("MIN_TOKEN_BALANCE must not be negative")
		}
		cfg.MinBalance = min
	}

	for _, d := range []struct {
		env    string
		target *time.Duration
	}{
		{"RPC_TIMEOUT", &cfg.RPCTimeout},
		{"STORE_TIMEOUT", &cfg.StoreTimeout},
		{"NOTIFY_TIMEOUT", &cfg.NotifyTimeout},
		{"REPLAY_TTL", &cfg.ReplayTTL},
	} {
		if v := os.Getenv(d.env); v != "" {
			parsed, err := time.ParseDuration(v)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", d.env, err)
			}
			*d.target = parsed
		}
	}

	if v := os.Getenv(shutdownSecondsEnvVar); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownSecondsEnvVar, err)
		}
		cfg.ShutdownPeriod = time.Duration(seconds) * time.Second
	} else if v := os.Getenv(shutdownDurEnvVar); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid %s: %w", shutdownDurEnvVar, err)
		}
		cfg.ShutdownPeriod = d
	}

	// Dev runs may skip Postgres and fall back to the in-memory store.
	if cfg.DatabaseURL == "" && !cfg.IsDev() {
		return Config{}, fmt.Errorf("DATABASE_URL must be set when APP_ENV=%s", cfg.AppEnv)
	}

	return cfg, nil
}

// IsDev reports whether the app runs in a development-style environment.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.AppEnv) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}

// Address returns the listen address in the format Fiber expects.
func (c Config) Address() string {
	if strings.HasPrefix(c.Port, ":") {
		return c.Port
	}
	return fmt.Sprintf(":%s", c.Port)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
