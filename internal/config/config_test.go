package config

import "testing"

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "DATABASE_URL", "REDIS_URL", "MIN_TOKEN_BALANCE",
		"SHUTDOWN_TIMEOUT", "SHUTDOWN_TIMEOUT_SECONDS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDevToleratesMissingDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("dev load without DATABASE_URL: %v", err)
	}
	if cfg.DatabaseURL != "" {
		t.Fatalf("expected empty database url, got %q", cfg.DatabaseURL)
	}
	if !cfg.IsDev() {
		t.Fatalf("expected dev environment")
	}
}

func TestLoadProductionRequiresDatabase(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "production")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when DATABASE_URL is unset outside dev")
	}
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/solgate")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.RPCURL != defaultRPCURL {
		t.Fatalf("unexpected rpc url %q", cfg.RPCURL)
	}
	if cfg.TokenMint != defaultTokenMint {
		t.Fatalf("unexpected mint %q", cfg.TokenMint)
	}
	if cfg.MinBalance != defaultMinBalance {
		t.Fatalf("unexpected min balance %v", cfg.MinBalance)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
}

func TestLoadInvalidMinBalance(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/solgate")
	t.Setenv("MIN_TOKEN_BALANCE", "-2")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative minimum balance")
	}
}
