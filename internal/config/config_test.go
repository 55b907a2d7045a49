package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.CookieExpireDays != 30 {
		t.Errorf("CookieExpireDays: got %d, want 30", cfg.Auth.CookieExpireDays)
	}
	if cfg.Auth.RegisterAttemptMax != 4 {
		t.Errorf("RegisterAttemptMax: got %d, want 4", cfg.Auth.RegisterAttemptMax)
	}
	if cfg.Auth.LoginAttemptMax != 10 {
		t.Errorf("LoginAttemptMax: got %d, want 10", cfg.Auth.LoginAttemptMax)
	}
	if cfg.Auth.ResetTokenTTL != 10*time.Minute {
		t.Errorf("ResetTokenTTL: got %v, want 10m", cfg.Auth.ResetTokenTTL)
	}
	if cfg.Query.DefaultLimit != 25 || cfg.Query.MaxLimit != 100 {
		t.Errorf("Query limits: got %d/%d, want 25/100", cfg.Query.DefaultLimit, cfg.Query.MaxLimit)
	}
	if cfg.Server.IsProduction() {
		t.Error("IsProduction: got true for default env")
	}
}

func TestLoad_MissingSecret(t *testing.T) {
	os.Clearenv()
	os.Setenv("DB_PASSWORD", "test")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() without JWT_SECRET: want error")
	}
}

func TestLoad_WeakSecretInProduction(t *testing.T) {
	os.Setenv("JWT_SECRET", "short")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("ENV", "production")
	defer os.Clearenv()

	if _, err := Load(); err == nil {
		t.Fatal("Load() with short secret in production: want error")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Setenv("JWT_SECRET", "test-secret-32-characters-long!")
	os.Setenv("DB_PASSWORD", "test")
	os.Setenv("JWT_COOKIE_EXPIRE", "7")
	os.Setenv("SESSION_TTL", "1h")
	os.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	defer os.Clearenv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Auth.CookieExpireDays != 7 {
		t.Errorf("CookieExpireDays: got %d, want 7", cfg.Auth.CookieExpireDays)
	}
	if cfg.Sessions.TTL != time.Hour {
		t.Errorf("Sessions.TTL: got %v, want 1h", cfg.Sessions.TTL)
	}
	if len(cfg.Server.AllowedOrigins) != 2 || cfg.Server.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("AllowedOrigins: got %v", cfg.Server.AllowedOrigins)
	}
}
