package config

import (
	"testing"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("PROVIDER_CLIENT_ID", "test-client-id")
	t.Setenv("PROVIDER_SECRET", "test-secret")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider.ClientID != "test-client-id" {
		t.Errorf("Provider.ClientID = %q, want %q", cfg.Provider.ClientID, "test-client-id")
	}
	if cfg.Provider.Environment != "sandbox" {
		t.Errorf("Provider.Environment = %q, want %q", cfg.Provider.Environment, "sandbox")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Ingest.LookbackDays != 30 {
		t.Errorf("Ingest.LookbackDays = %d, want 30", cfg.Ingest.LookbackDays)
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "example.com, api.example.com, localhost:3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.AllowedHosts) != 3 {
		t.Fatalf("AllowedHosts length = %d, want 3", len(cfg.Server.AllowedHosts))
	}
	if cfg.Server.AllowedHosts[1] != "api.example.com" {
		t.Errorf("AllowedHosts[1] = %q, want %q", cfg.Server.AllowedHosts[1], "api.example.com")
	}
}

func TestLoad_MissingProviderCredentials(t *testing.T) {
	t.Setenv("PROVIDER_CLIENT_ID", "")
	t.Setenv("PROVIDER_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for missing provider credentials, got nil")
	}
}

func TestLoad_InvalidLookback(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("INGEST_LOOKBACK_DAYS", "0")

	if _, err := Load(); err == nil {
		t.Error("Load() expected error for zero lookback, got nil")
	}
}

func TestLoad_SchedulerOverrides(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("SCHEDULER_TIMES", "05:30,21:00")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled = true, want false")
	}
	if len(cfg.Scheduler.ScheduleTimes) != 2 || cfg.Scheduler.ScheduleTimes[0] != "05:30" {
		t.Errorf("Scheduler.ScheduleTimes = %v, want [05:30 21:00]", cfg.Scheduler.ScheduleTimes)
	}
}

func TestConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "finhub",
		Password: "pw",
		DBName:   "finhub",
		SSLMode:  "disable",
	}

	want := "host=localhost port=5432 user=finhub password=pw dbname=finhub sslmode=disable"
	if got := db.ConnectionString(); got != want {
		t.Errorf("ConnectionString() = %q, want %q", got, want)
	}
}

func TestGetBoolEnv(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"yes", true},
		{"false", false},
		{"0", false},
		{"no", false},
		{"garbage", true}, // falls back to default
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_BOOL", tt.value)
			if got := getBoolEnv("TEST_BOOL", true); got != tt.want {
				t.Errorf("getBoolEnv(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
