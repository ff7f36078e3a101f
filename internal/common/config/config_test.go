package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Defaults Tests
// ==========================

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	assert.Equal(t, "loan-pipeline", cfg.App.Name)
	assert.Equal(t, ":9102", cfg.App.MetricsAddr)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Len(t, cfg.Assessment.Bureaus, 3)
	assert.Equal(t, 900, cfg.Assessment.CacheTTLSeconds)
	assert.Equal(t, 650, cfg.Underwriting.MinCreditScore)
	assert.Equal(t, 1_000_000.0, cfg.Underwriting.MaxLoanAmount)
	assert.Equal(t, 0.43, cfg.Underwriting.MaxDebtToIncomeRatio)
	assert.Equal(t, 3.0, cfg.Underwriting.MaxIncomeMultiplier)
}

func TestApplyDefaults_DoesNotOverrideExplicitValues(t *testing.T) {
	cfg := &Config{}
	cfg.Underwriting.MinCreditScore = 700
	cfg.Assessment.Bureaus = []BureauConfig{{ID: "custom", Kind: "simulated"}}

	applyDefaults(cfg)

	assert.Equal(t, 700, cfg.Underwriting.MinCreditScore)
	assert.Len(t, cfg.Assessment.Bureaus, 1)
}

// ==========================
// Validation Tests
// ==========================

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr string
	}{
		{
			name:    "valid defaults",
			mutate:  func(cfg *Config) {},
			wantErr: "",
		},
		{
			name: "bureau without id",
			mutate: func(cfg *Config) {
				cfg.Assessment.Bureaus = []BureauConfig{{Kind: "simulated"}}
			},
			wantErr: "id is required",
		},
		{
			name: "unknown bureau kind",
			mutate: func(cfg *Config) {
				cfg.Assessment.Bureaus = []BureauConfig{{ID: "x", Kind: "oracle"}}
			},
			wantErr: "unknown kind",
		},
		{
			name: "officer without id",
			mutate: func(cfg *Config) {
				cfg.Scheduler.Officers = []OfficerConfig{{Capacity: 3}}
			},
			wantErr: "id is required",
		},
		{
			name: "officer with zero capacity",
			mutate: func(cfg *Config) {
				cfg.Scheduler.Officers = []OfficerConfig{{ID: "off-1"}}
			},
			wantErr: "capacity must be positive",
		},
		{
			name: "dti ratio above one",
			mutate: func(cfg *Config) {
				cfg.Underwriting.MaxDebtToIncomeRatio = 1.2
			},
			wantErr: "max_debt_to_income_ratio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			applyDefaults(cfg)
			tt.mutate(cfg)

			err := validateConfig(cfg)
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	p := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		Database: "bank",
		User:     "svc",
		Password: "secret",
		SSLMode:  "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=svc password=secret dbname=bank sslmode=disable", p.GetDSN())
}
