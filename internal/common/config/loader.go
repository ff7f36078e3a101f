package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

func Load() (*Config, error) {
	loadEnvFile()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like UNDERWRITING_MIN_CREDIT_SCORE
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment-specific overlay, ignored when absent.
	viper.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = viper.MergeInConfig()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "loan-pipeline"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.MetricsAddr == "" {
		cfg.App.MetricsAddr = ":9102"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if len(cfg.Assessment.Bureaus) == 0 {
		cfg.Assessment.Bureaus = []BureauConfig{
			{ID: "equinor", Kind: "simulated"},
			{ID: "transaxle", Kind: "simulated"},
			{ID: "experio", Kind: "simulated"},
		}
	}
	if cfg.Assessment.CacheTTLSeconds == 0 {
		cfg.Assessment.CacheTTLSeconds = 900
	}
	if cfg.Underwriting.MinCreditScore == 0 {
		cfg.Underwriting.MinCreditScore = 650
	}
	if cfg.Underwriting.MaxLoanAmount == 0 {
		cfg.Underwriting.MaxLoanAmount = 1_000_000
	}
	if cfg.Underwriting.MaxDebtToIncomeRatio == 0 {
		cfg.Underwriting.MaxDebtToIncomeRatio = 0.43
	}
	if cfg.Underwriting.MaxIncomeMultiplier == 0 {
		cfg.Underwriting.MaxIncomeMultiplier = 3
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
}

func validateConfig(cfg *Config) error {
	for i, b := range cfg.Assessment.Bureaus {
		if b.ID == "" {
			return fmt.Errorf("assessment.bureaus[%d]: id is required", i)
		}
		switch b.Kind {
		case "", "simulated", "records":
		default:
			return fmt.Errorf("assessment.bureaus[%d]: unknown kind %q", i, b.Kind)
		}
	}
	for i, o := range cfg.Scheduler.Officers {
		if o.ID == "" {
			return fmt.Errorf("scheduler.officers[%d]: id is required", i)
		}
		if o.Capacity <= 0 {
			return fmt.Errorf("scheduler.officers[%d]: capacity must be positive", i)
		}
	}
	if cfg.Underwriting.MaxDebtToIncomeRatio <= 0 || cfg.Underwriting.MaxDebtToIncomeRatio > 1 {
		return fmt.Errorf("underwriting.max_debt_to_income_ratio must be in (0, 1]")
	}
	return nil
}
