package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Assessment   AssessmentConfig   `mapstructure:"assessment"`
	Underwriting UnderwritingConfig `mapstructure:"underwriting"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// AssessmentConfig configures the credit assessor.
type AssessmentConfig struct {
	// Bureaus lists the configured bureau identifiers. They are opaque
	// routing keys; the wire protocol behind each is out of scope.
	Bureaus []BureauConfig `mapstructure:"bureaus"`

	// RequireAllBureaus controls partial-failure behavior: when true, any
	// bureau error fails the whole assessment; when false, the composite
	// score degrades to the mean of the bureaus that responded.
	RequireAllBureaus bool `mapstructure:"require_all_bureaus"`

	// CacheTTL bounds reuse of a cached bureau report.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

type BureauConfig struct {
	ID string `mapstructure:"id"`
	// Kind selects the source implementation: "simulated" or "records".
	Kind string `mapstructure:"kind"`
	// Cached wraps the source with the Redis report cache.
	Cached bool `mapstructure:"cached"`
}

// UnderwritingConfig carries the rule thresholds.
type UnderwritingConfig struct {
	MinCreditScore       int     `mapstructure:"min_credit_score"`
	MaxLoanAmount        float64 `mapstructure:"max_loan_amount"`
	MaxDebtToIncomeRatio float64 `mapstructure:"max_debt_to_income_ratio"`
	MaxIncomeMultiplier  float64 `mapstructure:"max_income_multiplier"`
}

// SchedulerConfig carries the officer roster.
type SchedulerConfig struct {
	Officers []OfficerConfig `mapstructure:"officers"`
}

type OfficerConfig struct {
	ID              string   `mapstructure:"id"`
	Name            string   `mapstructure:"name"`
	Capacity        int      `mapstructure:"capacity"`
	Specializations []string `mapstructure:"specializations"`
	Performance     float64  `mapstructure:"performance"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
