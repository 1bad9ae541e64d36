package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Summary provider names accepted in LLM_PROVIDER.
const (
	ProviderNone             = "none"
	ProviderOpenAICompatible = "openai_compatible"
	ProviderGemini           = "gemini"
)

// Config holds all configuration for the application.
// It is loaded once at startup and treated as read-only afterwards.
type Config struct {
	// Storage
	DatabasePath      string        `conf:"default:data/sales.db,env:DATABASE_PATH"`
	DBTimeout         time.Duration `conf:"default:5s,env:DB_TIMEOUT"`
	ExportsDir        string        `conf:"default:data/exports,env:EXPORTS_DIR"`
	BackupsDir        string        `conf:"default:data/backups,env:BACKUPS_DIR"`
	SeedProductsFile  string        `conf:"default:data/products.csv,env:SEED_PRODUCTS_FILE"`
	SeedCustomersFile string        `conf:"default:data/customers.csv,env:SEED_CUSTOMERS_FILE"`

	// Retention
	MaxRecentPurchases int `conf:"default:10,env:MAX_RECENT_PURCHASES"`

	// Sale defaults
	Currency                 string `conf:"default:USD,env:DEFAULT_CURRENCY"`
	DefaultTaxRate           string `conf:"default:0,env:DEFAULT_TAX_RATE"`
	DefaultPaymentStatus     string `conf:"default:Paid,env:DEFAULT_PAYMENT_STATUS"`
	DefaultPaymentTerms      string `conf:"default:Net 30,env:DEFAULT_PAYMENT_TERMS"`
	DefaultFulfillmentStatus string `conf:"default:Delivered,env:DEFAULT_FULFILLMENT_STATUS"`
	DefaultChannel           string `conf:"default:in-store,env:DEFAULT_CHANNEL"`
	DefaultSource            string `conf:"default:direct,env:DEFAULT_SOURCE"`
	DefaultRegion            string `conf:"default:local,env:DEFAULT_REGION"`
	DefaultSalesRep          string `conf:"env:DEFAULT_SALES_REP"`

	// Reporting
	Timezone          string `conf:"default:Local,env:TIMEZONE"`
	TopProducts       int    `conf:"default:3,env:TOP_PRODUCTS"`
	DailySalesTarget  int    `conf:"default:10,env:DAILY_SALES_TARGET"`
	LowSalesThreshold int    `conf:"default:5,env:LOW_SALES_THRESHOLD"`
	MinDailyRevenue   string `conf:"default:0,env:MIN_DAILY_REVENUE"`
	TrendDropRatio    string `conf:"default:0,env:TREND_DROP_RATIO"`

	// Summary provider
	CompanyName    string        `conf:"default:Your Company,env:COMPANY_NAME"`
	LLMProvider    string        `conf:"default:none,env:LLM_PROVIDER"`
	APIKey         string        `conf:"env:API_KEY,noprint"`
	LLMEndpoint    string        `conf:"env:LLM_ENDPOINT"`
	LLMModel       string        `conf:"env:LLM_MODEL"`
	MaxTokens      int           `conf:"default:600,env:MAX_TOKENS"`
	Temperature    float64       `conf:"default:0.7,env:TEMPERATURE"`
	SummaryTimeout time.Duration `conf:"default:30s,env:SUMMARY_TIMEOUT"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`

	// Observability
	ServiceName    string `conf:"default:salesdesk,env:SERVICE_NAME"`
	ServiceVersion string `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string `conf:"env:OTEL_ENDPOINT"`
	MetricsFile    string `conf:"env:METRICS_FILE"`
	SentryDSN      string `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first when present.
// Command-line flags belong to the command tree, so conf sees only the
// program name.
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()

	args := os.Args
	os.Args = args[:1]
	defer func() { os.Args = args }()

	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// Validate checks value ranges that struct tags cannot express.
// All problems are reported together.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.MaxRecentPurchases <= 0 {
		errs = append(errs, "MAX_RECENT_PURCHASES must be greater than 0")
	}
	if cfg.DBTimeout <= 0 {
		errs = append(errs, "DB_TIMEOUT must be greater than 0")
	}
	if cfg.SummaryTimeout <= 0 {
		errs = append(errs, "SUMMARY_TIMEOUT must be greater than 0")
	}
	if len(cfg.Currency) != 3 {
		errs = append(errs, fmt.Sprintf("DEFAULT_CURRENCY must be a 3-letter code (got %q)", cfg.Currency))
	}

	if rate, err := decimal.NewFromString(cfg.DefaultTaxRate); err != nil {
		errs = append(errs, fmt.Sprintf("DEFAULT_TAX_RATE is not a number: %q", cfg.DefaultTaxRate))
	} else if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, "DEFAULT_TAX_RATE must be between 0 and 1")
	}
	if v, err := decimal.NewFromString(cfg.MinDailyRevenue); err != nil || v.IsNegative() {
		errs = append(errs, "MIN_DAILY_REVENUE must be a number >= 0")
	}
	if v, err := decimal.NewFromString(cfg.TrendDropRatio); err != nil || v.IsNegative() || v.GreaterThan(decimal.NewFromInt(1)) {
		errs = append(errs, "TREND_DROP_RATIO must be between 0 and 1")
	}

	if cfg.TopProducts <= 0 {
		errs = append(errs, "TOP_PRODUCTS must be greater than 0")
	}
	if cfg.DailySalesTarget < 0 {
		errs = append(errs, "DAILY_SALES_TARGET should be 0 or higher")
	}
	if cfg.LowSalesThreshold < 0 {
		errs = append(errs, "LOW_SALES_THRESHOLD should be 0 or higher")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		errs = append(errs, fmt.Sprintf("TIMEZONE %q cannot be loaded", cfg.Timezone))
	}

	switch cfg.LLMProvider {
	case ProviderNone, ProviderOpenAICompatible, ProviderGemini:
	default:
		errs = append(errs, fmt.Sprintf("unknown LLM_PROVIDER %q; use none, openai_compatible or gemini", cfg.LLMProvider))
	}
	if cfg.MaxTokens <= 0 {
		errs = append(errs, "MAX_TOKENS must be greater than 0")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 1 {
		errs = append(errs, "TEMPERATURE should be between 0 and 1")
	}

	if cfg.Environment == EnvProduction && cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak customer data)")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
}

// Location returns the reporting time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
