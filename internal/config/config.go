package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"rinsetu/internal/domain"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Log       LogConfig
	CORS      CORSConfig
	Extractor ExtractorConfig
	Email     EmailConfig
	Session   SessionConfig
	Rules     RulesConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings. The database stores users
// and decision audit rows only; extracted document fields never touch it.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractorProviderConfig holds settings for a single extraction provider.
type ExtractorProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	MaxRetries  int    `mapstructure:"max_retries"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds extraction collaborator settings with fallback support.
type ExtractorConfig struct {
	Primary   ExtractorProviderConfig `mapstructure:"primary"`
	Secondary ExtractorProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary extractor config, or nil if not set.
func (e *ExtractorConfig) SecondaryConfig() *ExtractorProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// SessionConfig holds in-memory session store settings.
type SessionConfig struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RulesConfig carries every externally settable rule table of the decision
// core. It is loaded once and validated eagerly; an invalid table is fatal at
// startup, never a per-evaluation error.
type RulesConfig struct {
	// Consistency reconciliation.
	NameEditDistance    int `mapstructure:"name_edit_distance"`
	AddressEditDistance int `mapstructure:"address_edit_distance"`

	// Financial aggregation.
	IncomeDeviationTolerance float64 `mapstructure:"income_deviation_tolerance"`

	// Credit score analysis.
	WeightPaymentHistory    float64 `mapstructure:"weight_payment_history"`
	WeightCreditUtilization float64 `mapstructure:"weight_credit_utilization"`
	WeightCreditAge         float64 `mapstructure:"weight_credit_age"`
	WeightCreditMix         float64 `mapstructure:"weight_credit_mix"`
	WeightInquiries         float64 `mapstructure:"weight_inquiries"`
	ComponentThreshold      float64 `mapstructure:"component_threshold"`

	// Eligibility decision.
	ScoreFloor         int     `mapstructure:"score_floor"`
	ScoreExcellentMin  int     `mapstructure:"score_excellent_min"`
	ScoreGoodMin       int     `mapstructure:"score_good_min"`
	DTILowMax          float64 `mapstructure:"dti_low_max"`
	DTIMediumMax       float64 `mapstructure:"dti_medium_max"`
	MultiplierLow      float64 `mapstructure:"multiplier_low"`
	MultiplierMedium   float64 `mapstructure:"multiplier_medium"`
	MultiplierHigh     float64 `mapstructure:"multiplier_high"`
	MandatoryDocuments []string `mapstructure:"mandatory_documents"`
	RequireIncomeProof bool    `mapstructure:"require_income_proof"`
}

// Weights returns the credit component weights keyed by component.
func (r *RulesConfig) Weights() map[domain.ScoreComponent]float64 {
	return map[domain.ScoreComponent]float64{
		domain.ComponentPaymentHistory:    r.WeightPaymentHistory,
		domain.ComponentCreditUtilization: r.WeightCreditUtilization,
		domain.ComponentCreditAge:         r.WeightCreditAge,
		domain.ComponentCreditMix:         r.WeightCreditMix,
		domain.ComponentInquiries:         r.WeightInquiries,
	}
}

// Multipliers returns the income multiplier per risk tier.
func (r *RulesConfig) Multipliers() map[domain.RiskTier]float64 {
	return map[domain.RiskTier]float64{
		domain.RiskTierLow:    r.MultiplierLow,
		domain.RiskTierMedium: r.MultiplierMedium,
		domain.RiskTierHigh:   r.MultiplierHigh,
	}
}

// Validate rejects an invalid rule table. Any error here wraps
// domain.ErrInvalidConfiguration and must abort engine construction.
func (r *RulesConfig) Validate() error {
	sum := r.WeightPaymentHistory + r.WeightCreditUtilization +
		r.WeightCreditAge + r.WeightCreditMix + r.WeightInquiries
	if math.Abs(sum-1.0) > 1e-6 {
		return fmt.Errorf("%w: credit component weights sum to %.4f, want 1.0",
			domain.ErrInvalidConfiguration, sum)
	}
	if r.ComponentThreshold <= 0 || r.ComponentThreshold > 1 {
		return fmt.Errorf("%w: component threshold %.2f outside (0,1]",
			domain.ErrInvalidConfiguration, r.ComponentThreshold)
	}
	if r.ScoreFloor < 300 || r.ScoreFloor > 900 {
		return fmt.Errorf("%w: score floor %d outside [300,900]",
			domain.ErrInvalidConfiguration, r.ScoreFloor)
	}
	if r.ScoreGoodMin <= r.ScoreFloor || r.ScoreExcellentMin <= r.ScoreGoodMin || r.ScoreExcellentMin > 900 {
		return fmt.Errorf("%w: score bands must satisfy floor < good_min < excellent_min <= 900",
			domain.ErrInvalidConfiguration)
	}
	if r.DTILowMax <= 0 || r.DTIMediumMax <= r.DTILowMax || r.DTIMediumMax >= 1 {
		return fmt.Errorf("%w: DTI bands must satisfy 0 < low_max < medium_max < 1",
			domain.ErrInvalidConfiguration)
	}
	if r.MultiplierLow <= 0 || r.MultiplierMedium <= 0 || r.MultiplierHigh <= 0 {
		return fmt.Errorf("%w: income multipliers must be positive",
			domain.ErrInvalidConfiguration)
	}
	if r.IncomeDeviationTolerance <= 0 || r.IncomeDeviationTolerance >= 1 {
		return fmt.Errorf("%w: income deviation tolerance %.2f outside (0,1)",
			domain.ErrInvalidConfiguration, r.IncomeDeviationTolerance)
	}
	if r.NameEditDistance < 0 || r.AddressEditDistance < 0 {
		return fmt.Errorf("%w: edit distance thresholds must be non-negative",
			domain.ErrInvalidConfiguration)
	}
	for _, d := range r.MandatoryDocuments {
		if !domain.KnownDocumentTypes[domain.DocumentType(d)] {
			return fmt.Errorf("%w: unknown mandatory document type %q",
				domain.ErrInvalidConfiguration, d)
		}
	}
	return nil
}

// Load reads configuration from environment variables with the RINSETU_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RINSETU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "rinsetu")
	v.SetDefault("db.password", "rinsetu_secret")
	v.SetDefault("db.name", "rinsetu_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "rinsetu")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "regex")
	v.SetDefault("extractor.primary.endpoint", "")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.max_retries", 2)
	v.SetDefault("extractor.primary.timeout_secs", 120)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.endpoint", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.max_retries", 2)
	v.SetDefault("extractor.secondary.timeout_secs", 120)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "ap-south-1")
	v.SetDefault("email.from_address", "noreply@rinsetu.in")
	v.SetDefault("email.from_name", "RinSetu")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Session defaults
	v.SetDefault("session.ttl", "2h")
	v.SetDefault("session.sweep_interval", "5m")

	// Rule table defaults
	v.SetDefault("rules.name_edit_distance", 2)
	v.SetDefault("rules.address_edit_distance", 2)
	v.SetDefault("rules.income_deviation_tolerance", 0.15)
	v.SetDefault("rules.weight_payment_history", 0.35)
	v.SetDefault("rules.weight_credit_utilization", 0.30)
	v.SetDefault("rules.weight_credit_age", 0.15)
	v.SetDefault("rules.weight_credit_mix", 0.10)
	v.SetDefault("rules.weight_inquiries", 0.10)
	v.SetDefault("rules.component_threshold", 0.70)
	v.SetDefault("rules.score_floor", 600)
	v.SetDefault("rules.score_excellent_min", 750)
	v.SetDefault("rules.score_good_min", 650)
	v.SetDefault("rules.dti_low_max", 0.30)
	v.SetDefault("rules.dti_medium_max", 0.50)
	v.SetDefault("rules.multiplier_low", 60)
	v.SetDefault("rules.multiplier_medium", 36)
	v.SetDefault("rules.multiplier_high", 18)
	v.SetDefault("rules.mandatory_documents", "aadhaar,pan")
	v.SetDefault("rules.require_income_proof", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                      "RINSETU_SERVER_PORT",
		"server.read_timeout":              "RINSETU_SERVER_READ_TIMEOUT",
		"server.write_timeout":             "RINSETU_SERVER_WRITE_TIMEOUT",
		"server.environment":               "RINSETU_SERVER_ENVIRONMENT",
		"db.host":                          "RINSETU_DB_HOST",
		"db.port":                          "RINSETU_DB_PORT",
		"db.user":                          "RINSETU_DB_USER",
		"db.password":                      "RINSETU_DB_PASSWORD",
		"db.name":                          "RINSETU_DB_NAME",
		"db.sslmode":                       "RINSETU_DB_SSLMODE",
		"db.max_open":                      "RINSETU_DB_MAX_OPEN",
		"db.max_idle":                      "RINSETU_DB_MAX_IDLE",
		"jwt.secret":                       "RINSETU_JWT_SECRET",
		"jwt.access_expiry":                "RINSETU_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":               "RINSETU_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                       "RINSETU_JWT_ISSUER",
		"log.level":                        "RINSETU_LOG_LEVEL",
		"log.format":                       "RINSETU_LOG_FORMAT",
		"cors.allowed_origins":             "RINSETU_CORS_ALLOWED_ORIGINS",
		"extractor.primary.provider":       "RINSETU_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.endpoint":       "RINSETU_EXTRACTOR_PRIMARY_ENDPOINT",
		"extractor.primary.api_key":        "RINSETU_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.max_retries":    "RINSETU_EXTRACTOR_PRIMARY_MAX_RETRIES",
		"extractor.primary.timeout_secs":   "RINSETU_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":     "RINSETU_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.endpoint":     "RINSETU_EXTRACTOR_SECONDARY_ENDPOINT",
		"extractor.secondary.api_key":      "RINSETU_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.max_retries":  "RINSETU_EXTRACTOR_SECONDARY_MAX_RETRIES",
		"extractor.secondary.timeout_secs": "RINSETU_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"email.provider":                   "RINSETU_EMAIL_PROVIDER",
		"email.region":                     "RINSETU_EMAIL_REGION",
		"email.from_address":               "RINSETU_EMAIL_FROM_ADDRESS",
		"email.from_name":                  "RINSETU_EMAIL_FROM_NAME",
		"email.frontend_url":               "RINSETU_EMAIL_FRONTEND_URL",
		"session.ttl":                      "RINSETU_SESSION_TTL",
		"session.sweep_interval":           "RINSETU_SESSION_SWEEP_INTERVAL",
		"rules.name_edit_distance":         "RINSETU_RULES_NAME_EDIT_DISTANCE",
		"rules.address_edit_distance":      "RINSETU_RULES_ADDRESS_EDIT_DISTANCE",
		"rules.income_deviation_tolerance": "RINSETU_RULES_INCOME_DEVIATION_TOLERANCE",
		"rules.weight_payment_history":     "RINSETU_RULES_WEIGHT_PAYMENT_HISTORY",
		"rules.weight_credit_utilization":  "RINSETU_RULES_WEIGHT_CREDIT_UTILIZATION",
		"rules.weight_credit_age":          "RINSETU_RULES_WEIGHT_CREDIT_AGE",
		"rules.weight_credit_mix":          "RINSETU_RULES_WEIGHT_CREDIT_MIX",
		"rules.weight_inquiries":           "RINSETU_RULES_WEIGHT_INQUIRIES",
		"rules.component_threshold":        "RINSETU_RULES_COMPONENT_THRESHOLD",
		"rules.score_floor":                "RINSETU_RULES_SCORE_FLOOR",
		"rules.score_excellent_min":        "RINSETU_RULES_SCORE_EXCELLENT_MIN",
		"rules.score_good_min":             "RINSETU_RULES_SCORE_GOOD_MIN",
		"rules.dti_low_max":                "RINSETU_RULES_DTI_LOW_MAX",
		"rules.dti_medium_max":             "RINSETU_RULES_DTI_MEDIUM_MAX",
		"rules.multiplier_low":             "RINSETU_RULES_MULTIPLIER_LOW",
		"rules.multiplier_medium":          "RINSETU_RULES_MULTIPLIER_MEDIUM",
		"rules.multiplier_high":            "RINSETU_RULES_MULTIPLIER_HIGH",
		"rules.mandatory_documents":        "RINSETU_RULES_MANDATORY_DOCUMENTS",
		"rules.require_income_proof":       "RINSETU_RULES_REQUIRE_INCOME_PROOF",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Comma-separated list values arrive as single strings from env.
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}
	if len(cfg.Rules.MandatoryDocuments) == 1 && strings.Contains(cfg.Rules.MandatoryDocuments[0], ",") {
		cfg.Rules.MandatoryDocuments = strings.Split(cfg.Rules.MandatoryDocuments[0], ",")
	}

	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
