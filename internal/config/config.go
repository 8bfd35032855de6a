// AngelaMos | 2026
// config.go

package config

import (
	"fmt"
	"sync"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	Tiers     TiersConfig     `koanf:"tiers"`
	Providers ProvidersConfig `koanf:"providers"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	CORS      CORSConfig      `koanf:"cors"`
	Log       LogConfig       `koanf:"log"`
	Otel      OtelConfig      `koanf:"otel"`
}

type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"`
	UpgradeURL  string `koanf:"upgrade_url"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL             string        `koanf:"url"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type RedisConfig struct {
	URL          string `koanf:"url"`
	PoolSize     int    `koanf:"pool_size"`
	MinIdleConns int    `koanf:"min_idle_conns"`
}

// AuthConfig covers token verification only. Tokens are issued by the
// external identity service; this backend validates them against the
// issuer's public key.
type AuthConfig struct {
	PublicKeyPath string `koanf:"public_key_path"`
	Issuer        string `koanf:"issuer"`
	Audience      string `koanf:"audience"`
}

// TierConfig holds the capability flags and per-period limits for one
// subscription tier. A limit of -1 means unlimited.
type TierConfig struct {
	CoverLetters          bool     `koanf:"cover_letters"`
	VersionHistory        bool     `koanf:"version_history"`
	ResumeParsing         bool     `koanf:"resume_parsing"`
	PremiumTemplates      bool     `koanf:"premium_templates"`
	ATSDetailedInsights   bool     `koanf:"ats_detailed_insights"`
	WatermarkPDF          bool     `koanf:"watermark_pdf"`
	AICreditsPerMonth     int      `koanf:"ai_credits_per_month"`
	PDFDownloadsPerMonth  int      `koanf:"pdf_downloads_per_month"`
	ResumeCreationsPerDay int      `koanf:"resume_creations_per_day"`
	FreeTemplates         []string `koanf:"free_templates"`
}

type TiersConfig struct {
	Free TierConfig `koanf:"free"`
	Paid TierConfig `koanf:"paid"`
}

type ProviderConfig struct {
	ID      string        `koanf:"id"`
	Timeout time.Duration `koanf:"timeout"`
}

type ProvidersConfig struct {
	Default string           `koanf:"default"`
	Timeout time.Duration    `koanf:"timeout"`
	List    []ProviderConfig `koanf:"list"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
	Burst    int           `koanf:"burst"`
}

type CORSConfig struct {
	AllowedOrigins   []string `koanf:"allowed_origins"`
	AllowedMethods   []string `koanf:"allowed_methods"`
	AllowedHeaders   []string `koanf:"allowed_headers"`
	AllowCredentials bool     `koanf:"allow_credentials"`
	MaxAge           int      `koanf:"max_age"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

type OtelConfig struct {
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Enabled     bool    `koanf:"enabled"`
	Insecure    bool    `koanf:"insecure"`
	SampleRate  float64 `koanf:"sample_rate"`
}

var (
	cfg  *Config
	once sync.Once
)

func Load(configPath string) (*Config, error) {
	var loadErr error

	once.Do(func() {
		k := koanf.New(".")

		if err := loadDefaults(k); err != nil {
			loadErr = fmt.Errorf("load defaults: %w", err)
			return
		}

		if configPath != "" {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				loadErr = fmt.Errorf("load config file: %w", err)
				return
			}
		}

		if err := k.Load(env.Provider("", ".", envKeyReplacer), nil); err != nil {
			loadErr = fmt.Errorf("load env vars: %w", err)
			return
		}

		cfg = &Config{}
		if err := k.Unmarshal("", cfg); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}

		if err := validate(cfg); err != nil {
			loadErr = fmt.Errorf("validate config: %w", err)
			return
		}
	})

	if loadErr != nil {
		return nil, loadErr
	}

	return cfg, nil
}

func Get() *Config {
	if cfg == nil {
		panic("config not loaded: call Load() first")
	}
	return cfg
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"app.name":        "ResumeForge API",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.upgrade_url": "/settings/billing/upgrade",

		"server.host":             "0.0.0.0",
		"server.port":             8080,
		"server.read_timeout":     "30s",
		"server.write_timeout":    "30s",
		"server.idle_timeout":     "120s",
		"server.shutdown_timeout": "15s",

		"database.max_open_conns":     25,
		"database.max_idle_conns":     5,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"redis.pool_size":      10,
		"redis.min_idle_conns": 5,

		"auth.public_key_path": "keys/public.pem",
		"auth.issuer":          "resumeforge-identity",
		"auth.audience":        "resumeforge-api",

		"tiers.free.cover_letters":            false,
		"tiers.free.version_history":          false,
		"tiers.free.resume_parsing":           false,
		"tiers.free.premium_templates":        false,
		"tiers.free.ats_detailed_insights":    false,
		"tiers.free.watermark_pdf":            true,
		"tiers.free.ai_credits_per_month":     5,
		"tiers.free.pdf_downloads_per_month":  10,
		"tiers.free.resume_creations_per_day": 10,
		"tiers.free.free_templates": []string{
			"classic",
			"minimal",
		},

		"tiers.paid.cover_letters":            true,
		"tiers.paid.version_history":          true,
		"tiers.paid.resume_parsing":           true,
		"tiers.paid.premium_templates":        true,
		"tiers.paid.ats_detailed_insights":    true,
		"tiers.paid.watermark_pdf":            false,
		"tiers.paid.ai_credits_per_month":     -1,
		"tiers.paid.pdf_downloads_per_month":  -1,
		"tiers.paid.resume_creations_per_day": -1,

		"providers.default": "openai",
		"providers.timeout": "20s",

		"rate_limit.requests": 100,
		"rate_limit.window":   "1m",
		"rate_limit.burst":    20,

		"cors.allowed_origins": []string{"http://localhost:3000"},
		"cors.allowed_methods": []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
		},
		"cors.allowed_headers": []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		"cors.allow_credentials": true,
		"cors.max_age":           300,

		"log.level":  "info",
		"log.format": "json",

		"otel.enabled":      false,
		"otel.insecure":     true,
		"otel.sample_rate":  0.1,
		"otel.service_name": "resumeforge-api",
	}

	for key, value := range defaults {
		if err := k.Set(key, value); err != nil {
			return fmt.Errorf("set default %s: %w", key, err)
		}
	}

	return nil
}

var envKeyMap = map[string]string{
	"DATABASE_URL":                "database.url",
	"REDIS_URL":                   "redis.url",
	"ENVIRONMENT":                 "app.environment",
	"HOST":                        "server.host",
	"PORT":                        "server.port",
	"LOG_LEVEL":                   "log.level",
	"LOG_FORMAT":                  "log.format",
	"AUTH_PUBLIC_KEY_PATH":        "auth.public_key_path",
	"AUTH_ISSUER":                 "auth.issuer",
	"AUTH_AUDIENCE":               "auth.audience",
	"UPGRADE_URL":                 "app.upgrade_url",
	"PROVIDERS_DEFAULT":           "providers.default",
	"PROVIDERS_TIMEOUT":           "providers.timeout",
	"RATE_LIMIT_REQUESTS":         "rate_limit.requests",
	"RATE_LIMIT_WINDOW":           "rate_limit.window",
	"RATE_LIMIT_BURST":            "rate_limit.burst",
	"OTEL_ENDPOINT":               "otel.endpoint",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_INSECURE":               "otel.insecure",
	"OTEL_SAMPLE_RATE":            "otel.sample_rate",
}

func envKeyReplacer(s string) string {
	if mapped, ok := envKeyMap[s]; ok {
		return mapped
	}
	return ""
}

func validate(c *Config) error {
	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.Auth.PublicKeyPath == "" {
		return fmt.Errorf("AUTH_PUBLIC_KEY_PATH is required")
	}

	if c.CORS.AllowCredentials {
		for _, origin := range c.CORS.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf(
					"CORS wildcard '*' cannot be used with AllowCredentials",
				)
			}
		}
	}

	if c.App.Environment == "production" {
		if c.Otel.Enabled && c.Otel.Insecure {
			return fmt.Errorf("OTEL_INSECURE must be false in production")
		}
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server.read_timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server.write_timeout must be positive")
	}

	if err := validateTier("free", c.Tiers.Free); err != nil {
		return err
	}

	if err := validateTier("paid", c.Tiers.Paid); err != nil {
		return err
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be positive")
	}

	return nil
}

func validateTier(name string, t TierConfig) error {
	for field, n := range map[string]int{
		"ai_credits_per_month":     t.AICreditsPerMonth,
		"pdf_downloads_per_month":  t.PDFDownloadsPerMonth,
		"resume_creations_per_day": t.ResumeCreationsPerDay,
	} {
		if n < -1 {
			return fmt.Errorf(
				"tiers.%s.%s must be >= 0 or -1 for unlimited",
				name,
				field,
			)
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
