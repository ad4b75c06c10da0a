package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/learning-planner/internal/platform/envutil"
)

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: duration must be a scalar", node.Line)
	}
	if node.Tag == "!!int" {
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		d.Duration = time.Duration(n)
		return nil
	}
	if node.Tag == "!!null" {
		d.Duration = 0
		return nil
	}
	return d.parse(node.Value)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.Duration.String())), nil
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   1 << 20,
		},
		Model: ModelConfig{
			Engine:      "mock",
			Model:       "gemini-2.5-flash",
			Timeout:     Duration{Duration: 60 * time.Second},
			Temperature: 0,
		},
		Search: SearchConfig{
			Enabled:    true,
			Provider:   "duckduckgo",
			MaxResults: 8,
			Timeout:    Duration{Duration: 10 * time.Second},
			CacheTTL:   Duration{Duration: 6 * time.Hour},
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:learning_planner.db?_foreign_keys=on",
		},
		Telemetry: TelemetryConfig{
			OTelSampleRatio: 1,
			MetricsEnabled:  true,
			ServiceName:     "learning-planner",
		},
	}
}

// Load builds the config from defaults, then an optional YAML file, then environment overrides.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("LP_CONFIG_PATH"))
	if cfgPath == "" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, "config", "config.yaml")
			if _, err := os.Stat(p); err == nil {
				cfgPath = p
			}
		}
	}
	if cfgPath != "" {
		b, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, err
		}
		if err := Parse(b, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML over cfg; keys absent from b keep their current values.
func Parse(b []byte, cfg *Config) error {
	return yaml.Unmarshal(b, cfg)
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("LP_HTTP_ADDR", cfg.HTTP.Addr)
	if v := envutil.String("LP_ALLOWED_ORIGINS", ""); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}

	cfg.Auth.JWTSecret = envutil.String("JWT_SECRET_KEY", cfg.Auth.JWTSecret)
	cfg.Auth.Required = envutil.Bool("LP_AUTH_REQUIRED", cfg.Auth.Required)

	cfg.Model.Engine = envutil.String("LP_MODEL_ENGINE", cfg.Model.Engine)
	cfg.Model.Model = envutil.String("LP_MODEL", cfg.Model.Model)
	cfg.Model.BaseURL = envutil.String("LP_MODEL_BASE_URL", cfg.Model.BaseURL)
	cfg.Model.APIKey = envutil.String("GEMINI_API_KEY", cfg.Model.APIKey)
	cfg.Model.APIKey = envutil.String("LP_MODEL_API_KEY", cfg.Model.APIKey)
	cfg.Model.Timeout.Duration = envutil.Duration("LP_MODEL_TIMEOUT", cfg.Model.Timeout.Duration)
	cfg.Model.Temperature = envutil.Float("LP_MODEL_TEMPERATURE", cfg.Model.Temperature)

	cfg.Search.Enabled = envutil.Bool("LP_SEARCH_ENABLED", cfg.Search.Enabled)
	cfg.Search.Provider = envutil.String("LP_SEARCH_PROVIDER", cfg.Search.Provider)
	cfg.Search.CacheTTL.Duration = envutil.Duration("LP_SEARCH_CACHE_TTL", cfg.Search.CacheTTL.Duration)

	cfg.Database.Driver = envutil.String("LP_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = envutil.String("DATABASE_URL", cfg.Database.DSN)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB)

	cfg.Telemetry.OTelEnabled = envutil.Bool("OTEL_ENABLED", cfg.Telemetry.OTelEnabled)
	cfg.Telemetry.OTelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTelEndpoint)
	cfg.Telemetry.OTelSampleRatio = envutil.Float("OTEL_SAMPLE_RATIO", cfg.Telemetry.OTelSampleRatio)
	cfg.Telemetry.MetricsEnabled = envutil.Bool("LP_METRICS_ENABLED", cfg.Telemetry.MetricsEnabled)
	cfg.Telemetry.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
}

func (cfg *Config) normalize() error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 1 << 20
	}
	if cfg.Auth.Required && strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return errors.New("auth.required needs auth.jwt_secret")
	}

	m := &cfg.Model
	m.Engine = strings.ToLower(strings.TrimSpace(m.Engine))
	m.BaseURL = strings.TrimRight(strings.TrimSpace(m.BaseURL), "/")
	switch m.Engine {
	case "mock":
	case "openai_http", "oai_http":
		m.Engine = "oai_http"
		if m.BaseURL == "" {
			return errors.New("model.engine=oai_http needs model.base_url")
		}
		m.JSONSchemaMode = strings.ToLower(strings.TrimSpace(m.JSONSchemaMode))
		switch m.JSONSchemaMode {
		case "":
			m.JSONSchemaMode = "auto"
		case "auto", "none", "guided_json", "prompt":
		default:
			return fmt.Errorf("invalid model.json_schema_mode=%q", m.JSONSchemaMode)
		}
	case "gemini":
		if strings.TrimSpace(m.APIKey) == "" {
			return errors.New("model.engine=gemini needs model.api_key or GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown model.engine %q", m.Engine)
	}
	if strings.TrimSpace(m.Model) == "" {
		return errors.New("model.model is required")
	}
	if m.MaxRetries < 0 {
		return errors.New("model.max_retries must be >= 0")
	}
	if m.Timeout.Duration <= 0 {
		m.Timeout = Duration{Duration: 60 * time.Second}
	}

	s := &cfg.Search
	s.Provider = strings.ToLower(strings.TrimSpace(s.Provider))
	switch s.Provider {
	case "", "none":
		s.Provider = "none"
		s.Enabled = false
	case "duckduckgo":
	default:
		return fmt.Errorf("unknown search.provider %q", s.Provider)
	}
	if s.MaxResults <= 0 {
		s.MaxResults = 8
	}
	if s.CacheTTL.Duration < 0 {
		return errors.New("search.cache_ttl must be >= 0")
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Database.Driver)) {
	case "postgres", "postgresql":
		cfg.Database.Driver = "postgres"
	case "sqlite", "":
		cfg.Database.Driver = "sqlite"
	default:
		return fmt.Errorf("unknown database.driver %q", cfg.Database.Driver)
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return errors.New("database.dsn is required")
	}

	t := &cfg.Telemetry
	if t.OTelSampleRatio < 0 || t.OTelSampleRatio > 1 {
		return fmt.Errorf("telemetry.otel_sample_ratio must be within [0,1], got %v", t.OTelSampleRatio)
	}
	if strings.TrimSpace(t.ServiceName) == "" {
		t.ServiceName = "learning-planner"
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
