package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `yaml:"addr" json:"addr"`
	ReadHeaderTimeout Duration `yaml:"read_header_timeout" json:"read_header_timeout"`
	IdleTimeout       Duration `yaml:"idle_timeout" json:"idle_timeout"`
	ShutdownTimeout   Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
	MaxRequestBytes   int64    `yaml:"max_request_bytes" json:"max_request_bytes"`

	// AllowedOrigins feeds CORS. Empty means the local dev origins.
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins,omitempty"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" json:"jwt_secret,omitempty"`
	// Required rejects requests without a valid bearer token. When false, anonymous
	// requests run as the nil user and mastery is not persisted.
	Required bool `yaml:"required" json:"required"`
}

type ModelConfig struct {
	// Engine is one of "mock", "oai_http" or "gemini".
	Engine      string   `yaml:"engine" json:"engine"`
	Model       string   `yaml:"model" json:"model"`
	BaseURL     string   `yaml:"base_url" json:"base_url,omitempty"`
	APIKey      string   `yaml:"api_key" json:"api_key,omitempty"`
	Timeout     Duration `yaml:"timeout" json:"timeout,omitempty"`
	Temperature float64  `yaml:"temperature" json:"temperature"`

	// JSON schema handling for oai_http upstreams: none, guided_json, prompt or auto.
	JSONSchemaMode string `yaml:"json_schema_mode" json:"json_schema_mode,omitempty"`
	MaxRetries     int    `yaml:"max_retries" json:"max_retries,omitempty"`
}

type SearchConfig struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// Provider is "duckduckgo" or "none".
	Provider   string   `yaml:"provider" json:"provider"`
	Endpoint   string   `yaml:"endpoint" json:"endpoint,omitempty"`
	MaxResults int      `yaml:"max_results" json:"max_results"`
	Timeout    Duration `yaml:"timeout" json:"timeout"`
	CacheTTL   Duration `yaml:"cache_ttl" json:"cache_ttl"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite".
	Driver string `yaml:"driver" json:"driver"`
	DSN    string `yaml:"dsn" json:"dsn,omitempty"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr,omitempty"`
	Password string `yaml:"password" json:"password,omitempty"`
	DB       int    `yaml:"db" json:"db"`
}

type TelemetryConfig struct {
	OTelEnabled     bool    `yaml:"otel_enabled" json:"otel_enabled"`
	OTelEndpoint    string  `yaml:"otel_endpoint" json:"otel_endpoint,omitempty"`
	OTelSampleRatio float64 `yaml:"otel_sample_ratio" json:"otel_sample_ratio"`
	MetricsEnabled  bool    `yaml:"metrics_enabled" json:"metrics_enabled"`
	ServiceName     string  `yaml:"service_name" json:"service_name"`
}

type Config struct {
	Env       string          `yaml:"env" json:"env"`
	HTTP      HTTPConfig      `yaml:"http" json:"http"`
	Auth      AuthConfig      `yaml:"auth" json:"auth"`
	Model     ModelConfig     `yaml:"model" json:"model"`
	Search    SearchConfig    `yaml:"search" json:"search"`
	Database  DatabaseConfig  `yaml:"database" json:"database"`
	Redis     RedisConfig     `yaml:"redis" json:"redis"`
	Telemetry TelemetryConfig `yaml:"telemetry" json:"telemetry"`
}
