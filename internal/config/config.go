package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures the full configuration surface for the application.
type Config struct {
	App           AppConfig           `mapstructure:"app"`
	HTTP          HTTPConfig          `mapstructure:"http"`
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Scylla        ScyllaConfig        `mapstructure:"scylla"`
	Kafka         KafkaConfig         `mapstructure:"kafka"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Telemetry     TelemetryConfig     `mapstructure:"telemetry"`
	BusinessHours BusinessHoursConfig `mapstructure:"business_hours"`
	Timezone      TimezoneConfig      `mapstructure:"timezone"`
	Retry         RetryConfig         `mapstructure:"retry"`
	Dial          DialConfig          `mapstructure:"dial"`
}

type AppConfig struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type HTTPConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type PostgresConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

type ScyllaConfig struct {
	Hosts             []string      `mapstructure:"hosts"`
	Port              int           `mapstructure:"port"`
	Keyspace          string        `mapstructure:"keyspace"`
	Consistency       string        `mapstructure:"consistency"`
	Timeout           time.Duration `mapstructure:"timeout"`
	DisableInitSchema bool          `mapstructure:"disable_init_schema"`
}

type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	ClientID        string        `mapstructure:"client_id"`
	EndOfCallTopic  string        `mapstructure:"end_of_call_topic"`
	DialTopic       string        `mapstructure:"dial_topic"`
	FallbackTopic   string        `mapstructure:"fallback_topic"`
	ConsumerGroupID string        `mapstructure:"consumer_group_id"`
	CommitInterval  time.Duration `mapstructure:"commit_interval"`
}

type RedisConfig struct {
	Address      string        `mapstructure:"address"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	MaxRetries   int           `mapstructure:"max_retries"`
}

type TelemetryConfig struct {
	Endpoint        string        `mapstructure:"endpoint"`
	ServiceName     string        `mapstructure:"service_name"`
	SampleRatio     float64       `mapstructure:"sample_ratio"`
	TracingEnabled  bool          `mapstructure:"tracing_enabled"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// BusinessHoursConfig defines the daily calling window applied in each
// contact's local timezone. Weekdays use ISO numbering, Monday=1 .. Sunday=7.
type BusinessHoursConfig struct {
	Start    string `mapstructure:"start"`
	End      string `mapstructure:"end"`
	Weekdays []int  `mapstructure:"weekdays"`
}

// TimezoneConfig controls phone-prefix timezone resolution. Overrides map
// dialing prefixes (without the leading plus) onto IANA zone names and take
// precedence over the built-in table.
type TimezoneConfig struct {
	DefaultZone string            `mapstructure:"default_zone"`
	Overrides   map[string]string `mapstructure:"overrides"`
}

// RetryConfig declares the retry policy table. MaxAttempts is a single global
// ceiling across all end reasons.
type RetryConfig struct {
	MaxAttempts int                 `mapstructure:"max_attempts"`
	Policies    []RetryPolicyConfig `mapstructure:"policies"`
}

// RetryPolicyConfig maps one end-of-call reason onto its delay schedule and
// fallback action. A "default" reason entry is required.
type RetryPolicyConfig struct {
	Reason        string `mapstructure:"reason"`
	DelaysMinutes []int  `mapstructure:"delays_minutes"`
	Fallback      string `mapstructure:"fallback"`
}

type DialConfig struct {
	ProviderName   string        `mapstructure:"provider_name"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	InFlightTTL    time.Duration `mapstructure:"in_flight_ttl"`
}

// Load reads configuration from file and environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvPrefix("INTAKE")
	v.SetEnvKeyReplacer(NewEnvReplacer())

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate performs structural checks that do not depend on component
// construction. Engine-level invariants (window ordering, prefix uniqueness,
// delay schedules) are enforced by the component constructors, which the
// bootstrap also treats as fatal.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("config: http port %d out of range", c.HTTP.Port)
	}
	if c.Timezone.DefaultZone == "" {
		return fmt.Errorf("config: timezone default_zone is required")
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("config: retry max_attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	if len(c.Retry.Policies) == 0 {
		return fmt.Errorf("config: at least one retry policy entry is required")
	}
	return nil
}

// NewEnvReplacer standardizes environment variable names.
func NewEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}
