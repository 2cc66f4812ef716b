package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"eventgate/internal/role"
	"eventgate/internal/session/lockout"
	"eventgate/pkg/platform/strings"
)

const devSigningKey = "dev-secret-key-change-in-production"

// Server captures process level configuration.
type Server struct {
	Addr            string        `yaml:"addr"`
	JWTSigningKey   string        `yaml:"jwt_signing_key"`
	SessionTTL      time.Duration `yaml:"session_ttl"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// PrivilegedEmailSuffixes are the "@domain." prefixes that make an
	// account an organizer.
	PrivilegedEmailSuffixes []string `yaml:"privileged_email_suffixes"`

	// DatabaseURL selects Postgres stores; empty keeps everything in memory.
	DatabaseURL string `yaml:"database_url"`
	// SnapshotTTL bounds how stale the event snapshot may get between
	// writes. Zero disables read-triggered reloads.
	SnapshotTTL time.Duration `yaml:"snapshot_ttl"`

	// Lockout throttles repeated login failures per email and client IP.
	Lockout lockout.Policy `yaml:"lockout"`

	Redis RedisConfig `yaml:"redis"`
	Kafka KafkaConfig `yaml:"kafka"`

	OTELEnabled  bool   `yaml:"otel_enabled"`
	OTELEndpoint string `yaml:"otel_endpoint"`
	LogLevel     string `yaml:"log_level"`
	LogFormat    string `yaml:"log_format"`
}

// RedisConfig configures the token revocation list backend.
type RedisConfig struct {
	URL          string        `yaml:"url"`
	PoolSize     int           `yaml:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// KafkaConfig configures the optional audit sink.
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers"`
	AuditTopic string   `yaml:"audit_topic"`
}

// Enabled reports whether audit events should be forwarded to Kafka.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// IsDevKey reports whether the insecure development signing key is in use.
func (s Server) IsDevKey() bool {
	return s.JWTSigningKey == devSigningKey
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Server {
	return Server{
		Addr:                    ":8080",
		JWTSigningKey:           devSigningKey,
		SessionTTL:              24 * time.Hour,
		ShutdownTimeout:         10 * time.Second,
		PrivilegedEmailSuffixes: role.DefaultPrivilegedSuffixes,
		SnapshotTTL:             15 * time.Second,
		Lockout:                 lockout.DefaultPolicy(),
		Redis: RedisConfig{
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka:     KafkaConfig{AuditTopic: "eventgate.audit"},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// FromEnv builds a Server config so main stays lean. Defaults are overlaid
// by the YAML file named in EVENTGATE_CONFIG, then by environment variables.
func FromEnv() (Server, error) {
	return load(os.LookupEnv)
}

func load(lookup func(string) (string, bool)) (Server, error) {
	cfg := Defaults()

	if path, ok := lookup("EVENTGATE_CONFIG"); ok && path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Server{}, err
		}
	}

	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok && v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = strings.SplitList(v)
		}
	}

	str("EVENTGATE_ADDR", &cfg.Addr)
	str("JWT_SIGNING_KEY", &cfg.JWTSigningKey)
	dur("SESSION_TTL", &cfg.SessionTTL)
	dur("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)
	list("PRIVILEGED_EMAIL_SUFFIXES", &cfg.PrivilegedEmailSuffixes)
	str("DATABASE_URL", &cfg.DatabaseURL)
	dur("SNAPSHOT_TTL", &cfg.SnapshotTTL)
	num("LOGIN_MAX_FAILURES", &cfg.Lockout.MaxFailures)
	dur("LOGIN_FAILURE_WINDOW", &cfg.Lockout.Window)
	dur("LOGIN_LOCK_DURATION", &cfg.Lockout.LockDuration)
	str("REDIS_URL", &cfg.Redis.URL)
	list("KAFKA_BROKERS", &cfg.Kafka.Brokers)
	str("AUDIT_TOPIC", &cfg.Kafka.AuditTopic)
	str("OTEL_EXPORTER_OTLP_ENDPOINT", &cfg.OTELEndpoint)
	str("LOG_LEVEL", &cfg.LogLevel)
	str("LOG_FORMAT", &cfg.LogFormat)
	if v, ok := lookup("OTEL_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("OTEL_ENABLED: %w", err))
		} else {
			cfg.OTELEnabled = b
		}
	}

	if err := errors.Join(errs...); err != nil {
		return Server{}, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func overlayFile(cfg *Server, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the server cannot run with.
func (s Server) Validate() error {
	var errs []error
	if s.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if s.JWTSigningKey == "" {
		errs = append(errs, errors.New("jwt signing key is required"))
	}
	if s.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if s.SnapshotTTL < 0 {
		errs = append(errs, errors.New("snapshot ttl must not be negative"))
	}
	if s.Lockout.MaxFailures <= 0 || s.Lockout.Window <= 0 || s.Lockout.LockDuration <= 0 {
		errs = append(errs, errors.New("lockout policy values must be positive"))
	}
	if s.Kafka.Enabled() && s.Kafka.AuditTopic == "" {
		errs = append(errs, errors.New("audit topic is required when kafka brokers are set"))
	}
	switch s.LogFormat {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log format must be json or text, got %q", s.LogFormat))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
