// Package config provides configuration loading and validation for the
// themecontrast CLI and server. It uses koanf to merge environment variables
// with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/onnwee/themecontrast/internal/report"
	"github.com/onnwee/themecontrast/internal/tracing"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "THEMECONTRAST_"

// Config holds all configuration values.
type Config struct {
	// Runtime
	Env      string `koanf:"env"`
	LogLevel string `koanf:"log_level"`

	// Audit runs
	Workers int    `koanf:"workers"`
	Format  string `koanf:"format"`
	Suggest bool   `koanf:"suggest"`

	// Server
	Port             int      `koanf:"port"`
	MetricsEnabled   bool     `koanf:"metrics_enabled"`
	CORSOrigins      []string `koanf:"cors_origins"`
	ProfilingEnabled bool     `koanf:"profiling_enabled"`

	// Tracing
	TracingEnabled    bool    `koanf:"tracing_enabled"`
	TracingExporter   string  `koanf:"tracing_exporter"`
	OTLPEndpoint      string  `koanf:"otlp_endpoint"`
	TracingSampleRate float64 `koanf:"tracing_sample_rate"`
	TracingInsecure   bool    `koanf:"tracing_insecure"`
}

// Configuration validation errors.
var (
	ErrInvalidPort       = errors.New("port must be a valid integer between 1 and 65535")
	ErrInvalidWorkers    = errors.New("workers must be at least 1")
	ErrInvalidFormat     = errors.New("format must be one of text, markdown, json, cbor")
	ErrInvalidSampleRate = errors.New("tracing_sample_rate must be between 0 and 1")
	ErrInvalidExporter   = errors.New("tracing_exporter must be otlp-grpc or otlp-http")
	ErrInvalidBool       = errors.New("value must be a boolean")
	ErrInvalidNumber     = errors.New("value must be a number")
)

// Default values.
const (
	DefaultEnv               = "development"
	DefaultLogLevel          = "info"
	DefaultWorkers           = 4
	DefaultFormat            = "text"
	DefaultPort              = 8080
	DefaultMetricsEnabled    = true
	DefaultTracingExporter   = tracing.ExporterOTLPHTTP
	DefaultOTLPEndpoint      = "localhost:4318"
	DefaultTracingSampleRate = 1.0
)

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	collect := func(err error) {
		if err != nil {
			loadErrs = append(loadErrs, err)
		}
	}

	port, err := getEnvIntOrDefault("PORT", k.Int("port"), DefaultPort)
	collect(err)
	workers, err := getEnvIntOrDefault("WORKERS", k.Int("workers"), DefaultWorkers)
	collect(err)
	sampleRate, err := getEnvFloatOrDefault("TRACING_SAMPLE_RATE", k, "tracing_sample_rate", DefaultTracingSampleRate)
	collect(err)

	suggest, err := getEnvBoolOrDefault("SUGGEST", k, "suggest", false)
	collect(err)
	metricsEnabled, err := getEnvBoolOrDefault("METRICS_ENABLED", k, "metrics_enabled", DefaultMetricsEnabled)
	collect(err)
	profilingEnabled, err := getEnvBoolOrDefault("PROFILING_ENABLED", k, "profiling_enabled", false)
	collect(err)
	tracingEnabled, err := getEnvBoolOrDefault("TRACING_ENABLED", k, "tracing_enabled", false)
	collect(err)
	tracingInsecure, err := getEnvBoolOrDefault("TRACING_INSECURE", k, "tracing_insecure", false)
	collect(err)

	cfg := &Config{
		Env:               getEnvOrDefault("ENV", k.String("env"), DefaultEnv),
		LogLevel:          getEnvOrDefault("LOG_LEVEL", k.String("log_level"), DefaultLogLevel),
		Workers:           workers,
		Format:            getEnvOrDefault("FORMAT", k.String("format"), DefaultFormat),
		Suggest:           suggest,
		Port:              port,
		MetricsEnabled:    metricsEnabled,
		CORSOrigins:       getEnvListOrKoanf("CORS_ORIGINS", k, "cors_origins"),
		ProfilingEnabled:  profilingEnabled,
		TracingEnabled:    tracingEnabled,
		TracingExporter:   getEnvOrDefault("TRACING_EXPORTER", k.String("tracing_exporter"), DefaultTracingExporter),
		OTLPEndpoint:      getEnvOrDefault("OTLP_ENDPOINT", k.String("otlp_endpoint"), DefaultOTLPEndpoint),
		TracingSampleRate: sampleRate,
		TracingInsecure:   tracingInsecure,
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

func lookupEnv(key string) (string, bool) {
	val := os.Getenv(EnvPrefix + key)
	return val, val != ""
}

// getEnvOrDefault returns the environment variable value if set, otherwise the koanf value, or default.
func getEnvOrDefault(envKey string, koanfVal string, defaultVal string) string {
	if val, ok := lookupEnv(envKey); ok {
		return val
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val, ok := lookupEnv(envKey); ok {
		i, err := strconv.Atoi(val)
		if err != nil {
			return defaultVal, fmt.Errorf("%s%s=%q: %w", EnvPrefix, envKey, val, ErrInvalidNumber)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set, otherwise the koanf value, or default.
// A file value of 0 is honored, unlike the integer helpers, since a zero sample rate is meaningful.
func getEnvFloatOrDefault(envKey string, k *koanf.Koanf, koanfKey string, defaultVal float64) (float64, error) {
	if val, ok := lookupEnv(envKey); ok {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return defaultVal, fmt.Errorf("%s%s=%q: %w", EnvPrefix, envKey, val, ErrInvalidNumber)
		}
		return f, nil
	}
	if k.Exists(koanfKey) {
		return k.Float64(koanfKey), nil
	}
	return defaultVal, nil
}

// getEnvBoolOrDefault accepts true/1/yes/on and false/0/no/off in the environment.
func getEnvBoolOrDefault(envKey string, k *koanf.Koanf, koanfKey string, defaultVal bool) (bool, error) {
	result := defaultVal
	if k.Exists(koanfKey) {
		result = k.Bool(koanfKey)
	}
	if val, ok := lookupEnv(envKey); ok {
		switch strings.ToLower(val) {
		case "true", "1", "yes", "on":
			return true, nil
		case "false", "0", "no", "off":
			return false, nil
		default:
			return result, fmt.Errorf("%s%s=%q: %w", EnvPrefix, envKey, val, ErrInvalidBool)
		}
	}
	return result, nil
}

// getEnvListOrKoanf splits a comma-separated environment variable, falling
// back to a YAML list or comma-separated string in the file.
func getEnvListOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) []string {
	if val, ok := lookupEnv(envKey); ok {
		return splitList(val)
	}
	if list := k.Strings(koanfKey); len(list) > 0 {
		return list
	}
	return splitList(k.String(koanfKey))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate checks that configuration values are in range.
// Returns a slice of validation errors (empty if valid).
func (c *Config) Validate() []error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidPort, c.Port))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w, got %d", ErrInvalidWorkers, c.Workers))
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		errs = append(errs, fmt.Errorf("%w, got %q", ErrInvalidFormat, c.Format))
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		errs = append(errs, fmt.Errorf("%w, got %v", ErrInvalidSampleRate, c.TracingSampleRate))
	}
	if c.TracingEnabled {
		switch c.TracingExporter {
		case tracing.ExporterOTLPGRPC, tracing.ExporterOTLPHTTP:
		default:
			errs = append(errs, fmt.Errorf("%w, got %q", ErrInvalidExporter, c.TracingExporter))
		}
	}

	return errs
}

// TracingConfig converts the tracing keys into a tracing.Config.
func (c *Config) TracingConfig(version string) tracing.Config {
	return tracing.Config{
		ServiceName:  tracing.DefaultServiceName,
		Version:      version,
		Enabled:      c.TracingEnabled,
		Environment:  c.Env,
		ExporterType: c.TracingExporter,
		OTLPEndpoint: c.OTLPEndpoint,
		SamplingRate: c.TracingSampleRate,
		InsecureMode: c.TracingInsecure,
	}
}

// LogSummary returns a summary of the configuration suitable for logging.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"env":                 c.Env,
		"log_level":           c.LogLevel,
		"workers":             strconv.Itoa(c.Workers),
		"format":              c.Format,
		"suggest":             strconv.FormatBool(c.Suggest),
		"port":                strconv.Itoa(c.Port),
		"metrics_enabled":     strconv.FormatBool(c.MetricsEnabled),
		"cors_origins":        strings.Join(c.CORSOrigins, ","),
		"profiling_enabled":   strconv.FormatBool(c.ProfilingEnabled),
		"tracing_enabled":     strconv.FormatBool(c.TracingEnabled),
		"tracing_exporter":    c.TracingExporter,
		"otlp_endpoint":       maskEndpoint(c.OTLPEndpoint),
		"tracing_sample_rate": strconv.FormatFloat(c.TracingSampleRate, 'f', -1, 64),
		"tracing_insecure":    strconv.FormatBool(c.TracingInsecure),
	}
}

// maskEndpoint hides credentials embedded in a collector URL.
func maskEndpoint(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	rest, scheme := s, ""
	if schemeEnd != -1 {
		scheme, rest = s[:schemeEnd+3], s[schemeEnd+3:]
	}

	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s
	}
	user := rest[:atIndex]
	if colon := strings.Index(user, ":"); colon != -1 {
		user = user[:colon]
	}
	return scheme + user + ":****" + rest[atIndex:]
}
