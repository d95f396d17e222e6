// Package config provides configuration loading for the HR gateway.
// Configuration sources (in priority order): env vars > config file > defaults.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://wd2-impl-services1.workday.com"
	DefaultTenant  = "microsoft_dpt6"

	workerSearchPath   = "svasireddy/COPILOT_CURRENTUSER?format=json"
	learningReportPath = "svasireddy/Required_Learning"
)

// Config holds all gateway configuration.
type Config struct {
	// Listen address (default ":8080")
	ListenAddr string `yaml:"listen_addr"`

	// Log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	Tracing TracingConfig `yaml:"tracing"`

	// Expose the MCP tool surface at /mcp.
	MCPEnabled bool `yaml:"mcp_enabled"`

	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Workday   WorkdayConfig   `yaml:"workday"`
}

// RateLimitConfig configures per-client request throttling.
type RateLimitConfig struct {
	// Zero disables throttling.
	RequestsPerMinute int `yaml:"requests_per_minute"`
	Burst             int `yaml:"burst"`
}

// TracingConfig configures span export to an OTLP gRPC collector.
type TracingConfig struct {
	// Collector host:port; empty disables tracing.
	Endpoint string `yaml:"endpoint,omitempty"`
	// Plaintext gRPC instead of TLS.
	Insecure bool `yaml:"insecure"`
	// Fraction of root traces sampled, in (0, 1]. Zero means sample everything.
	SampleRatio float64 `yaml:"sample_ratio,omitempty"`
	// Extra gRPC metadata sent with every export, e.g. collector API keys.
	Headers map[string]string `yaml:"headers,omitempty"`
}

// WorkdayConfig locates the HR backend. Any of the URL fields may be set
// explicitly; empty ones are derived from BaseURL and Tenant.
type WorkdayConfig struct {
	BaseURL string        `yaml:"base_url"`
	Tenant  string        `yaml:"tenant"`
	Timeout time.Duration `yaml:"timeout"`

	WorkerSearchURL              string `yaml:"worker_search_url,omitempty"`
	WorkersAPIURL                string `yaml:"workers_api_url,omitempty"`
	AbsenceAPIBase               string `yaml:"absence_api_base,omitempty"`
	CommonAPIBase                string `yaml:"common_api_base,omitempty"`
	LearningAPIBase              string `yaml:"learning_api_base,omitempty"`
	LearningAssignmentsReportURL string `yaml:"learning_assignments_report_url,omitempty"`
}

// Default returns configuration with sensible defaults.
func Default() Config {
	return Config{
		ListenAddr: ":8080",
		LogLevel:   "info",
		MCPEnabled: true,
		RateLimit: RateLimitConfig{
			RequestsPerMinute: 120,
			Burst:             30,
		},
		Workday: WorkdayConfig{
			BaseURL: DefaultBaseURL,
			Tenant:  DefaultTenant,
			Timeout: 30 * time.Second,
		},
	}
}

// Load reads configuration from a YAML file, then overlays environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)
	cfg.Workday = cfg.Workday.Resolve()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() (Config, error) {
	return Load("")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("HRAGENT_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("HRAGENT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("HRAGENT_OTLP_ENDPOINT"); v != "" {
		cfg.Tracing.Endpoint = v
	}
	if v := os.Getenv("HRAGENT_OTLP_INSECURE"); v != "" {
		cfg.Tracing.Insecure = v == "true" || v == "1"
	}
	if v := os.Getenv("HRAGENT_TRACE_SAMPLE_RATIO"); v != "" {
		if ratio, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Tracing.SampleRatio = ratio
		}
	}
	if v := os.Getenv("HRAGENT_MCP_ENABLED"); v != "" {
		cfg.MCPEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("HRAGENT_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.RequestsPerMinute = n
		}
	}

	w := &cfg.Workday
	if v := os.Getenv("WORKDAY_BASE_URL"); v != "" {
		w.BaseURL = v
	}
	if v := os.Getenv("WORKDAY_TENANT"); v != "" {
		w.Tenant = v
	}
	if v := os.Getenv("WORKDAY_HTTP_TIMEOUT"); v != "" {
		if secs, err := strconv.ParseFloat(v, 64); err == nil {
			w.Timeout = time.Duration(secs * float64(time.Second))
		}
	}
	if v := os.Getenv("WORKDAY_WORKER_SEARCH_URL"); v != "" {
		w.WorkerSearchURL = v
	}
	if v := os.Getenv("WORKDAY_WORKERS_API_URL"); v != "" {
		w.WorkersAPIURL = v
	}
	if v := os.Getenv("WORKDAY_ABSENCE_API_BASE"); v != "" {
		w.AbsenceAPIBase = v
	}
	if v := os.Getenv("WORKDAY_COMMON_API_BASE"); v != "" {
		w.CommonAPIBase = v
	}
	if v := os.Getenv("WORKDAY_LEARNING_API_BASE"); v != "" {
		w.LearningAPIBase = v
	}
	if v := os.Getenv("WORKDAY_LEARNING_ASSIGNMENTS_REPORT_URL"); v != "" {
		w.LearningAssignmentsReportURL = v
	}
}

// Resolve fills every empty endpoint from BaseURL and Tenant.
func (w WorkdayConfig) Resolve() WorkdayConfig {
	base := strings.TrimRight(strings.TrimSpace(w.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	tenant := strings.TrimSpace(w.Tenant)
	if tenant == "" {
		tenant = DefaultTenant
	}
	w.BaseURL = base
	w.Tenant = tenant
	if w.Timeout <= 0 {
		w.Timeout = 30 * time.Second
	}

	if w.WorkerSearchURL == "" {
		w.WorkerSearchURL = fmt.Sprintf("%s/ccx/service/customreport2/%s/%s", base, tenant, workerSearchPath)
	}
	if w.WorkersAPIURL == "" {
		w.WorkersAPIURL = fmt.Sprintf("%s/ccx/api/absenceManagement/v1/%s/workers", base, tenant)
	}
	if w.AbsenceAPIBase == "" {
		w.AbsenceAPIBase = fmt.Sprintf("%s/ccx/api/absenceManagement/v1/%s", base, tenant)
	}
	if w.CommonAPIBase == "" {
		w.CommonAPIBase = fmt.Sprintf("%s/ccx/api/common/v1/%s", base, tenant)
	}
	if w.LearningAPIBase == "" {
		w.LearningAPIBase = fmt.Sprintf("%s/ccx/api/learning/v1/%s", base, tenant)
	}
	if w.LearningAssignmentsReportURL == "" {
		w.LearningAssignmentsReportURL = fmt.Sprintf("%s/ccx/service/customreport2/%s/%s?format=json", base, tenant, learningReportPath)
	}
	return w
}

// Validate rejects configurations the gateway cannot serve with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("config: listen_addr must be set")
	}
	u, err := url.Parse(c.Workday.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: workday.base_url must be an absolute URL, got %q", c.Workday.BaseURL)
	}
	if c.Workday.Timeout <= 0 {
		return fmt.Errorf("config: workday.timeout must be positive")
	}
	if c.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("config: rate_limit.requests_per_minute must not be negative")
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("config: tracing.sample_ratio must be between 0 and 1, got %v", c.Tracing.SampleRatio)
	}
	return nil
}
