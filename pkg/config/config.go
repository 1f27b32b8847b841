package config

import (
	"os"
	"strconv"
	"strings"
)

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port         string `yaml:"port"`
	StaticDir    string `yaml:"static_dir"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`

	// TrustedProxies are the CIDRs/IPs whose X-Forwarded-For is believed. Empty trusts none.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// MailConfig outbound mail settings shared by every transport
type MailConfig struct {
	Transport string        `yaml:"transport"` // smtp / ses / log
	From      string        `yaml:"from"`
	To        string        `yaml:"to"`
	SMTP      SMTPConfig    `yaml:"smtp"`
	SES       SESConfig     `yaml:"ses"`
	Breaker   BreakerConfig `yaml:"breaker"`
}

// SMTPConfig SMTP account used to relay contact mail
type SMTPConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	TLSPolicy      string `yaml:"tls_policy"` // mandatory / opportunistic / none
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// SESConfig AWS SES settings
type SESConfig struct {
	Region string `yaml:"region"`
}

// BreakerConfig circuit breaker around the mail transport; FailureThreshold 0 disables it
type BreakerConfig struct {
	FailureThreshold    int `yaml:"failure_threshold"`
	SuccessThreshold    int `yaml:"success_threshold"`
	TimeoutSeconds      int `yaml:"timeout_seconds"`
	HalfOpenMaxRequests int `yaml:"half_open_max_requests"`
}

// MQConfig message queue settings; empty URL disables event publishing
type MQConfig struct {
	URL string `yaml:"url"`
}

// RedisConfig Redis settings; empty Addr disables rate limiting
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// RateLimitConfig per-client submission limit
type RateLimitConfig struct {
	MaxRequests   int64 `yaml:"max_requests"`
	WindowSeconds int   `yaml:"window_seconds"`
}

// OTelConfig OpenTelemetry exporter settings
type OTelConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Endpoint    string `yaml:"endpoint"`
	ServiceName string `yaml:"service_name"`
}

// LogConfig logger settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// OverrideServerFromEnv overrides server settings from environment variables
func OverrideServerFromEnv(cfg *ServerConfig) {
	if port := os.Getenv("SERVER_PORT"); port != "" {
		cfg.Port = port
	}
	if dir := os.Getenv("STATIC_DIR"); dir != "" {
		cfg.StaticDir = dir
	}
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		cfg.TrustedProxies = splitList(proxies)
	}
}

// splitList parses a comma separated env value, skipping empty entries
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// OverrideMailFromEnv overrides mail settings from environment variables.
// EMAIL_SERVER_USER doubles as the sending address when MAIL_FROM is not set.
func OverrideMailFromEnv(cfg *MailConfig) {
	if transport := os.Getenv("MAIL_TRANSPORT"); transport != "" {
		cfg.Transport = transport
	}
	if user := os.Getenv("EMAIL_SERVER_USER"); user != "" {
		cfg.SMTP.Username = user
		cfg.From = user
	}
	if from := os.Getenv("MAIL_FROM"); from != "" {
		cfg.From = from
	}
	if password := os.Getenv("EMAIL_SERVER_PASSWORD"); password != "" {
		cfg.SMTP.Password = password
	}
	if to := os.Getenv("EMAIL_TO"); to != "" {
		cfg.To = to
	}
	if host := os.Getenv("SMTP_HOST"); host != "" {
		cfg.SMTP.Host = host
	}
	if port := os.Getenv("SMTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.SMTP.Port = p
		}
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		cfg.SES.Region = region
	}
}

// OverrideMQFromEnv overrides MQ settings from environment variables
func OverrideMQFromEnv(cfg *MQConfig) {
	if url := os.Getenv("MQ_URL"); url != "" {
		cfg.URL = url
	}
}

// OverrideRedisFromEnv overrides Redis settings from environment variables
func OverrideRedisFromEnv(cfg *RedisConfig) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Addr = addr
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		cfg.Password = password
	}
}

// OverrideOTelFromEnv overrides OpenTelemetry settings from environment variables
func OverrideOTelFromEnv(cfg *OTelConfig) {
	if endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"); endpoint != "" {
		cfg.Endpoint = endpoint
		cfg.Enabled = true
	}
}
