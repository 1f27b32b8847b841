package config

import (
	"errors"
	"fmt"
	"strings"

	"portfolio-relay/pkg/config"
)

type Config struct {
	Server    config.ServerConfig    `yaml:"server"`
	Log       config.LogConfig       `yaml:"log"`
	Mail      config.MailConfig      `yaml:"mail"`
	Redis     config.RedisConfig     `yaml:"redis"`
	RateLimit config.RateLimitConfig `yaml:"ratelimit"`
	MQ        config.MQConfig        `yaml:"mq"`
	OTel      config.OTelConfig      `yaml:"otel"`
	Relay     struct {
		StrictEmail      bool `yaml:"strict_email"`
		MaxMessageLength int  `yaml:"max_message_length"`
	} `yaml:"relay"`
}

// Load reads layered config for env from dir and applies environment overrides.
// Empty env or dir fall back to CONFIG_ENV / CONFIG_DIR.
func Load(env, dir string) (*Config, error) {
	if env == "" {
		env = config.GetConfigEnv()
	}
	if dir == "" {
		dir = config.GetEnv("CONFIG_DIR", "config")
	}

	var cfg Config
	if err := config.Decode(env, dir, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config.OverrideServerFromEnv(&cfg.Server)
	config.OverrideMailFromEnv(&cfg.Mail)
	config.OverrideRedisFromEnv(&cfg.Redis)
	config.OverrideMQFromEnv(&cfg.MQ)
	config.OverrideOTelFromEnv(&cfg.OTel)

	if cfg.Server.Port == "" {
		cfg.Server.Port = ":8080"
	}
	if !strings.Contains(cfg.Server.Port, ":") {
		cfg.Server.Port = ":" + cfg.Server.Port
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		cfg.Server.MaxBodyBytes = 64 << 10
	}
	if cfg.RateLimit.WindowSeconds <= 0 {
		cfg.RateLimit.WindowSeconds = 600
	}

	return &cfg, nil
}

// Validate checks what the relay needs before serving traffic
func (c *Config) Validate() error {
	var errs []error
	if c.Mail.To == "" {
		errs = append(errs, errors.New("mail.to (EMAIL_TO) is required"))
	}
	if c.Mail.From == "" && !strings.EqualFold(c.Mail.Transport, "log") {
		errs = append(errs, errors.New("mail.from (EMAIL_SERVER_USER or MAIL_FROM) is required"))
	}
	if strings.EqualFold(c.Mail.Transport, "smtp") && c.Mail.SMTP.Host == "" {
		errs = append(errs, errors.New("mail.smtp.host (SMTP_HOST) is required"))
	}
	return errors.Join(errs...)
}
