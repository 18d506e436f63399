package internal

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	Server        ServerConfig        `mapstructure:"http_server"`
	Database      DatabaseConfig      `mapstructure:"database"`
	Leave         LeaveConfig         `mapstructure:"leave"`
	Notification  NotificationConfig  `mapstructure:"notification"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	BaseURL        string        `mapstructure:"base_url"`
	AllowedOrigins string        `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	Source          string        `mapstructure:"source"`
}

// LeaveConfig drives the vacation business rules: the size of the one-time
// annual grant and the tenure an employee needs before receiving it.
type LeaveConfig struct {
	DefaultGrantDays  int           `mapstructure:"default_grant_days"`
	TenureMonths      int           `mapstructure:"tenure_months"`
	SchedulerInterval time.Duration `mapstructure:"scheduler_interval"`
	TxRetryAttempts   int           `mapstructure:"tx_retry_attempts"`
}

type NotificationConfig struct {
	Email    EmailConfig    `mapstructure:"email"`
	WhatsApp WhatsAppConfig `mapstructure:"whatsapp"`
}

type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
}

type WhatsAppConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	APIURL  string        `mapstructure:"api_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type ObservabilityConfig struct {
	Logging LoggingConfig `mapstructure:"logging"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (c *Config) Validate() error {
	var errs []string

	if err := c.Server.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("server config: %v", err))
	}

	if err := c.Database.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("database config: %v", err))
	}

	if err := c.Leave.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("leave config: %v", err))
	}

	if err := c.Notification.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("notification config: %v", err))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}

	return nil
}

func (c *ServerConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.AllowedOrigins != "" {
		origins := strings.Split(c.AllowedOrigins, ",")
		for _, origin := range origins {
			origin = strings.TrimSpace(origin)
			if origin == "*" {
				continue
			}
			if _, err := url.Parse(origin); err != nil {
				return fmt.Errorf("invalid allowed origin %s: %w", origin, err)
			}
		}
	}
	return nil
}

func (c *DatabaseConfig) Validate() error {
	if c.Source == "" {
		return errors.New("database source is required")
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		return errors.New("max_idle_conns cannot be greater than max_open_conns")
	}
	return nil
}

func (c *DatabaseConfig) GetDSN() string {
	return c.Source
}

func (c *LeaveConfig) Validate() error {
	if c.DefaultGrantDays <= 0 {
		return errors.New("default_grant_days must be positive")
	}
	if c.TenureMonths <= 0 {
		return errors.New("tenure_months must be positive")
	}
	return nil
}

// RetryAttempts bounds retries on transient transaction conflicts.
func (c *LeaveConfig) RetryAttempts() int {
	if c.TxRetryAttempts <= 0 {
		return 3
	}
	return c.TxRetryAttempts
}

func (c *NotificationConfig) Validate() error {
	if c.Email.Enabled {
		if c.Email.SMTPHost == "" || c.Email.From == "" {
			return errors.New("email notifications enabled but smtp_host or from is missing")
		}
	}
	if c.WhatsApp.Enabled {
		if c.WhatsApp.APIURL == "" {
			return errors.New("whatsapp notifications enabled but api_url is missing")
		}
		if _, err := url.Parse(c.WhatsApp.APIURL); err != nil {
			return fmt.Errorf("invalid whatsapp api_url: %w", err)
		}
	}
	return nil
}
