package config

import "fmt"

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"required,gte=1,lte=65535"`
	Mode           string   `mapstructure:"mode"`
	BaseURL        string   `mapstructure:"base_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Host            string `mapstructure:"host" validate:"required"`
	Port            int    `mapstructure:"port" validate:"required,gte=1,lte=65535"`
	Username        string `mapstructure:"username" validate:"required"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database" validate:"required"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	SMTPHost     string `mapstructure:"smtp_host"`
	SMTPPort     int    `mapstructure:"smtp_port"`
	SMTPUser     string `mapstructure:"smtp_user"`
	SMTPPassword string `mapstructure:"smtp_password"`
	FromAddress  string `mapstructure:"from_address" validate:"omitempty,email"`
	FromName     string `mapstructure:"from_name"`
}

// NotificationConfig controls how lifecycle notifications are delivered.
// AdminEmails is the admin fanout list for expiring/expired alerts.
type NotificationConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	AdminEmails   []string `mapstructure:"admin_emails" validate:"dive,email"`
	TemplatesPath string   `mapstructure:"templates_path"`
}

// BillingConfig holds the business timezone used by the daily jobs and the
// payment verifier endpoint.
type BillingConfig struct {
	Timezone           string `mapstructure:"timezone"`
	VerifierBaseURL    string `mapstructure:"verifier_base_url" validate:"omitempty,url"`
	VerifierAPIKey     string `mapstructure:"verifier_api_key"`
	VerifierTimeoutSec int    `mapstructure:"verifier_timeout_sec"`
}

// SchedulerConfig controls the lifecycle job timers.
type SchedulerConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// LockTTLMinutes bounds the Redis job lease so a crashed instance cannot
	// block the next tick forever.
	LockTTLMinutes int `mapstructure:"lock_ttl_minutes"`
}
