package config

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/BRB-QueueMonitor/internal/domain"
)

// Config конфигурация сервиса, загружается из config.toml
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Messenger MessengerConfig `toml:"messenger"`
	Scheduler SchedulerConfig `toml:"scheduler"`
	Queue     QueueConfig     `toml:"queue"`
}

// ServerConfig настройки HTTP сервера
type ServerConfig struct {
	HTTPPort        int    `toml:"http_port"`
	ReadTimeout     int    `toml:"read_timeout"`     // секунды
	WriteTimeout    int    `toml:"write_timeout"`    // секунды
	IdleTimeout     int    `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int    `toml:"shutdown_timeout"` // секунды
	InternalToken   string `toml:"internal_token"`   // токен для /internal/* эндпоинтов
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN возвращает строку подключения к PostgreSQL
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`  // путь к файлу или "stdout"
	Level string `toml:"level"` // debug, info, warn, error
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// MessengerConfig настройки клиента мессенджер-шлюза
type MessengerConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// SchedulerConfig настройки встроенного планировщика тиков
// При enabled=false тик запускается только внешним cron через HTTP
type SchedulerConfig struct {
	Enabled bool   `toml:"enabled"`
	Spec    string `toml:"spec"` // cron-выражение, например "* * * * *"
}

// QueueConfig параметры движка виртуальной очереди
type QueueConfig struct {
	HorizonHours              int `toml:"horizon_hours"`
	GridMinutes               int `toml:"grid_minutes"`
	SafetyMarginMinutes       int `toml:"safety_margin_minutes"`
	ConfirmationWindowMinutes int `toml:"confirmation_window_minutes"`
	NotifyMinLeadMinutes      int `toml:"notify_min_lead_minutes"`
	NotifyMaxLeadMinutes      int `toml:"notify_max_lead_minutes"`
}

// Load загружает конфигурацию из TOML файла и применяет значения по умолчанию
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10
	}

	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "brb-queue-monitor"
	}

	if c.Messenger.Timeout == 0 {
		c.Messenger.Timeout = 10
	}
	if c.Scheduler.Spec == "" {
		c.Scheduler.Spec = "* * * * *"
	}

	if c.Queue.HorizonHours == 0 {
		c.Queue.HorizonHours = domain.DefaultHorizonHours
	}
	if c.Queue.GridMinutes == 0 {
		c.Queue.GridMinutes = domain.DefaultGridMinutes
	}
	if c.Queue.SafetyMarginMinutes == 0 {
		c.Queue.SafetyMarginMinutes = domain.DefaultSafetyMarginMinutes
	}
	if c.Queue.ConfirmationWindowMinutes == 0 {
		c.Queue.ConfirmationWindowMinutes = domain.DefaultConfirmationWindowMinutes
	}
	if c.Queue.NotifyMinLeadMinutes == 0 {
		c.Queue.NotifyMinLeadMinutes = domain.DefaultNotifyMinLeadMinutes
	}
	if c.Queue.NotifyMaxLeadMinutes == 0 {
		c.Queue.NotifyMaxLeadMinutes = domain.DefaultNotifyMaxLeadMinutes
	}
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.dbname is required")
	}
	if c.Queue.NotifyMinLeadMinutes > c.Queue.NotifyMaxLeadMinutes {
		return fmt.Errorf("config: queue.notify_min_lead_minutes must not exceed notify_max_lead_minutes")
	}
	return nil
}
