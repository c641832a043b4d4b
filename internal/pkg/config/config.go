package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Source   SourceConfig
	History  HistoryConfig
	Server   ServerConfig
	Database DatabaseConfig
	Mqtt     MqttConfig
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
}

type SourceConfig struct {
	URL          string        `env:"SOURCE_URL" envDefault:"https://traci.tn/if3/ad/listing_ox.php?id_chauffeur=700042&max=200"`
	Name         string        `env:"SOURCE_NAME" envDefault:"traci 700042"`
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"10s"`
	FieldPolicy  string        `env:"FIELD_POLICY" envDefault:"skip_row"`
	TimeZone     string        `env:"TIMEZONE" envDefault:"Local"`
}

type HistoryConfig struct {
	File           string `env:"HISTORY_FILE" envDefault:"donnees_capteurs.csv"`
	RetentionHours int    `env:"RETENTION_HOURS" envDefault:"24"`
	TailSize       int    `env:"TAIL_SIZE" envDefault:"10"`
}

type ServerConfig struct {
	ListenAddr      string `env:"LISTEN_ADDR" envDefault:"0.0.0.0:8000"`
	RefreshSchedule string `env:"REFRESH_SCHEDULE" envDefault:"*/5 * * * *"`
}

type DatabaseConfig struct {
	URL             string `env:"DATABASE_URL"`
	RetentionDays   int    `env:"ARCHIVE_RETENTION_DAYS" envDefault:"30"`
	CleanupSchedule string `env:"ARCHIVE_CLEANUP_SCHEDULE" envDefault:"0 3 * * *"`
}

type MqttConfig struct {
	Host        string `env:"MQTT_HOST"`
	Username    string `env:"MQTT_USER"`
	Password    string `env:"MQTT_PASS"`
	TopicPrefix string `env:"MQTT_TOPIC_PREFIX" envDefault:"traci/sensor"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Source.URL == "" {
		return fmt.Errorf("SOURCE_URL must be set")
	}
	if c.Source.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.Source.FetchTimeout)
	}
	if c.History.File == "" {
		return fmt.Errorf("HISTORY_FILE must be set")
	}
	if c.History.RetentionHours <= 0 {
		return fmt.Errorf("RETENTION_HOURS must be positive, got %d", c.History.RetentionHours)
	}
	if c.History.TailSize <= 0 {
		return fmt.Errorf("TAIL_SIZE must be positive, got %d", c.History.TailSize)
	}
	if _, err := c.Source.Location(); err != nil {
		return fmt.Errorf("TIMEZONE: %w", err)
	}
	return nil
}

func (c HistoryConfig) Retention() time.Duration {
	return time.Duration(c.RetentionHours) * time.Hour
}

// Location resolves the zone the source page's naive timestamps are read in.
func (c SourceConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.TimeZone)
}

func (c DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

func (c MqttConfig) Enabled() bool {
	return c.Host != ""
}
