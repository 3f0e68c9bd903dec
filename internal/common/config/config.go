// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Database      DatabaseConfig          `mapstructure:"database"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Portfolio     PortfolioConfig         `mapstructure:"portfolio"`
	Session       SessionConfig           `mapstructure:"session"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Scheduler     SchedulerConfig         `mapstructure:"scheduler"`
	Server        ServerConfig            `mapstructure:"server"`
	Registry      RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"`
}

// GetURL returns the URL field or the first address
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// --- Domain Configuration ---

// Portfolio data sources.
const (
	SourceSynthetic = "synthetic"
	SourcePostgres  = "postgres"
)

// PortfolioConfig selects the property data source and the retrofit budget bounds.
type PortfolioConfig struct {
	Source        string  `mapstructure:"source"` // synthetic | postgres
	Seed          int64   `mapstructure:"seed"`
	PropertyCount int     `mapstructure:"property_count"`
	IndexName     string  `mapstructure:"index_name"`
	ScoreCacheTTL int     `mapstructure:"score_cache_ttl"` // seconds
	DefaultBudget float64 `mapstructure:"default_budget"`
	MinBudget     float64 `mapstructure:"min_budget"`
	MaxBudget     float64 `mapstructure:"max_budget"`
}

// SessionConfig holds settings for the planning session store.
type SessionConfig struct {
	TTL       int            `mapstructure:"ttl"` // seconds
	KeyPrefix string         `mapstructure:"key_prefix"`
	Points    map[string]int `mapstructure:"points"`
}

// NotificationConfig holds settings for report notifications.
type NotificationConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AWSRegion        string   `mapstructure:"aws_region"`
	SNSTopicARN      string   `mapstructure:"sns_topic_arn"`
	SESFrom          string   `mapstructure:"ses_from"`
	ReportRecipients []string `mapstructure:"report_recipients"`
}

// SchedulerConfig holds the cron specs for background maintenance.
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ReindexCron   string `mapstructure:"reindex_cron"`
	WarmCacheCron string `mapstructure:"warm_cache_cron"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
