// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig               `mapstructure:"app"`
	Camunda      CamundaConfig           `mapstructure:"camunda"`
	Database     DatabaseConfig          `mapstructure:"database"`
	Workers      map[string]WorkerConfig `mapstructure:"workers" validate:"dive"`
	Matching     MatchingConfig          `mapstructure:"matching"`
	Integrations IntegrationConfig       `mapstructure:"integrations"`
	Logging      LoggingConfig           `mapstructure:"logging"`

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string `mapstructure:"-"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment" validate:"omitempty,oneof=development staging production test"`
	HealthPort  int    `mapstructure:"health_port" validate:"gte=0,lte=65535"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active" validate:"gte=0"`
	Timeout        int    `mapstructure:"timeout" validate:"gte=0"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout" validate:"gte=0"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	SQLite        SQLiteConfig        `mapstructure:"sqlite"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"gte=0,lte=65535"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
	MaxIdle        int    `mapstructure:"max_idle" validate:"gte=0"`
	SSLMode        string `mapstructure:"sslmode" validate:"omitempty,oneof=disable require verify-ca verify-full"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// SQLiteConfig backs the match store on a single host, as used by matchctl.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type ElasticsearchConfig struct {
	Addresses      []string `mapstructure:"addresses"`
	Username       string   `mapstructure:"username"`
	Password       string   `mapstructure:"password"`
	URL            string   `mapstructure:"url"` // Single URL for backwards compatibility
	CandidateIndex string   `mapstructure:"candidate_index"`
}

// GetURL returns the first address or the URL field
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
	DB       int    `mapstructure:"db" validate:"gte=0"`
	PoolSize int    `mapstructure:"pool_size" validate:"gte=0"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active" validate:"gte=0"`
	Timeout       int  `mapstructure:"timeout" validate:"gte=0"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries" validate:"gte=0"` // For error handling
}

// --- Matching ---

// MatchingConfig tunes the scorer and the match driver.
type MatchingConfig struct {
	MinScore        float64       `mapstructure:"min_score" validate:"gte=0,lte=100"`
	MatchTTLDays    int           `mapstructure:"match_ttl_days" validate:"gte=0"`
	DefaultTopN     int           `mapstructure:"default_top_n" validate:"gte=0"`
	Parallelism     int           `mapstructure:"parallelism" validate:"gte=0"`
	MaxJobsPerRun   int           `mapstructure:"max_jobs_per_run" validate:"gte=0"`
	Store           string        `mapstructure:"store" validate:"omitempty,oneof=postgres sqlite"`
	CandidateSource string        `mapstructure:"candidate_source" validate:"omitempty,oneof=postgres elasticsearch"`
	CacheTTLMinutes int           `mapstructure:"cache_ttl_minutes" validate:"gte=0"`
	GuardTTLSeconds int           `mapstructure:"guard_ttl_seconds" validate:"gte=0"`
	Weights         WeightsConfig `mapstructure:"weights"`
}

// WeightsConfig overrides the scorer weights. All zero keeps the defaults.
type WeightsConfig struct {
	Skill      float64 `mapstructure:"skill" validate:"gte=0"`
	Experience float64 `mapstructure:"experience" validate:"gte=0"`
	Location   float64 `mapstructure:"location" validate:"gte=0"`
	Education  float64 `mapstructure:"education" validate:"gte=0"`
	Preference float64 `mapstructure:"preference" validate:"gte=0"`
}

func (w WeightsConfig) IsZero() bool {
	return w == WeightsConfig{}
}

// --- Integrations ---

// IntegrationConfig holds settings for notifications and the recommendation
// enhancer.
type IntegrationConfig struct {
	AWS struct {
		Region string `mapstructure:"region"`
		SES    struct {
			Enabled   bool   `mapstructure:"enabled"`
			FromEmail string `mapstructure:"from_email" validate:"omitempty,email"`
		} `mapstructure:"ses"`
		SNS struct {
			Enabled            bool   `mapstructure:"enabled"`
			DefaultSMSSenderID string `mapstructure:"default_sms_sender_id"`
		} `mapstructure:"sns"`
	} `mapstructure:"aws"`

	Gemini struct {
		Enabled bool   `mapstructure:"enabled"`
		APIKey  string `mapstructure:"api_key"`
		Model   string `mapstructure:"model"`
		Timeout int    `mapstructure:"timeout" validate:"gte=0"` // milliseconds
	} `mapstructure:"gemini"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"omitempty,oneof=json console"`
	Output string `mapstructure:"output"`
}
