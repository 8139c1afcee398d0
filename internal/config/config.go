package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
// It contains settings for the environment, HTTP server, database connection,
// credential vault, the two outbound services, the scan pipeline and
// graceful shutdown behavior.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"90s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// EnablePprof mounts net/http/pprof under /debug/pprof/
		EnablePprof bool `env:"HTTP_ENABLE_PPROF" env-default:"false" yaml:"enablePprof"`
		// AllowedOrigins lists CORS origins; "*" allows any
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-default:"*" yaml:"allowedOrigins"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"medscan" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
	} `yaml:"database"`

	// JWT holds the RS256 key pair used to issue and verify API tokens
	JWT struct {
		// PublicKey is the PEM encoded key used to verify bearer tokens
		PublicKey string `env:"JWT_PUBLIC_KEY" yaml:"publicKey"`
		// PrivateKey is the PEM encoded key used by the jwt command to sign tokens
		PrivateKey string `env:"JWT_PRIVATE_KEY" yaml:"privateKey"`
	} `yaml:"jwt"`

	// Vault selects where the analysis service credential is kept
	Vault struct {
		// Backend is one of "keyring", "sqlite" or "memory"
		Backend string `env:"VAULT_BACKEND" env-default:"keyring" yaml:"backend"`
		// Service is the keychain service the credential is stored under
		Service string `env:"VAULT_SERVICE" env-default:"com.yourdrugs.app" yaml:"service"`
		// Account is the keychain account the credential is stored under
		Account string `env:"VAULT_ACCOUNT" env-default:"openrouter_api_key" yaml:"account"`
		// SQLitePath is the database file used by the sqlite backend
		SQLitePath string `env:"VAULT_SQLITE_PATH" env-default:"medscan-vault.db" yaml:"sqlitePath"`
	} `yaml:"vault"`

	// ProductLookup configures the barcode product database client
	ProductLookup struct {
		// BaseURL is the API root of the product lookup service
		BaseURL string `env:"PRODUCT_LOOKUP_BASE_URL" env-default:"https://api.barcodelookup.com/v3" yaml:"baseURL"`
		// APIKey is embedded in every lookup request
		APIKey string `env:"PRODUCT_LOOKUP_API_KEY" yaml:"apiKey"`
		// Timeout bounds a single lookup
		Timeout time.Duration `env:"PRODUCT_LOOKUP_TIMEOUT" env-default:"10s" yaml:"timeout"`
	} `yaml:"productLookup"`

	// Analyzer configures the language model client
	Analyzer struct {
		// BaseURL is the API root of the chat completions service
		BaseURL string `env:"ANALYZER_BASE_URL" env-default:"https://openrouter.ai/api/v1" yaml:"baseURL"`
		// Model is the model asked for a verdict
		Model string `env:"ANALYZER_MODEL" env-default:"anthropic/claude-3-sonnet" yaml:"model"`
		// MaxTokens bounds the reply length
		MaxTokens int `env:"ANALYZER_MAX_TOKENS" env-default:"300" yaml:"maxTokens"`
		// Timeout bounds a single analysis
		Timeout time.Duration `env:"ANALYZER_TIMEOUT" env-default:"30s" yaml:"timeout"`
		// Referer and Title are optional app attribution headers
		Referer string `env:"ANALYZER_REFERER" yaml:"referer"`
		Title   string `env:"ANALYZER_TITLE" env-default:"medscan" yaml:"title"`
	} `yaml:"analyzer"`

	// Pipeline configures the scan orchestrator
	Pipeline struct {
		// SubscriberBuffer is the number of snapshots buffered per subscriber
		SubscriberBuffer int `env:"PIPELINE_SUBSCRIBER_BUFFER" env-default:"32" yaml:"subscriberBuffer"`
		// HistoryLimit caps the number of scans returned by history listings
		HistoryLimit int `env:"PIPELINE_HISTORY_LIMIT" env-default:"50" yaml:"historyLimit"`
		// HistoryRetention is the number of recorded scans kept in storage, 0 keeps all
		HistoryRetention uint `env:"PIPELINE_HISTORY_RETENTION" env-default:"1000" yaml:"historyRetention"`
	} `yaml:"pipeline"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config struct.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}

// LoadEnv fills a Config from environment variables and defaults only, for
// running without a config file.
func LoadEnv() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("could not read config from environment: %w", err)
	}

	return &cfg, nil
}
