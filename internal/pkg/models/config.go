package models

import "time"

// Config represents application configuration
type Config struct {
	App      AppConfig
	Session  SessionConfig
	Location LocationConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Logger   LoggerConfig
}

// AppConfig contains application-specific configuration
type AppConfig struct {
	Name        string
	Environment string
	Debug       bool
	Version     string
}

// SessionConfig controls the persistent coordination session.
type SessionConfig struct {
	EndpointURL      string        // base ws:// or wss:// URL; subject id is appended
	HandshakeTimeout time.Duration // bound on each dial attempt
	ReconnectDelay   time.Duration // fixed delay between reconnect attempts
	MaxReconnects    int           // attempts before the session gives up
	WriteTimeout     time.Duration
	AccessToken      string // externally issued bearer token
}

// LocationConfig controls position sampling and proximity ranking.
type LocationConfig struct {
	PublishInterval  time.Duration
	StalenessWindow  time.Duration
	DefaultRadiusKm  float64
	GeohashPrecision uint
	DeviceURL        string
	DeviceTimeout    time.Duration
}

// ServerConfig contains the diagnostics HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Database  string
	SSLMode   string
	MaxConns  int
	IdleConns int
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// NATSConfig contains NATS connection configuration
type NATSConfig struct {
	URL string
}

// LoggerConfig contains logger configuration
type LoggerConfig struct {
	Level    string
	FilePath string
}
