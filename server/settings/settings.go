package settings

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Settings is the configuration to start main server.
type Settings struct {
	// Mode can be "prod" or "dev"
	Mode string `envconfig:"MODE" default:"dev"`

	// Server listen address config
	Host string `envconfig:"HOST" default:"0.0.0.0"`
	Port int    `envconfig:"PORT" default:"8080"`
	// ShutdownTimeout bounds how long in-flight requests may take to drain.
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// API versions served under /v{version}
	ServerVersion     string `envconfig:"SERVER_VERSION" default:"dev"`
	DefaultAPIVersion string `envconfig:"DEFAULT_API_VERSION" default:"1.0"`
	MinAPIVersion     string `envconfig:"MIN_API_VERSION" default:"1.0"`

	// Driver is the database driver: "mysql" or "memory".
	Driver string `envconfig:"DRIVER" default:"mysql"`

	// MySQL settings
	MySQLHost     string `envconfig:"MYSQL_HOST" default:"127.0.0.1"`
	MySQLPort     int    `envconfig:"MYSQL_PORT" default:"3306"`
	MySQLDatabase string `envconfig:"MYSQL_DB" default:"appdb"`
	MySQLUser     string `envconfig:"MYSQL_USER" default:"appuser"`
	MySQLPassword string `envconfig:"MYSQL_PASSWORD" default:"password"`
	// Timeouts
	MySQLConnectTimeout time.Duration `envconfig:"MYSQL_CONNECT_TIMEOUT" default:"5s"`
	MySQLQueryTimeout   time.Duration `envconfig:"MYSQL_QUERY_TIMEOUT" default:"5s"`
	// Pool
	MySQLMaxOpenConns    int           `envconfig:"MYSQL_MAX_OPEN_CONNS" default:"25"`
	MySQLMaxIdleConns    int           `envconfig:"MYSQL_MAX_IDLE_CONNS" default:"10"`
	MySQLConnMaxLifetime time.Duration `envconfig:"MYSQL_CONN_MAX_LIFETIME" default:"30m"`
	MySQLConnMaxIdleTime time.Duration `envconfig:"MYSQL_CONN_MAX_IDLE_TIME" default:"5m"`
	// MigrationsPath is the golang-migrate source for the migrate command.
	MigrationsPath string `envconfig:"MIGRATIONS_PATH" default:"file://store/db/mysql/migrations"`

	// Logging settings
	LogLevel  string `envconfig:"LOG_LEVEL" default:"debug"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text"`

	// Secret key used for signing JWT tokens
	SecretKey string `envconfig:"SECRET_KEY" default:"secretkey"`

	// Origins is the list of allowed origins
	Origins []string `envconfig:"ORIGINS" default:""`
	// OAuth2 settings
	OAuth2ClientID     string `envconfig:"OAUTH2_CLIENT_ID" default:""`
	OAuth2ClientSecret string `envconfig:"OAUTH2_CLIENT_SECRET" default:""`
	OAuth2RedirectURL  string `envconfig:"OAUTH2_REDIRECT_URL" default:""`

	// Login throttling per client IP; a zero rate disables it.
	LoginRateLimit float64 `envconfig:"LOGIN_RATE_LIMIT" default:"0.2"`
	LoginRateBurst int     `envconfig:"LOGIN_RATE_BURST" default:"5"`

	// Bootstrap admin, created on startup when both are set and the email is unused.
	AdminEmail    string `envconfig:"ADMIN_EMAIL" default:""`
	AdminPassword string `envconfig:"ADMIN_PASSWORD" default:""`
}

// NewSettings loads settings  by reading environment variables.
func NewSettings() *Settings {
	s, err := Load()
	if err != nil {
		panic(err)
	}

	return s
}

// Load reads the settings from the environment.
func Load() (*Settings, error) {
	s := new(Settings)
	if err := envconfig.Process("", s); err != nil {
		return nil, err
	}
	return s, nil
}

// OAuth2Enabled reports whether the Google login routes can work.
func (s *Settings) OAuth2Enabled() bool {
	return s.OAuth2ClientID != "" && s.OAuth2ClientSecret != "" && s.OAuth2RedirectURL != ""
}
