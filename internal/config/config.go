package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"time"    // time parses session lifetimes

	"github.com/joho/godotenv" // godotenv loads a local .env file when present
	"github.com/sirupsen/logrus"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Database and session settings are required at
// process start; everything else has a default.
type Config struct {
	Env           string        // application environment (e.g. "dev", "prod")
	Port          string        // HTTP port to listen on
	LogLevel      string        // logrus level name
	DBDriver      string        // "mysql" or "sqlite3"
	DBUser        string        // database username
	DBPass        string        // database password (optional)
	DBHost        string        // database host address
	DBPort        string        // database port number
	DBName        string        // database name, or file path for sqlite3
	SessionSecret string        // secret used to sign session cookies
	SessionCookie string        // name of the session cookie
	SessionTTL    time.Duration // lifetime of a session
	BcryptCost    int           // bcrypt cost for password hashing
}

// Load reads configuration values from the environment and returns a
// Config.  A .env file in the working directory is applied first if it
// exists; variables already set in the environment win.  Missing required
// values cause the program to exit with a fatal log message.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:           must("APP_ENV"),
		Port:          must("APP_PORT"),
		LogLevel:      envStr("LOG_LEVEL", "info"),
		DBDriver:      envStr("DB_DRIVER", "mysql"),
		DBPass:        os.Getenv("DB_PASS"), // empty allowed
		SessionSecret: must("SESSION_SECRET"),
		SessionCookie: envStr("SESSION_COOKIE", "quic.sid"),
		SessionTTL:    envDur("SESSION_TTL", 24*time.Hour),
		BcryptCost:    envInt("BCRYPT_COST", 10),
	}
	cfg.DBName = must("DB_NAME")
	// sqlite only needs a file path; the network settings are MySQL specific
	if cfg.DBDriver != "sqlite3" {
		cfg.DBUser = must("DB_USER")
		cfg.DBHost = must("DB_HOST")
		cfg.DBPort = must("DB_PORT")
	}
	return cfg
}

// IsProd reports whether the service runs in the production environment.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		logrus.Fatalf("missing required env var: %s", key)
	}
	return v
}
