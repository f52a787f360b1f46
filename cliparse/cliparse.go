package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string

	// Admin sessions
	SessionSecret     string
	SessionCookie     string
	SessionTTL        time.Duration
	AdminPasswordHash string

	// Anti-abuse
	CooldownSeconds int

	// Web push (optional; dispatcher is disabled when incomplete)
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	VAPIDSubject    string

	Environment string
}

// ParseFlags validates flags, falling back to environment variables.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := flag.NewFlagSet("cvl-app", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite or postgres)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.SessionSecret, "session-secret", "", "Session token secret (prefer env)")
	fs.StringVar(&cfg.AdminPasswordHash, "admin-hash", "", "Admin password bcrypt hash (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 8090 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = "sqlite"
		}
	}
	if cfg.DatabaseType != "sqlite" && cfg.DatabaseType != "postgres" {
		return Config{}, errors.New("DATABASE_TYPE must be sqlite or postgres")
	}

	// Secrets - MUST be provided
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = os.Getenv("SESSION_SECRET")
	}
	if cfg.SessionSecret == "" {
		return Config{}, errors.New("SESSION_SECRET required")
	}

	if cfg.AdminPasswordHash == "" {
		cfg.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	}
	if cfg.AdminPasswordHash == "" {
		return Config{}, errors.New("ADMIN_PASSWORD_HASH required")
	}

	cfg.SessionCookie = os.Getenv("SESSION_COOKIE")
	if cfg.SessionCookie == "" {
		cfg.SessionCookie = "cvl_session"
	}

	cfg.SessionTTL = 8 * time.Hour
	if ttlStr := os.Getenv("SESSION_TTL"); ttlStr != "" {
		ttl, err := time.ParseDuration(ttlStr)
		if err != nil || ttl <= 0 {
			return Config{}, errors.New("invalid SESSION_TTL env variable")
		}
		cfg.SessionTTL = ttl
	}

	cfg.CooldownSeconds = 60
	if cdStr := os.Getenv("COOLDOWN_SECONDS"); cdStr != "" {
		cd, err := strconv.Atoi(cdStr)
		if err != nil || cd < 0 {
			return Config{}, errors.New("invalid COOLDOWN_SECONDS env variable")
		}
		cfg.CooldownSeconds = cd
	}

	// Push is optional: the dispatcher stays disabled without a full key set
	cfg.VAPIDPublicKey = os.Getenv("VAPID_PUBLIC_KEY")
	cfg.VAPIDPrivateKey = os.Getenv("VAPID_PRIVATE_KEY")
	cfg.VAPIDSubject = os.Getenv("VAPID_SUBJECT")

	cfg.Environment = os.Getenv("APP_ENV")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	return cfg, nil
}

// CooldownWindow returns the idea submission cooldown as a duration.
func (c Config) CooldownWindow() time.Duration {
	return time.Duration(c.CooldownSeconds) * time.Second
}

// IsProduction reports whether the server runs in production mode
// (controls the Secure flag on the session cookie).
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// PushConfigured reports whether the full VAPID credential set is present.
func (c Config) PushConfigured() bool {
	return c.VAPIDPublicKey != "" && c.VAPIDPrivateKey != "" && c.VAPIDSubject != ""
}
