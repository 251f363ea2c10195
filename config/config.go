package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	AuthModeRequired  = "required"
	AuthModeAnonymous = "anonymous"
)

type Config struct {
	Port            string
	GinMode         string
	LogLevel        string
	LogFormat       string
	MaxRequestBytes int64

	Database DatabaseConfig
	Auth     AuthConfig
	Redis    RedisConfig
	Novu     NovuConfig
	Notes    NotesConfig
}

type AuthConfig struct {
	JWTSecretKey string
	TokenTTL     time.Duration
	BcryptCost   int
	// Mode decides what happens to requests whose token is missing or
	// invalid: "required" rejects them, "anonymous" lets them through
	// without an identity.
	Mode string
}

type RedisConfig struct {
	// URL is optional; token revocation is disabled when empty.
	URL string
}

type NovuConfig struct {
	APIKey           string
	BaseURL          string
	EmailWorkflow    string
	SMSWorkflow      string
	InAppWorkflow    string
	SMSCountryCode   string
	Timeout          time.Duration
	IdentifyCacheTTL time.Duration
}

type NotesConfig struct {
	EnforceOwnership bool
	NotifyOnDelete   bool
}

var requiredEnvVars = []string{
	"JWT_SECRET_KEY",
	"NOVU_API_KEY",
}

// Load reads the configuration from the environment. Variables loaded from
// a .env file by godotenv are visible here as well.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	for _, key := range requiredEnvVars {
		if strings.TrimSpace(v.GetString(key)) == "" {
			return nil, fmt.Errorf("required environment variable %s is not set", key)
		}
	}

	cfg := &Config{
		Port:            v.GetString("PORT"),
		GinMode:         v.GetString("GIN_MODE"),
		LogLevel:        v.GetString("LOG_LEVEL"),
		LogFormat:       v.GetString("LOG_FORMAT"),
		MaxRequestBytes: v.GetInt64("MAX_REQUEST_BYTES"),
		Database:        LoadDatabaseConfig(v),
		Auth: AuthConfig{
			JWTSecretKey: v.GetString("JWT_SECRET_KEY"),
			TokenTTL:     getDuration(v, "JWT_EXPIRATION_TIME"),
			BcryptCost:   v.GetInt("BCRYPT_COST"),
			Mode:         strings.ToLower(v.GetString("AUTH_MODE")),
		},
		Redis: RedisConfig{
			URL: v.GetString("REDIS_URL"),
		},
		Novu: NovuConfig{
			APIKey:           v.GetString("NOVU_API_KEY"),
			BaseURL:          strings.TrimRight(v.GetString("NOVU_BASE_URL"), "/"),
			EmailWorkflow:    v.GetString("NOVU_EMAIL_WORKFLOW"),
			SMSWorkflow:      v.GetString("NOVU_SMS_WORKFLOW"),
			InAppWorkflow:    v.GetString("NOVU_INAPP_WORKFLOW"),
			SMSCountryCode:   v.GetString("NOVU_SMS_COUNTRY_CODE"),
			Timeout:          getDuration(v, "NOVU_TIMEOUT"),
			IdentifyCacheTTL: getDuration(v, "NOVU_IDENTIFY_CACHE_TTL"),
		},
		Notes: NotesConfig{
			EnforceOwnership: v.GetBool("NOTES_ENFORCE_OWNERSHIP"),
			NotifyOnDelete:   v.GetBool("NOTES_NOTIFY_ON_DELETE"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getDuration reads a duration such as "30m". A bare integer is taken as
// seconds, so JWT_EXPIRATION_TIME=3600 means one hour.
func getDuration(v *viper.Viper, key string) time.Duration {
	raw := strings.TrimSpace(v.GetString(key))
	if seconds, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return v.GetDuration(key)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("MAX_REQUEST_BYTES", 1<<20)

	setDatabaseDefaults(v)

	v.SetDefault("JWT_EXPIRATION_TIME", 5*time.Hour)
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("AUTH_MODE", AuthModeRequired)

	v.SetDefault("NOVU_BASE_URL", "https://api.novu.co")
	v.SetDefault("NOVU_EMAIL_WORKFLOW", "momentum--L67FbJvt")
	v.SetDefault("NOVU_SMS_WORKFLOW", "sms")
	v.SetDefault("NOVU_INAPP_WORKFLOW", "in-app")
	v.SetDefault("NOVU_SMS_COUNTRY_CODE", "+91")
	v.SetDefault("NOVU_TIMEOUT", 10*time.Second)
	v.SetDefault("NOVU_IDENTIFY_CACHE_TTL", 10*time.Minute)

	v.SetDefault("NOTES_ENFORCE_OWNERSHIP", false)
	v.SetDefault("NOTES_NOTIFY_ON_DELETE", true)
}

func (c *Config) validate() error {
	switch c.Auth.Mode {
	case AuthModeRequired, AuthModeAnonymous:
	default:
		return fmt.Errorf("AUTH_MODE must be %q or %q, got %q", AuthModeRequired, AuthModeAnonymous, c.Auth.Mode)
	}
	if c.Auth.TokenTTL < time.Second {
		return fmt.Errorf("JWT_EXPIRATION_TIME must be at least one second, got %s", c.Auth.TokenTTL)
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31, got %d", c.Auth.BcryptCost)
	}
	if c.Database.OperationTimeout <= 0 {
		return fmt.Errorf("MONGO_OP_TIMEOUT must be positive")
	}
	if c.Database.MaxConnIdleTime < 0 {
		return fmt.Errorf("MONGO_MAX_CONN_IDLE_TIME must not be negative")
	}
	return nil
}
