package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved process configuration.
type Config struct {
	Port     string
	DBPath   string
	LogLevel string

	JWTSecret string
	TokenTTL  time.Duration

	AllowedOrigins []string
	StatsInterval  time.Duration

	Seed Seed
}

// Seed controls the bootstrap admin and demo data.
type Seed struct {
	Enabled       bool
	SampleData    bool
	AdminEmail    string
	AdminUsername string
	AdminName     string
	AdminPassword string
}

// ErrMissingSecret is returned when no signing key is configured.
var ErrMissingSecret = errors.New("auth.jwt_secret is not set")

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "library.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("ws.default_interval", "2s")
	v.SetDefault("seed.enabled", false)
	v.SetDefault("seed.sample_data", false)
	v.SetDefault("seed.admin.username", "admin")
	v.SetDefault("seed.admin.name", "Administrator")
}

// Load reads config.yml from dir (configs/ when empty). Every key can be
// overridden from the environment, e.g. LIBRARY_AUTH_JWT_SECRET. A missing
// file is not an error; a missing signing key is.
func Load(dir string) (Config, error) {
	if dir == "" {
		dir = "configs"
	}
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix("LIBRARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Port:           v.GetString("port"),
		DBPath:         v.GetString("db.path"),
		LogLevel:       v.GetString("log.level"),
		JWTSecret:      v.GetString("auth.jwt_secret"),
		TokenTTL:       v.GetDuration("auth.token_ttl"),
		AllowedOrigins: v.GetStringSlice("cors.allowed_origins"),
		StatsInterval:  v.GetDuration("ws.default_interval"),
		Seed: Seed{
			Enabled:       v.GetBool("seed.enabled"),
			SampleData:    v.GetBool("seed.sample_data"),
			AdminEmail:    v.GetString("seed.admin.email"),
			AdminUsername: v.GetString("seed.admin.username"),
			AdminName:     v.GetString("seed.admin.name"),
			AdminPassword: v.GetString("seed.admin.password"),
		},
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return cfg, ErrMissingSecret
	}
	if cfg.TokenTTL <= 0 {
		return cfg, fmt.Errorf("auth.token_ttl must be positive, got %s", cfg.TokenTTL)
	}
	return cfg, nil
}
