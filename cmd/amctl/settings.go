package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	applemusic "github.com/musickit/applemusic-go"
)

// Settings holds amctl configuration gathered from the config file,
// AMCTL_* environment variables and a local .env file.
type Settings struct {
	DeveloperToken string
	TeamID         string
	KeyID          string
	PrivateKeyPath string
	UserToken      string
	Storefront     string
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     uint
	LogLevel       string
}

// loadSettings reads configuration. configFile overrides the default search
// path (~/.config/amctl/config.yaml, then the working directory).
func loadSettings(configFile string) (*Settings, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.SetDefault("storefront", applemusic.DefaultStorefront)
	v.SetDefault("base_url", applemusic.DefaultBaseURL)
	v.SetDefault("timeout", applemusic.DefaultTimeout)
	v.SetDefault("max_retries", applemusic.DefaultMaxRetries)
	v.SetDefault("log_level", "warn")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("AMCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Settings{
		DeveloperToken: v.GetString("developer_token"),
		TeamID:         v.GetString("team_id"),
		KeyID:          v.GetString("key_id"),
		PrivateKeyPath: v.GetString("private_key_path"),
		UserToken:      v.GetString("user_token"),
		Storefront:     v.GetString("storefront"),
		BaseURL:        v.GetString("base_url"),
		Timeout:        v.GetDuration("timeout"),
		MaxRetries:     v.GetUint("max_retries"),
		LogLevel:       v.GetString("log_level"),
	}, nil
}

func configDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "amctl")
}

// usesJWT reports whether signing material is configured. It wins over a
// raw developer token.
func (s *Settings) usesJWT() bool {
	return s.TeamID != "" && s.KeyID != "" && s.PrivateKeyPath != ""
}

func (s *Settings) privateKey() ([]byte, error) {
	pemBytes, err := os.ReadFile(s.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	return pemBytes, nil
}

// clientConfig builds a validated client configuration.
func (s *Settings) clientConfig(logger zerolog.Logger) (applemusic.Config, error) {
	var (
		cfg applemusic.Config
		err error
	)
	if s.usesJWT() {
		pemBytes, kerr := s.privateKey()
		if kerr != nil {
			return cfg, kerr
		}
		cfg, err = applemusic.NewJWTConfig(s.TeamID, s.KeyID, pemBytes)
	} else {
		cfg, err = applemusic.NewConfig(s.DeveloperToken)
	}
	if err != nil {
		return cfg, err
	}

	if cfg, err = cfg.WithBaseURL(s.BaseURL); err != nil {
		return cfg, err
	}
	if cfg, err = cfg.WithStorefront(s.Storefront); err != nil {
		return cfg, err
	}
	if cfg, err = cfg.WithTimeout(s.Timeout); err != nil {
		return cfg, err
	}
	if s.UserToken != "" {
		if cfg, err = cfg.WithUserToken(s.UserToken); err != nil {
			return cfg, err
		}
	}
	cfg = cfg.WithMaxRetries(s.MaxRetries).
		WithUserAgent("amctl/" + applemusic.Version).
		WithLogger(logger)

	return cfg, nil
}

// setupLogger writes human-readable logs to w at the given level.
func setupLogger(w io.Writer, logLevel string) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().
		Timestamp().
		Str("app", "amctl").
		Logger()
}
