package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service. Values are read by viper
// from the environment, optionally overlaid on a config file.
type Config struct {
	ListenAddr string `mapstructure:"LISTEN_ADDR"`

	MongoURL string `mapstructure:"MONGO_URL"`
	DBName   string `mapstructure:"DB_NAME"`

	JWTSecret        string `mapstructure:"JWT_SECRET"`
	JWTExpiryMinutes int    `mapstructure:"JWT_EXPIRY_MINUTES"`

	R2AccountID       string `mapstructure:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `mapstructure:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `mapstructure:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `mapstructure:"R2_BUCKET_NAME"`
	R2PublicURL       string `mapstructure:"R2_PUBLIC_URL"`

	// Presigned upload/download URL lifetime in seconds.
	PresignedURLExpiration int `mapstructure:"PRESIGNED_URL_EXPIRATION"`

	TTSAPIURL string `mapstructure:"TTS_API_URL"`
	TTSAPIKey string `mapstructure:"TTS_API_KEY"`

	// WidgetBaseURL is the public origin embed codes point at.
	WidgetBaseURL string `mapstructure:"WIDGET_BASE_URL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

func (c Config) JWTExpiry() time.Duration {
	return time.Duration(c.JWTExpiryMinutes) * time.Minute
}

func (c Config) PresignExpiry() time.Duration {
	return time.Duration(c.PresignedURLExpiration) * time.Second
}

// Load reads configuration from the environment, optionally overlaid on a
// config file in path. Required values missing at startup are an error so
// the process fails fast rather than at first use.
func Load(path string) (Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("env")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("LISTEN_ADDR", ":8001")
	v.SetDefault("JWT_EXPIRY_MINUTES", 1440)
	v.SetDefault("R2_BUCKET_NAME", "pivot-media")
	v.SetDefault("PRESIGNED_URL_EXPIRATION", 600)
	v.SetDefault("WIDGET_BASE_URL", "https://testing.gopivot.me")
	v.SetDefault("LOG_LEVEL", "info")

	// AutomaticEnv alone does not surface env-only keys to Unmarshal;
	// each key has to be bound explicitly.
	for _, key := range []string{
		"LISTEN_ADDR", "MONGO_URL", "DB_NAME", "JWT_SECRET", "JWT_EXPIRY_MINUTES",
		"R2_ACCOUNT_ID", "R2_ACCESS_KEY_ID", "R2_SECRET_ACCESS_KEY", "R2_BUCKET_NAME",
		"R2_PUBLIC_URL", "PRESIGNED_URL_EXPIRATION", "TTS_API_URL", "TTS_API_KEY",
		"WIDGET_BASE_URL", "LOG_LEVEL",
	} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		// No config file is fine; the environment carries everything.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	for _, req := range []struct{ key, val string }{
		{"MONGO_URL", cfg.MongoURL},
		{"DB_NAME", cfg.DBName},
		{"JWT_SECRET", cfg.JWTSecret},
	} {
		if req.val == "" {
			return Config{}, fmt.Errorf("%s is not set", req.key)
		}
	}

	return cfg, nil
}
