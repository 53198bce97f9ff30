package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything the process needs, resolved once at startup and
// passed explicitly into constructors. No package reads viper after Load.
type Config struct {
	AppEnv string
	Port   int

	Postgres PostgresConfig
	Redis    RedisConfig
	Discord  DiscordConfig
	Auth     AuthConfig
	Access   AccessConfig
	Sweep    SweepConfig
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN renders the postgres connection string shared by sqlx and GORM.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type DiscordConfig struct {
	BaseURL  string
	BotToken string
	GuildID  string
	Timeout  time.Duration
}

type AuthConfig struct {
	JWTSecret string
	BotAPIKey string
}

type AccessConfig struct {
	// Rolling-window limit on access requests per user.
	RequestLimit  int
	RequestWindow time.Duration
}

type SweepConfig struct {
	Enabled  bool
	Interval time.Duration
}

// Load reads config.yaml (working directory) with env-var overrides, e.g.
// ROLLCALL_POSTGRES_PASSWORD overrides postgres.password.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/rollcall")

	v.SetEnvPrefix("ROLLCALL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 8080)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("discord.base_url", "https://discord.com/api/v10")
	v.SetDefault("discord.timeout", 10*time.Second)
	v.SetDefault("access.request_limit", 10)
	v.SetDefault("access.request_window", 5*time.Minute)
	v.SetDefault("sweep.enabled", true)
	v.SetDefault("sweep.interval", 10*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		// Config file is optional; env vars and defaults can carry a deploy.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		AppEnv: v.GetString("app.env"),
		Port:   v.GetInt("app.port"),
		Postgres: PostgresConfig{
			Host:     v.GetString("postgres.host"),
			Port:     v.GetInt("postgres.port"),
			User:     v.GetString("postgres.user"),
			Password: v.GetString("postgres.password"),
			Database: v.GetString("postgres.db"),
			SSLMode:  v.GetString("postgres.sslmode"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Discord: DiscordConfig{
			BaseURL:  v.GetString("discord.base_url"),
			BotToken: v.GetString("discord.bot_token"),
			GuildID:  v.GetString("discord.guild_id"),
			Timeout:  v.GetDuration("discord.timeout"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("auth.jwt_secret"),
			BotAPIKey: v.GetString("auth.bot_api_key"),
		},
		Access: AccessConfig{
			RequestLimit:  v.GetInt("access.request_limit"),
			RequestWindow: v.GetDuration("access.request_window"),
		},
		Sweep: SweepConfig{
			Enabled:  v.GetBool("sweep.enabled"),
			Interval: v.GetDuration("sweep.interval"),
		},
	}

	return cfg, nil
}
