// Package config loads database connection settings from config files,
// .env files, and the process environment.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

var AppFs = afero.NewOsFs()

// Config holds the database connection configuration.
type Config struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Database string

	PoolSize    int
	MaxIdle     int
	MaxLifetime time.Duration

	Debug bool
}

// Load reads configuration from .goquent.yaml (current directory, home
// directory, or ~/.config/goquent), then .env and .env.local files, then
// environment variables. Later sources override earlier ones.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(".goquent")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "goquent"))

	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 3306)
	v.SetDefault("db_user", "root")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "")
	v.SetDefault("db_pool_size", 5)
	v.SetDefault("db_max_idle", 2)
	v.SetDefault("db_max_lifetime", "30m")
	v.SetDefault("debug", false)

	// Try to read config file (ignore if not found)
	_ = v.ReadInConfig()

	// Load .env file if it exists
	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}

	// Load .env.local if it exists (higher priority)
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	v.AutomaticEnv()
	for _, key := range []string{
		"db_driver", "db_host", "db_port", "db_user", "db_password",
		"db_name", "db_pool_size", "db_max_idle", "db_max_lifetime", "debug",
	} {
		_ = v.BindEnv(key)
	}

	cfg := &Config{
		Driver:      v.GetString("db_driver"),
		Host:        v.GetString("db_host"),
		Port:        v.GetInt("db_port"),
		User:        v.GetString("db_user"),
		Password:    v.GetString("db_password"),
		Database:    v.GetString("db_name"),
		PoolSize:    v.GetInt("db_pool_size"),
		MaxIdle:     v.GetInt("db_max_idle"),
		MaxLifetime: v.GetDuration("db_max_lifetime"),
		Debug:       v.GetBool("debug"),
	}

	return cfg, nil
}

// DSN builds the driver-specific data source name.
func (c *Config) DSN() string {
	switch c.Driver {
	case "sqlite3":
		return c.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
			c.User, c.Password, c.Host, c.Port, c.Database)
	}
}

// Save writes the configuration to ~/.config/goquent/.goquent.yaml.
func Save(cfg *Config) error {
	home, err := homedir.Dir()
	if err != nil {
		return err
	}

	v := viper.New()
	v.Set("db_driver", cfg.Driver)
	v.Set("db_host", cfg.Host)
	v.Set("db_port", cfg.Port)
	v.Set("db_user", cfg.User)
	v.Set("db_password", cfg.Password)
	v.Set("db_name", cfg.Database)
	v.Set("db_pool_size", cfg.PoolSize)
	v.Set("db_max_idle", cfg.MaxIdle)
	v.Set("db_max_lifetime", cfg.MaxLifetime.String())
	v.Set("debug", cfg.Debug)

	configPath := filepath.Join(home, ".config", "goquent")
	if err := AppFs.MkdirAll(configPath, 0755); err != nil {
		return err
	}

	return v.WriteConfigAs(filepath.Join(configPath, ".goquent.yaml"))
}
