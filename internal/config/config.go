package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string
	}
	DB struct {
		Driver string
		DSN    string
	}
	Log struct {
		Level  string
		Pretty bool
	}
}

// Load reads config from environment (BOOKMARKD_ prefix) and optional bookmarkd.yaml.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BOOKMARKD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("bookmarkd")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("db.driver", "sqlite3")
	v.SetDefault("db.dsn", "bookmarkd.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Pretty = v.GetBool("log.pretty")

	switch cfg.DB.Driver {
	case "sqlite3", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("BOOKMARKD_DB_DRIVER must be sqlite3, mysql, or postgres, got %q", cfg.DB.Driver)
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("BOOKMARKD_DB_DSN is required")
	}

	return cfg, nil
}
