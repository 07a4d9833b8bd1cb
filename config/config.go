package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

/* Config é um pacote auxiliar. Poderia ser uma lib externa */

// Supported values for STORE
const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreGorm     = "gorm"
	StoreMemory   = "memory"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	Store    string `mapstructure:"STORE"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogJSON  bool   `mapstructure:"LOG_JSON"`

	YearPolicy string `mapstructure:"YEAR_POLICY"`
	SeedFile   string `mapstructure:"SEED_FILE"`

	SQLitePath  string `mapstructure:"SQLITE_PATH"`
	GormDialect string `mapstructure:"GORM_DIALECT"`

	PostgresHost               string `mapstructure:"POSTGRES_HOST"`
	PostgresPort               string `mapstructure:"POSTGRES_PORT"`
	PostgresUser               string `mapstructure:"POSTGRES_USER"`
	PostgresPassword           string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresDB                 string `mapstructure:"POSTGRES_DB"`
	PostgresSSLMode            string `mapstructure:"POSTGRES_SSLMODE"`
	PostgresMaxOpenConns       int    `mapstructure:"POSTGRES_MAX_OPEN_CONNS"`
	PostgresMaxIdleConns       int    `mapstructure:"POSTGRES_MAX_IDLE_CONNS"`
	PostgresConnMaxLifeMinutes int    `mapstructure:"POSTGRES_CONN_MAX_LIFE_MINUTES"`
}

var defaults = map[string]any{
	"PORT":                           "8080",
	"STORE":                          StoreSQLite,
	"LOG_LEVEL":                      "info",
	"LOG_JSON":                       true,
	"YEAR_POLICY":                    "numeric",
	"SEED_FILE":                      "books.yaml",
	"SQLITE_PATH":                    "library.db",
	"GORM_DIALECT":                   StoreSQLite,
	"POSTGRES_HOST":                  "localhost",
	"POSTGRES_PORT":                  "5432",
	"POSTGRES_USER":                  "",
	"POSTGRES_PASSWORD":              "",
	"POSTGRES_DB":                    "library",
	"POSTGRES_SSLMODE":               "disable",
	"POSTGRES_MAX_OPEN_CONNS":        25,
	"POSTGRES_MAX_IDLE_CONNS":        5,
	"POSTGRES_CONN_MAX_LIFE_MINUTES": 5,
}

// GetConfig reads .env.local into the environment, then an optional .env
// (toml) file, then environment variables, which win.
func GetConfig() (*Config, error) {
	if err := godotenv.Load(".env.local"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env.local: %w", err)
	}
	return load(".")
}

func load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("toml")
	v.AddConfigPath(path)
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	var config Config
	err := v.Unmarshal(&config)
	if err != nil {
		return nil, fmt.Errorf("parsing config data: %w", err)
	}
	config.Store = strings.ToLower(config.Store)
	config.GormDialect = strings.ToLower(config.GormDialect)
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the settings the selected store depends on
func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		return c.ValidatePostgres()
	case StoreSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite store")
		}
	case StoreGorm:
		switch c.GormDialect {
		case StorePostgres:
			return c.ValidatePostgres()
		case StoreSQLite:
			if c.SQLitePath == "" {
				return fmt.Errorf("SQLITE_PATH is required for the gorm sqlite dialect")
			}
		default:
			return fmt.Errorf("unsupported GORM_DIALECT %q", c.GormDialect)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unsupported STORE %q", c.Store)
	}
	return nil
}

// ValidatePostgres checks the POSTGRES_* settings
func (c *Config) ValidatePostgres() error {
	var missing []string
	if c.PostgresHost == "" {
		missing = append(missing, "POSTGRES_HOST")
	}
	if c.PostgresPort == "" {
		missing = append(missing, "POSTGRES_PORT")
	}
	if c.PostgresUser == "" {
		missing = append(missing, "POSTGRES_USER")
	}
	if c.PostgresDB == "" {
		missing = append(missing, "POSTGRES_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing postgres settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// PostgresConnectionString builds a postgres:// URL from the POSTGRES_* settings
func (c *Config) PostgresConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     c.PostgresHost + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: url.Values{"sslmode": {c.PostgresSSLMode}}.Encode(),
	}
	return u.String()
}

func (c *Config) GetPostgresMaxOpenConns() int {
	if c.PostgresMaxOpenConns <= 0 {
		return 25
	}
	return c.PostgresMaxOpenConns
}

func (c *Config) GetPostgresMaxIdleConns() int {
	if c.PostgresMaxIdleConns <= 0 {
		return 5
	}
	return c.PostgresMaxIdleConns
}

func (c *Config) GetPostgresConnMaxLifeMinutes() int {
	if c.PostgresConnMaxLifeMinutes <= 0 {
		return 5
	}
	return c.PostgresConnMaxLifeMinutes
}
