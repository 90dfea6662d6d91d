package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DefaultConfigName = "catalogseed.config"
	DefaultURLEnv     = "DATABASE_URL"
)

// EnvFiles are loaded in order before the config file is read. Later files
// override earlier ones; variables already set in the process win over both.
var EnvFiles = []string{".env", ".env.local"}

// Keys are the config keys that can also come from the environment, e.g.
// seed.collections from SEED_COLLECTIONS.
var Keys = []string{
	"database.provider",
	"database.url_env",
	"seed.collections",
	"seed.categories_per_collection",
	"seed.subcollections_per_category",
	"seed.subcategories_per_subcollection",
	"seed.products_per_subcategory",
	"seed.batch_size",
	"seed.clear",
	"seed.transaction",
	"seed.rand_seed",
	"log.level",
	"log.encoding",
}

// BindEnv registers Keys with viper. AutomaticEnv alone does not make
// env-only keys visible to Unmarshal.
func BindEnv() error {
	for _, key := range Keys {
		if err := viper.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}
	return nil
}

// LoadEnv reads the given dotenv files, skipping the ones that do not exist.
func LoadEnv(files ...string) error {
	merged := make(map[string]string)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to read %s: %w", file, err)
		}
		for k, v := range values {
			merged[k] = v
		}
	}

	for k, v := range merged {
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to set %s: %w", k, err)
		}
	}
	return nil
}

type Config struct {
	Version  string   `json:"version" mapstructure:"version"`
	Database Database `json:"database" mapstructure:"database"`
	Seed     Seed     `json:"seed" mapstructure:"seed"`
	Log      Log      `json:"log" mapstructure:"log"`
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider" validate:"required,oneof=postgresql postgres mysql sqlite sqlite3"`
	URLEnv   string `json:"url_env" mapstructure:"url_env" validate:"required"`
}

// Seed holds the fan-out constants and run switches for the seed command.
type Seed struct {
	Collections                   int   `json:"collections" mapstructure:"collections" validate:"gte=1,lte=10000"`
	CategoriesPerCollection       int   `json:"categories_per_collection" mapstructure:"categories_per_collection" validate:"gte=1,lte=10000"`
	SubcollectionsPerCategory     int   `json:"subcollections_per_category" mapstructure:"subcollections_per_category" validate:"gte=1,lte=10000"`
	SubcategoriesPerSubcollection int   `json:"subcategories_per_subcollection" mapstructure:"subcategories_per_subcollection" validate:"gte=1,lte=10000"`
	ProductsPerSubcategory        int   `json:"products_per_subcategory" mapstructure:"products_per_subcategory" validate:"gte=1,lte=10000"`
	BatchSize                     int   `json:"batch_size" mapstructure:"batch_size" validate:"gte=1,lte=10000"`
	Clear                         bool  `json:"clear" mapstructure:"clear"`
	Transaction                   bool  `json:"transaction" mapstructure:"transaction"`
	RandSeed                      int64 `json:"rand_seed" mapstructure:"rand_seed"`
}

type Log struct {
	Level    string `json:"level" mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Encoding string `json:"encoding" mapstructure:"encoding" validate:"required,oneof=console json"`
}

func Load() (*Config, error) {
	var cfg Config

	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Version == "" {
		cfg.Version = "1"
	}
	if cfg.Database.Provider == "" {
		cfg.Database.Provider = "postgresql"
	}
	if cfg.Database.URLEnv == "" {
		cfg.Database.URLEnv = DefaultURLEnv
	}
	// Explicit zeros are kept so Validate can reject them.
	seedDefaults := []struct {
		key   string
		field *int
		value int
	}{
		{"seed.collections", &cfg.Seed.Collections, 20},
		{"seed.categories_per_collection", &cfg.Seed.CategoriesPerCollection, 5},
		{"seed.subcollections_per_category", &cfg.Seed.SubcollectionsPerCategory, 2},
		{"seed.subcategories_per_subcollection", &cfg.Seed.SubcategoriesPerSubcollection, 2},
		{"seed.products_per_subcategory", &cfg.Seed.ProductsPerSubcategory, 10},
		{"seed.batch_size", &cfg.Seed.BatchSize, 500},
	}
	for _, d := range seedDefaults {
		if !viper.IsSet(d.key) {
			*d.field = d.value
		}
	}
	if !viper.IsSet("seed.clear") {
		cfg.Seed.Clear = true
	}
	if !viper.IsSet("seed.transaction") {
		cfg.Seed.Transaction = true
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Encoding == "" {
		cfg.Log.Encoding = "console"
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c *Config) GetDatabaseURL() (string, error) {
	dbURL := os.Getenv(c.Database.URLEnv)
	if dbURL == "" {
		return "", fmt.Errorf("database URL not found in environment variable %s", c.Database.URLEnv)
	}
	return dbURL, nil
}
