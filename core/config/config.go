package config

import (
	"fmt"
	"reflect"
	"strings"

	"autosync/core/autogestor"
	"autosync/core/database"
	"autosync/core/events"
	"autosync/core/lock"
	"autosync/core/logger"
	"autosync/core/reconcile"
	"autosync/core/server"
	"autosync/core/storage"
	"autosync/core/transport"
	"autosync/core/woocommerce"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Woo holds the catalog API endpoint and credentials.
	Woo woocommerce.Config `mapstructure:"woo"`
	// Source holds the vehicle feed endpoint.
	Source autogestor.Config `mapstructure:"source"`
	// Sync holds batching, concurrency and purge settings.
	Sync reconcile.Config `mapstructure:"sync"`
	// Transport holds timeouts and retry settings.
	Transport transport.Config `mapstructure:"transport"`
	// Mapping points at an optional taxonomy override file.
	Mapping MappingConfig `mapstructure:"mapping"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the run journal.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the report archive.
	Storage storage.Config `mapstructure:"storage"`
	// Lock holds configuration for the Redis run lock.
	Lock lock.Config `mapstructure:"lock"`
	// Events holds configuration for the Kafka event stream.
	Events events.Config `mapstructure:"events"`
	// Server holds configuration for the HTTP control surface.
	Server server.Config `mapstructure:"server"`
}

// MappingConfig locates the taxonomy override file.
type MappingConfig struct {
	// File is a YAML or JSON file merged over the built-in tables.
	File string `mapstructure:"file" default:""`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. WOO_URL -> woo.url)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate reports every required setting that is missing.
func (c *Config) Validate() error {
	var missing []string
	if c.Woo.URL == "" {
		missing = append(missing, "WOO_URL")
	}
	if c.Woo.Key == "" {
		missing = append(missing, "WOO_KEY")
	}
	if c.Woo.Secret == "" {
		missing = append(missing, "WOO_SECRET")
	}
	if c.Source.URL == "" {
		missing = append(missing, "SOURCE_URL")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
