package config

import (
	"fmt"
	"reflect"
	"strings"

	"class-sync/core/canvas"
	"class-sync/core/database"
	"class-sync/core/destination"
	"class-sync/core/logger"
	"class-sync/core/notion"
	"class-sync/core/reconcile"
	"class-sync/core/server"
	"class-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP server.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Canvas1 and Canvas2 are the LMS accounts. Unconfigured accounts are skipped.
	Canvas1 canvas.Config `mapstructure:"canvas_1"`
	Canvas2 canvas.Config `mapstructure:"canvas_2"`
	// Notion holds the credentials of the notion destination driver.
	Notion notion.Config `mapstructure:"notion"`
	// Destination selects the store and names its collections.
	Destination destination.Config `mapstructure:"destination"`
	// Database holds configuration for the SQL connection.
	Database database.Config `mapstructure:"database"`
	// Storage holds configuration for the run report archive.
	Storage storage.Config `mapstructure:"storage"`
	// Sync holds the run settings.
	Sync reconcile.Config `mapstructure:"sync"`
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

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. CANVAS_1_API_TOKEN -> canvas_1.api_token)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
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

// Accounts returns the configured LMS accounts in order.
func (c *Config) Accounts() []canvas.Config {
	var out []canvas.Config
	for _, acc := range []canvas.Config{c.Canvas1, c.Canvas2} {
		if acc.Configured() {
			out = append(out, acc)
		}
	}
	return out
}

// ConfigurationError lists missing or invalid settings by environment name.
type ConfigurationError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "invalid "+strings.Join(e.Invalid, ", "))
	}
	return "configuration: " + strings.Join(parts, "; ")
}

// Validate reports the settings a full sync needs but does not have.
// The application still starts; affected accounts and collections are no-ops.
func (c *Config) Validate() error {
	e := &ConfigurationError{}

	if len(c.Accounts()) == 0 {
		e.Missing = append(e.Missing, "CANVAS_1_API_TOKEN", "CANVAS_1_API_BASE")
	} else {
		e.Missing = append(e.Missing, incompleteAccount("CANVAS_1", c.Canvas1)...)
	}
	e.Missing = append(e.Missing, incompleteAccount("CANVAS_2", c.Canvas2)...)

	switch c.Destination.Driver {
	case destination.DriverNotion:
		if strings.TrimSpace(c.Notion.APIToken) == "" {
			e.Missing = append(e.Missing, "NOTION_API_TOKEN")
		}
	case destination.DriverMySQL, destination.DriverSQLite:
		if c.Database.Driver != c.Destination.Driver {
			e.Invalid = append(e.Invalid, fmt.Sprintf("DATABASE_DRIVER=%q (destination uses %q)", c.Database.Driver, c.Destination.Driver))
		} else if !c.Database.Enabled() {
			e.Missing = append(e.Missing, "DATABASE_NAME")
		}
	default:
		e.Invalid = append(e.Invalid, fmt.Sprintf("DESTINATION_DRIVER=%q", c.Destination.Driver))
	}

	if c.Destination.Assignments == "" {
		e.Missing = append(e.Missing, "DESTINATION_ASSIGNMENTS")
	}
	if c.Destination.Resources == "" {
		e.Missing = append(e.Missing, "DESTINATION_RESOURCES")
	}
	if c.Destination.CoursePlanner == "" {
		e.Missing = append(e.Missing, "DESTINATION_COURSE_PLANNER")
	}
	if c.Destination.ErrorLog == "" {
		e.Missing = append(e.Missing, "DESTINATION_ERROR_LOG")
	}
	if c.Sync.Workers < 1 {
		e.Invalid = append(e.Invalid, fmt.Sprintf("SYNC_WORKERS=%d", c.Sync.Workers))
	}

	if len(e.Missing) == 0 && len(e.Invalid) == 0 {
		return nil
	}
	return e
}

// incompleteAccount names the credentials of a partly configured account.
// An account with nothing set is not reported.
func incompleteAccount(prefix string, acc canvas.Config) []string {
	token := strings.TrimSpace(acc.APIToken) != ""
	base := strings.TrimSpace(acc.APIBase) != ""
	label := strings.TrimSpace(acc.Label) != ""
	if token == base && (token || !label) {
		return nil
	}
	var missing []string
	if !token {
		missing = append(missing, prefix+"_API_TOKEN")
	}
	if !base {
		missing = append(missing, prefix+"_API_BASE")
	}
	return missing
}
