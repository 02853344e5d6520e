package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	configFileName = "compro"
	configFileType = "yaml"

	keySqliteDB       = "sqlite_db"
	keySessionSecret  = "session_secret"
	keyPort           = "port"
	keyDomain         = "domain"
	keyCacheDir       = "cache_dir"
	keyCacheMaxAge    = "cache_max_age"
	keyNavigationName = "navigation_name"
	keyDefaultLocale  = "default_locale"
	keyAdminEmail     = "admin_email"
	keyAdminPassword  = "admin_password"
)

type Config struct {
	SqliteDB       string
	SessionSecret  string
	Port           string
	Domain         string
	CacheDir       string
	CacheMaxAge    time.Duration
	NavigationName string
	DefaultLocale  string
	AdminEmail     string
	AdminPassword  string
}

// Load reads .env (if present), an optional compro.yaml in the working
// directory and the environment, in increasing order of precedence.
func Load() (*Config, error) {
	// A missing .env is fine, values may come from the host environment.
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		log.Println("loaded config file:", v.ConfigFileUsed())
	}

	return fromViper(v), nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyDomain, "http://localhost:8080")
	v.SetDefault(keyCacheDir, "cache")
	v.SetDefault(keyCacheMaxAge, 5*time.Minute)
	v.SetDefault(keyNavigationName, "Main Navigation")
	v.SetDefault(keyDefaultLocale, "id")
	v.SetDefault(keyAdminEmail, "admin@present.test")
	v.SetDefault(keyAdminPassword, "Admin123!")

	// AutomaticEnv only resolves keys viper already knows about.
	v.SetDefault(keySqliteDB, "")
	v.SetDefault(keySessionSecret, "")
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		SqliteDB:       v.GetString(keySqliteDB),
		SessionSecret:  v.GetString(keySessionSecret),
		Port:           v.GetString(keyPort),
		Domain:         strings.TrimSuffix(v.GetString(keyDomain), "/"),
		CacheDir:       v.GetString(keyCacheDir),
		CacheMaxAge:    v.GetDuration(keyCacheMaxAge),
		NavigationName: v.GetString(keyNavigationName),
		DefaultLocale:  v.GetString(keyDefaultLocale),
		AdminEmail:     v.GetString(keyAdminEmail),
		AdminPassword:  v.GetString(keyAdminPassword),
	}
}

// Validate checks the settings every command needs. Serving additionally
// needs a session secret, see ValidateServe.
func (c *Config) Validate() error {
	if c.SqliteDB == "" {
		return errors.New("SQLITE_DB environment variable not set")
	}
	if c.DefaultLocale != "id" && c.DefaultLocale != "en" {
		return fmt.Errorf("unsupported default_locale %q", c.DefaultLocale)
	}
	return nil
}

func (c *Config) ValidateServe() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.SessionSecret == "" {
		return errors.New("SESSION_SECRET environment variable not set")
	}
	return nil
}
