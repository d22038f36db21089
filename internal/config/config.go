package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Storage  *StorageConfig  `mapstructure:"storage"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Checkout *CheckoutConfig `mapstructure:"checkout"`
	Seed     *SeedConfig     `mapstructure:"seed"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTTTL             time.Duration `mapstructure:"jwt_ttl"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type StorageConfig struct {
	Driver    string `mapstructure:"driver"`
	Namespace string `mapstructure:"namespace"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"sslmode"`
}

type CheckoutConfig struct {
	DefaultValidMinutes int    `mapstructure:"default_valid_minutes"`
	QRImageURL          string `mapstructure:"qr_image_url"`
}

// DefaultValidity is the checkout QR lifetime used when an admin does not
// pick one.
func (c *CheckoutConfig) DefaultValidity() time.Duration {
	return time.Duration(c.DefaultValidMinutes) * time.Minute
}

type SeedConfig struct {
	EventsFile    string `mapstructure:"events_file"`
	AdminEmail    string `mapstructure:"admin_email"`
	AdminPassword string `mapstructure:"admin_password"`
	AdminName     string `mapstructure:"admin_name"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:3000"})
	v.SetDefault("api.jwt_ttl", 24*time.Hour)
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("storage.driver", StorageMemory)
	v.SetDefault("storage.namespace", "vnuk")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("checkout.default_valid_minutes", 15)
	v.SetDefault("checkout.qr_image_url", "https://api.qrserver.com/v1/create-qr-code/?size=250x250&data=")
	v.SetDefault("seed.admin_name", "Administrator")
}

// Loader reads the config file once and keeps watching it for changes.
type Loader struct {
	v *viper.Viper
}

func NewLoader(path string) *Loader {
	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	return &Loader{v: v}
}

func (l *Loader) Load() (*AppConfig, error) {
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("l.v.ReadInConfig -> %w", err)
	}

	return l.decode()
}

func (l *Loader) decode() (*AppConfig, error) {
	conf := &AppConfig{}
	if err := l.v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("l.v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Watch calls onChange with the reloaded config every time the file changes.
// Invalid edits are logged and ignored.
func (l *Loader) Watch(onChange func(*AppConfig)) {
	l.v.OnConfigChange(func(e fsnotify.Event) {
		conf, err := l.decode()
		if err != nil {
			zap.L().Error("ignoring invalid config change", zap.String("file", e.Name), zap.Error(err))
			return
		}

		zap.L().Info("config reloaded", zap.String("file", e.Name), zap.String("op", e.Op.String()))
		onChange(conf)
	})
	l.v.WatchConfig()
}

func Load(path string) (*AppConfig, error) {
	return NewLoader(path).Load()
}

func (c *AppConfig) validate() error {
	if c.API.JWTSigningKey == "" {
		return fmt.Errorf("api.jwt_signing_key is required")
	}

	switch c.Storage.Driver {
	case StorageMemory, StoragePostgres:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}

	if c.Checkout.DefaultValidMinutes <= 0 {
		return fmt.Errorf("checkout.default_valid_minutes must be positive, got %d", c.Checkout.DefaultValidMinutes)
	}

	return nil
}
