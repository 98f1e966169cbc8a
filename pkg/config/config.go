package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	Data  DataConfig
	Cache CacheConfig
	Redis RedisConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"INSIGHTS_APP_ENV" default:"development"`
	Port         string `envconfig:"INSIGHTS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"INSIGHTS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"INSIGHTS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// DataConfig locates the raw CSV datasets and sets preparation defaults.
type DataConfig struct {
	Dir           string `envconfig:"INSIGHTS_DATA_DIR" default:"ecommerce_data"`
	OrdersFile    string `envconfig:"INSIGHTS_DATA_ORDERS_FILE" default:"orders_dataset.csv"`
	ItemsFile     string `envconfig:"INSIGHTS_DATA_ITEMS_FILE" default:"order_items_dataset.csv"`
	ProductsFile  string `envconfig:"INSIGHTS_DATA_PRODUCTS_FILE" default:"products_dataset.csv"`
	CustomersFile string `envconfig:"INSIGHTS_DATA_CUSTOMERS_FILE" default:"customers_dataset.csv"`
	ReviewsFile   string `envconfig:"INSIGHTS_DATA_REVIEWS_FILE" default:"order_reviews_dataset.csv"`

	// StatusFilter restricts the prepared sales table to one order status.
	// Empty keeps every status.
	StatusFilter string `envconfig:"INSIGHTS_DATA_STATUS_FILTER" default:"delivered"`
}

type CacheConfig struct {
	SummaryTTL time.Duration `envconfig:"INSIGHTS_CACHE_SUMMARY_TTL" default:"15m"`
}

// RedisConfig is optional; an empty URL disables the summary cache.
type RedisConfig struct {
	URL          string        `envconfig:"INSIGHTS_REDIS_URL"`
	Address      string        `envconfig:"INSIGHTS_REDIS_ADDR"`
	Password     string        `envconfig:"INSIGHTS_REDIS_PASSWORD"`
	DB           int           `envconfig:"INSIGHTS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"INSIGHTS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"INSIGHTS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"INSIGHTS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"INSIGHTS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"INSIGHTS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a cache backend is configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}
