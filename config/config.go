package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Log          Logger             `mapstructure:"logger"`
	DB           Database           `mapstructure:"database"`
	API          API                `mapstructure:"api"`
	Auth         Auth               `mapstructure:"auth"`
	Gemini       Gemini             `mapstructure:"gemini"`
	NewsAPI      NewsAPI            `mapstructure:"newsapi"`
	AlphaVantage AlphaVantage       `mapstructure:"alphavantage"`
	News         News               `mapstructure:"news"`
	Portfolio    PortfolioConfig    `mapstructure:"portfolio"`
	Cache        Cache              `mapstructure:"cache"`
	Scheduler    Scheduler          `mapstructure:"scheduler"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Database struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	DBName          string `mapstructure:"name"`
	SSLMode         string `mapstructure:"ssl_mode"`
	TimeZone        string `mapstructure:"time_zone"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime string `mapstructure:"conn_max_lifetime"`
	LogLevel        string `mapstructure:"log_level"`
}

type API struct {
	Port int `mapstructure:"port"`
}

type Auth struct {
	JWTSecret   string        `mapstructure:"jwt_secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
}

type Gemini struct {
	APIKey              string        `mapstructure:"api_key"`
	Model               string        `mapstructure:"model"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int           `mapstructure:"max_token_per_minute"`
}

type NewsAPI struct {
	BaseURL             string        `mapstructure:"base_url"`
	APIKey              string        `mapstructure:"api_key"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
}

type AlphaVantage struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Timeout  time.Duration `mapstructure:"timeout"`
	QuoteTTL time.Duration `mapstructure:"quote_ttl"`
}

type News struct {
	FeedLimit      int      `mapstructure:"feed_limit"`
	MaxConcurrency int      `mapstructure:"max_concurrency"`
	Indices        []string `mapstructure:"indices"`
}

type PortfolioConfig struct {
	RecomputeOnUpdate bool `mapstructure:"recompute_on_update"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

type Scheduler struct {
	PriceRefreshEnabled bool   `mapstructure:"price_refresh_enabled"`
	PriceRefreshSpec    string `mapstructure:"price_refresh_spec"`
}

func Load() (*Config, error) {
	// .env is optional, real deployments inject env vars directly.
	_ = godotenv.Load()

	viper.SetConfigType("yaml")
	viper.SetConfigName("config")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("api.port", 8080)
	viper.SetDefault("auth.token_expiry", 24*time.Hour)
	viper.SetDefault("gemini.model", "gemini-1.5-flash")
	viper.SetDefault("gemini.timeout", 60*time.Second)
	viper.SetDefault("gemini.max_request_per_minute", 15)
	viper.SetDefault("gemini.max_token_per_minute", 1000000)
	viper.SetDefault("newsapi.base_url", "https://newsapi.org/v2")
	viper.SetDefault("newsapi.timeout", 10*time.Second)
	viper.SetDefault("newsapi.max_request_per_minute", 60)
	viper.SetDefault("alphavantage.base_url", "https://www.alphavantage.co")
	viper.SetDefault("alphavantage.timeout", 10*time.Second)
	viper.SetDefault("alphavantage.quote_ttl", 5*time.Minute)
	viper.SetDefault("news.feed_limit", 10)
	viper.SetDefault("news.max_concurrency", 5)
	viper.SetDefault("news.indices", []string{"SENSEX", "NIFTY50", "BANKNIFTY"})
	viper.SetDefault("portfolio.recompute_on_update", false)
	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
	viper.SetDefault("scheduler.price_refresh_enabled", true)
	viper.SetDefault("scheduler.price_refresh_spec", "@every 30m")
}
