package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Store    StoreConfig
	Afterpay AfterpayConfig
}

type ServerConfig struct {
	Port int
	Env  string // "development", "production"
}

type DatabaseConfig struct {
	Host    string
	Port    string
	Name    string
	User    string
	Pass    string
	Charset string
}

type RedisConfig struct {
	Addr string
	Pass string
	DB   int
}

// StoreConfig describes the storefront this service integrates with.
type StoreConfig struct {
	// FrontendHost is the storefront base URL callbacks redirect to.
	FrontendHost string
	// PublicHost is this service's externally reachable base URL.
	PublicHost string
	// URL reported to the provider in the User-Agent.
	URL string
	// CombinedNames mirrors the storefront's address name handling.
	CombinedNames bool
	// UseAPIOrderResponses switches express responses to full order bodies.
	UseAPIOrderResponses bool
}

// AfterpayConfig holds the provider settings that are process-wide. The
// per-merchant credentials live on payment method records; these values
// seed the first method and size the configuration cache.
type AfterpayConfig struct {
	MerchantID  string
	SecretKey   string
	TestMode    bool
	AutoCapture bool
	CacheTTL    time.Duration
}

// Load reads configuration from .env file and environment variables.
func Load() (*Config, error) {
	// Load .env file (ignore error if missing)
	_ = godotenv.Load()

	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("APP_ENV", "production")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "3306")
	viper.SetDefault("DB_CHARSET", "utf8mb4")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("STORE_FRONTEND_HOST", "http://localhost:3000")
	viper.SetDefault("PUBLIC_HOST", "http://localhost:8080")
	viper.SetDefault("STORE_COMBINED_NAMES", true)
	viper.SetDefault("STORE_USE_API_RESPONSES", false)
	viper.SetDefault("AFTERPAY_TEST_MODE", false)
	viper.SetDefault("AFTERPAY_AUTO_CAPTURE", true)
	viper.SetDefault("AFTERPAY_CACHE_TTL", "24h")

	cacheTTL, err := time.ParseDuration(viper.GetString("AFTERPAY_CACHE_TTL"))
	if err != nil {
		cacheTTL = 24 * time.Hour
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		Database: DatabaseConfig{
			Host:    viper.GetString("DB_HOST"),
			Port:    viper.GetString("DB_PORT"),
			Name:    viper.GetString("DB_NAME"),
			User:    viper.GetString("DB_USER"),
			Pass:    viper.GetString("DB_PASS"),
			Charset: viper.GetString("DB_CHARSET"),
		},
		Redis: RedisConfig{
			Addr: viper.GetString("REDIS_ADDR"),
			Pass: viper.GetString("REDIS_PASS"),
			DB:   viper.GetInt("REDIS_DB"),
		},
		Store: StoreConfig{
			FrontendHost:         viper.GetString("STORE_FRONTEND_HOST"),
			PublicHost:           viper.GetString("PUBLIC_HOST"),
			URL:                  viper.GetString("STORE_URL"),
			CombinedNames:        viper.GetBool("STORE_COMBINED_NAMES"),
			UseAPIOrderResponses: viper.GetBool("STORE_USE_API_RESPONSES"),
		},
		Afterpay: AfterpayConfig{
			MerchantID:  viper.GetString("AFTERPAY_MERCHANT_ID"),
			SecretKey:   viper.GetString("AFTERPAY_SECRET_KEY"),
			TestMode:    viper.GetBool("AFTERPAY_TEST_MODE"),
			AutoCapture: viper.GetBool("AFTERPAY_AUTO_CAPTURE"),
			CacheTTL:    cacheTTL,
		},
	}

	if cfg.Database.Name == "" {
		log.Println("WARNING: DB_NAME is not set")
	}

	return cfg, nil
}

// DSN returns the MySQL DSN string for GORM.
func (d *DatabaseConfig) DSN() string {
	return d.User + ":" + d.Pass + "@tcp(" + d.Host + ":" + d.Port + ")/" + d.Name + "?charset=" + d.Charset + "&parseTime=True&loc=Local"
}
