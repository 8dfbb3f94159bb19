package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// MongoDB.
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisEventsDB int    `mapstructure:"REDIS_EVENTS_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Shared secret of the hosted auth provider.
	JWTSecret string `mapstructure:"JWT_SECRET"`

	// Scheduling.
	Timezone            string        `mapstructure:"TIMEZONE"`
	RequestTimeout      time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	PaymentWatchTimeout time.Duration `mapstructure:"PAYMENT_WATCH_TIMEOUT"`
	ReminderLeadTime    time.Duration `mapstructure:"REMINDER_LEAD_TIME"`
	SessionTTL          time.Duration `mapstructure:"SESSION_TTL"`

	// M-Pesa STK push proxy (serverless function in front of Daraja).
	MpesaProxyURL    string `mapstructure:"MPESA_PROXY_URL"`
	MpesaProxyKey    string `mapstructure:"MPESA_PROXY_KEY"`
	MpesaCallbackURL string `mapstructure:"MPESA_CALLBACK_URL"`

	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults(viper.GetViper())

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "sokoni")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("REDIS_EVENTS_DB", 1)
	v.SetDefault("REDIS_QUEUE_DB", 2)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("TIMEZONE", "Africa/Nairobi")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("PAYMENT_WATCH_TIMEOUT", "3m")
	v.SetDefault("REMINDER_LEAD_TIME", "1h")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("MPESA_PROXY_URL", "")
	v.SetDefault("MPESA_PROXY_KEY", "")
	v.SetDefault("MPESA_CALLBACK_URL", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location returns the marketplace timezone. Booking dates are stored as instants but
// slots are computed as wall-clock times in this location.
func Location() *time.Location {
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil || AppConfig.Timezone == "" {
		return time.FixedZone("EAT", 3*60*60)
	}
	return loc
}

// RequestTimeout returns the per-call I/O timeout, falling back to 15s when unset.
func RequestTimeout() time.Duration {
	if AppConfig.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return AppConfig.RequestTimeout
}
