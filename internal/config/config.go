package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every knob the server reads from the environment. Values are
// loaded once in main and handed to the components that need them; nothing in
// the codebase reads os.Getenv after startup.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	MongoURI      string
	MongoDB       string
	AllowDegraded bool

	JWTSecret string
	JWTTTL    time.Duration

	TaxRate         float64
	FreeShippingMin float64
	ShippingPrice   float64

	UploadDir      string
	MaxUploadBytes int64

	StripeSecretKey      string
	StripePublishableKey string
	PayPalClientID       string
}

func Load() *Config {
	godotenv.Load()

	return &Config{
		Addr:         getEnv("ADDR", ":4000"),
		ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 10*time.Second),
		WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),

		MongoURI:      getEnv("MONGO_URI", ""),
		MongoDB:       getEnv("MONGO_DB", "storefront"),
		AllowDegraded: getEnvBool("ALLOW_DEGRADED", true),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTTTL:    getEnvDuration("JWT_TTL", 60*24*time.Hour),

		TaxRate:         getEnvFloat("TAX_RATE", 0.15),
		FreeShippingMin: getEnvFloat("FREE_SHIPPING_MIN", 100),
		ShippingPrice:   getEnvFloat("SHIPPING_PRICE", 10),

		UploadDir:      getEnv("UPLOAD_DIR", "./uploads"),
		MaxUploadBytes: getEnvInt64("MAX_UPLOAD_BYTES", 60<<20),

		StripeSecretKey:      getEnv("STRIPE_SECRET_KEY", ""),
		StripePublishableKey: getEnv("STRIPE_PUBLISHABLE_KEY", ""),
		PayPalClientID:       getEnv("PAYPAL_CLIENT_ID", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
