package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every tunable of the storefront. All defaults are the
// insecure development fallbacks the service has always shipped with;
// production deployments override them via the environment.
type Config struct {
	Host       string
	Port       string
	CORSOrigin string

	JWTSecret string
	JWTTTL    time.Duration

	AdminKey string

	DBDriver    string
	DBPath      string
	DatabaseURL string

	KafkaAddress string

	ESURL      string
	ESUser     string
	ESPassword string

	AssetsDir string
	LogLevel  string

	SecureCookies bool
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env file not found: %v, using system environment", err)
	}

	ttl, err := time.ParseDuration(getEnv("JWT_EXPIRES_IN", "168h"))
	if err != nil || ttl <= 0 {
		ttl = 168 * time.Hour
	}

	return &Config{
		Host:          getEnv("HOST", "localhost"),
		Port:          getEnv("PORT", "3000"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "http://localhost:3000"),
		JWTSecret:     getEnv("JWT_SECRET", "ecomerce_jwt_secrec"),
		JWTTTL:        ttl,
		AdminKey:      getEnv("ADMIN_KEY", "admin"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBPath:        getEnv("DB_PATH", "./data/db.sqlite"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		KafkaAddress:  os.Getenv("KAFKA_ADDRESS"),
		ESURL:         os.Getenv("ES_URL"),
		ESUser:        os.Getenv("ES_USER"),
		ESPassword:    os.Getenv("ES_PASSWORD"),
		AssetsDir:     getEnv("ASSETS_DIR", "./assets/cdn"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SecureCookies: os.Getenv("APP_ENV") == "production",
	}
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == "postgres" {
		return c.DatabaseURL
	}
	return c.DBPath
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
