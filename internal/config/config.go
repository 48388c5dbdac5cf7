package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store drivers selectable with STORE_DRIVER.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	Env        string
	ServerPort string

	StoreDriver string
	MySQLDSN    string
	SQLitePath  string
	MongoURI    string
	MongoDB     string
	ResetDB     bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret string

	KafkaBrokers []string
	KafkaTopic   string

	AuthRateLimitPerMinute int
	SwaggerHost            string

	Admin AdminConfig
}

// AdminConfig is the bootstrap administrator created by cmd/seed.
type AdminConfig struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

// Load builds Config from environment with sensible defaults. A .env file in the
// working directory is read first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env:        getEnv("APP_ENV", "production"),
		ServerPort: getEnv("SERVER_PORT", "8080"),

		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverMySQL)),
		MySQLDSN:    getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/propertyhub?charset=utf8mb4&parseTime=True&loc=UTC"),
		SQLitePath:  getEnv("SQLITE_PATH", "propertyhub.db"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:     getEnv("MONGO_DB", "propertyhub"),
		ResetDB:     os.Getenv("RESET_DB") == "true",

		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),

		JWTSecret: getEnv("JWT_SECRET", "change-me"),

		KafkaBrokers: getEnvList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "propertyhub.events"),

		AuthRateLimitPerMinute: getEnvInt("AUTH_RATE_LIMIT_PER_MINUTE", 20),
		SwaggerHost:            os.Getenv("SWAGGER_HOST"),

		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", "Administrator"),
			Email:    os.Getenv("ADMIN_EMAIL"),
			Phone:    getEnv("ADMIN_PHONE", "0000000000"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}
}

// IsDevelopment reports whether APP_ENV selects development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
