package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	ServiceHost string
	ServicePort int
	LogLevel    string
	LogFormat   string

	// Ограничения загрузки и отображения
	MaxUploadSize int64
	TablePageSize int
	SessionTTL    time.Duration

	// Токены сессий
	SessionSecret string
	SessionExpire time.Duration

	// Redis Configuration
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// MinIO Configuration
	MinioEnabled   bool
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioUseSSL    bool
	MinioBucket    string

	// Журнал загрузок в Postgres
	UploadLogEnabled bool
}

// Default значения, используемые при отсутствии ключа в config.toml
func setDefaults() {
	viper.SetDefault("ServiceHost", "0.0.0.0")
	viper.SetDefault("ServicePort", 8080)
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("LogFormat", "text")
	viper.SetDefault("MaxUploadSize", 32<<20)
	viper.SetDefault("TablePageSize", 20)
	viper.SetDefault("SessionTTL", "2h")
	viper.SetDefault("RedisEnabled", true)
	viper.SetDefault("MinioEnabled", false)
	viper.SetDefault("MinioBucket", "timeseries-uploads")
	viper.SetDefault("UploadLogEnabled", false)
}

func NewConfig() (*Config, error) {
	var err error

	// Загружаем .env файл
	_ = godotenv.Load()

	// Загружаем TOML конфигурацию
	configName := "config"
	if os.Getenv("CONFIG_NAME") != "" {
		configName = os.Getenv("CONFIG_NAME")
	}

	setDefaults()
	viper.SetConfigName(configName)
	viper.SetConfigType("toml")
	viper.AddConfigPath("config")
	viper.AddConfigPath(".")

	err = viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = viper.Unmarshal(cfg)
	if err != nil {
		return nil, err
	}

	// Секрет для подписи токенов сессий из .env
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "your-default-session-secret-for-development-change-in-production"
		log.Warn("Using default session secret - change in production!")
	}
	cfg.SessionSecret = secret

	cfg.SessionExpire = getDuration("SESSION_EXPIRE", cfg.SessionTTL)

	// Redis конфигурация из .env
	cfg.RedisHost = getEnv("REDIS_HOST", "localhost")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getEnv("REDIS_PASSWORD", "")

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}
	cfg.RedisDB = redisDB

	// MinIO конфигурация из .env
	cfg.MinioEndpoint = getEnv("MINIO_ENDPOINT", "localhost:9000")
	cfg.MinioAccessKey = getEnv("MINIO_ACCESS_KEY", "minio")
	cfg.MinioSecretKey = getEnv("MINIO_SECRET_KEY", "minio124")
	if ssl := os.Getenv("MINIO_USE_SSL"); ssl != "" {
		cfg.MinioUseSSL, _ = strconv.ParseBool(ssl)
	}

	log.Info("config parsed")

	return cfg, nil
}

// ConfigureLogger настраивает logrus по конфигурации
func (c *Config) ConfigureLogger() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", c.LogLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.LogFormat == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

// getEnv вспомогательная функция для получения environment variables
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
