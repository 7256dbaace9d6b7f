package repository

import (
	"Backend-Plotter/internal/app/config"
	"Backend-Plotter/internal/app/dsn"
	"Backend-Plotter/internal/app/redis"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	redisClient *redis.Client
	Sessions    SessionStore
	// Uploads nil, если MinIO отключен
	Uploads *UploadRepository
	// UploadLogs nil, если журнал загрузок отключен
	UploadLogs *UploadLogRepository
}

func NewRepository(cfg *config.Config) (*Repository, error) {
	repo := &Repository{}

	// Инициализируем Redis клиент
	if cfg.RedisEnabled {
		redisClient, err := redis.NewClient(cfg)
		if err != nil {
			// Продолжаем без Redis, сессии хранятся в памяти процесса
			logrus.Warnf("Failed to initialize Redis client: %v", err)
		} else {
			repo.redisClient = redisClient
		}
	}

	if repo.redisClient != nil {
		repo.Sessions = NewRedisSessionStore(repo.redisClient, cfg.SessionTTL)
	} else {
		logrus.Warn("Using in-memory session store")
		repo.Sessions = NewMemorySessionStore(cfg.SessionTTL)
	}

	// Инициализируем MinIO клиент
	if cfg.MinioEnabled {
		minioClient, err := InitMinIOClient(cfg)
		if err != nil {
			return nil, err
		}
		repo.Uploads = NewUploadRepository(minioClient, cfg.MinioBucket)
	}

	// Инициализируем базу данных
	if cfg.UploadLogEnabled {
		db, err := gorm.Open(postgres.Open(dsn.FromEnv()), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		repo.UploadLogs = NewUploadLogRepository(db)
	}

	return repo, nil
}

// GetRedisClient возвращает Redis клиент
func (r *Repository) GetRedisClient() *redis.Client {
	return r.redisClient
}

// Close закрывает все соединения
func (r *Repository) Close() {
	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			logrus.Errorf("Error closing Redis client: %v", err)
		}
	}
}
