// internal/app/repository/upload.go
package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"Backend-Plotter/internal/app/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// UploadRepository хранит исходный файл текущей загрузки сессии в MinIO.
// При новой загрузке предыдущий файл сессии удаляется.
type UploadRepository struct {
	minioClient *minio.Client
	bucket      string
}

func NewUploadRepository(minioClient *minio.Client, bucket string) *UploadRepository {
	return &UploadRepository{
		minioClient: minioClient,
		bucket:      bucket,
	}
}

// InitMinIOClient подключается к MinIO и создает bucket, если его нет
func InitMinIOClient(cfg *config.Config) (*minio.Client, error) {
	minioClient, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Создаем bucket если не существует
	exists, err := minioClient.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		err = minioClient.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	logrus.Info("MinIO client initialized successfully")
	return minioClient, nil
}

// ObjectName возвращает имя объекта для загрузки сессии
func ObjectName(sessionID, filename string, at time.Time) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("sessions/%s/upload_%d%s", sessionID, at.UnixNano(), ext)
}

// ContentType определяет MIME-тип по расширению файла
func ContentType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".xlsm":
		return "application/vnd.ms-excel.sheet.macroEnabled.12"
	}
	return "application/octet-stream"
}

// SaveUpload сохраняет загруженный файл и возвращает имя объекта
func (r *UploadRepository) SaveUpload(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	objectName := ObjectName(sessionID, filename, time.Now())

	_, err := r.minioClient.PutObject(ctx, r.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: ContentType(filename),
		UserMetadata: map[string]string{
			"filename": filename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", objectName, err)
	}

	return objectName, nil
}

// GetUpload возвращает содержимое сохраненного файла
func (r *UploadRepository) GetUpload(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := r.minioClient.GetObject(ctx, r.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s: %w", objectName, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s: %w", objectName, err)
	}
	return data, nil
}

// DeleteUpload удаляет сохраненный файл; отсутствующий объект не считается ошибкой
func (r *UploadRepository) DeleteUpload(ctx context.Context, objectName string) error {
	if objectName == "" {
		return nil
	}

	_, err := r.minioClient.StatObject(ctx, r.bucket, objectName, minio.StatObjectOptions{})
	if err != nil {
		logrus.Printf("File %s not found in MinIO bucket %s, skipping deletion", objectName, r.bucket)
		return nil
	}

	err = r.minioClient.RemoveObject(ctx, r.bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete object from MinIO: %w", err)
	}

	logrus.Debugf("Deleted upload from MinIO: %s", objectName)
	return nil
}
