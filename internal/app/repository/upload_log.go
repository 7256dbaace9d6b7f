// internal/app/repository/upload_log.go
package repository

import (
	"context"

	"Backend-Plotter/internal/app/ds"

	"gorm.io/gorm"
)

// UploadLogRepository журнал попыток загрузки в Postgres
type UploadLogRepository struct {
	db *gorm.DB
}

func NewUploadLogRepository(db *gorm.DB) *UploadLogRepository {
	return &UploadLogRepository{
		db: db,
	}
}

// CreateUploadLog добавляет запись в журнал
func (r *UploadLogRepository) CreateUploadLog(ctx context.Context, entry *ds.UploadLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// GetUploadLogs возвращает журнал загрузок с пагинацией, новые записи первыми
func (r *UploadLogRepository) GetUploadLogs(
	ctx context.Context,
	status, sessionID string,
	page, pageSize int,
) ([]ds.UploadLog, ds.PaginationInfo, error) {

	page, pageSize = normalizePage(page, pageSize)

	// Отдельный запрос для Count и для Find
	query := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&ds.UploadLog{})
		if status != "" {
			q = q.Where("status = ?", status)
		}
		if sessionID != "" {
			q = q.Where("session_id = ?", sessionID)
		}
		return q
	}

	// Получаем общее количество записей
	var total int64
	if err := query().Count(&total).Error; err != nil {
		return nil, ds.PaginationInfo{}, err
	}

	offset := (page - 1) * pageSize

	var logs []ds.UploadLog
	err := query().
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error
	if err != nil {
		return nil, ds.PaginationInfo{}, err
	}

	pagination := ds.PaginationInfo{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}

	return logs, pagination, nil
}

// MigrateUploadLogs создает таблицу журнала и составные индексы
func MigrateUploadLogs(db *gorm.DB) error {
	if err := db.AutoMigrate(&ds.UploadLog{}); err != nil {
		return err
	}

	indexes := []string{
		// Индекс для пагинации по умолчанию
		`CREATE INDEX IF NOT EXISTS idx_upload_logs_pagination
		 ON upload_logs (created_at DESC, id DESC)`,

		// Фильтрация по статусу
		`CREATE INDEX IF NOT EXISTS idx_upload_logs_status_created
		 ON upload_logs (status, created_at DESC)`,
	}

	for _, sql := range indexes {
		if err := db.Exec(sql).Error; err != nil {
			return err
		}
	}

	return nil
}

// normalizePage ограничивает номер и размер страницы
func normalizePage(page, pageSize int) (int, int) {
	if pageSize <= 0 {
		pageSize = ds.DefaultLogPageSize
	}
	if pageSize > ds.MaxLogPageSize {
		pageSize = ds.MaxLogPageSize
	}
	if page < 1 {
		page = 1
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
