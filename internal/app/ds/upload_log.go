// internal/app/ds/upload_log.go
package ds

import "time"

const (
	UploadStatusParsed = "parsed"
	UploadStatusFailed = "failed"
)

// UploadLog запись журнала попыток загрузки. Хранит только метаданные файла.
type UploadLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID string    `gorm:"type:varchar(64) not null;index:idx_upload_logs_session" json:"session_id"`
	Filename  string    `gorm:"type:varchar(255) not null" json:"filename"`
	Format    string    `gorm:"type:varchar(16)" json:"format"`
	Rows      int       `gorm:"not null;default:0" json:"rows"`
	Series    int       `gorm:"not null;default:0" json:"series"`
	Size      int64     `gorm:"not null;default:0" json:"size"`
	Status    string    `gorm:"type:varchar(16) not null;index:idx_upload_logs_status" json:"status"`
	Error     string    `gorm:"type:varchar(512)" json:"error,omitempty"`
	CreatedAt time.Time `gorm:"not null;index:idx_upload_logs_created" json:"created_at"`
}
