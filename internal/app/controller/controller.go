package controller

import (
	"context"
	"errors"
	"time"

	"Backend-Plotter/internal/app/ds"
	"Backend-Plotter/internal/app/pipeline"
	"Backend-Plotter/internal/app/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// UploadArchive хранилище исходных файлов сессий
type UploadArchive interface {
	SaveUpload(ctx context.Context, sessionID, filename string, data []byte) (string, error)
	GetUpload(ctx context.Context, objectName string) ([]byte, error)
	DeleteUpload(ctx context.Context, objectName string) error
}

// UploadLogger журнал попыток загрузки
type UploadLogger interface {
	CreateUploadLog(ctx context.Context, entry *ds.UploadLog) error
}

// Controller связывает загрузку файла и изменение параметров с конвейером.
// Разобранная таблица хранится в сессии, конвейер перезапускается от нее
// при каждом изменении параметров.
type Controller struct {
	store   repository.SessionStore
	archive UploadArchive
	log     UploadLogger
	locks   *keyedMutex
	now     func() time.Time
}

// NewController создает контроллер; archive и log могут быть nil
func NewController(store repository.SessionStore, archive UploadArchive, log UploadLogger) *Controller {
	return &Controller{
		store:   store,
		archive: archive,
		log:     log,
		locks:   newKeyedMutex(),
		now:     time.Now,
	}
}

// CreateSession создает пустую сессию
func (c *Controller) CreateSession(ctx context.Context) (*ds.Session, error) {
	s := &ds.Session{
		ID:        uuid.New().String(),
		CreatedAt: c.now().UTC(),
	}
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}

	logrus.Debugf("Session created: %s", s.ID)
	return s, nil
}

// GetSession возвращает состояние сессии
func (c *Controller) GetSession(ctx context.Context, sessionID string) (*ds.Session, error) {
	return c.store.Load(ctx, sessionID)
}

// Upload разбирает файл и целиком заменяет таблицу сессии.
// Параметры сбрасываются к значениям по умолчанию. При ошибке разбора
// состояние сессии не меняется.
func (c *Controller) Upload(ctx context.Context, sessionID, filename string, data []byte) (*ds.Session, error) {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	s, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	format, table, err := parseFile(filename, data)
	if err != nil {
		c.logUpload(ctx, uploadLogEntry(sessionID, filename, format, data, nil, err))
		return nil, err
	}

	previousObject := s.ObjectName
	updated := *s
	updated.Filename = filename
	updated.Format = string(format)
	updated.Table = table
	updated.Params = ds.DefaultParams(table)
	updated.MinDate = updated.Params.StartDate
	updated.MaxDate = updated.Params.EndDate
	updated.UploadedAt = c.now().UTC()
	updated.ObjectName = ""

	if c.archive != nil {
		objectName, err := c.archive.SaveUpload(ctx, sessionID, filename, data)
		if err != nil {
			// Сессия работает и без архивной копии
			logrus.Error("Failed to archive upload: ", err)
		} else {
			updated.ObjectName = objectName
		}
	}

	if err := c.store.Save(ctx, &updated); err != nil {
		c.deleteObject(ctx, updated.ObjectName)
		return nil, err
	}

	c.deleteObject(ctx, previousObject)
	c.logUpload(ctx, uploadLogEntry(sessionID, filename, format, data, table, nil))

	logrus.Infof("Session %s: uploaded %s (%d rows, %d series)", sessionID, filename, table.Len(), len(table.Columns))
	return &updated, nil
}

// UpdateParams частично изменяет параметры сессии.
// Окно больше максимального ограничивается, окно меньше 1 отклоняется.
func (c *Controller) UpdateParams(ctx context.Context, sessionID string, update ds.ParamsUpdate) (*ds.Session, error) {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	s, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.HasTable() {
		return nil, ErrNoTable
	}

	params, err := applyUpdate(s.Params, &update)
	if err != nil {
		return nil, err
	}

	s.Params = params
	if err := c.store.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// View перестраивает график и таблицу из сохраненной таблицы сессии
func (c *Controller) View(ctx context.Context, sessionID string) (*ds.Result, *ds.Session, error) {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	s, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !s.HasTable() {
		return nil, nil, ErrNoTable
	}

	// Просмотр продлевает жизнь сессии
	if err := c.store.Touch(ctx, sessionID); err != nil {
		logrus.Warnf("Failed to refresh session %s: %v", sessionID, err)
	}

	result, err := pipeline.Run(s.Table, s.Params, s.Filename)
	if err != nil {
		return nil, nil, err
	}
	return result, s, nil
}

// UploadedFile возвращает исходный файл текущей загрузки
func (c *Controller) UploadedFile(ctx context.Context, sessionID string) ([]byte, *ds.Session, error) {
	s, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if !s.HasTable() {
		return nil, nil, ErrNoTable
	}
	if c.archive == nil || s.ObjectName == "" {
		return nil, nil, ErrNoArchive
	}

	data, err := c.archive.GetUpload(ctx, s.ObjectName)
	if err != nil {
		return nil, nil, err
	}
	return data, s, nil
}

// DeleteSession удаляет сессию и ее архивный файл
func (c *Controller) DeleteSession(ctx context.Context, sessionID string) error {
	unlock := c.locks.Lock(sessionID)
	defer unlock()

	s, err := c.store.Load(ctx, sessionID)
	if err != nil {
		return err
	}

	c.deleteObject(ctx, s.ObjectName)
	if err := c.store.Delete(ctx, sessionID); err != nil {
		return err
	}

	logrus.Debugf("Session deleted: %s", sessionID)
	return nil
}

// Plot строит график и таблицу по файлу без сохранения состояния
func (c *Controller) Plot(filename string, data []byte, update *ds.ParamsUpdate) (*ds.Result, ds.Params, error) {
	_, table, err := parseFile(filename, data)
	if err != nil {
		return nil, ds.Params{}, err
	}

	params, err := applyUpdate(ds.DefaultParams(table), update)
	if err != nil {
		return nil, ds.Params{}, err
	}

	result, err := pipeline.Run(table, params, filename)
	if err != nil {
		return nil, ds.Params{}, err
	}
	return result, params, nil
}

func parseFile(filename string, data []byte) (pipeline.Format, *ds.Table, error) {
	format, err := pipeline.FormatFromFilename(filename)
	if err != nil {
		return "", nil, err
	}
	table, err := pipeline.Parse(data, format)
	if err != nil {
		return format, nil, err
	}
	return format, table, nil
}

// applyUpdate применяет заданные поля update к p
func applyUpdate(p ds.Params, update *ds.ParamsUpdate) (ds.Params, error) {
	if update == nil {
		return p, nil
	}

	if update.StartDate != nil {
		d, err := ds.ParseDate(*update.StartDate)
		if err != nil {
			return p, &ParamsError{Field: "start_date", Err: err}
		}
		p.StartDate = d
	}
	if update.EndDate != nil {
		d, err := ds.ParseDate(*update.EndDate)
		if err != nil {
			return p, &ParamsError{Field: "end_date", Err: err}
		}
		p.EndDate = d
	}
	if update.WindowSize != nil {
		w := *update.WindowSize
		if w < ds.MinWindowSize {
			return p, &pipeline.InvalidWindowError{Window: w}
		}
		if w > ds.MaxWindowSize {
			w = ds.MaxWindowSize
		}
		p.WindowSize = w
	}
	return p, nil
}

func uploadLogEntry(sessionID, filename string, format pipeline.Format, data []byte, table *ds.Table, err error) *ds.UploadLog {
	entry := &ds.UploadLog{
		SessionID: sessionID,
		Filename:  filename,
		Format:    string(format),
		Size:      int64(len(data)),
		Status:    ds.UploadStatusParsed,
	}
	if table != nil {
		entry.Rows = table.Len()
		entry.Series = len(table.Columns)
	}
	if err != nil {
		entry.Status = ds.UploadStatusFailed
		entry.Error = truncate(err.Error(), 512)
	}
	return entry
}

func (c *Controller) logUpload(ctx context.Context, entry *ds.UploadLog) {
	if c.log == nil {
		return
	}
	entry.CreatedAt = c.now().UTC()
	if err := c.log.CreateUploadLog(ctx, entry); err != nil {
		logrus.Error("Failed to write upload log: ", err)
	}
}

func (c *Controller) deleteObject(ctx context.Context, objectName string) {
	if c.archive == nil || objectName == "" {
		return
	}
	if err := c.archive.DeleteUpload(ctx, objectName); err != nil {
		logrus.Warnf("Failed to delete archived upload %s: %v", objectName, err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// IsNotFound сообщает, что сессия не найдена
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrSessionNotFound)
}
