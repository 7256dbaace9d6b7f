package ds

import "time"

// Session состояние одной пользовательской сессии: последняя загруженная
// таблица и текущие параметры. Таблица заменяется целиком при каждой загрузке.
type Session struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename,omitempty"`
	Format     string    `json:"format,omitempty"`
	ObjectName string    `json:"object_name,omitempty"`
	Table      *Table    `json:"table,omitempty"`
	Params     Params    `json:"params"`
	MinDate    time.Time `json:"min_date"`
	MaxDate    time.Time `json:"max_date"`
	CreatedAt  time.Time `json:"created_at"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// HasTable сообщает, что в сессию уже загружен файл
func (s *Session) HasTable() bool {
	return s != nil && s.Table != nil
}

// SessionSummary краткое описание сессии для API
type SessionSummary struct {
	SessionID  string     `json:"session_id"`
	Filename   string     `json:"filename,omitempty"`
	Format     string     `json:"format,omitempty"`
	Columns    []string   `json:"columns"`
	Rows       int        `json:"rows"`
	MinDate    string     `json:"min_date,omitempty"`
	MaxDate    string     `json:"max_date,omitempty"`
	Params     *ParamsDTO `json:"params,omitempty"`
	UploadedAt *time.Time `json:"uploaded_at,omitempty"`
}

// Summary возвращает описание сессии
func (s *Session) Summary() SessionSummary {
	sum := SessionSummary{SessionID: s.ID, Columns: []string{}}
	if !s.HasTable() {
		return sum
	}

	sum.Filename = s.Filename
	sum.Format = s.Format
	sum.Columns = append([]string{TimeColumn}, s.Table.Columns...)
	sum.Rows = s.Table.Len()
	if !s.Table.IsEmpty() {
		sum.MinDate = s.MinDate.Format(DateLayout)
		sum.MaxDate = s.MaxDate.Format(DateLayout)
	}
	params := s.Params.DTO()
	sum.Params = &params
	uploadedAt := s.UploadedAt
	sum.UploadedAt = &uploadedAt
	return sum
}
