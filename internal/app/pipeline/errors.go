package pipeline

import "fmt"

// ParseError файл не удалось разобрать в таблицу временного ряда
type ParseError struct {
	Reason string
	// Row номер строки данных (с 1), 0 если ошибка не относится к строке
	Row int
	Err error
}

func (e *ParseError) Error() string {
	msg := e.Reason
	if e.Row > 0 {
		msg = fmt.Sprintf("row %d: %s", e.Row, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseErr(reason string, err error) *ParseError {
	return &ParseError{Reason: reason, Err: err}
}

func rowErr(row int, reason string, err error) *ParseError {
	return &ParseError{Reason: reason, Row: row, Err: err}
}

// InvalidWindowError окно скользящего среднего меньше 1
type InvalidWindowError struct {
	Window int
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid moving average window %d: must be at least 1", e.Window)
}
