package controller

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTable в сессию еще не загружен файл
	ErrNoTable = errors.New("no file uploaded for this session")
	// ErrNoArchive исходный файл сессии не сохранялся
	ErrNoArchive = errors.New("uploaded file is not archived")
)

// ParamsError некорректное значение параметра отображения
type ParamsError struct {
	Field string
	Err   error
}

func (e *ParamsError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ParamsError) Unwrap() error {
	return e.Err
}
