package create_bulk_slots

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_bulk_slots: invalid input data")

	// ErrHostNotFound возвращается, когда хост не найден
	ErrHostNotFound = errors.New("create_bulk_slots: host not found")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_bulk_slots: internal error")
)
