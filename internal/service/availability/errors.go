package availability

import "errors"

var (
	// ErrHostNotFound возвращается, когда хост не найден
	ErrHostNotFound = errors.New("availability: host not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrSlotConflict слот этого типа уже начинается в то же время
	ErrSlotConflict = errors.New("availability: slot of this type already starts at this time")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
