package create_booking

import "errors"

var (
	// ErrHostNotFound возвращается, когда хост не найден
	ErrHostNotFound = errors.New("create_booking: host not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrOutsideAvailability возвращается, когда интервал не попадает ни в один опубликованный слот
	ErrOutsideAvailability = errors.New("create_booking: interval is outside published availability")

	// ErrConflict возвращается, когда интервал пересекается с существующим бронированием
	ErrConflict = errors.New("create_booking: time slot is already booked")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
