package hosts

import "errors"

var (
	// ErrHostNotFound возвращается, когда хост не найден
	ErrHostNotFound = errors.New("host not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("hosts: internal error")
)
