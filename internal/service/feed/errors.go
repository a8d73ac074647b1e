package feed

import "errors"

var (
	// ErrHostNotFound возвращается, когда хост не найден
	ErrHostNotFound = errors.New("feed: host not found")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("feed: internal error")
)
