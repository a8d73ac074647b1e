package googlecalendar

import "errors"

var (
	// ErrNotConfigured клиент запущен без OAuth-приложения Google
	ErrNotConfigured = errors.New("googlecalendar client: not configured")

	// ErrNotConnected у хоста нет refresh token
	ErrNotConnected = errors.New("googlecalendar client: host calendar not connected")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("googlecalendar client: internal error")

	// ErrCreateEvent Google API отклонил создание события
	ErrCreateEvent = errors.New("googlecalendar client: failed to create event")
)
