package get_offers

import "errors"

var (
	// ErrHostNotFound возвращается, когда хост не найден
	ErrHostNotFound = errors.New("get_offers: host not found")

	// ErrSlotTypeNotFound возвращается, когда хост не публикует слоты запрошенного типа
	ErrSlotTypeNotFound = errors.New("get_offers: slot type not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_offers: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_offers: internal error")
)
