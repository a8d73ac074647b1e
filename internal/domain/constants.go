package domain

// Значения по умолчанию
const (
	DefaultSlotType               = "General Meeting"
	DefaultMeetingDurationMinutes = 30
	DefaultTimezone               = "UTC"
)

// Ограничения бизнес-валидации
const (
	MinSlotIntervalMinutes = 5
	MaxSlotIntervalMinutes = 480 // 8 часов
	MaxSlotTypeLength      = 100
	MaxGuestNameLength     = 200
	MaxGuestEmailLength    = 254
	MaxTimeRangesPerBulk   = 48

	// MaxCalendarAttempts после стольких неудачных попыток событие календаря больше не создаётся
	MaxCalendarAttempts = 5
)

// Форматы времени
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)
