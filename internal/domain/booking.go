package domain

import "time"

// CalendarStatus состояние события во внешнем календаре
type CalendarStatus string

const (
	CalendarPending CalendarStatus = "pending"
	CalendarCreated CalendarStatus = "created"
	CalendarFailed  CalendarStatus = "failed"
	CalendarSkipped CalendarStatus = "skipped" // у хоста не подключён календарь
)

// Booking бронирование гостем конкретного абсолютного интервала
type Booking struct {
	ID         int64
	HostID     int64
	GuestName  string
	GuestEmail string
	StartAt    time.Time
	EndAt      time.Time

	// Заполняются после создания события в календаре
	CalendarEventID  *string
	MeetLink         *string
	CalendarStatus   CalendarStatus
	CalendarAttempts int

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}

// IsUpcoming true, если бронирование ещё не закончилось
func (b *Booking) IsUpcoming(now time.Time) bool {
	return !b.EndAt.Before(now)
}

// CalendarClaimTTL через столько pending-бронирование считается брошенным
// и снова попадает в повтор создания события
const CalendarClaimTTL = 10 * time.Minute

// CanRetryCalendar true, если попытки создать событие не исчерпаны и встреча ещё не началась
func (b *Booking) CanRetryCalendar(now time.Time) bool {
	return b.CalendarAttempts < MaxCalendarAttempts && b.StartAt.After(now)
}

// BookingsFilter фильтр выборки бронирований хоста
type BookingsFilter struct {
	HostID int64
	From   *time.Time // бронирования, заканчивающиеся не раньше From
	To     *time.Time // бронирования, начинающиеся раньше To
}
