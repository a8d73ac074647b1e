package domain

// EnrichmentResult итог побочных действий после фиксации бронирования
// Ошибки здесь не отменяют бронирование
type EnrichmentResult struct {
	CalendarStatus CalendarStatus
	CalendarError  string
	EventID        *string
	MeetLink       *string
	Notifications  []NotificationResult
}

// NotificationResult итог отправки одного письма
type NotificationResult struct {
	Recipient string
	Sent      bool
	Error     string
}

// Degraded true, если хотя бы одно побочное действие завершилось ошибкой
func (r *EnrichmentResult) Degraded() bool {
	if r == nil {
		return false
	}
	if r.CalendarStatus == CalendarFailed {
		return true
	}
	for _, n := range r.Notifications {
		if !n.Sent {
			return true
		}
	}
	return false
}
