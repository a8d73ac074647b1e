package models

import "time"

// CalendarStatusResponse состояние подключения Google Calendar
type CalendarStatusResponse struct {
	Connected     bool       `json:"connected"`
	HasValidToken bool       `json:"hasValidToken"`
	NeedsRefresh  bool       `json:"needsRefresh"`
	TokenExpiry   *time.Time `json:"tokenExpiry,omitempty"`
}
