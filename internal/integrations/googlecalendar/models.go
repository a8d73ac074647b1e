package googlecalendar

import "time"

// Credentials OAuth-токены хоста
type Credentials struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// EventRequest данные для события в календаре хоста
type EventRequest struct {
	Summary     string
	Description string
	StartAt     time.Time
	EndAt       time.Time
	Timezone    string
	HostEmail   string
	GuestName   string
	GuestEmail  string
}

// Event созданное событие
type Event struct {
	ID       string
	HTMLLink string
	MeetLink *string
}
