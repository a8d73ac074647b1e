package domain

import "time"

// Host владелец расписания
// Записи хостов создаются сервисом авторизации, здесь они только читаются
type Host struct {
	ID                     int64
	Username               string
	Email                  string
	Name                   string
	Avatar                 *string
	Timezone               string
	DefaultMeetingDuration int

	GoogleAccessToken  *string
	GoogleRefreshToken *string
	GoogleTokenExpiry  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Location часовой пояс хоста. Неизвестный или пустой пояс трактуется как UTC
func (h *Host) Location() *time.Location {
	if h.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(h.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CalendarConnected true, если хост выдал доступ к Google Calendar
func (h *Host) CalendarConnected() bool {
	return h.GoogleRefreshToken != nil && *h.GoogleRefreshToken != ""
}

// HasValidToken true, если access token ещё не истёк
func (h *Host) HasValidToken(now time.Time) bool {
	if h.GoogleAccessToken == nil || *h.GoogleAccessToken == "" {
		return false
	}
	return h.GoogleTokenExpiry == nil || h.GoogleTokenExpiry.After(now)
}
