package models

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// BookingResponse бронирование для владельца расписания
type BookingResponse struct {
	ID              int64     `json:"id"`
	GuestName       string    `json:"guestName"`
	GuestEmail      string    `json:"guestEmail"`
	StartAt         time.Time `json:"startAt"`
	EndAt           time.Time `json:"endAt"`
	CalendarEventID *string   `json:"calendarEventId,omitempty"`
	MeetLink        *string   `json:"meetLink,omitempty"`
	CalendarStatus  string    `json:"calendarStatus"`
	CreatedAt       time.Time `json:"createdAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// BusyInterval занятый интервал без данных гостя
type BusyInterval struct {
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

// BusyListResponse публичный список занятых интервалов хоста
type BusyListResponse struct {
	Username string         `json:"username"`
	Busy     []BusyInterval `json:"busy"`
}

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	return &BookingResponse{
		ID:              b.ID,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		StartAt:         b.StartAt,
		EndAt:           b.EndAt,
		CalendarEventID: b.CalendarEventID,
		MeetLink:        b.MeetLink,
		CalendarStatus:  string(b.CalendarStatus),
		CreatedAt:       b.CreatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := &BookingListResponse{Bookings: make([]BookingResponse, 0, len(bookings))}
	for _, b := range bookings {
		result.Bookings = append(result.Bookings, *FromDomainBooking(b))
	}
	return result
}

// ToBusyList оставляет только интервалы
func ToBusyList(username string, bookings []*domain.Booking) *BusyListResponse {
	result := &BusyListResponse{Username: username, Busy: make([]BusyInterval, 0, len(bookings))}
	for _, b := range bookings {
		result.Busy = append(result.Busy, BusyInterval{StartAt: b.StartAt, EndAt: b.EndAt})
	}
	return result
}
