package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	GuestName  string `json:"guestName"`
	GuestEmail string `json:"guestEmail"`
	Start      string `json:"start"` // RFC3339, "2026-03-02T10:00:00+01:00"
	End        string `json:"end"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking    *models.BookingResponse `json:"booking"`
	Enrichment *EnrichmentResponse     `json:"enrichment"`
}

// EnrichmentResponse итог создания события календаря и отправки писем
type EnrichmentResponse struct {
	CalendarStatus string                 `json:"calendarStatus"`
	CalendarError  string                 `json:"calendarError,omitempty"`
	EventID        *string                `json:"eventId,omitempty"`
	MeetLink       *string                `json:"meetLink,omitempty"`
	Notifications  []NotificationResponse `json:"notifications"`
	Degraded       bool                   `json:"degraded"`
}

// NotificationResponse итог отправки одного письма
type NotificationResponse struct {
	Recipient string `json:"recipient"`
	Sent      bool   `json:"sent"`
	Error     string `json:"error,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
// Пустые start/end остаются нулевыми, их отклонит валидация use case
func (r *CreateBookingRequest) ToUseCaseRequest(username string) (*createBooking.Request, error) {
	startAt, err := parseTime("start", r.Start)
	if err != nil {
		return nil, err
	}
	endAt, err := parseTime("end", r.End)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Username:   username,
		GuestName:  r.GuestName,
		GuestEmail: r.GuestEmail,
		StartAt:    startAt,
		EndAt:      endAt,
	}, nil
}

func parseTime(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", field, err)
	}
	return t, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:    models.FromDomainBooking(resp.Booking),
		Enrichment: fromEnrichment(resp.Enrichment),
	}
}

func fromEnrichment(e *domain.EnrichmentResult) *EnrichmentResponse {
	if e == nil {
		return nil
	}

	notifications := make([]NotificationResponse, len(e.Notifications))
	for i, n := range e.Notifications {
		notifications[i] = NotificationResponse{
			Recipient: n.Recipient,
			Sent:      n.Sent,
			Error:     n.Error,
		}
	}

	return &EnrichmentResponse{
		CalendarStatus: string(e.CalendarStatus),
		CalendarError:  e.CalendarError,
		EventID:        e.EventID,
		MeetLink:       e.MeetLink,
		Notifications:  notifications,
		Degraded:       e.Degraded(),
	}
}
