package googlecalendar

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

const (
	primaryCalendarID = "primary"
	conferenceType    = "hangoutsMeet"
	videoEntryPoint   = "video"

	emailReminderMinutes = 24 * 60
	popupReminderMinutes = 10
)

// Config параметры OAuth-приложения
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Timeout      time.Duration
}

// Client клиент Google Calendar API
// Работает от имени хоста, используя его OAuth-токены
type Client struct {
	oauth   *oauth2.Config
	timeout time.Duration
	log     Logger
}

// NewClient создает новый экземпляр клиента Google Calendar
func NewClient(cfg Config, log Logger) *Client {
	c := &Client{timeout: cfg.Timeout, log: log}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return c
	}
	c.oauth = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{calendar.CalendarEventsScope},
	}
	return c
}

// Enabled true, если клиент сконфигурирован
func (c *Client) Enabled() bool {
	return c != nil && c.oauth != nil
}

// CreateEvent создает событие с видеовстречей Google Meet в основном календаре хоста
// Просроченный access token обновляется через refresh token автоматически
func (c *Client) CreateEvent(ctx context.Context, creds Credentials, req EventRequest) (*Event, error) {
	if !c.Enabled() {
		return nil, ErrNotConfigured
	}
	if creds.RefreshToken == "" {
		return nil, ErrNotConnected
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	token := &oauth2.Token{
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		Expiry:       creds.Expiry,
		TokenType:    "Bearer",
	}
	tokenSource := c.oauth.TokenSource(ctx, token)

	service, err := calendar.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create calendar service: %v", ErrInternal, err)
	}

	created, err := service.Events.Insert(primaryCalendarID, buildEvent(req)).
		ConferenceDataVersion(1).
		SendUpdates("all").
		Context(ctx).
		Do()
	if err != nil {
		c.log.Error("CreateEvent: insert failed for guest=%s: %v", req.GuestEmail, err)
		return nil, fmt.Errorf("%w: %v", ErrCreateEvent, err)
	}

	event := &Event{
		ID:       created.Id,
		HTMLLink: created.HtmlLink,
		MeetLink: meetLink(created),
	}
	c.log.Info("CreateEvent: created event_id=%s", event.ID)
	return event, nil
}

func buildEvent(req EventRequest) *calendar.Event {
	return &calendar.Event{
		Summary:     req.Summary,
		Description: req.Description,
		Start: &calendar.EventDateTime{
			DateTime: req.StartAt.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		End: &calendar.EventDateTime{
			DateTime: req.EndAt.Format(time.RFC3339),
			TimeZone: req.Timezone,
		},
		Attendees: []*calendar.EventAttendee{
			{Email: req.HostEmail, Organizer: true, ResponseStatus: "accepted"},
			{Email: req.GuestEmail, DisplayName: req.GuestName},
		},
		ConferenceData: &calendar.ConferenceData{
			CreateRequest: &calendar.CreateConferenceRequest{
				RequestId:             uuid.NewString(),
				ConferenceSolutionKey: &calendar.ConferenceSolutionKey{Type: conferenceType},
			},
		},
		Reminders: &calendar.EventReminders{
			UseDefault: false,
			Overrides: []*calendar.EventReminder{
				{Method: "email", Minutes: emailReminderMinutes},
				{Method: "popup", Minutes: popupReminderMinutes},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
}

// meetLink ссылка на видеовстречу, если Google успел её создать
func meetLink(ev *calendar.Event) *string {
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep.EntryPointType == videoEntryPoint && ep.Uri != "" {
				return ptr.Ptr(ep.Uri)
			}
		}
	}
	if ev.HangoutLink != "" {
		return ptr.Ptr(ev.HangoutLink)
	}
	return nil
}
