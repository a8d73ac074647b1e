package feed

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const localTimestampFormat = "20060102T150405"

var rruleWeekdays = map[time.Weekday]rrule.Weekday{
	time.Monday:    rrule.MO,
	time.Tuesday:   rrule.TU,
	time.Wednesday: rrule.WE,
	time.Thursday:  rrule.TH,
	time.Friday:    rrule.FR,
	time.Saturday:  rrule.SA,
	time.Sunday:    rrule.SU,
}

// Builder собирает iCalendar-документы
type Builder struct {
	productID string
	uidDomain string
}

func NewBuilder(productID, uidDomain string) *Builder {
	return &Builder{productID: productID, uidDomain: uidDomain}
}

// Bookings календарь бронирований хоста, по событию на бронирование
func (b *Builder) Bookings(host *domain.Host, bookings []*domain.Booking, now time.Time) string {
	cal := b.newCalendar(fmt.Sprintf("%s bookings", displayName(host)), host)

	for _, booking := range bookings {
		event := cal.AddEvent(fmt.Sprintf("booking-%d@%s", booking.ID, b.uidDomain))
		event.SetDtStampTime(now)
		event.SetCreatedTime(booking.CreatedAt)
		event.SetStartAt(booking.StartAt)
		event.SetEndAt(booking.EndAt)
		event.SetSummary(fmt.Sprintf("Meeting with %s", booking.GuestName))
		event.SetDescription(fmt.Sprintf("Booked by %s <%s>", booking.GuestName, booking.GuestEmail))
		event.SetStatus(ics.ObjectStatusConfirmed)
		event.AddAttendee(booking.GuestEmail,
			ics.WithCN(booking.GuestName),
			ics.CalendarUserTypeIndividual,
			ics.ParticipationStatusAccepted,
		)
		if booking.MeetLink != nil && *booking.MeetLink != "" {
			event.SetURL(*booking.MeetLink)
			event.SetLocation(*booking.MeetLink)
		}
	}

	return cal.Serialize()
}

// Availability еженедельные слоты хоста в виде повторяющихся событий
// Первое вхождение - ближайшее будущее начало слота в часовом поясе хоста
func (b *Builder) Availability(host *domain.Host, slots []*domain.AvailabilitySlot, now time.Time) (string, error) {
	loc := host.Location()
	cal := b.newCalendar(fmt.Sprintf("%s availability", displayName(host)), host)

	for _, slot := range slots {
		weekday, ok := slot.DayOfWeek.TimeWeekday()
		if !ok {
			return "", fmt.Errorf("slot %s: invalid day %q", slot.SlotID, slot.DayOfWeek)
		}

		start, err := NextOccurrence(weekday, slot, now, loc)
		if err != nil {
			return "", fmt.Errorf("slot %s: %w", slot.SlotID, err)
		}
		end, err := slot.EndTime.On(start, loc)
		if err != nil {
			return "", fmt.Errorf("slot %s: %w", slot.SlotID, err)
		}

		rule := rrule.ROption{Freq: rrule.WEEKLY, Byweekday: []rrule.Weekday{rruleWeekdays[weekday]}}

		event := cal.AddEvent(fmt.Sprintf("%s@%s", slot.SlotID, b.uidDomain))
		event.SetDtStampTime(now)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(localTimestampFormat), ics.WithTZID(loc.String()))
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(localTimestampFormat), ics.WithTZID(loc.String()))
		event.AddRrule(rule.RRuleString())
		event.SetSummary(slot.SlotType)
		event.SetDescription(fmt.Sprintf("%s, %d min", slot.SlotType, slot.DurationMinutes))
		event.SetProperty(ics.ComponentPropertyTransp, "TRANSPARENT")
	}

	return cal.Serialize(), nil
}

func (b *Builder) newCalendar(name string, host *domain.Host) *ics.Calendar {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(b.productID)
	cal.SetName(name)
	cal.SetXWRCalName(name)
	cal.SetXWRTimezone(host.Location().String())
	return cal
}

// NextOccurrence ближайшее начало слота строго после now
func NextOccurrence(weekday time.Weekday, slot *domain.AvailabilitySlot, now time.Time, loc *time.Location) (time.Time, error) {
	local := now.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   midnight,
		Byweekday: []rrule.Weekday{rruleWeekdays[weekday]},
		Count:     2,
	})
	if err != nil {
		return time.Time{}, err
	}

	for _, day := range rule.All() {
		start, err := slot.StartTime.On(day, loc)
		if err != nil {
			return time.Time{}, err
		}
		if start.After(now) {
			return start, nil
		}
	}
	return time.Time{}, fmt.Errorf("no upcoming %s occurrence", weekday)
}

func displayName(host *domain.Host) string {
	if host.Name != "" {
		return host.Name
	}
	return host.Username
}
