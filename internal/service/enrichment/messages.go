package enrichment

import (
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	hostSubject  = "New Booking Received"
	guestSubject = "Booking Confirmed"

	whenLayout = "Monday, 02 Jan 2006 15:04 MST"
)

func eventSummary(host *domain.Host, booking *domain.Booking) string {
	return fmt.Sprintf("Meeting: %s & %s", displayName(host), booking.GuestName)
}

func eventDescription(booking *domain.Booking) string {
	return fmt.Sprintf("Booked by %s <%s>", booking.GuestName, booking.GuestEmail)
}

func hostMessage(host *domain.Host, booking *domain.Booking, meetLink *string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", displayName(host))
	fmt.Fprintf(&b, "%s <%s> booked a meeting with you.\n\n", booking.GuestName, booking.GuestEmail)
	writeWhen(&b, host, booking)
	writeMeetLink(&b, meetLink)
	return b.String()
}

func guestMessage(host *domain.Host, booking *domain.Booking, meetLink *string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", booking.GuestName)
	fmt.Fprintf(&b, "Your meeting with %s is confirmed.\n\n", displayName(host))
	writeWhen(&b, host, booking)
	writeMeetLink(&b, meetLink)
	return b.String()
}

func writeWhen(b *strings.Builder, host *domain.Host, booking *domain.Booking) {
	loc := host.Location()
	fmt.Fprintf(b, "When: %s - %s\n",
		booking.StartAt.In(loc).Format(whenLayout),
		booking.EndAt.In(loc).Format("15:04"),
	)
}

func writeMeetLink(b *strings.Builder, meetLink *string) {
	if meetLink != nil && *meetLink != "" {
		fmt.Fprintf(b, "Join: %s\n", *meetLink)
	}
}

func displayName(host *domain.Host) string {
	if host.Name != "" {
		return host.Name
	}
	return host.Username
}
