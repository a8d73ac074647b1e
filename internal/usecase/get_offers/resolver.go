package get_offers

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ResolveInput входные данные для вычисления доступных окон на дату
type ResolveInput struct {
	Slots    []*domain.AvailabilitySlot
	Date     time.Time      // используется только календарная дата (y, m, d)
	Location *time.Location // часовой пояс хоста
	Bookings []*domain.Booking
	Now      time.Time
	SlotType *string
}

// ResolveOffers возвращает слоты, которые можно забронировать на дату
//  1. остаются слоты дня недели даты (и типа, если задан фильтр);
//  2. слот переводится в абсолютный интервал в часовом поясе хоста;
//  3. отбрасываются слоты, пересекающиеся с любым бронированием;
//  4. отбрасываются слоты, начало которых не строго позже Now.
//
// Порядок результата совпадает с порядком Slots. Функция не имеет побочных эффектов
func ResolveOffers(in ResolveInput) []domain.Offer {
	loc := in.Location
	if loc == nil {
		loc = time.UTC
	}

	y, m, d := in.Date.Date()
	localDate := time.Date(y, m, d, 0, 0, 0, 0, loc)
	weekday := domain.WeekdayOf(localDate)

	offers := make([]domain.Offer, 0)

	for _, slot := range in.Slots {
		if slot.DayOfWeek != weekday {
			continue
		}
		if in.SlotType != nil && slot.SlotType != *in.SlotType {
			continue
		}

		candidate, err := slot.Materialize(localDate, loc)
		if err != nil || !candidate.IsValid() {
			continue
		}

		if overlapsAny(candidate, in.Bookings) {
			continue
		}

		if !candidate.Start.After(in.Now) {
			continue
		}

		offers = append(offers, domain.Offer{
			SlotID:          slot.SlotID,
			SlotType:        slot.SlotType,
			StartTime:       slot.StartTime,
			EndTime:         slot.EndTime,
			StartAt:         candidate.Start,
			EndAt:           candidate.End,
			DurationMinutes: slot.DurationMinutes,
		})
	}

	return offers
}

func overlapsAny(candidate domain.Interval, bookings []*domain.Booking) bool {
	for _, b := range bookings {
		if candidate.Overlaps(b.Interval()) {
			return true
		}
	}
	return false
}

// dayBounds границы календарного дня в часовом поясе loc
func dayBounds(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
