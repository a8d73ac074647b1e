package create_bulk_slots

import (
	"iter"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// Generate нарезает [start, end) на последовательные окна длиной intervalMinutes
// Остаток, меньший интервала, отбрасывается. При некорректных аргументах последовательность пуста
func Generate(start, end types.TimeString, intervalMinutes int) iter.Seq[domain.Window] {
	return func(yield func(domain.Window) bool) {
		if intervalMinutes <= 0 {
			return
		}

		from, err := start.Minutes()
		if err != nil {
			return
		}
		to, err := end.Minutes()
		if err != nil {
			return
		}

		for cursor := from; cursor+intervalMinutes <= to; cursor += intervalMinutes {
			slotStart, err := types.NewTimeStringFromMinutes(cursor)
			if err != nil {
				return
			}
			slotEnd, err := types.NewTimeStringFromMinutes(cursor + intervalMinutes)
			if err != nil {
				return
			}
			if !yield(domain.Window{Start: slotStart, End: slotEnd}) {
				return
			}
		}
	}
}

// Candidate слот-кандидат до присвоения идентификатора
type Candidate struct {
	Day    domain.Weekday
	Window domain.Window
}

// Expand строит декартово произведение days x ranges x окна генератора
// Повторы по (day, start) отбрасываются, остаётся первый
func Expand(days []domain.Weekday, ranges []TimeRange, intervalMinutes int) []Candidate {
	type key struct {
		day   domain.Weekday
		start types.TimeString
	}

	seen := make(map[key]struct{})
	result := make([]Candidate, 0)

	for _, day := range days {
		for _, r := range ranges {
			for w := range Generate(r.Start, r.End, intervalMinutes) {
				k := key{day: day, start: w.Start}
				if _, ok := seen[k]; ok {
					continue
				}
				seen[k] = struct{}{}
				result = append(result, Candidate{Day: day, Window: w})
			}
		}
	}

	return result
}
