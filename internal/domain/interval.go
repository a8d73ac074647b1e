package domain

import "time"

// Interval полуоткрытый интервал [Start, End)
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) IsValid() bool {
	return i.Start.Before(i.End)
}

// Overlaps true, если интервалы пересекаются
// Касание концами ([10:00,10:30) и [10:30,11:00)) пересечением не считается
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && i.End.After(other.Start)
}

// Contains true, если other целиком лежит внутри i
func (i Interval) Contains(other Interval) bool {
	return !other.Start.Before(i.Start) && !other.End.After(i.End)
}
