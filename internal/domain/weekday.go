package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidWeekday возвращается для строки, не являющейся названием дня недели
var ErrInvalidWeekday = errors.New("invalid weekday")

// Weekday название дня недели (Monday..Sunday)
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Weekdays все дни недели, начиная с понедельника
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// ParseWeekday принимает название дня без учёта регистра ("monday", "MONDAY")
func ParseWeekday(s string) (Weekday, error) {
	s = strings.TrimSpace(s)
	for _, d := range Weekdays {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidWeekday, s)
}

// WeekdayOf день недели момента t в его собственной локации
func WeekdayOf(t time.Time) Weekday {
	return FromTimeWeekday(t.Weekday())
}

func FromTimeWeekday(d time.Weekday) Weekday {
	return Weekday(d.String())
}

// IsValid true только для канонического написания ("Monday")
func (d Weekday) IsValid() bool {
	for _, w := range Weekdays {
		if w == d {
			return true
		}
	}
	return false
}

// TimeWeekday конвертирует в time.Weekday. Для невалидного значения возвращает false
func (d Weekday) TimeWeekday() (time.Weekday, bool) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if wd.String() == string(d) {
			return wd, true
		}
	}
	return 0, false
}

func (d Weekday) String() string {
	return string(d)
}
