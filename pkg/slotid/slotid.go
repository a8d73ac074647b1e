package slotid

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// UUIDGenerator формирует id вида <type-slug>-<day>-<HHMM>-<HHMM>-<uuid>
type UUIDGenerator struct{}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// New start и end ожидаются в формате HH:MM
func (g *UUIDGenerator) New(slotType string, day string, start, end string) string {
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		Slugify(slotType),
		strings.ToLower(day),
		strings.ReplaceAll(start, ":", ""),
		strings.ReplaceAll(end, ":", ""),
		uuid.NewString(),
	)
}

// Slugify приводит строку к нижнему регистру, заменяя пробелы на дефисы
// Остальные символы, кроме букв, цифр и дефиса, отбрасываются
func Slugify(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastDash && b.Len() > 0 {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
