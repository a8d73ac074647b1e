package slotid

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "spaces", in: "General Meeting", want: "general-meeting"},
		{name: "collapse separators", in: "  Quick   Call__x ", want: "quick-call-x"},
		{name: "punctuation dropped", in: "1:1 Sync!", want: "11-sync"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestUUIDGenerator_New(t *testing.T) {
	g := NewUUIDGenerator()

	id := g.New("General Meeting", "Monday", "09:00", "09:30")
	assert.True(t, strings.HasPrefix(id, "general-meeting-monday-0900-0930-"), id)

	other := g.New("General Meeting", "Monday", "09:00", "09:30")
	assert.NotEqual(t, id, other)
}
