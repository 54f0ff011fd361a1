package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ada@example.com", true},
		{"a.b+c@sub.example.co", true},
		{"ada@example", false},
		{"ada example@x.com", false},
		{"@example.com", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidEmail(tt.in), tt.in)
	}
}

func TestValidateEvent(t *testing.T) {
	tests := []struct {
		name  string
		event Event
		want  int
	}{
		{"valid", Event{Title: "Launch", EventDate: "2025-06-01T18:00"}, 0},
		{"blank title", Event{Title: "   ", EventDate: "2025-06-01T18:00"}, 1},
		{"seconds not allowed", Event{Title: "x", EventDate: "2025-06-01T18:00:00"}, 1},
		{"impossible day", Event{Title: "x", EventDate: "2025-02-30T10:00"}, 1},
		{"single digit month", Event{Title: "x", EventDate: "2025-6-01T18:00"}, 1},
		{"single digit hour", Event{Title: "x", EventDate: "2025-06-01T8:00"}, 1},
		{"single digit hour with minutes", Event{Title: "x", EventDate: "2025-06-01T8:05"}, 1},
		{"trailing space", Event{Title: "x", EventDate: "2025-06-01T18:00 "}, 1},
		{"both wrong", Event{EventDate: "tomorrow"}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, ValidateEvent(&tt.event), tt.want)
		})
	}
}
