package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestToJalali(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-20", "1403/01/01"},
		{"2025-03-20", "1403/12/30"},
		{"2026-03-21", "1405/01/01"},
		{"2025-10-17", "1404/07/25"},
		{"2024-01-01", "1402/10/11"},
		{"2000-01-01", "1378/10/11"},
		{"", NoDate},
		{"17/10/2025", NoDate},
		{"2025-02-30", NoDate},
		{"1500-01-01", NoDate},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ToJalali(tt.in))
		})
	}
}

func TestOverdueDays(t *testing.T) {
	today := time.Date(2025, 10, 20, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 5, overdueDays("2025-10-15", today))
	assert.Equal(t, 0, overdueDays("2025-10-20", today))
	assert.Equal(t, 0, overdueDays("2025-11-01", today))
	assert.Equal(t, 0, overdueDays("not a date", today))
	// Across a leap day.
	assert.Equal(t, 2, overdueDays("2024-02-28", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
}
