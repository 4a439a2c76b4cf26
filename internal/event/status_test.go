package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEvent(status Status) *Event {
	return &Event{
		ID:        1,
		Date:      time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00:00",
		EndTime:   "12:00:00",
		Status:    status,
	}
}

func TestDeriveStatus(t *testing.T) {
	loc, err := time.LoadLocation("UTC")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		want Status
	}{
		{"well before start", time.Date(2025, 6, 14, 10, 0, 0, 0, loc), StatusUpcoming},
		{"same day before start", time.Date(2025, 6, 15, 9, 59, 59, 0, loc), StatusUpcoming},
		{"exactly at start", time.Date(2025, 6, 15, 10, 0, 0, 0, loc), StatusOngoing},
		{"mid event", time.Date(2025, 6, 15, 11, 30, 0, 0, loc), StatusOngoing},
		{"exactly at end", time.Date(2025, 6, 15, 12, 0, 0, 0, loc), StatusOngoing},
		{"just after end", time.Date(2025, 6, 15, 12, 0, 1, 0, loc), StatusCompleted},
		{"next day", time.Date(2025, 6, 16, 0, 0, 0, 0, loc), StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveStatus(testEvent(StatusUpcoming), tt.now, loc)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDeriveStatusCanceledIsTerminal(t *testing.T) {
	ev := testEvent(StatusCanceled)

	for _, now := range []time.Time{
		time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
	} {
		assert.Equal(t, StatusCanceled, DeriveStatus(ev, now, time.UTC))
	}
}

func TestDeriveStatusRespectsTimezone(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	ev := testEvent(StatusUpcoming)

	// 11:00 UTC is 07:00 in New York, still before the 10:00 start.
	now := time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusUpcoming, DeriveStatus(ev, now, loc))

	// 15:00 UTC is 11:00 in New York, inside the event window.
	now = time.Date(2025, 6, 15, 15, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusOngoing, DeriveStatus(ev, now, loc))
}

func TestDeriveStatusShortClockFormat(t *testing.T) {
	ev := testEvent(StatusUpcoming)
	ev.StartTime = "10:00"
	ev.EndTime = "12:00"

	now := time.Date(2025, 6, 15, 11, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusOngoing, DeriveStatus(ev, now, time.UTC))
}

func TestDeriveStatusUnparsableTimesKeepStored(t *testing.T) {
	ev := testEvent(StatusOngoing)
	ev.StartTime = "not-a-time"

	now := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, StatusOngoing, DeriveStatus(ev, now, time.UTC))
}
