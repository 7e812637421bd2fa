package hub_test

import (
	"testing"
	"time"

	hub "github.com/jobpromax/progress-hub"
	"github.com/stretchr/testify/assert"
)

func day(offset int) time.Time {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func TestUpsertStatusHistory_AppendsNewDay(t *testing.T) {
	history := hub.UpsertStatusHistory(nil, day(0), hub.StatusOperational)
	history = hub.UpsertStatusHistory(history, day(1), hub.StatusDegraded)

	assert.Len(t, history, 2)
	assert.Equal(t, "2026-01-01", history[0].Date)
	assert.Equal(t, hub.StatusOperational, history[0].Status)
	assert.Equal(t, "2026-01-02", history[1].Date)
	assert.Equal(t, hub.StatusDegraded, history[1].Status)
}

func TestUpsertStatusHistory_SameDayOverwritesInPlace(t *testing.T) {
	history := hub.UpsertStatusHistory(nil, day(0), hub.StatusOperational)
	history = hub.UpsertStatusHistory(history, day(0), hub.StatusCritical)

	assert.Len(t, history, 1)
	assert.Equal(t, hub.StatusCritical, history[0].Status)

	// Overwrite also hits entries that are not at the tail.
	history = hub.UpsertStatusHistory(history, day(1), hub.StatusOperational)
	history = hub.UpsertStatusHistory(history, day(0), hub.StatusDegraded)

	assert.Len(t, history, 2)
	assert.Equal(t, hub.StatusDegraded, history[0].Status)
	assert.Equal(t, hub.StatusOperational, history[1].Status)
}

func TestUpsertStatusHistory_EvictsOldestPastCap(t *testing.T) {
	var history []hub.StatusHistoryEntry
	for i := 0; i <= hub.MaxHistoryEntries; i++ {
		history = hub.UpsertStatusHistory(history, day(i), hub.StatusOperational)
	}

	assert.Len(t, history, hub.MaxHistoryEntries)
	// Day zero fell off the front; the newest entry survived.
	assert.Equal(t, "2026-01-02", history[0].Date)
	assert.Equal(t, day(hub.MaxHistoryEntries).Format(hub.HistoryDateLayout), history[len(history)-1].Date)
}

func TestUpsertStatusHistory_DoesNotMutateInput(t *testing.T) {
	original := []hub.StatusHistoryEntry{
		{Date: "2026-01-01", Status: hub.StatusOperational},
	}

	_ = hub.UpsertStatusHistory(original, day(0), hub.StatusCritical)

	assert.Equal(t, hub.StatusOperational, original[0].Status)
}
