package hub

import "time"

// HistoryDateLayout is the per-day bucket key format for status history.
const HistoryDateLayout = "2006-01-02"

// MaxHistoryEntries caps the rolling status history window per feature.
const MaxHistoryEntries = 60

// StatusHistoryEntry is one day's worth of status history. A day holds at
// most one entry; a later write on the same day overwrites it.
type StatusHistoryEntry struct {
	Date   string        `json:"date"`
	Status FeatureStatus `json:"status"`
}

// UpsertStatusHistory folds a status write into the per-day history. Same
// day replaces in place, a new day appends, and when the window exceeds
// the cap the oldest entries fall off the front. The input slice is not
// mutated; entries are assumed to be in ascending date order and stay
// that way.
func UpsertStatusHistory(history []StatusHistoryEntry, date time.Time, status FeatureStatus) []StatusHistoryEntry {
	key := date.Format(HistoryDateLayout)

	out := make([]StatusHistoryEntry, len(history))
	copy(out, history)

	for i := len(out) - 1; i >= 0; i-- {
		if out[i].Date == key {
			out[i].Status = status
			return out
		}
	}

	out = append(out, StatusHistoryEntry{Date: key, Status: status})

	if len(out) > MaxHistoryEntries {
		out = out[len(out)-MaxHistoryEntries:]
	}

	return out
}
