package stats

import (
	"errors"
	"testing"
	"time"

	"clockwork/internal/core/model"
)

type memoryStore struct {
	stats   model.UsageStats
	saves   int
	cleared bool
	saveErr error
}

func (store *memoryStore) LoadStats() model.UsageStats { return store.stats }

func (store *memoryStore) SaveStats(stats model.UsageStats) error {
	store.saves++
	if store.saveErr != nil {
		return store.saveErr
	}
	store.stats = stats
	return nil
}

func (store *memoryStore) ClearStats() error {
	store.cleared = true
	store.stats = model.NewUsageStats()
	return nil
}

func fixedNow() time.Time { return time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC) }

func TestRecordCountdownPersistsOnce(t *testing.T) {
	store := &memoryStore{}
	tracker := NewTracker(store, nil)
	tracker.now = fixedNow

	tracker.RecordCountdown(25*time.Minute, 25)
	tracker.RecordCountdown(90*time.Second, 0)

	if store.saves != 2 {
		t.Fatalf("expected one save per countdown, got %d", store.saves)
	}
	got := store.stats
	if got.TotalCountdowns != 2 || got.TotalTimeSec != 25*60+90 {
		t.Fatalf("unexpected totals %+v", got)
	}
	if got.PresetUsage[25] != 1 || len(got.PresetUsage) != 1 {
		t.Fatalf("unexpected preset usage %v", got.PresetUsage)
	}
	if got.LastActive == nil || !got.LastActive.Equal(fixedNow()) {
		t.Fatalf("unexpected last active %v", got.LastActive)
	}
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	store := &memoryStore{saveErr: errors.New("disk full")}
	tracker := NewTracker(store, nil)
	tracker.RecordCountdown(time.Minute, 5)
	if tracker.Stats().TotalCountdowns != 1 {
		t.Fatalf("in-memory stats should still count the countdown")
	}
}

func TestMostUsedPreset(t *testing.T) {
	store := &memoryStore{stats: model.UsageStats{PresetUsage: map[int]int{5: 2, 15: 3, 25: 3}}}
	tracker := NewTracker(store, nil)
	minutes, count, ok := tracker.MostUsedPreset()
	if !ok || minutes != 15 || count != 3 {
		t.Fatalf("expected 15 min x3, got %d x%d ok=%v", minutes, count, ok)
	}

	empty := NewTracker(&memoryStore{}, nil)
	if _, _, ok := empty.MostUsedPreset(); ok {
		t.Fatalf("expected no preset on empty stats")
	}
}

func TestClear(t *testing.T) {
	store := &memoryStore{}
	tracker := NewTracker(store, nil)
	tracker.RecordCountdown(time.Minute, 1)
	if err := tracker.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !store.cleared || tracker.Stats().TotalCountdowns != 0 {
		t.Fatalf("expected cleared stats")
	}
}

func TestSummarize(t *testing.T) {
	last := fixedNow().Add(-2 * time.Hour)
	store := &memoryStore{stats: model.UsageStats{
		TotalCountdowns: 1234,
		TotalTimeSec:    5400,
		PresetUsage:     map[int]int{10: 4},
		LastActive:      &last,
	}}
	tracker := NewTracker(store, nil)
	tracker.now = fixedNow

	summary := tracker.Summarize()
	if summary.Total != "1,234" || summary.Hours != "1.5" || summary.MostUsed != "10 min" {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if summary.LastActive != "2 hours ago" {
		t.Fatalf("unexpected last active %q", summary.LastActive)
	}

	empty := NewTracker(nil, nil).Summarize()
	if empty.MostUsed != "-" || empty.LastActive != "Never" || empty.Total != "0" {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}
