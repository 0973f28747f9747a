// Package stats keeps the local usage aggregate for started countdowns.
package stats

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/dustin/go-humanize"

	"clockwork/internal/core/model"
)

// Store persists the usage aggregate.
type Store interface {
	LoadStats() model.UsageStats
	SaveStats(stats model.UsageStats) error
	ClearStats() error
}

// Tracker records countdown usage and persists it after every change.
type Tracker struct {
	mu     sync.Mutex
	store  Store
	now    func() time.Time
	logger *slog.Logger
	stats  model.UsageStats
}

// NewTracker loads the stored aggregate.
func NewTracker(store Store, logger *slog.Logger) *Tracker {
	if logger == nil {
		logger = slog.Default()
	}
	tracker := &Tracker{
		store:  store,
		now:    time.Now,
		logger: logger.With("component", "stats"),
		stats:  model.NewUsageStats(),
	}
	if store != nil {
		tracker.stats = normalize(store.LoadStats())
	}
	return tracker
}

// RecordCountdown adds one started countdown. Preset minutes of zero mean
// the countdown was entered by hand.
func (tracker *Tracker) RecordCountdown(duration time.Duration, presetMinutes int) {
	tracker.mu.Lock()
	tracker.stats.TotalCountdowns++
	tracker.stats.TotalTimeSec += int64(duration / time.Second)
	if presetMinutes > 0 {
		tracker.stats.PresetUsage[presetMinutes]++
	}
	now := tracker.now().UTC()
	tracker.stats.LastActive = &now
	snapshot := copyStats(tracker.stats)
	tracker.mu.Unlock()

	if tracker.store == nil {
		return
	}
	if err := tracker.store.SaveStats(snapshot); err != nil {
		tracker.logger.Warn("failed to save usage stats", "error", err)
	}
}

// Clear erases the aggregate.
func (tracker *Tracker) Clear() error {
	tracker.mu.Lock()
	tracker.stats = model.NewUsageStats()
	tracker.mu.Unlock()

	if tracker.store == nil {
		return nil
	}
	if err := tracker.store.ClearStats(); err != nil {
		return fmt.Errorf("clear stats: %w", err)
	}
	return nil
}

// Reload replaces the in-memory aggregate with the stored one.
func (tracker *Tracker) Reload() {
	if tracker.store == nil {
		return
	}
	loaded := normalize(tracker.store.LoadStats())
	tracker.mu.Lock()
	tracker.stats = loaded
	tracker.mu.Unlock()
}

// Stats returns a copy of the aggregate.
func (tracker *Tracker) Stats() model.UsageStats {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return copyStats(tracker.stats)
}

// MostUsedPreset returns the preset started most often. Ties go to the
// shorter preset.
func (tracker *Tracker) MostUsedPreset() (minutes int, count int, ok bool) {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()
	return mostUsed(tracker.stats.PresetUsage)
}

// Summary is the display form of the aggregate.
type Summary struct {
	Total      string
	Hours      string
	MostUsed   string
	LastActive string
}

// Summarize formats the aggregate for the developer console.
func (tracker *Tracker) Summarize() Summary {
	tracker.mu.Lock()
	defer tracker.mu.Unlock()

	summary := Summary{
		Total:      humanize.Comma(int64(tracker.stats.TotalCountdowns)),
		Hours:      strconv.FormatFloat(float64(tracker.stats.TotalTimeSec)/3600, 'f', 1, 64),
		MostUsed:   "-",
		LastActive: "Never",
	}
	if minutes, _, ok := mostUsed(tracker.stats.PresetUsage); ok {
		summary.MostUsed = fmt.Sprintf("%d min", minutes)
	}
	if tracker.stats.LastActive != nil {
		summary.LastActive = humanize.RelTime(*tracker.stats.LastActive, tracker.now(), "ago", "from now")
	}
	return summary
}

func mostUsed(usage map[int]int) (int, int, bool) {
	keys := make([]int, 0, len(usage))
	for minutes, count := range usage {
		if count > 0 {
			keys = append(keys, minutes)
		}
	}
	if len(keys) == 0 {
		return 0, 0, false
	}
	sort.Ints(keys)
	best := keys[0]
	for _, minutes := range keys[1:] {
		if usage[minutes] > usage[best] {
			best = minutes
		}
	}
	return best, usage[best], true
}

func normalize(stats model.UsageStats) model.UsageStats {
	if stats.PresetUsage == nil {
		stats.PresetUsage = map[int]int{}
	}
	if stats.TotalCountdowns < 0 {
		stats.TotalCountdowns = 0
	}
	if stats.TotalTimeSec < 0 {
		stats.TotalTimeSec = 0
	}
	return stats
}

func copyStats(stats model.UsageStats) model.UsageStats {
	usage := make(map[int]int, len(stats.PresetUsage))
	for minutes, count := range stats.PresetUsage {
		usage[minutes] = count
	}
	stats.PresetUsage = usage
	if stats.LastActive != nil {
		last := *stats.LastActive
		stats.LastActive = &last
	}
	return stats
}
