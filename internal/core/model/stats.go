package model

import "time"

// UsageStats is the local, append-only usage aggregate.
type UsageStats struct {
	TotalCountdowns int         `json:"totalCountdowns"`
	TotalTimeSec    int64       `json:"totalTime"`
	PresetUsage     map[int]int `json:"presetUsage"`
	LastActive      *time.Time  `json:"lastActive"`
}

// NewUsageStats returns an empty aggregate.
func NewUsageStats() UsageStats {
	return UsageStats{PresetUsage: map[int]int{}}
}
