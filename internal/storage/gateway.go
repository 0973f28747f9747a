// Package storage persists Clockwork records and the application config.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"clockwork/internal/core/model"
)

// Record keys.
const (
	KeySettings        = "clockSettings"
	KeyStats           = "clockStats"
	KeyPosition        = "clockPosition"
	KeyCalendar        = "clockJSONData"
	calendarBackupBase = KeyCalendar + "_backup_"
)

const defaultOpTimeout = 3 * time.Second

// Gateway reads and writes JSON records in a key-value store. Loads fall
// back to defaults and never fail; saves report their errors.
type Gateway struct {
	kv      KV
	cipher  *NoteCipher
	logger  *slog.Logger
	timeout time.Duration
	now     func() time.Time
}

// NewGateway wraps a key-value store.
func NewGateway(kv KV, cipher *NoteCipher, logger *slog.Logger) *Gateway {
	if cipher == nil {
		cipher = NewNoteCipher("")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		kv:      kv,
		cipher:  cipher,
		logger:  logger.With("component", "storage"),
		timeout: defaultOpTimeout,
		now:     time.Now,
	}
}

// Close closes the underlying store.
func (gateway *Gateway) Close() error {
	return gateway.kv.Close()
}

// LoadSettings returns stored settings with the note opened, or defaults.
func (gateway *Gateway) LoadSettings() model.Settings {
	raw, ok := gateway.load(KeySettings)
	if !ok {
		return model.DefaultSettings()
	}
	settings, err := decodeSettings(raw)
	if err != nil {
		gateway.logger.Warn("malformed settings record, using defaults", "error", err)
		return model.DefaultSettings()
	}
	note, err := gateway.cipher.Open(settings.SecretNote)
	if err != nil {
		gateway.logger.Warn("secret note unreadable", "error", err)
		note = ""
	}
	settings.SecretNote = note
	return settings
}

// SaveSettings seals the note and stores the settings record.
func (gateway *Gateway) SaveSettings(settings model.Settings) error {
	sealed, err := gateway.cipher.Seal(settings.SecretNote)
	if err != nil {
		return gateway.saveFailed(KeySettings, fmt.Errorf("seal secret note: %w", err))
	}
	data, err := encodeSettings(settings, sealed)
	if err != nil {
		return gateway.saveFailed(KeySettings, err)
	}
	return gateway.save(KeySettings, data)
}

// LoadStats returns the usage aggregate, or an empty one.
func (gateway *Gateway) LoadStats() model.UsageStats {
	stats := model.NewUsageStats()
	raw, ok := gateway.load(KeyStats)
	if !ok {
		return stats
	}
	if err := json.Unmarshal(raw, &stats); err != nil {
		gateway.logger.Warn("malformed stats record, using defaults", "error", err)
		return model.NewUsageStats()
	}
	if stats.PresetUsage == nil {
		stats.PresetUsage = map[int]int{}
	}
	return stats
}

// SaveStats stores the usage aggregate.
func (gateway *Gateway) SaveStats(stats model.UsageStats) error {
	return gateway.saveJSON(KeyStats, stats)
}

// ClearStats removes the usage aggregate.
func (gateway *Gateway) ClearStats() error {
	return gateway.Delete(KeyStats)
}

// LoadPosition returns the stored card position.
func (gateway *Gateway) LoadPosition() (model.Position, bool) {
	raw, ok := gateway.load(KeyPosition)
	if !ok {
		return model.Position{}, false
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		gateway.logger.Warn("malformed position record", "error", err)
		return model.Position{}, false
	}
	var position model.Position
	var x, y number
	if err := json.Unmarshal(fields["x"], &x); err != nil || !x.set {
		return model.Position{}, false
	}
	if err := json.Unmarshal(fields["y"], &y); err != nil || !y.set {
		return model.Position{}, false
	}
	position.X, position.Y = x.value, y.value
	return position, true
}

// SavePosition stores the card position.
func (gateway *Gateway) SavePosition(position model.Position) error {
	return gateway.saveJSON(KeyPosition, position)
}

// LoadCalendar returns the stored calendar record.
func (gateway *Gateway) LoadCalendar() (model.CalendarData, bool) {
	raw, ok := gateway.load(KeyCalendar)
	if !ok {
		return model.NewCalendarData(), false
	}
	var data model.CalendarData
	if err := json.Unmarshal(raw, &data); err != nil {
		gateway.logger.Warn("malformed calendar record", "error", err)
		return model.NewCalendarData(), false
	}
	return data.Normalized(), true
}

// SaveCalendar stores the calendar record.
func (gateway *Gateway) SaveCalendar(data model.CalendarData) error {
	return gateway.saveJSON(KeyCalendar, data.Normalized())
}

// BackupCalendar copies the current calendar record under a timestamped
// key. It returns "" when there is nothing to back up.
func (gateway *Gateway) BackupCalendar() (string, error) {
	raw, ok := gateway.load(KeyCalendar)
	if !ok {
		return "", nil
	}
	key := calendarBackupBase + gateway.now().UTC().Format(time.RFC3339)
	if err := gateway.save(key, raw); err != nil {
		return "", err
	}
	return key, nil
}

// CalendarBackups lists backup keys, newest first.
func (gateway *Gateway) CalendarBackups() ([]string, error) {
	ctx, cancel := gateway.context()
	defer cancel()
	keys, err := gateway.kv.Keys(ctx, calendarBackupBase)
	if err != nil {
		return nil, err
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys, nil
}

// LoadRaw returns a record as stored.
func (gateway *Gateway) LoadRaw(key string) (json.RawMessage, bool) {
	raw, ok := gateway.load(key)
	return json.RawMessage(raw), ok
}

// SaveRaw stores an already encoded JSON document.
func (gateway *Gateway) SaveRaw(key string, raw json.RawMessage) error {
	if !json.Valid(raw) {
		return gateway.saveFailed(key, fmt.Errorf("record is not valid JSON"))
	}
	return gateway.save(key, raw)
}

// SaveRawAll stores several encoded JSON documents together. Nothing is
// written when any document is invalid or the write fails.
func (gateway *Gateway) SaveRawAll(records map[string]json.RawMessage) error {
	values := make(map[string]string, len(records))
	for key, raw := range records {
		if !json.Valid(raw) {
			return gateway.saveFailed(key, fmt.Errorf("record is not valid JSON"))
		}
		values[key] = string(raw)
	}
	ctx, cancel := gateway.context()
	defer cancel()
	if err := gateway.kv.PutAll(ctx, values); err != nil {
		gateway.logger.Error("batch save failed", "records", len(values), "error", err)
		return fmt.Errorf("save records: %w", err)
	}
	return nil
}

// Delete removes a record.
func (gateway *Gateway) Delete(key string) error {
	ctx, cancel := gateway.context()
	defer cancel()
	if err := gateway.kv.Delete(ctx, key); err != nil {
		gateway.logger.Error("delete failed", "key", key, "error", err)
		return err
	}
	return nil
}

func (gateway *Gateway) load(key string) ([]byte, bool) {
	ctx, cancel := gateway.context()
	defer cancel()
	value, ok, err := gateway.kv.Get(ctx, key)
	if err != nil {
		gateway.logger.Warn("load failed", "key", key, "error", err)
		return nil, false
	}
	if !ok || strings.TrimSpace(value) == "" {
		return nil, false
	}
	return []byte(value), true
}

func (gateway *Gateway) saveJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return gateway.saveFailed(key, fmt.Errorf("marshal %s: %w", key, err))
	}
	return gateway.save(key, data)
}

func (gateway *Gateway) save(key string, data []byte) error {
	ctx, cancel := gateway.context()
	defer cancel()
	if err := gateway.kv.Put(ctx, key, string(data)); err != nil {
		return gateway.saveFailed(key, err)
	}
	return nil
}

func (gateway *Gateway) saveFailed(key string, err error) error {
	gateway.logger.Error("save failed", "key", key, "error", err)
	return fmt.Errorf("save %s: %w", key, err)
}

func (gateway *Gateway) context() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), gateway.timeout)
}
