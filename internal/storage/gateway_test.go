package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clockwork/internal/core/model"
)

func setupTestKV(t *testing.T) *SQLiteKV {
	t.Helper()
	kv, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite failed: %v", err)
	}
	t.Cleanup(func() {
		if err := kv.Close(); err != nil {
			t.Logf("kv close failed: %v", err)
		}
	})
	return kv
}

func setupTestGateway(t *testing.T) (*Gateway, *SQLiteKV) {
	t.Helper()
	kv := setupTestKV(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewGateway(kv, NewNoteCipher("test-key"), logger), kv
}

func putRaw(t *testing.T, kv KV, key, value string) {
	t.Helper()
	if err := kv.Put(context.Background(), key, value); err != nil {
		t.Fatalf("put %s: %v", key, err)
	}
}

func TestKVPutGetDelete(t *testing.T) {
	kv := setupTestKV(t)
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	putRaw(t, kv, "a", "1")
	putRaw(t, kv, "a", "2")
	value, ok, err := kv.Get(ctx, "a")
	if err != nil || !ok || value != "2" {
		t.Fatalf("expected upserted value 2, got %q ok=%v err=%v", value, ok, err)
	}
	if err := kv.Delete(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get(ctx, "a"); ok {
		t.Fatalf("expected key removed")
	}
}

func TestKVKeysByPrefix(t *testing.T) {
	kv := setupTestKV(t)
	putRaw(t, kv, "clockJSONData", "{}")
	putRaw(t, kv, "clockJSONData_backup_2025-01-02T00:00:00Z", "{}")
	putRaw(t, kv, "clockJSONData_backup_2025-01-01T00:00:00Z", "{}")
	putRaw(t, kv, "clockStats", "{}")

	keys, err := kv.Keys(context.Background(), calendarBackupBase)
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "clockJSONData_backup_2025-01-01T00:00:00Z" {
		t.Fatalf("unexpected keys %v", keys)
	}
}

func TestSettingsRoundTrip(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	settings := model.DefaultSettings()
	settings.Tick = model.TickConfig{Profile: model.ProfileVintage, PitchHz: 900, Volume: 0.3, StartTickAt: 10}
	settings.EnableSound = false
	settings.BackgroundColor = "#123456"
	settings.StealthMode = true
	settings.SecretNote = "the vault code is 1234"

	if err := gateway.SaveSettings(settings); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _, _ := kv.Get(context.Background(), KeySettings)
	if strings.Contains(raw, "vault") {
		t.Fatalf("secret note stored in clear text: %s", raw)
	}
	if got := gateway.LoadSettings(); got != settings {
		t.Fatalf("expected %+v, got %+v", settings, got)
	}
}

func TestSettingsAcceptStringNumbers(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	putRaw(t, kv, KeySettings, `{"tickProfile":"soft","tickPitch":"1200","tickVolume":"0.5","enableSound":true,"startTickAt":"5","bgColor":"#000000"}`)

	got := gateway.LoadSettings()
	want := model.TickConfig{Profile: model.ProfileSoft, PitchHz: 1200, Volume: 0.5, StartTickAt: 5}
	if got.Tick != want {
		t.Fatalf("expected %+v, got %+v", want, got.Tick)
	}
	if got.BackgroundColor != "#000000" || !got.EnableSound {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestSettingsClampOutOfRange(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	putRaw(t, kv, KeySettings, `{"tickPitch":5000,"tickVolume":7,"startTickAt":-2}`)
	got := gateway.LoadSettings().Tick
	if got.PitchHz != model.MaxTickPitch || got.Volume != 1 || got.StartTickAt != 0 {
		t.Fatalf("expected clamped tick config, got %+v", got)
	}
}

func TestMalformedRecordsLoadDefaults(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	putRaw(t, kv, KeySettings, `{"tickPitch":"loud"}`)
	putRaw(t, kv, KeyStats, `[1,2,3]`)
	putRaw(t, kv, KeyPosition, `"left"`)
	putRaw(t, kv, KeyCalendar, `{"holidays":[1,2]}`)

	if got := gateway.LoadSettings(); got != model.DefaultSettings() {
		t.Fatalf("expected default settings, got %+v", got)
	}
	if got := gateway.LoadStats(); got.TotalCountdowns != 0 || got.PresetUsage == nil {
		t.Fatalf("expected empty stats, got %+v", got)
	}
	if _, ok := gateway.LoadPosition(); ok {
		t.Fatalf("expected no position")
	}
	if _, ok := gateway.LoadCalendar(); ok {
		t.Fatalf("expected no calendar")
	}
}

func TestLegacyNoteIsReadable(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	// "hi" XOR "cl" -> 0x0b 0x05, base64 "CwU=".
	putRaw(t, kv, KeySettings, `{"secretNote":"CwU="}`)
	if got := gateway.LoadSettings().SecretNote; got != "hi" {
		t.Fatalf("expected legacy note, got %q", got)
	}
}

func TestStatsRoundTrip(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	last := time.Date(2025, 2, 3, 4, 5, 6, 0, time.UTC)
	stats := model.UsageStats{TotalCountdowns: 3, TotalTimeSec: 600, PresetUsage: map[int]int{5: 2}, LastActive: &last}
	if err := gateway.SaveStats(stats); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, _, _ := kv.Get(context.Background(), KeyStats)
	if !strings.Contains(raw, `"presetUsage":{"5":2}`) || !strings.Contains(raw, `"totalTime":600`) {
		t.Fatalf("unexpected stats record %s", raw)
	}
	got := gateway.LoadStats()
	if got.TotalCountdowns != 3 || got.PresetUsage[5] != 2 || !got.LastActive.Equal(last) {
		t.Fatalf("unexpected stats %+v", got)
	}
	if err := gateway.ClearStats(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if gateway.LoadStats().TotalCountdowns != 0 {
		t.Fatalf("expected cleared stats")
	}
}

func TestPositionAcceptsStrings(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	putRaw(t, kv, KeyPosition, `{"x":"120.5","y":80}`)
	position, ok := gateway.LoadPosition()
	if !ok || position.X != 120.5 || position.Y != 80 {
		t.Fatalf("unexpected position %+v ok=%v", position, ok)
	}
}

func TestBackupCalendar(t *testing.T) {
	gateway, _ := setupTestGateway(t)
	gateway.now = func() time.Time { return time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC) }

	if key, err := gateway.BackupCalendar(); err != nil || key != "" {
		t.Fatalf("expected nothing to back up, got %q %v", key, err)
	}
	data := model.NewCalendarData()
	data.Holidays["2025-07-04"] = model.Holiday{Name: "Picnic"}
	if err := gateway.SaveCalendar(data); err != nil {
		t.Fatalf("save calendar: %v", err)
	}
	key, err := gateway.BackupCalendar()
	if err != nil {
		t.Fatalf("backup: %v", err)
	}
	if key != "clockJSONData_backup_2025-07-01T08:00:00Z" {
		t.Fatalf("unexpected backup key %q", key)
	}
	backups, err := gateway.CalendarBackups()
	if err != nil || len(backups) != 1 || backups[0] != key {
		t.Fatalf("unexpected backups %v %v", backups, err)
	}
	raw, ok := gateway.LoadRaw(key)
	if !ok || !strings.Contains(string(raw), "Picnic") {
		t.Fatalf("backup does not hold the record: %s", raw)
	}
}

type failingKV struct{ KV }

func (failingKV) Put(context.Context, string, string) error { return errors.New("read-only") }

func TestSaveErrorsAreReturned(t *testing.T) {
	kv := setupTestKV(t)
	gateway := NewGateway(failingKV{kv}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := gateway.SavePosition(model.Position{X: 1, Y: 2}); err == nil {
		t.Fatalf("expected save error")
	}
	if err := gateway.SaveRaw(KeyStats, []byte("{oops")); err == nil {
		t.Fatalf("expected invalid JSON to be rejected")
	}
}

func TestSaveRawAllIsAllOrNothing(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	putRaw(t, kv, KeySettings, `{"bgColor":"#000000"}`)
	putRaw(t, kv, KeyPosition, `{"x":1,"y":2}`)
	const trigger = `CREATE TRIGGER reject_stats BEFORE INSERT ON kv
		WHEN NEW.key = 'clockStats'
		BEGIN SELECT RAISE(ABORT, 'stats rejected'); END;`
	if _, err := kv.db.Exec(trigger); err != nil {
		t.Fatalf("create trigger: %v", err)
	}

	err := gateway.SaveRawAll(map[string]json.RawMessage{
		KeySettings: json.RawMessage(`{"bgColor":"#ffffff"}`),
		KeyPosition: json.RawMessage(`{"x":9,"y":9}`),
		KeyStats:    json.RawMessage(`{"total":3}`),
	})
	if err == nil {
		t.Fatalf("expected the batch to fail")
	}
	for key, want := range map[string]string{
		KeySettings: `{"bgColor":"#000000"}`,
		KeyPosition: `{"x":1,"y":2}`,
	} {
		got, ok, err := kv.Get(context.Background(), key)
		if err != nil || !ok || got != want {
			t.Fatalf("%s changed by a failed batch: %q, %v", key, got, err)
		}
	}

	if _, err := kv.db.Exec("DROP TRIGGER reject_stats"); err != nil {
		t.Fatalf("drop trigger: %v", err)
	}
	if err := gateway.SaveRawAll(map[string]json.RawMessage{
		KeySettings: json.RawMessage(`{"bgColor":"#ffffff"}`),
		KeyStats:    json.RawMessage(`{"total":3}`),
	}); err != nil {
		t.Fatalf("SaveRawAll failed: %v", err)
	}
	if raw, ok := gateway.LoadRaw(KeyStats); !ok || string(raw) != `{"total":3}` {
		t.Fatalf("stats not stored: %s", raw)
	}
}

func TestSaveRawAllRejectsInvalidJSON(t *testing.T) {
	gateway, kv := setupTestGateway(t)
	err := gateway.SaveRawAll(map[string]json.RawMessage{
		KeySettings: json.RawMessage(`{"bgColor":"#ffffff"}`),
		KeyStats:    json.RawMessage(`{oops`),
	})
	if err == nil {
		t.Fatalf("expected invalid JSON to be rejected")
	}
	if _, ok, _ := kv.Get(context.Background(), KeySettings); ok {
		t.Fatalf("settings written alongside an invalid record")
	}
}
