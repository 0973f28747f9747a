package interchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"clockwork/internal/core/calendar"
	"clockwork/internal/core/model"
	"clockwork/internal/storage"
)

// Store is the part of the persistence gateway the service needs.
type Store interface {
	LoadCalendar() (model.CalendarData, bool)
	SaveCalendar(data model.CalendarData) error
	BackupCalendar() (string, error)
	LoadRaw(key string) (json.RawMessage, bool)
	SaveRawAll(records map[string]json.RawMessage) error
}

// Service moves calendar data and backup bundles between files and storage.
type Service struct {
	store    Store
	seedPath string
	logger   *slog.Logger
}

// NewService creates a service. seedPath names the data.json read when no
// calendar record is stored yet.
func NewService(store Store, seedPath string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:    store,
		seedPath: seedPath,
		logger:   logger.With("component", "interchange"),
	}
}

// LoadCalendar returns the stored calendar. Without a stored record it
// seeds storage from the seed file, and falls back to the built-in
// holidays when that file is missing or invalid.
func (service *Service) LoadCalendar() model.CalendarData {
	if data, ok := service.store.LoadCalendar(); ok {
		return data
	}

	data, err := service.readSeed()
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			service.logger.Warn("seed calendar ignored", "path", service.seedPath, "error", err)
		}
		return calendar.DefaultData()
	}
	if err := service.store.SaveCalendar(data); err != nil {
		service.logger.Warn("seed calendar not stored", "error", err)
	}
	service.logger.Info("calendar seeded", "path", service.seedPath, "events", len(data.Events))
	return data
}

// ImportCalendar validates a calendar document, backs up the current
// record and stores the new one. Storage is untouched on any error before
// the final save.
func (service *Service) ImportCalendar(reader io.Reader) (model.CalendarData, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return model.CalendarData{}, fmt.Errorf("read calendar: %w", err)
	}
	data, err := ParseCalendar(raw)
	if err != nil {
		return model.CalendarData{}, err
	}

	backup, err := service.store.BackupCalendar()
	if err != nil {
		return model.CalendarData{}, fmt.Errorf("backup calendar: %w", err)
	}
	if err := service.store.SaveCalendar(data); err != nil {
		return model.CalendarData{}, err
	}
	service.logger.Info("calendar imported",
		"holidays", len(data.Holidays),
		"events", len(data.Events),
		"plans", len(data.Plans),
		"backup", backup,
	)
	return data, nil
}

// ExportCalendar writes the current calendar document.
func (service *Service) ExportCalendar(writer io.Writer) error {
	encoded, err := EncodeCalendar(service.LoadCalendar())
	if err != nil {
		return err
	}
	if _, err := writer.Write(encoded); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}

func (service *Service) readSeed() (model.CalendarData, error) {
	if service.seedPath == "" {
		return model.CalendarData{}, fs.ErrNotExist
	}
	raw, err := os.ReadFile(service.seedPath)
	if err != nil {
		return model.CalendarData{}, err
	}
	return ParseCalendar(raw)
}

var _ Store = (*storage.Gateway)(nil)
