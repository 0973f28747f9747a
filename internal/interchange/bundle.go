package interchange

import (
	"encoding/json"
	"fmt"
	"io"

	"clockwork/internal/storage"
)

// Bundle is the settings backup file: each part is the stored record as is.
type Bundle struct {
	Settings json.RawMessage `json:"settings,omitempty"`
	Stats    json.RawMessage `json:"stats,omitempty"`
	Position json.RawMessage `json:"position,omitempty"`
}

func (bundle Bundle) parts() []bundlePart {
	return []bundlePart{
		{key: storage.KeySettings, raw: bundle.Settings},
		{key: storage.KeyStats, raw: bundle.Stats},
		{key: storage.KeyPosition, raw: bundle.Position},
	}
}

type bundlePart struct {
	key string
	raw json.RawMessage
}

// ParseBundle validates a backup bundle. Every present part must be an object.
func ParseBundle(raw []byte) (Bundle, error) {
	fields, err := parseObject(raw, "backup")
	if err != nil {
		return Bundle{}, err
	}
	var bundle Bundle
	for _, part := range []struct {
		field  string
		target *json.RawMessage
	}{
		{"settings", &bundle.Settings},
		{"stats", &bundle.Stats},
		{"position", &bundle.Position},
	} {
		value, ok := section(fields, part.field)
		if !ok {
			continue
		}
		if shape(value) != '{' {
			return Bundle{}, &ValidationError{Field: part.field, Reason: "must be an object"}
		}
		*part.target = value
	}
	return bundle, nil
}

// ExportBundle writes the stored settings, stats and position records.
func (service *Service) ExportBundle(writer io.Writer) error {
	var bundle Bundle
	if raw, ok := service.store.LoadRaw(storage.KeySettings); ok {
		bundle.Settings = raw
	}
	if raw, ok := service.store.LoadRaw(storage.KeyStats); ok {
		bundle.Stats = raw
	}
	if raw, ok := service.store.LoadRaw(storage.KeyPosition); ok {
		bundle.Position = raw
	}
	encoded, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("encode backup: %w", err)
	}
	if _, err := writer.Write(encoded); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	return nil
}

// ImportBundle validates a backup bundle and stores its present parts in a
// single write. It returns the number of records written.
func (service *Service) ImportBundle(reader io.Reader) (int, error) {
	raw, err := io.ReadAll(reader)
	if err != nil {
		return 0, fmt.Errorf("read backup: %w", err)
	}
	bundle, err := ParseBundle(raw)
	if err != nil {
		return 0, err
	}

	records := map[string]json.RawMessage{}
	for _, part := range bundle.parts() {
		if len(part.raw) > 0 {
			records[part.key] = part.raw
		}
	}
	if len(records) == 0 {
		return 0, nil
	}
	if err := service.store.SaveRawAll(records); err != nil {
		return 0, err
	}
	service.logger.Info("backup imported", "records", len(records))
	return len(records), nil
}
