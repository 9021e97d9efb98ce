package xlsxstore

import (
	"errors"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/twiced-technology-gmbh/projtrack/internal/settings"
)

const (
	keyUserName     = "userName"
	keyUserInitials = "userInitials"
)

// SettingsStore keeps settings in the workbook's Settings sheet.
type SettingsStore struct {
	store *Store
}

// Settings returns a settings store backed by the same workbook.
func (s *Store) Settings() *SettingsStore {
	return &SettingsStore{store: s}
}

// Load reads the Settings sheet. A missing workbook or sheet yields empty
// settings.
func (ss *SettingsStore) Load() (settings.Settings, error) {
	st, err := ss.store.readSettings()
	if err != nil || st == nil {
		return settings.Settings{}, err
	}
	return *st, nil
}

// Save rewrites the Settings sheet, keeping the project sheets.
func (ss *SettingsStore) Save(st settings.Settings) error {
	projects, err := ss.store.Load()
	if err != nil {
		return fmt.Errorf("reading workbook before saving settings: %w", err)
	}
	return ss.store.write(projects, &st)
}

// readSettings returns nil when the workbook or its Settings sheet does
// not exist.
func (s *Store) readSettings() (*settings.Settings, error) {
	f, err := excelize.OpenFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if idx, idxErr := f.GetSheetIndex(SettingsSheet); idxErr != nil || idx < 0 {
		return nil, nil
	}
	records, err := readRecords(f, SettingsSheet)
	if err != nil {
		return nil, err
	}
	var st settings.Settings
	for _, rec := range records {
		switch rec["key"] {
		case keyUserName:
			st.UserName = rec["value"]
		case keyUserInitials:
			st.UserInitials = rec["value"]
		}
	}
	return &st, nil
}

func writeSettingsSheet(f *excelize.File, st settings.Settings) error {
	if _, err := f.NewSheet(SettingsSheet); err != nil {
		return fmt.Errorf("creating sheet: %w", err)
	}
	rows := [][]any{
		{"key", "value"},
		{keyUserName, st.UserName},
		{keyUserInitials, st.UserInitials},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SettingsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing settings row: %w", err)
		}
	}
	return nil
}
