// Package zaireen persists identity records in a flat CSV file. The store
// follows a read-all, mutate in memory, write-all shape: every operation
// loads the complete file and callers persist the complete record set back.
// There is no cross-request caching and no row-level locking; concurrent
// writers are last-writer-wins on the full-file rewrite.
package zaireen

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"zaireen_import/internal/models"
)

// Header is the fixed column order of the zaireen CSV file.
var Header = []string{"Kafla Code", "Zaireen Name", "Passport Number", "Nationality", "Date of Birth", "Sex", "Scan Time"}

type Store struct {
	Path string
}

func NewStore(path string) *Store {
	return &Store{Path: path}
}

// Load reads every identity record from the file. A missing file is an empty
// store, not an error.
func (s *Store) Load() ([]models.Zaireen, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Zaireen{}, nil
		}
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read store: %w", err)
	}
	if len(rows) == 0 {
		return []models.Zaireen{}, nil
	}

	records := make([]models.Zaireen, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, models.Zaireen{
			KaflaCode:      field(row, 0),
			Name:           field(row, 1),
			PassportNumber: field(row, 2),
			Nationality:    field(row, 3),
			DateOfBirth:    field(row, 4),
			Sex:            field(row, 5),
			ScanTime:       field(row, 6),
		})
	}
	return records, nil
}

// Save rewrites the whole file from records. The new content is written to a
// sibling temp file and renamed into place so a failed write never truncates
// previously committed rows.
func (s *Store) Save(records []models.Zaireen) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".zaireen-*.csv")
	if err != nil {
		return fmt.Errorf("store temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(Header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range records {
		row := []string{r.KaflaCode, r.Name, r.PassportNumber, r.Nationality, r.DateOfBirth, r.Sex, r.ScanTime}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close store temp: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

// ByKafla returns the records registered under one kafla code, preserving
// file order. This is the read accessor used by exports and audits.
func (s *Store) ByKafla(kaflaCode string) ([]models.Zaireen, error) {
	all, err := s.Load()
	if err != nil {
		return nil, err
	}
	out := make([]models.Zaireen, 0)
	for _, r := range all {
		if r.KaflaCode == kaflaCode {
			out = append(out, r)
		}
	}
	return out, nil
}

// Delete removes the record matching (kaflaCode, passport) and persists the
// store. Passport comparison is case-insensitive, matching the duplicate
// check. Reports whether a row was removed.
func (s *Store) Delete(kaflaCode, passport string) (bool, error) {
	all, err := s.Load()
	if err != nil {
		return false, err
	}
	kept := all[:0]
	removed := false
	for _, r := range all {
		if r.KaflaCode == kaflaCode && strings.EqualFold(r.PassportNumber, passport) {
			removed = true
			continue
		}
		kept = append(kept, r)
	}
	if !removed {
		return false, nil
	}
	return true, s.Save(kept)
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
