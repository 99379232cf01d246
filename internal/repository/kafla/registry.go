// Package kafla manages the group registry CSV (kafla.csv). Like the zaireen
// store it is read fully per operation and rewritten fully on change.
package kafla

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"zaireen_import/internal/models"
)

var (
	// ErrEmpty signals that no kafla has been registered yet. Ingestion
	// sessions must halt on it and prompt for registration first.
	ErrEmpty = errors.New("kafla: registry is empty")

	// ErrNotFound signals an unknown kafla code.
	ErrNotFound = errors.New("kafla: not found")
)

var header = []string{"Kafla Code", "Kafla Name", "City", "Province", "Country", "Salar Name", "Salar CNIC", "Salar Contact", "Created At"}

type Registry struct {
	Path string
}

func NewRegistry(path string) *Registry {
	return &Registry{Path: path}
}

// List returns all registered kaflas in file order. Returns ErrEmpty when the
// registry file does not exist or holds no rows.
func (r *Registry) List() ([]models.Kafla, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("open registry: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	if len(rows) <= 1 {
		return nil, ErrEmpty
	}

	kaflas := make([]models.Kafla, 0, len(rows)-1)
	for _, row := range rows[1:] {
		kaflas = append(kaflas, models.Kafla{
			Code:         field(row, 0),
			Name:         field(row, 1),
			City:         field(row, 2),
			Province:     field(row, 3),
			Country:      field(row, 4),
			SalarName:    field(row, 5),
			SalarCNIC:    field(row, 6),
			SalarContact: field(row, 7),
			CreatedAt:    field(row, 8),
		})
	}
	return kaflas, nil
}

// Get looks up one kafla by code.
func (r *Registry) Get(code string) (models.Kafla, error) {
	kaflas, err := r.List()
	if err != nil {
		return models.Kafla{}, err
	}
	for _, k := range kaflas {
		if k.Code == code {
			return k, nil
		}
	}
	return models.Kafla{}, ErrNotFound
}

// Append adds a new kafla row and persists the registry.
func (r *Registry) Append(k models.Kafla) error {
	kaflas, err := r.List()
	if err != nil && !errors.Is(err, ErrEmpty) {
		return err
	}
	for _, existing := range kaflas {
		if existing.Code == k.Code {
			return fmt.Errorf("kafla: code %q already registered", k.Code)
		}
	}
	return r.save(append(kaflas, k))
}

// Delete removes the kafla with the given code. Reports whether a row was
// removed.
func (r *Registry) Delete(code string) (bool, error) {
	kaflas, err := r.List()
	if err != nil {
		if errors.Is(err, ErrEmpty) {
			return false, nil
		}
		return false, err
	}
	kept := kaflas[:0]
	removed := false
	for _, k := range kaflas {
		if k.Code == code {
			removed = true
			continue
		}
		kept = append(kept, k)
	}
	if !removed {
		return false, nil
	}
	return true, r.save(kept)
}

func (r *Registry) save(kaflas []models.Kafla) error {
	dir := filepath.Dir(r.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("registry dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".kafla-*.csv")
	if err != nil {
		return fmt.Errorf("registry temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("write header: %w", err)
	}
	for _, k := range kaflas {
		row := []string{k.Code, k.Name, k.City, k.Province, k.Country, k.SalarName, k.SalarCNIC, k.SalarContact, k.CreatedAt}
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close registry temp: %w", err)
	}
	if err := os.Rename(tmpName, r.Path); err != nil {
		return fmt.Errorf("replace registry: %w", err)
	}
	return nil
}

func field(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}
