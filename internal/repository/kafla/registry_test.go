package kafla

import (
	"errors"
	"path/filepath"
	"testing"

	"zaireen_import/internal/models"
)

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(filepath.Join(t.TempDir(), "kafla.csv"))
}

func TestListMissingFileIsEmptyRegistry(t *testing.T) {
	r := testRegistry(t)
	if _, err := r.List(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty, got %v", err)
	}
}

func TestAppendGetDelete(t *testing.T) {
	r := testRegistry(t)
	k := models.Kafla{
		Code:         "ab12cd34",
		Name:         "Moakab e Zainabiya",
		City:         "Karachi",
		Province:     "Sindh",
		Country:      "Pakistan",
		SalarName:    "Syed Ali Raza",
		SalarCNIC:    "4210112345678",
		SalarContact: "03001234567",
		CreatedAt:    "2025-06-01 10:00:00",
	}
	if err := r.Append(k); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := r.Get("ab12cd34")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != k {
		t.Fatalf("Get mismatch:\n got=%v\nwant=%v", got, k)
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := r.Append(k); err == nil {
		t.Fatal("expected duplicate code to be rejected")
	}

	removed, err := r.Delete("ab12cd34")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !removed {
		t.Fatal("expected row to be removed")
	}
	if _, err := r.List(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("expected ErrEmpty after delete, got %v", err)
	}
}
