package docstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSavePassportCopiesScan(t *testing.T) {
	base := t.TempDir()
	s := NewStore(base)

	src := filepath.Join(t.TempDir(), "upload.jpg")
	if err := os.WriteFile(src, []byte("jpeg-bytes"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}

	if err := s.SavePassport("G1", "AB123", src); err != nil {
		t.Fatalf("SavePassport: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(base, "G1", "zaireen", "AB123", PassportFile))
	if err != nil {
		t.Fatalf("read stored passport: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Fatalf("stored content mismatch: %q", data)
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("source must be left in place: %v", err)
	}
}

func TestSaveVisaAndStatus(t *testing.T) {
	s := NewStore(t.TempDir())

	if err := s.SaveVisa("G1", "AB123", "iran", strings.NewReader("visa")); err != nil {
		t.Fatalf("SaveVisa: %v", err)
	}
	if err := s.SaveVisa("G1", "AB123", "nowhere", strings.NewReader("visa")); err == nil {
		t.Fatal("expected unknown country to be rejected")
	}

	st := s.Status("G1", "AB123")
	if st.Passport || !st.IranVisa || st.IraqVisa {
		t.Fatalf("unexpected status: %+v", st)
	}
	if st.Complete() {
		t.Fatal("status must not be complete")
	}
}

func TestEnsureKaflaDirsAndRemove(t *testing.T) {
	base := t.TempDir()
	s := NewStore(base)

	if err := s.EnsureKaflaDirs("G1"); err != nil {
		t.Fatalf("EnsureKaflaDirs: %v", err)
	}
	for _, sub := range []string{"registration", "vehicle", "others", "zaireen"} {
		if _, err := os.Stat(filepath.Join(base, "G1", sub)); err != nil {
			t.Errorf("missing %s: %v", sub, err)
		}
	}

	if err := s.RemoveKafla("G1"); err != nil {
		t.Fatalf("RemoveKafla: %v", err)
	}
	if _, err := os.Stat(filepath.Join(base, "G1")); !os.IsNotExist(err) {
		t.Fatalf("kafla dir should be gone, stat err=%v", err)
	}
}
