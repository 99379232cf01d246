// Package docstore manages the on-disk attachment tree:
//
//	docs/<kafla_code>/zaireen/<passport_number>/passport.jpg
//	docs/<kafla_code>/zaireen/<passport_number>/iran_visa.jpg
//	docs/<kafla_code>/zaireen/<passport_number>/iraq_visa.jpg
package docstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	PassportFile = "passport.jpg"
	IranVisaFile = "iran_visa.jpg"
	IraqVisaFile = "iraq_visa.jpg"
)

// kaflaSubdirs is the directory skeleton created for every registered kafla.
var kaflaSubdirs = []string{"registration", "vehicle", "others", "zaireen"}

// AttachmentStatus reports which documents exist for one identity record.
type AttachmentStatus struct {
	Passport bool `json:"passport"`
	IranVisa bool `json:"iran_visa"`
	IraqVisa bool `json:"iraq_visa"`
}

func (a AttachmentStatus) Complete() bool {
	return a.Passport && a.IranVisa && a.IraqVisa
}

type Store struct {
	Base string
}

func NewStore(base string) *Store {
	return &Store{Base: base}
}

// KaflaDir is the root directory of one kafla's documents.
func (s *Store) KaflaDir(kaflaCode string) string {
	return filepath.Join(s.Base, kaflaCode)
}

// ZaireenDir is the attachment directory of one (kafla, passport) pair. This
// is the read accessor exposed to downstream report builders.
func (s *Store) ZaireenDir(kaflaCode, passport string) string {
	return filepath.Join(s.Base, kaflaCode, "zaireen", passport)
}

// EnsureKaflaDirs creates the directory skeleton for a newly registered
// kafla.
func (s *Store) EnsureKaflaDirs(kaflaCode string) error {
	for _, sub := range kaflaSubdirs {
		if err := os.MkdirAll(filepath.Join(s.KaflaDir(kaflaCode), sub), 0o755); err != nil {
			return fmt.Errorf("kafla dirs: %w", err)
		}
	}
	return nil
}

// SavePassport copies the staged scan at srcPath into the attachment
// directory as passport.jpg, creating the directory as needed. The source
// file is left in place; staging cleanup belongs to the ingestion pipeline.
func (s *Store) SavePassport(kaflaCode, passport, srcPath string) error {
	dir := s.ZaireenDir(kaflaCode, passport)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("attachment dir: %w", err)
	}
	return copyFile(srcPath, filepath.Join(dir, PassportFile))
}

// SaveVisa stores an iran or iraq visa scan for an existing record.
func (s *Store) SaveVisa(kaflaCode, passport, country string, r io.Reader) error {
	var name string
	switch country {
	case "iran":
		name = IranVisaFile
	case "iraq":
		name = IraqVisaFile
	default:
		return fmt.Errorf("docstore: unknown visa country %q", country)
	}

	dir := s.ZaireenDir(kaflaCode, passport)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("attachment dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("create visa file: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("write visa file: %w", err)
	}
	return f.Close()
}

// Status reports which attachments exist for one record.
func (s *Store) Status(kaflaCode, passport string) AttachmentStatus {
	dir := s.ZaireenDir(kaflaCode, passport)
	return AttachmentStatus{
		Passport: fileExists(filepath.Join(dir, PassportFile)),
		IranVisa: fileExists(filepath.Join(dir, IranVisaFile)),
		IraqVisa: fileExists(filepath.Join(dir, IraqVisaFile)),
	}
}

// RemoveZaireen deletes the attachment directory of one record.
func (s *Store) RemoveZaireen(kaflaCode, passport string) error {
	return os.RemoveAll(s.ZaireenDir(kaflaCode, passport))
}

// RemoveKafla deletes a kafla's whole document tree.
func (s *Store) RemoveKafla(kaflaCode string) error {
	return os.RemoveAll(s.KaflaDir(kaflaCode))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return out.Close()
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
