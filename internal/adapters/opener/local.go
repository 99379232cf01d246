package opener

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"zaireen_import/internal/ports"
)

type LocalOpener struct{}

func NewLocalOpener() *LocalOpener { return &LocalOpener{} }

func (l *LocalOpener) Open(_ context.Context, path string) (io.ReadCloser, ports.Meta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, ports.Meta{}, fmt.Errorf("local stat: %w", err)
	}
	if info.IsDir() {
		return nil, ports.Meta{}, fmt.Errorf("local open: %s is a directory", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, ports.Meta{}, fmt.Errorf("local open: %w", err)
	}
	log.Printf("[OPENER][LOCAL][OK] path=%q size=%d", path, info.Size())
	return f, ports.Meta{Source: "local", Size: info.Size()}, nil
}
