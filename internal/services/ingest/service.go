// Package ingest implements the passport ingestion pipeline: MRZ extraction,
// field normalization, per-kafla duplicate checking and the commit of an
// accepted record plus its scan into storage.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"zaireen_import/internal/models"
	"zaireen_import/internal/mrz"
)

var (
	// ErrMRZNotReadable is a per-image rejection: no decodable MRZ band.
	ErrMRZNotReadable = errors.New("ingest: MRZ not readable")

	// ErrDuplicate is a per-image rejection: the passport is already
	// registered in the same kafla.
	ErrDuplicate = errors.New("ingest: duplicate passport")
)

// Rejection reasons reported in batch summaries.
const (
	ReasonDuplicate  = "Duplicate"
	ReasonUnreadable = "MRZ Not Readable"
	ReasonStorage    = "Storage Error"
)

// Extractor decodes MRZ fields from an image on disk.
type Extractor interface {
	Extract(ctx context.Context, imagePath string) (*mrz.Fields, error)
}

// RecordStore is the tabular zaireen store: full read, full rewrite.
type RecordStore interface {
	Load() ([]models.Zaireen, error)
	Save(records []models.Zaireen) error
}

// DocStore receives the accepted passport scan.
type DocStore interface {
	SavePassport(kaflaCode, passport, srcPath string) error
}

// Rejection describes one refused image in a batch run.
type Rejection struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// BatchResult summarizes one drained queue.
type BatchResult struct {
	Accepted int         `json:"accepted"`
	Rejected []Rejection `json:"rejected"`
}

type Service struct {
	Extractor Extractor
	Store     RecordStore
	Docs      DocStore

	// Now stamps accepted records; tests pin it.
	Now func() time.Time
}

func NewService(ex Extractor, store RecordStore, docs DocStore) *Service {
	return &Service{Extractor: ex, Store: store, Docs: docs, Now: time.Now}
}

// ScanOne ingests a single interactively captured image. The staged file at
// imagePath is removed exactly once before returning, whatever the outcome.
// Returns the committed record, or ErrMRZNotReadable / ErrDuplicate on
// rejection.
func (s *Service) ScanOne(ctx context.Context, kaflaCode, imagePath string) (*models.Zaireen, error) {
	defer removeStaged(imagePath)

	records, err := s.Store.Load()
	if err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	rec, err := s.ingest(ctx, records, kaflaCode, imagePath)
	if err != nil {
		return nil, err
	}

	records = append(records, *rec)
	if err := s.Store.Save(records); err != nil {
		return nil, fmt.Errorf("persist records: %w", err)
	}
	log.Printf("[SCAN][OK] kafla=%s passport=%s name=%q", kaflaCode, rec.PassportNumber, rec.Name)
	return rec, nil
}

// ScanBatch drains the queue against one kafla. Items are processed in
// staging order; a failure on one item never blocks the rest. The record
// store is persisted exactly once after the full queue is drained, every
// staged file is removed exactly once regardless of outcome, and the queue
// is cleared. The working record set is extended after each acceptance, so
// a passport appearing twice within the same batch is rejected on its
// second occurrence.
func (s *Service) ScanBatch(ctx context.Context, kaflaCode string, q *Queue) (BatchResult, error) {
	items := q.Items()
	log.Printf("[SCAN][BATCH][START] kafla=%s queued=%d", kaflaCode, len(items))

	records, err := s.Store.Load()
	if err != nil {
		return BatchResult{}, fmt.Errorf("load records: %w", err)
	}

	res := BatchResult{Rejected: []Rejection{}}
	for _, it := range items {
		rec, err := s.ingest(ctx, records, kaflaCode, it.Path)
		removeStaged(it.Path)
		if err != nil {
			var reason string
			switch {
			case errors.Is(err, ErrDuplicate):
				reason = ReasonDuplicate
			case errors.Is(err, ErrMRZNotReadable):
				reason = ReasonUnreadable
			default:
				// storage failure: fatal for this item only, committed
				// rows and the rest of the queue are unaffected
				reason = ReasonStorage
			}
			log.Printf("[SCAN][BATCH][REJECT] kafla=%s file=%s reason=%s err=%v", kaflaCode, it.Name, reason, err)
			res.Rejected = append(res.Rejected, Rejection{Filename: it.Name, Reason: reason})
			continue
		}
		records = append(records, *rec)
		res.Accepted++
		log.Printf("[SCAN][BATCH][OK] kafla=%s file=%s passport=%s", kaflaCode, it.Name, rec.PassportNumber)
	}

	if err := s.Store.Save(records); err != nil {
		return res, fmt.Errorf("persist records: %w", err)
	}
	q.Clear()
	log.Printf("[SCAN][BATCH][DONE] kafla=%s accepted=%d rejected=%d", kaflaCode, res.Accepted, len(res.Rejected))
	return res, nil
}

// ingest runs extraction, normalization and the duplicate gate for one
// image, writes the attachment and returns the record to append. It never
// mutates records; the caller owns the working set. On acceptance the
// attachment is written before the record is appended and persisted, so a
// crash between the two leaves an orphan file, never a record without its
// scan.
func (s *Service) ingest(ctx context.Context, records []models.Zaireen, kaflaCode, imagePath string) (*models.Zaireen, error) {
	fields, err := s.Extractor.Extract(ctx, imagePath)
	if err != nil {
		if errors.Is(err, mrz.ErrNotFound) {
			return nil, ErrMRZNotReadable
		}
		// extraction failures of any kind reject the image, they never
		// abort the session
		return nil, fmt.Errorf("%w: %v", ErrMRZNotReadable, err)
	}

	passport := NormalizePassport(fields.Number)
	if IsDuplicate(records, kaflaCode, passport) {
		return nil, ErrDuplicate
	}

	if err := s.Docs.SavePassport(kaflaCode, passport, imagePath); err != nil {
		return nil, fmt.Errorf("save attachment: %w", err)
	}

	return &models.Zaireen{
		KaflaCode:      kaflaCode,
		Name:           FullName(fields.Surname, fields.Names),
		PassportNumber: passport,
		Nationality:    fields.Nationality,
		DateOfBirth:    ConvertMRZDate(fields.DateOfBirth),
		Sex:            fields.Sex,
		ScanTime:       s.Now().Format("2006-01-02 15:04:05"),
	}, nil
}

func removeStaged(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("[SCAN][WARN] remove staged file %s: %v", path, err)
	}
}
