package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"zaireen_import/internal/adapters/opener"
	"zaireen_import/internal/config"
	mg "zaireen_import/internal/config/connections/mongo"
	"zaireen_import/internal/config/connections/s3"
	"zaireen_import/internal/mrz"
	"zaireen_import/internal/ports"
	"zaireen_import/internal/repository/docstore"
	"zaireen_import/internal/repository/kafla"
	"zaireen_import/internal/repository/zaireen"
	"zaireen_import/internal/services/ingest"
)

// Handlers wires the HTTP surface to the registry, the record store, the
// document tree and the ingestion pipeline. The upload queue lives here;
// the pipeline receives it explicitly per batch call and holds no session
// state of its own.
type Handlers struct {
	Registry *kafla.Registry
	Store    *zaireen.Store
	Docs     *docstore.Store
	Ingest   *ingest.Service
	Queue    *ingest.Queue
	Opener   ports.FileOpener

	Mongo *mg.Mongo
	S3    *s3.S3

	TempDir string
	Logger  *log.Logger

	validate *validator.Validate
}

func New(cfg *config.Config) *Handlers {
	registry := kafla.NewRegistry(cfg.KaflaCSV)
	store := zaireen.NewStore(filepath.Join(cfg.DataDir, "zaireen.csv"))
	docs := docstore.NewStore(cfg.DataDir)

	var s3Op *opener.S3Opener
	if cfg.S3 != nil {
		s3Op = opener.NewS3Opener(cfg.S3.Client)
	}
	compound := opener.NewCompoundOpener(opener.NewHTTPOpener(nil), s3Op, opener.NewLocalOpener())

	return &Handlers{
		Registry: registry,
		Store:    store,
		Docs:     docs,
		Ingest:   ingest.NewService(mrz.NewTesseractExtractor(), store, docs),
		Queue:    ingest.NewQueue(),
		Opener:   compound,
		Mongo:    cfg.Mongo,
		S3:       cfg.S3,
		TempDir:  cfg.TempDir,
		Logger:   log.Default(),
		validate: validator.New(),
	}
}

func (h *Handlers) JSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handlers) Error(w http.ResponseWriter, code int, msg string) {
	h.JSON(w, code, map[string]string{"error": msg})
}
