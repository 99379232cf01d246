package handlers

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"zaireen_import/internal/repository/kafla"
	"zaireen_import/internal/services/ingest"
)

// cameraCapture is the fixed staging name of the interactive capture; a new
// capture overwrites any prior pending one.
const cameraCapture = "camera_passport.jpg"

// Scan ingests a single captured passport image: multipart form with an
// `image` file and a `kafla` field.
func (h *Handlers) Scan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.Error(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		h.Error(w, http.StatusBadRequest, "bad multipart: "+err.Error())
		return
	}

	kaflaCode, ok := h.requireKafla(w, r.FormValue("kafla"))
	if !ok {
		return
	}

	f, _, err := r.FormFile("image")
	if err != nil {
		h.Error(w, http.StatusBadRequest, "image is required")
		return
	}
	defer f.Close()

	staged := filepath.Join(h.TempDir, cameraCapture)
	if err := writeFile(staged, f); err != nil {
		h.Logger.Printf("[SCAN][ERR] stage capture: %v", err)
		h.Error(w, http.StatusInternalServerError, "failed to stage capture")
		return
	}

	rec, err := h.Ingest.ScanOne(r.Context(), kaflaCode, staged)
	switch {
	case errors.Is(err, ingest.ErrMRZNotReadable):
		h.Error(w, http.StatusUnprocessableEntity, "MRZ not readable")
	case errors.Is(err, ingest.ErrDuplicate):
		h.Error(w, http.StatusConflict, "duplicate passport detected")
	case err != nil:
		h.Logger.Printf("[SCAN][ERR] kafla=%s: %v", kaflaCode, err)
		h.Error(w, http.StatusInternalServerError, err.Error())
	default:
		h.JSON(w, http.StatusCreated, rec)
	}
}

// requireKafla enforces the session preconditions: a non-empty registry and
// a known kafla code. Violations block the ingestion session.
func (h *Handlers) requireKafla(w http.ResponseWriter, code string) (string, bool) {
	if code == "" {
		h.Error(w, http.StatusBadRequest, "kafla is required")
		return "", false
	}
	_, err := h.Registry.Get(code)
	switch {
	case errors.Is(err, kafla.ErrEmpty):
		h.Error(w, http.StatusPreconditionFailed, "no kafla registered yet; register a kafla first")
		return "", false
	case errors.Is(err, kafla.ErrNotFound):
		h.Error(w, http.StatusNotFound, "kafla not found")
		return "", false
	case err != nil:
		h.Error(w, http.StatusInternalServerError, err.Error())
		return "", false
	}
	return code, true
}

func writeFile(path string, r io.Reader) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	if _, err := io.Copy(out, r); err != nil {
		return err
	}
	return out.Close()
}
