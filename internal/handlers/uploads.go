package handlers

import (
	"encoding/json"
	"net/http"
	"path"
	"path/filepath"
	"strings"
)

var allowedUploadExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// Uploads stages passport images for a later batch scan. POST accepts
// multipart `files`; GET returns the current queue.
func (h *Handlers) Uploads(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.JSON(w, http.StatusOK, h.Queue.Items())
	case http.MethodPost:
		h.stageUploads(w, r)
	default:
		h.Error(w, http.StatusMethodNotAllowed, "use GET or POST")
	}
}

func (h *Handlers) stageUploads(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(128 << 20); err != nil {
		h.Error(w, http.StatusBadRequest, "bad multipart: "+err.Error())
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		h.Error(w, http.StatusBadRequest, "files is required")
		return
	}

	staged := []string{}
	skipped := []string{}
	for _, fh := range r.MultipartForm.File["files"] {
		name := path.Base(fh.Filename)
		if !allowedUploadExts[strings.ToLower(filepath.Ext(name))] {
			skipped = append(skipped, name)
			continue
		}
		f, err := fh.Open()
		if err != nil {
			h.Logger.Printf("[UPLOAD][ERR] open %s: %v", name, err)
			skipped = append(skipped, name)
			continue
		}
		dst := filepath.Join(h.TempDir, name)
		err = writeFile(dst, f)
		f.Close()
		if err != nil {
			h.Logger.Printf("[UPLOAD][ERR] stage %s: %v", name, err)
			skipped = append(skipped, name)
			continue
		}
		// a re-upload of the same name overwrites the staged bytes but
		// keeps its single queue slot
		h.Queue.Add(name, dst)
		staged = append(staged, name)
	}

	h.Logger.Printf("[UPLOAD][OK] staged=%d skipped=%d queued=%d", len(staged), len(skipped), h.Queue.Len())
	h.JSON(w, http.StatusCreated, map[string]any{
		"staged":  staged,
		"skipped": skipped,
		"queued":  h.Queue.Len(),
	})
}

type remoteUploadRequest struct {
	FilePath string `json:"file_path"`
}

// UploadRemote stages one image from an https:// or s3:// reference (or a
// readable local path) into the queue.
func (h *Handlers) UploadRemote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.Error(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req remoteUploadRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "bad JSON: "+err.Error())
		return
	}
	fp := strings.TrimSpace(req.FilePath)
	if fp == "" {
		h.Error(w, http.StatusBadRequest, "file_path is required")
		return
	}

	name := path.Base(strings.TrimSuffix(fp, "/"))
	if name == "" || name == "." {
		h.Error(w, http.StatusBadRequest, "file_path has no file name")
		return
	}

	rc, meta, err := h.Opener.Open(r.Context(), fp)
	if err != nil {
		h.Logger.Printf("[UPLOAD][REMOTE][ERR] open %q: %v", fp, err)
		h.Error(w, http.StatusBadGateway, "failed to fetch: "+err.Error())
		return
	}
	defer rc.Close()

	dst := filepath.Join(h.TempDir, name)
	if err := writeFile(dst, rc); err != nil {
		h.Logger.Printf("[UPLOAD][REMOTE][ERR] stage %q: %v", fp, err)
		h.Error(w, http.StatusInternalServerError, "failed to stage: "+err.Error())
		return
	}
	h.Queue.Add(name, dst)

	h.Logger.Printf("[UPLOAD][REMOTE][OK] source=%s name=%s size=%d queued=%d", meta.Source, name, meta.Size, h.Queue.Len())
	h.JSON(w, http.StatusCreated, map[string]any{
		"name":   name,
		"source": meta.Source,
		"queued": h.Queue.Len(),
	})
}
