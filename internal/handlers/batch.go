package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"zaireen_import/internal/repository/scans"
	"zaireen_import/internal/services/ingest"
	"zaireen_import/internal/transport/auth"
)

type batchRequest struct {
	Kafla string `json:"kafla"`
}

// ScanBatch drains the staged upload queue against one kafla and returns
// the accept/reject summary. When Mongo is configured the summary is also
// written to the scan audit trail.
func (h *Handlers) ScanBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.Error(w, http.StatusMethodNotAllowed, "use POST")
		return
	}

	var req batchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "bad JSON: "+err.Error())
		return
	}

	kaflaCode, ok := h.requireKafla(w, req.Kafla)
	if !ok {
		return
	}
	if h.Queue.Len() == 0 {
		h.Error(w, http.StatusBadRequest, "upload queue is empty")
		return
	}

	start := time.Now()
	res, err := h.Ingest.ScanBatch(r.Context(), kaflaCode, h.Queue)
	if err != nil {
		h.Logger.Printf("[SCAN][BATCH][ERR] kafla=%s err=%v took=%s", kaflaCode, err, time.Since(start))
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Logger.Printf("[SCAN][BATCH][OK] kafla=%s accepted=%d rejected=%d took=%s",
		kaflaCode, res.Accepted, len(res.Rejected), time.Since(start))

	h.auditBatch(r.Context(), kaflaCode, res)
	h.JSON(w, http.StatusOK, res)
}

func (h *Handlers) auditBatch(ctx context.Context, kaflaCode string, res ingest.BatchResult) {
	if h.Mongo == nil {
		return
	}

	rec := scans.Record{
		KaflaCode: kaflaCode,
		Accepted:  res.Accepted,
		Rejected:  make([]scans.RejectedFile, 0, len(res.Rejected)),
		Status:    "scanned",
	}
	for _, rj := range res.Rejected {
		rec.Rejected = append(rec.Rejected, scans.RejectedFile{Filename: rj.Filename, Reason: rj.Reason})
	}
	if uid, err := auth.GetUserID(ctx); err == nil {
		rec.UserID = &uid
	}

	insCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := scans.Insert(insCtx, h.Mongo, rec); err != nil {
		h.Logger.Printf("[SCAN][BATCH][WARN] audit insert: %v", err)
	}
}

// ScanAudit returns the most recent batch audit entries for one kafla
// (requires Mongo).
func (h *Handlers) ScanAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.Error(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	if h.Mongo == nil {
		h.Error(w, http.StatusNotImplemented, "scan audit requires mongo")
		return
	}
	kaflaCode, ok := h.requireKafla(w, r.URL.Query().Get("kafla"))
	if !ok {
		return
	}
	recs, err := scans.ListByKafla(r.Context(), h.Mongo, kaflaCode, 50)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.JSON(w, http.StatusOK, recs)
}
