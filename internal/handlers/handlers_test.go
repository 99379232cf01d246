package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"zaireen_import/internal/adapters/opener"
	"zaireen_import/internal/models"
	"zaireen_import/internal/mrz"
	"zaireen_import/internal/repository/docstore"
	"zaireen_import/internal/repository/kafla"
	"zaireen_import/internal/repository/zaireen"
	"zaireen_import/internal/services/ingest"
)

type fakeExtractor struct {
	fields map[string]*mrz.Fields
}

func (f *fakeExtractor) Extract(_ context.Context, imagePath string) (*mrz.Fields, error) {
	if fl, ok := f.fields[filepath.Base(imagePath)]; ok {
		return fl, nil
	}
	return nil, mrz.ErrNotFound
}

func newTestHandlers(t *testing.T, fields map[string]*mrz.Fields) *Handlers {
	t.Helper()
	dir := t.TempDir()
	store := zaireen.NewStore(filepath.Join(dir, "docs", "zaireen.csv"))
	docs := docstore.NewStore(filepath.Join(dir, "docs"))

	svc := ingest.NewService(&fakeExtractor{fields: fields}, store, docs)
	svc.Now = func() time.Time { return time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC) }

	tempDir := filepath.Join(dir, "temp_uploads")
	if err := os.MkdirAll(tempDir, 0o755); err != nil {
		t.Fatalf("temp dir: %v", err)
	}

	return &Handlers{
		Registry: kafla.NewRegistry(filepath.Join(dir, "kafla.csv")),
		Store:    store,
		Docs:     docs,
		Ingest:   svc,
		Queue:    ingest.NewQueue(),
		Opener:   opener.NewCompoundOpener(nil, nil, opener.NewLocalOpener()),
		TempDir:  tempDir,
		Logger:   log.Default(),
		validate: validator.New(),
	}
}

func registerKafla(t *testing.T, h *Handlers) models.Kafla {
	t.Helper()
	body := `{"name":"Moakab e Zainabiya","city":"Karachi","province":"Sindh","country":"Pakistan",` +
		`"salar_name":"Syed Ali Raza","salar_cnic":"4210112345678","salar_contact":"03001234567"}`
	req := httptest.NewRequest("POST", "/kaflas", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Kaflas(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("register kafla: status %d body %s", rr.Code, rr.Body.String())
	}
	var k models.Kafla
	if err := json.Unmarshal(rr.Body.Bytes(), &k); err != nil {
		t.Fatalf("decode kafla: %v", err)
	}
	return k
}

func stageMultipart(t *testing.T, h *Handlers, names ...string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		if _, err := fw.Write([]byte("img-bytes")); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	h.Uploads(rr, req)
	if rr.Code != http.StatusCreated {
		t.Fatalf("stage uploads: status %d body %s", rr.Code, rr.Body.String())
	}
}

func TestCreateKaflaValidation(t *testing.T) {
	h := newTestHandlers(t, nil)

	k := registerKafla(t, h)
	if len(k.Code) != 8 {
		t.Errorf("kafla code should be 8 chars, got %q", k.Code)
	}

	// CNIC must be 13 digits
	bad := `{"name":"Some Kafla","city":"Karachi","province":"Sindh","country":"Pakistan",` +
		`"salar_name":"Ali","salar_cnic":"123","salar_contact":"03001234567"}`
	req := httptest.NewRequest("POST", "/kaflas", strings.NewReader(bad))
	rr := httptest.NewRecorder()
	h.Kaflas(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad CNIC, got %d", rr.Code)
	}

	// salar name must not contain digits
	bad = `{"name":"Some Kafla","city":"Karachi","province":"Sindh","country":"Pakistan",` +
		`"salar_name":"Ali 3rd","salar_cnic":"4210112345678","salar_contact":"03001234567"}`
	req = httptest.NewRequest("POST", "/kaflas", strings.NewReader(bad))
	rr = httptest.NewRecorder()
	h.Kaflas(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for numeric salar name, got %d", rr.Code)
	}
}

func TestScanBlockedOnEmptyRegistry(t *testing.T) {
	h := newTestHandlers(t, nil)

	req := httptest.NewRequest("POST", "/scan/batch", strings.NewReader(`{"kafla":"nope"}`))
	rr := httptest.NewRecorder()
	h.ScanBatch(rr, req)
	if rr.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 on empty registry, got %d", rr.Code)
	}
}

func TestBatchFlow(t *testing.T) {
	h := newTestHandlers(t, map[string]*mrz.Fields{
		"good.jpg": {Surname: "HUSSAIN", Names: "ALI<<RAZA", Number: "AB123", Nationality: "PAK", DateOfBirth: "900101", Sex: "M"},
	})
	k := registerKafla(t, h)

	stageMultipart(t, h, "good.jpg", "bad.jpg")
	if h.Queue.Len() != 2 {
		t.Fatalf("queue length = %d, want 2", h.Queue.Len())
	}

	req := httptest.NewRequest("POST", "/scan/batch", strings.NewReader(`{"kafla":"`+k.Code+`"}`))
	rr := httptest.NewRecorder()
	h.ScanBatch(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("batch: status %d body %s", rr.Code, rr.Body.String())
	}

	var res ingest.BatchResult
	if err := json.Unmarshal(rr.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if res.Accepted != 1 {
		t.Errorf("accepted = %d, want 1", res.Accepted)
	}
	if len(res.Rejected) != 1 || res.Rejected[0].Filename != "bad.jpg" || res.Rejected[0].Reason != ingest.ReasonUnreadable {
		t.Errorf("rejected = %v", res.Rejected)
	}
	if h.Queue.Len() != 0 {
		t.Error("queue must be empty after batch")
	}

	// record visible on the list endpoint
	req = httptest.NewRequest("GET", "/zaireen?kafla="+k.Code, nil)
	rr = httptest.NewRecorder()
	h.Zaireen(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("list: status %d", rr.Code)
	}
	var recs []models.Zaireen
	if err := json.Unmarshal(rr.Body.Bytes(), &recs); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(recs) != 1 || recs[0].PassportNumber != "AB123" || recs[0].Name != "HUSSAIN ALI RAZA" {
		t.Fatalf("unexpected records: %v", recs)
	}
}

func TestDeleteZaireenRemovesAttachments(t *testing.T) {
	h := newTestHandlers(t, map[string]*mrz.Fields{
		"good.jpg": {Surname: "KHAN", Names: "MUHAMMAD<<ALI", Number: "CD456", Nationality: "PAK", DateOfBirth: "750505", Sex: "F"},
	})
	k := registerKafla(t, h)
	stageMultipart(t, h, "good.jpg")

	req := httptest.NewRequest("POST", "/scan/batch", strings.NewReader(`{"kafla":"`+k.Code+`"}`))
	rr := httptest.NewRecorder()
	h.ScanBatch(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("batch: status %d", rr.Code)
	}
	if st := h.Docs.Status(k.Code, "CD456"); !st.Passport {
		t.Fatal("expected stored passport attachment")
	}

	req = httptest.NewRequest("DELETE", "/zaireen?kafla="+k.Code+"&passport=CD456", nil)
	rr = httptest.NewRecorder()
	h.Zaireen(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete: status %d body %s", rr.Code, rr.Body.String())
	}
	if st := h.Docs.Status(k.Code, "CD456"); st.Passport {
		t.Fatal("attachment dir must be removed with the record")
	}
}

func TestExportCSV(t *testing.T) {
	h := newTestHandlers(t, nil)
	k := registerKafla(t, h)

	err := h.Store.Save([]models.Zaireen{
		{KaflaCode: k.Code, Name: "HUSSAIN ALI RAZA", PassportNumber: "AB123", Nationality: "PAK", DateOfBirth: "1990-01-01", Sex: "M", ScanTime: "2025-06-01 10:00:00"},
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}

	req := httptest.NewRequest("GET", "/export?kafla="+k.Code+"&format=csv", nil)
	rr := httptest.NewRecorder()
	h.Export(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("export: status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.HasPrefix(body, "Kafla Code,Zaireen Name,Passport Number") {
		t.Errorf("missing header: %q", body)
	}
	if !strings.Contains(body, "AB123") {
		t.Errorf("missing record row: %q", body)
	}
}
