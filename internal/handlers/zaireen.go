package handlers

import (
	"net/http"
	"strings"
)

// Zaireen serves the per-kafla record list and record deletion.
func (h *Handlers) Zaireen(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listZaireen(w, r)
	case http.MethodDelete:
		h.deleteZaireen(w, r)
	default:
		h.Error(w, http.StatusMethodNotAllowed, "use GET or DELETE")
	}
}

func (h *Handlers) listZaireen(w http.ResponseWriter, r *http.Request) {
	kaflaCode, ok := h.requireKafla(w, r.URL.Query().Get("kafla"))
	if !ok {
		return
	}
	recs, err := h.Store.ByKafla(kaflaCode)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.JSON(w, http.StatusOK, recs)
}

func (h *Handlers) deleteZaireen(w http.ResponseWriter, r *http.Request) {
	kaflaCode := r.URL.Query().Get("kafla")
	passport := r.URL.Query().Get("passport")
	if kaflaCode == "" || passport == "" {
		h.Error(w, http.StatusBadRequest, "kafla and passport are required")
		return
	}

	removed, err := h.Store.Delete(kaflaCode, passport)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		h.Error(w, http.StatusNotFound, "record not found")
		return
	}
	if err := h.Docs.RemoveZaireen(kaflaCode, passport); err != nil {
		h.Logger.Printf("[ZAIREEN][WARN] remove attachments %s/%s: %v", kaflaCode, passport, err)
	}
	h.Logger.Printf("[ZAIREEN][OK] deleted kafla=%s passport=%s", kaflaCode, passport)
	h.JSON(w, http.StatusOK, map[string]string{"deleted": passport})
}

// UploadVisa attaches an iran or iraq visa scan to an existing record:
// multipart form with `kafla`, `passport`, `country` and a `file`.
func (h *Handlers) UploadVisa(w http.ResponseWriter, r *http.Request) {
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
	passport := strings.TrimSpace(r.FormValue("passport"))
	country := strings.ToLower(strings.TrimSpace(r.FormValue("country")))
	if passport == "" {
		h.Error(w, http.StatusBadRequest, "passport is required")
		return
	}
	if country != "iran" && country != "iraq" {
		h.Error(w, http.StatusBadRequest, "country must be iran or iraq")
		return
	}

	recs, err := h.Store.ByKafla(kaflaCode)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	found := false
	for _, rec := range recs {
		if strings.EqualFold(rec.PassportNumber, passport) {
			passport = rec.PassportNumber
			found = true
			break
		}
	}
	if !found {
		h.Error(w, http.StatusNotFound, "record not found")
		return
	}

	f, _, err := r.FormFile("file")
	if err != nil {
		h.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer f.Close()

	if err := h.Docs.SaveVisa(kaflaCode, passport, country, f); err != nil {
		h.Logger.Printf("[ZAIREEN][ERR] save %s visa %s/%s: %v", country, kaflaCode, passport, err)
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Logger.Printf("[ZAIREEN][OK] %s visa stored kafla=%s passport=%s", country, kaflaCode, passport)
	h.JSON(w, http.StatusCreated, h.Docs.Status(kaflaCode, passport))
}
