package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"zaireen_import/internal/models"
	"zaireen_import/internal/repository/kafla"
)

type createKaflaRequest struct {
	Name         string `json:"name" validate:"required,min=3,max=255"`
	City         string `json:"city" validate:"required,max=100"`
	Province     string `json:"province" validate:"required,max=100"`
	Country      string `json:"country" validate:"required,max=100"`
	SalarName    string `json:"salar_name" validate:"required,max=255,excludesall=0123456789"`
	SalarCNIC    string `json:"salar_cnic" validate:"required,numeric,len=13"`
	SalarContact string `json:"salar_contact" validate:"required,numeric,len=11"`
}

// Kaflas dispatches the group registry collection endpoint.
func (h *Handlers) Kaflas(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listKaflas(w, r)
	case http.MethodPost:
		h.createKafla(w, r)
	case http.MethodDelete:
		h.deleteKafla(w, r)
	default:
		h.Error(w, http.StatusMethodNotAllowed, "use GET, POST or DELETE")
	}
}

func (h *Handlers) listKaflas(w http.ResponseWriter, _ *http.Request) {
	kaflas, err := h.Registry.List()
	if err != nil {
		if errors.Is(err, kafla.ErrEmpty) {
			h.JSON(w, http.StatusOK, []models.Kafla{})
			return
		}
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.JSON(w, http.StatusOK, kaflas)
}

func (h *Handlers) createKafla(w http.ResponseWriter, r *http.Request) {
	var req createKaflaRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	if err := dec.Decode(&req); err != nil {
		h.Error(w, http.StatusBadRequest, "bad JSON: "+err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	k := models.Kafla{
		Code:         uuid.NewString()[:8],
		Name:         req.Name,
		City:         req.City,
		Province:     req.Province,
		Country:      req.Country,
		SalarName:    req.SalarName,
		SalarCNIC:    req.SalarCNIC,
		SalarContact: req.SalarContact,
		CreatedAt:    time.Now().Format("2006-01-02 15:04:05"),
	}
	if err := h.Registry.Append(k); err != nil {
		h.Logger.Printf("[KAFLA][ERR] register: %v", err)
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := h.Docs.EnsureKaflaDirs(k.Code); err != nil {
		h.Logger.Printf("[KAFLA][ERR] dirs for %s: %v", k.Code, err)
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	h.Logger.Printf("[KAFLA][OK] registered code=%s name=%q", k.Code, k.Name)
	h.JSON(w, http.StatusCreated, k)
}

func (h *Handlers) deleteKafla(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.Error(w, http.StatusBadRequest, "code is required")
		return
	}
	removed, err := h.Registry.Delete(code)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !removed {
		h.Error(w, http.StatusNotFound, "kafla not found")
		return
	}
	if err := h.Docs.RemoveKafla(code); err != nil {
		h.Logger.Printf("[KAFLA][WARN] remove docs for %s: %v", code, err)
	}
	h.Logger.Printf("[KAFLA][OK] deleted code=%s", code)
	h.JSON(w, http.StatusOK, map[string]string{"deleted": code})
}
