package handlers

import (
	"net/http"

	"zaireen_import/internal/repository/docstore"
)

type auditRow struct {
	Name        string                    `json:"name"`
	Passport    string                    `json:"passport"`
	Attachments docstore.AttachmentStatus `json:"attachments"`
	Complete    bool                      `json:"complete"`
}

type auditResp struct {
	Kafla      string     `json:"kafla"`
	Total      int        `json:"total"`
	Complete   int        `json:"complete"`
	Incomplete int        `json:"incomplete"`
	Rows       []auditRow `json:"rows"`
}

// Audit reports document completeness for every record of one kafla: which
// of the passport/iran/iraq scans are on disk.
func (h *Handlers) Audit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.Error(w, http.StatusMethodNotAllowed, "use GET")
		return
	}
	kaflaCode, ok := h.requireKafla(w, r.URL.Query().Get("kafla"))
	if !ok {
		return
	}

	recs, err := h.Store.ByKafla(kaflaCode)
	if err != nil {
		h.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	resp := auditResp{Kafla: kaflaCode, Total: len(recs), Rows: make([]auditRow, 0, len(recs))}
	for _, rec := range recs {
		st := h.Docs.Status(kaflaCode, rec.PassportNumber)
		row := auditRow{
			Name:        rec.Name,
			Passport:    rec.PassportNumber,
			Attachments: st,
			Complete:    st.Complete(),
		}
		if row.Complete {
			resp.Complete++
		} else {
			resp.Incomplete++
		}
		resp.Rows = append(resp.Rows, row)
	}
	h.JSON(w, http.StatusOK, resp)
}
