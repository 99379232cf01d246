package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"

	"github.com/xuri/excelize/v2"

	"zaireen_import/internal/models"
	"zaireen_import/internal/repository/zaireen"
)

// Export streams one kafla's records as a plain tabular file:
// format=csv (default) or format=xlsx.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
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

	switch format := r.URL.Query().Get("format"); format {
	case "", "csv":
		h.exportCSV(w, kaflaCode, recs)
	case "xlsx":
		h.exportXLSX(w, kaflaCode, recs)
	default:
		h.Error(w, http.StatusBadRequest, "format must be csv or xlsx")
	}
}

func (h *Handlers) exportCSV(w http.ResponseWriter, kaflaCode string, recs []models.Zaireen) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kaflaCode+"_zaireen.csv"))

	cw := csv.NewWriter(w)
	_ = cw.Write(zaireen.Header)
	for _, rec := range recs {
		_ = cw.Write([]string{rec.KaflaCode, rec.Name, rec.PassportNumber, rec.Nationality, rec.DateOfBirth, rec.Sex, rec.ScanTime})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Logger.Printf("[EXPORT][ERR] csv kafla=%s: %v", kaflaCode, err)
	}
}

func (h *Handlers) exportXLSX(w http.ResponseWriter, kaflaCode string, recs []models.Zaireen) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Zaireen"
	f.SetSheetName("Sheet1", sheet)

	header := make([]any, len(zaireen.Header))
	for i, col := range zaireen.Header {
		header[i] = col
	}
	_ = f.SetSheetRow(sheet, "A1", &header)

	for i, rec := range recs {
		row := []any{rec.KaflaCode, rec.Name, rec.PassportNumber, rec.Nationality, rec.DateOfBirth, rec.Sex, rec.ScanTime}
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row)
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", kaflaCode+"_zaireen.xlsx"))
	if _, err := f.WriteTo(w); err != nil {
		h.Logger.Printf("[EXPORT][ERR] xlsx kafla=%s: %v", kaflaCode, err)
	}
}
