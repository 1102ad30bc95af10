package handlers

import (
	"fmt"
	"net/http"

	"student-records/logging"
	"student-records/report"
	"student-records/spreadsheet"
)

type ReportHandler struct {
	engine *report.Engine
}

func NewReportHandler(engine *report.Engine) *ReportHandler {
	return &ReportHandler{engine: engine}
}

type reportResponse struct {
	*report.Result
	Message string `json:"message,omitempty"`
}

// GetReport answers GET /report?group=&start=&end=. With &format=xlsx or csv
// the rows are sent as a file instead of JSON.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := report.Query{GroupName: q.Get("group"), Start: q.Get("start"), End: q.Get("end")}

	var (
		format spreadsheet.Format
		err    error
	)
	if name := q.Get("format"); name != "" {
		if format, err = spreadsheet.ParseFormat(name); err != nil {
			respondError(w, r, err)
			return
		}
	}

	res, err := h.engine.Run(r.Context(), query)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if format != "" {
		w.Header().Set("Content-Type", format.ContentType())
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "report."+string(format)))
		if err := spreadsheet.ExportReport(w, format, res); err != nil {
			logging.FromContext(r.Context()).Error("error exporting report", "error", err)
		}
		return
	}

	resp := reportResponse{Result: res}
	if res.Empty() {
		resp.Message = report.ErrNoData.Error()
	}
	respondJSON(w, r, http.StatusOK, resp)
}
