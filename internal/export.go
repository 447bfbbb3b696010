package internal

import (
	"log"
	"net/http"
	"time"

	"project-tracker-api/pkg/exporter"
)

// exportDepartments streams the departments workbook as an attachment.
// The optional search parameter narrows the export the same way the list
// endpoint does.
func (s *Server) exportDepartments(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	file, err := exporter.Departments(r.Context(), s.Pool, search)
	if err != nil {
		writeServerError(w, "export departments", err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.Filename(time.Now())+`"`)
	if err := file.Write(w); err != nil {
		// Headers are already sent, nothing to do but log.
		log.Printf("export departments: write workbook: %v", err)
	}
}
