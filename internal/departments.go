package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"project-tracker-api/internal/models"
	"project-tracker-api/internal/validate"

	"github.com/go-chi/chi/v5"
)

const departmentColumns = "id, name, short_name, status, created_at, updated_at"

func scanDepartment(row interface{ Scan(...interface{}) error }) (models.Department, error) {
	var d models.Department
	err := row.Scan(&d.ID, &d.Name, &d.ShortName, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Server) listDepartments(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	if params.search != "" {
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", arg))
		args = append(args, "%"+params.search+"%")
		arg++
	}

	switch params.status {
	case "":
		// Deleted rows are hidden unless explicitly requested.
		clauses = append(clauses, fmt.Sprintf("status <> '%s'", models.StatusDeleted))
	case statusAll:
		// no status filter
	default:
		if !models.ValidEntityStatus(params.status) {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		clauses = append(clauses, fmt.Sprintf("status = $%d", arg))
		args = append(args, params.status)
		arg++
	}

	sqlStr := "SELECT " + departmentColumns + " FROM departments"
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlStr += " ORDER BY created_at DESC"

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeServerError(w, "list departments", err)
		return
	}
	defer rows.Close()

	views := []models.DepartmentView{}
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			writeServerError(w, "scan department", err)
			return
		}
		views = append(views, d.View())
	}
	if err := rows.Err(); err != nil {
		writeServerError(w, "list departments", err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	d, err := scanDepartment(s.DB.QueryRowContext(r.Context(),
		"SELECT "+departmentColumns+" FROM departments WHERE id = $1", id))
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}
	if err != nil {
		writeServerError(w, "get department", err)
		return
	}

	writeJSON(w, http.StatusOK, d.View())
}

func (s *Server) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.ShortName = strings.TrimSpace(req.ShortName)
	if details := validate.Struct(req); details != nil {
		writeValidationError(w, "invalid input", details)
		return
	}

	d, err := scanDepartment(s.DB.QueryRowContext(r.Context(), `
		INSERT INTO departments (name, short_name, status)
		VALUES ($1, $2, $3)
		RETURNING `+departmentColumns,
		req.Name, req.ShortName, models.StatusActive))
	if err != nil {
		writeServerError(w, "create department", err)
		return
	}

	writeJSON(w, http.StatusCreated, d.View())
}

func (s *Server) updateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	var req models.UpdateDepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	trimPtr(req.Name)
	trimPtr(req.ShortName)
	if details := validate.Struct(req); details != nil {
		writeValidationError(w, "invalid input", details)
		return
	}

	sets := []string{}
	args := []interface{}{}
	arg := 1
	if req.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", arg))
		args = append(args, *req.Name)
		arg++
	}
	if req.ShortName != nil {
		sets = append(sets, fmt.Sprintf("short_name = $%d", arg))
		args = append(args, *req.ShortName)
		arg++
	}
	if req.Status != nil {
		status := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !models.ValidEntityStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		sets = append(sets, fmt.Sprintf("status = $%d", arg))
		args = append(args, status)
		arg++
	}
	if len(sets) == 0 {
		writeError(w, http.StatusBadRequest, "no fields to update")
		return
	}

	sets = append(sets, "updated_at = now()")
	sqlStr := fmt.Sprintf("UPDATE departments SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), arg, departmentColumns)
	args = append(args, id)

	d, err := scanDepartment(s.DB.QueryRowContext(r.Context(), sqlStr, args...))
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}
	if err != nil {
		writeServerError(w, "update department", err)
		return
	}

	writeJSON(w, http.StatusOK, d.View())
}

// deleteDepartment soft-deletes; calling it on an already deleted
// department is a no-op that still returns the row.
func (s *Server) deleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	d, err := scanDepartment(s.DB.QueryRowContext(r.Context(), `
		UPDATE departments SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+departmentColumns,
		models.StatusDeleted, id))
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}
	if err != nil {
		writeServerError(w, "delete department", err)
		return
	}

	writeJSON(w, http.StatusOK, d.View())
}

func (s *Server) restoreDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid department id")
		return
	}

	var status string
	err = s.DB.QueryRowContext(r.Context(),
		"SELECT status FROM departments WHERE id = $1", id).Scan(&status)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "department not found")
		return
	}
	if err != nil {
		writeServerError(w, "restore department", err)
		return
	}
	if status != models.StatusDeleted {
		writeError(w, http.StatusBadRequest, "department is not deleted")
		return
	}

	d, err := scanDepartment(s.DB.QueryRowContext(r.Context(), `
		UPDATE departments SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+departmentColumns,
		models.StatusActive, id))
	if err != nil {
		writeServerError(w, "restore department", err)
		return
	}

	writeJSON(w, http.StatusOK, d.View())
}

func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}
