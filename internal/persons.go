package internal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"project-tracker-api/internal/models"
	"project-tracker-api/internal/validate"

	"github.com/go-chi/chi/v5"
)

const personColumns = "id, first_name, last_name, email, phone, status, created_at, updated_at"

func scanPerson(row interface{ Scan(...interface{}) error }) (models.Person, error) {
	var p models.Person
	err := row.Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Server) listPersons(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	if params.search != "" {
		clauses = append(clauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", arg, arg, arg))
		args = append(args, "%"+params.search+"%")
		arg++
	}

	switch params.status {
	case "":
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

	sqlStr := "SELECT " + personColumns + " FROM persons"
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlStr += " ORDER BY created_at DESC"

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeServerError(w, "list persons", err)
		return
	}
	defer rows.Close()

	views := []models.PersonView{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			writeServerError(w, "scan person", err)
			return
		}
		views = append(views, p.View())
	}
	if err := rows.Err(); err != nil {
		writeServerError(w, "list persons", err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) getPerson(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}

	p, err := scanPerson(s.DB.QueryRowContext(r.Context(),
		"SELECT "+personColumns+" FROM persons WHERE id = $1", id))
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		writeServerError(w, "get person", err)
		return
	}

	writeJSON(w, http.StatusOK, p.View())
}

// emailTaken checks for a case-insensitive email collision, excluding the
// person being updated (excludeID 0 when creating).
func (s *Server) emailTaken(r *http.Request, email string, excludeID int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(r.Context(), `
		SELECT EXISTS (
			SELECT 1 FROM persons WHERE lower(email) = lower($1) AND id <> $2
		)`, email, excludeID).Scan(&exists)
	return exists, err
}

func (s *Server) createPerson(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	if details := validate.Struct(req); details != nil {
		writeValidationError(w, "invalid input", details)
		return
	}

	status := models.StatusActive
	if req.Status != nil {
		status = strings.ToUpper(strings.TrimSpace(*req.Status))
		if !models.ValidEntityStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	taken, err := s.emailTaken(r, req.Email, 0)
	if err != nil {
		writeServerError(w, "check person email", err)
		return
	}
	if taken {
		writeError(w, http.StatusBadRequest, "email already used")
		return
	}

	p, err := scanPerson(s.DB.QueryRowContext(r.Context(), `
		INSERT INTO persons (first_name, last_name, email, phone, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+personColumns,
		req.FirstName, req.LastName, req.Email, req.Phone, status))
	if err != nil {
		// The unique index can still fire under a concurrent insert.
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			writeError(w, http.StatusBadRequest, "email already used")
			return
		}
		writeServerError(w, "create person", err)
		return
	}

	writeJSON(w, http.StatusCreated, p.View())
}

func (s *Server) updatePerson(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}

	var req models.UpdatePersonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	trimPtr(req.FirstName)
	trimPtr(req.LastName)
	trimPtr(req.Email)
	if details := validate.Struct(req); details != nil {
		writeValidationError(w, "invalid input", details)
		return
	}

	if req.Email != nil {
		taken, err := s.emailTaken(r, *req.Email, id)
		if err != nil {
			writeServerError(w, "check person email", err)
			return
		}
		if taken {
			writeError(w, http.StatusBadRequest, "email already used")
			return
		}
	}

	sets := []string{}
	args := []interface{}{}
	arg := 1
	if req.FirstName != nil {
		sets = append(sets, fmt.Sprintf("first_name = $%d", arg))
		args = append(args, *req.FirstName)
		arg++
	}
	if req.LastName != nil {
		sets = append(sets, fmt.Sprintf("last_name = $%d", arg))
		args = append(args, *req.LastName)
		arg++
	}
	if req.Email != nil {
		sets = append(sets, fmt.Sprintf("email = $%d", arg))
		args = append(args, *req.Email)
		arg++
	}
	if req.Phone != nil {
		sets = append(sets, fmt.Sprintf("phone = $%d", arg))
		args = append(args, nullIfEmpty(req.Phone))
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
	sqlStr := fmt.Sprintf("UPDATE persons SET %s WHERE id = $%d RETURNING %s",
		strings.Join(sets, ", "), arg, personColumns)
	args = append(args, id)

	p, err := scanPerson(s.DB.QueryRowContext(r.Context(), sqlStr, args...))
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		writeServerError(w, "update person", err)
		return
	}

	writeJSON(w, http.StatusOK, p.View())
}

func (s *Server) deletePerson(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}

	p, err := scanPerson(s.DB.QueryRowContext(r.Context(), `
		UPDATE persons SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+personColumns,
		models.StatusDeleted, id))
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		writeServerError(w, "delete person", err)
		return
	}

	writeJSON(w, http.StatusOK, p.View())
}

func (s *Server) restorePerson(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid person id")
		return
	}

	var status string
	err = s.DB.QueryRowContext(r.Context(),
		"SELECT status FROM persons WHERE id = $1", id).Scan(&status)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "person not found")
		return
	}
	if err != nil {
		writeServerError(w, "restore person", err)
		return
	}
	if status != models.StatusDeleted {
		writeError(w, http.StatusBadRequest, "person is not deleted")
		return
	}

	p, err := scanPerson(s.DB.QueryRowContext(r.Context(), `
		UPDATE persons SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+personColumns,
		models.StatusActive, id))
	if err != nil {
		writeServerError(w, "restore person", err)
		return
	}

	writeJSON(w, http.StatusOK, p.View())
}

func nullIfEmpty(p *string) interface{} {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	return *p
}
