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

const projectColumns = "id, name, description, start_date, end_date, priority, test_link, status, deleted, created_at, updated_at"

func scanProject(row interface{ Scan(...interface{}) error }) (models.Project, error) {
	var p models.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.StartDate, &p.EndDate,
		&p.Priority, &p.TestLink, &p.Status, &p.Deleted, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	params := parseListParams(r)

	clauses := []string{}
	args := []interface{}{}
	arg := 1

	if !params.includeDeleted {
		clauses = append(clauses, "deleted = false")
	}

	if params.search != "" {
		// Matches the project itself or any of its owners by name.
		clauses = append(clauses, fmt.Sprintf(`(
			name ILIKE $%d OR description ILIKE $%d OR EXISTS (
				SELECT 1 FROM project_owners po
				JOIN persons p ON p.id = po.person_id
				WHERE po.project_id = projects.id
				  AND (p.first_name ILIKE $%d OR p.last_name ILIKE $%d)
			))`, arg, arg, arg, arg))
		args = append(args, "%"+params.search+"%")
		arg++
	}

	switch params.status {
	case "", statusAll:
		// no status filter
	default:
		if !models.ValidProjectStatus(params.status) {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		clauses = append(clauses, fmt.Sprintf("status = $%d", arg))
		args = append(args, params.status)
		arg++
	}

	sqlStr := "SELECT " + projectColumns + " FROM projects"
	if len(clauses) > 0 {
		sqlStr += " WHERE " + strings.Join(clauses, " AND ")
	}
	sqlStr += " ORDER BY priority DESC, created_at DESC"

	rows, err := s.DB.QueryContext(r.Context(), sqlStr, args...)
	if err != nil {
		writeServerError(w, "list projects", err)
		return
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			writeServerError(w, "scan project", err)
			return
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		writeServerError(w, "list projects", err)
		return
	}

	ids := make([]int64, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	relations, err := loadRelations(r.Context(), s.DB, ids)
	if err != nil {
		writeServerError(w, "load project relations", err)
		return
	}
	comments, err := loadComments(r.Context(), s.DB, ids)
	if err != nil {
		writeServerError(w, "load project comments", err)
		return
	}

	views := []models.ProjectView{}
	for _, p := range projects {
		views = append(views, models.BuildProjectView(p, *relations[p.ID], comments[p.ID]))
	}

	writeJSON(w, http.StatusOK, views)
}

// fetchProjectView loads one project with relations and comments embedded.
func (s *Server) fetchProjectView(r *http.Request, id int64) (models.ProjectView, error) {
	p, err := scanProject(s.DB.QueryRowContext(r.Context(),
		"SELECT "+projectColumns+" FROM projects WHERE id = $1", id))
	if err != nil {
		return models.ProjectView{}, err
	}

	relations, err := loadRelations(r.Context(), s.DB, []int64{id})
	if err != nil {
		return models.ProjectView{}, err
	}
	comments, err := loadComments(r.Context(), s.DB, []int64{id})
	if err != nil {
		return models.ProjectView{}, err
	}

	return models.BuildProjectView(p, *relations[id], comments[id]), nil
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	view, err := s.fetchProjectView(r, id)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeServerError(w, "get project", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	var req models.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.TestLink != nil && strings.TrimSpace(*req.TestLink) == "" {
		req.TestLink = nil
	}
	if details := validate.Struct(req); details != nil {
		writeValidationError(w, "invalid input", details)
		return
	}

	if !req.StartDate.Before(*req.EndDate) {
		writeError(w, http.StatusBadRequest, "end date must be after start date")
		return
	}

	status := models.ProjectStatusNew
	if req.Status != nil {
		status = strings.ToUpper(strings.TrimSpace(*req.Status))
		if !models.ValidProjectStatus(status) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
	}

	tx, err := s.DB.BeginTx(r.Context(), nil)
	if err != nil {
		writeServerError(w, "create project", err)
		return
	}
	defer tx.Rollback()

	allIDs := append([]int64{}, req.OwnerIDs...)
	allIDs = append(allIDs, req.ReferencePersonIDs...)
	allIDs = append(allIDs, req.AnalystIDs...)
	allIDs = append(allIDs, req.DeveloperIDs...)
	ok, err := personsExist(r.Context(), tx, allIDs)
	if err != nil {
		writeServerError(w, "check project persons", err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown person id in relation list")
		return
	}

	var projectID int64
	err = tx.QueryRowContext(r.Context(), `
		INSERT INTO projects (name, description, start_date, end_date, priority, test_link, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		req.Name, req.Description, req.StartDate, req.EndDate, req.Priority, req.TestLink, status).
		Scan(&projectID)
	if err != nil {
		writeServerError(w, "create project", err)
		return
	}

	memberships := map[string][]int64{
		"project_owners":            req.OwnerIDs,
		"project_reference_persons": req.ReferencePersonIDs,
		"project_analysts":          req.AnalystIDs,
		"project_developers":        req.DeveloperIDs,
	}
	for _, role := range relationRoles {
		if err := syncMembers(r.Context(), tx, role.table, projectID, memberships[role.table]); err != nil {
			writeServerError(w, "create project relations", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		writeServerError(w, "create project", err)
		return
	}

	view, err := s.fetchProjectView(r, projectID)
	if err != nil {
		writeServerError(w, "fetch created project", err)
		return
	}

	writeJSON(w, http.StatusCreated, view)
}

func (s *Server) updateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req models.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	trimPtr(req.Name)
	// Nil the field before validation so the url tag never sees the
	// sentinel empty string.
	clearLink := clearTestLink(&req)
	if details := validate.Struct(req); details != nil {
		writeValidationError(w, "invalid input", details)
		return
	}

	if req.StartDate != nil && req.EndDate != nil && !req.StartDate.Before(*req.EndDate) {
		writeError(w, http.StatusBadRequest, "end date must be after start date")
		return
	}

	// An empty owner list would leave the project ownerless.
	if req.OwnerIDs != nil && len(*req.OwnerIDs) == 0 {
		writeError(w, http.StatusBadRequest, "at least one owner is required")
		return
	}

	var status *string
	if req.Status != nil {
		up := strings.ToUpper(strings.TrimSpace(*req.Status))
		if !models.ValidProjectStatus(up) {
			writeError(w, http.StatusBadRequest, "invalid status")
			return
		}
		status = &up
	}

	tx, err := s.DB.BeginTx(r.Context(), nil)
	if err != nil {
		writeServerError(w, "update project", err)
		return
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(r.Context(),
		"SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)", id).Scan(&exists); err != nil {
		writeServerError(w, "update project", err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	var allIDs []int64
	for _, list := range []*[]int64{req.OwnerIDs, req.ReferencePersonIDs, req.AnalystIDs, req.DeveloperIDs} {
		if list != nil {
			allIDs = append(allIDs, *list...)
		}
	}
	ok, err := personsExist(r.Context(), tx, allIDs)
	if err != nil {
		writeServerError(w, "check project persons", err)
		return
	}
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown person id in relation list")
		return
	}

	sets := []string{}
	args := []interface{}{}
	arg := 1
	addSet := func(col string, val interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, arg))
		args = append(args, val)
		arg++
	}
	if req.Name != nil {
		addSet("name", *req.Name)
	}
	if req.Description != nil {
		addSet("description", nullIfEmpty(req.Description))
	}
	if req.StartDate != nil {
		addSet("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		addSet("end_date", *req.EndDate)
	}
	if req.Priority != nil {
		addSet("priority", *req.Priority)
	}
	if req.TestLink != nil {
		addSet("test_link", *req.TestLink)
	} else if clearLink {
		addSet("test_link", nil)
	}
	if status != nil {
		addSet("status", *status)
	}
	if req.Deleted != nil {
		addSet("deleted", *req.Deleted)
	}

	// Full-replace semantics: a relation list present in the patch becomes
	// the exact new membership; absent lists stay untouched.
	memberships := map[string]*[]int64{
		"project_owners":            req.OwnerIDs,
		"project_reference_persons": req.ReferencePersonIDs,
		"project_analysts":          req.AnalystIDs,
		"project_developers":        req.DeveloperIDs,
	}
	relationPatch := false
	for _, desired := range memberships {
		if desired != nil {
			relationPatch = true
		}
	}

	// Membership changes count as modifications too, so updated_at moves
	// even when no scalar column is in the patch.
	if len(sets) > 0 || relationPatch {
		sets = append(sets, "updated_at = now()")
		sqlStr := fmt.Sprintf("UPDATE projects SET %s WHERE id = $%d", strings.Join(sets, ", "), arg)
		args = append(args, id)
		if _, err := tx.ExecContext(r.Context(), sqlStr, args...); err != nil {
			writeServerError(w, "update project", err)
			return
		}
	}

	for _, role := range relationRoles {
		desired := memberships[role.table]
		if desired == nil {
			continue
		}
		if err := syncMembers(r.Context(), tx, role.table, id, *desired); err != nil {
			writeServerError(w, "sync project relations", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		writeServerError(w, "update project", err)
		return
	}

	// Re-fetch so the response reflects the synced relations.
	view, err := s.fetchProjectView(r, id)
	if err != nil {
		writeServerError(w, "fetch updated project", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// deleteProject flips the deleted flag; status is untouched, a delivered
// project stays delivered through delete and restore.
func (s *Server) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	res, err := s.DB.ExecContext(r.Context(),
		"UPDATE projects SET deleted = true, updated_at = now() WHERE id = $1", id)
	if err != nil {
		writeServerError(w, "delete project", err)
		return
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	view, err := s.fetchProjectView(r, id)
	if err != nil {
		writeServerError(w, "fetch deleted project", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) restoreProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var deleted bool
	err = s.DB.QueryRowContext(r.Context(),
		"SELECT deleted FROM projects WHERE id = $1", id).Scan(&deleted)
	if err == sql.ErrNoRows {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		writeServerError(w, "restore project", err)
		return
	}
	if !deleted {
		writeError(w, http.StatusBadRequest, "project is not deleted")
		return
	}

	if _, err := s.DB.ExecContext(r.Context(),
		"UPDATE projects SET deleted = false, updated_at = now() WHERE id = $1", id); err != nil {
		writeServerError(w, "restore project", err)
		return
	}

	view, err := s.fetchProjectView(r, id)
	if err != nil {
		writeServerError(w, "fetch restored project", err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// clearTestLink interprets a blank testLink in a patch as "drop the link".
// The field is nilled so validation skips it; the caller keeps the returned
// flag to emit the NULL assignment.
func clearTestLink(req *models.UpdateProjectRequest) bool {
	if req.TestLink == nil || strings.TrimSpace(*req.TestLink) != "" {
		return false
	}
	req.TestLink = nil
	return true
}
