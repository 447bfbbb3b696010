package internal

import (
	"encoding/json"
	"net/http"
	"strings"

	"project-tracker-api/internal/models"
	"project-tracker-api/internal/validate"

	"github.com/go-chi/chi/v5"
)

// projectExists resolves a project id without loading the row.
func (s *Server) projectExists(r *http.Request, id int64) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(r.Context(),
		"SELECT EXISTS (SELECT 1 FROM projects WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

// addComment appends a comment and returns it alone, not the full project.
// Comments are append-only: there is no update or delete.
func (s *Server) addComment(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	var req models.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	req.Content = strings.TrimSpace(req.Content)
	req.Author = strings.TrimSpace(req.Author)
	if details := validate.Struct(req); details != nil {
		writeValidationError(w, "invalid input", details)
		return
	}

	exists, err := s.projectExists(r, projectID)
	if err != nil {
		writeServerError(w, "check project", err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	c := models.ProjectComment{
		ProjectID: projectID,
		Content:   req.Content,
		Author:    req.Author,
	}
	err = s.DB.QueryRowContext(r.Context(), `
		INSERT INTO project_comments (project_id, content, author)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		c.ProjectID, c.Content, c.Author).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		writeServerError(w, "create comment", err)
		return
	}

	writeJSON(w, http.StatusCreated, c.View())
}

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}

	exists, err := s.projectExists(r, projectID)
	if err != nil {
		writeServerError(w, "check project", err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}

	rows, err := s.DB.QueryContext(r.Context(), `
		SELECT id, project_id, content, author, created_at
		FROM project_comments
		WHERE project_id = $1
		ORDER BY created_at DESC, id DESC`, projectID)
	if err != nil {
		writeServerError(w, "list comments", err)
		return
	}
	defer rows.Close()

	views := []models.CommentView{}
	for rows.Next() {
		var c models.ProjectComment
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Content, &c.Author, &c.CreatedAt); err != nil {
			writeServerError(w, "scan comment", err)
			return
		}
		views = append(views, c.View())
	}
	if err := rows.Err(); err != nil {
		writeServerError(w, "list comments", err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}
