package internal

import (
	"net/http"

	"project-tracker-api/internal/models"
)

// statusCounts breaks an entity down by lifecycle status.
type statusCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
	Deleted  int `json:"deleted"`
}

// projectCounts covers the dashboard numbers. All fields except Deleted
// count non-deleted projects only.
type projectCounts struct {
	Total        int `json:"total"`
	New          int `json:"new"`
	InProgress   int `json:"inProgress"`
	Delivered    int `json:"delivered"`
	Deleted      int `json:"deleted"`
	HighPriority int `json:"highPriority"`
	EndingSoon   int `json:"endingSoon"`
	DeliveryRate int `json:"deliveryRate"`
}

type summaryStats struct {
	Departments statusCounts  `json:"departments"`
	Persons     statusCounts  `json:"persons"`
	Projects    projectCounts `json:"projects"`
}

// getStats computes the dashboard summary server-side so clients need a
// single request instead of three full lists.
func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	var stats summaryStats

	depts, err := s.countByStatus(r, "departments")
	if err != nil {
		writeServerError(w, "count departments", err)
		return
	}
	stats.Departments = depts

	persons, err := s.countByStatus(r, "persons")
	if err != nil {
		writeServerError(w, "count persons", err)
		return
	}
	stats.Persons = persons

	err = s.DB.QueryRowContext(r.Context(), `
		SELECT
			COUNT(*) FILTER (WHERE NOT deleted),
			COUNT(*) FILTER (WHERE NOT deleted AND status = 'NEW'),
			COUNT(*) FILTER (WHERE NOT deleted AND status = 'IN_PROGRESS'),
			COUNT(*) FILTER (WHERE NOT deleted AND status = 'DELIVERED'),
			COUNT(*) FILTER (WHERE deleted),
			COUNT(*) FILTER (WHERE NOT deleted AND priority >= 4),
			COUNT(*) FILTER (WHERE NOT deleted AND end_date >= now() AND end_date < now() + interval '7 days')
		FROM projects`).Scan(
		&stats.Projects.Total,
		&stats.Projects.New,
		&stats.Projects.InProgress,
		&stats.Projects.Delivered,
		&stats.Projects.Deleted,
		&stats.Projects.HighPriority,
		&stats.Projects.EndingSoon,
	)
	if err != nil {
		writeServerError(w, "count projects", err)
		return
	}

	if stats.Projects.Total > 0 {
		stats.Projects.DeliveryRate = (stats.Projects.Delivered*100 + stats.Projects.Total/2) / stats.Projects.Total
	}

	writeJSON(w, http.StatusOK, stats)
}

// countByStatus tallies departments or persons by their status enum.
// table is one of the two fixed entity table names, never user input.
func (s *Server) countByStatus(r *http.Request, table string) (statusCounts, error) {
	rows, err := s.DB.QueryContext(r.Context(),
		"SELECT status, COUNT(*) FROM "+table+" GROUP BY status")
	if err != nil {
		return statusCounts{}, err
	}
	defer rows.Close()

	var c statusCounts
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return statusCounts{}, err
		}
		c.Total += n
		switch status {
		case models.StatusActive:
			c.Active = n
		case models.StatusInactive:
			c.Inactive = n
		case models.StatusDeleted:
			c.Deleted = n
		}
	}
	return c, rows.Err()
}
