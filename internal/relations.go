package internal

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"project-tracker-api/internal/models"

	"github.com/lib/pq"
)

// dbtx is the subset of database/sql shared by *sql.DB and *sql.Tx, so the
// relation helpers work both standalone and inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// relationRole maps a project<->person role to its join table.
type relationRole struct {
	name  string
	table string
}

var relationRoles = []relationRole{
	{"owners", "project_owners"},
	{"referencePersons", "project_reference_persons"},
	{"analysts", "project_analysts"},
	{"developers", "project_developers"},
}

// diffMembers compares current and desired membership sets and returns the
// precise additions and removals. Duplicates in desired are collapsed.
// Both result slices are sorted for deterministic SQL.
func diffMembers(current, desired []int64) (add, remove []int64) {
	curSet := make(map[int64]bool, len(current))
	for _, id := range current {
		curSet[id] = true
	}
	desSet := make(map[int64]bool, len(desired))
	for _, id := range desired {
		desSet[id] = true
	}

	for id := range desSet {
		if !curSet[id] {
			add = append(add, id)
		}
	}
	for id := range curSet {
		if !desSet[id] {
			remove = append(remove, id)
		}
	}
	sort.Slice(add, func(i, j int) bool { return add[i] < add[j] })
	sort.Slice(remove, func(i, j int) bool { return remove[i] < remove[j] })
	return add, remove
}

// syncMembers reconciles one join table to exactly the desired person ids.
// Membership is replaced as a set: rows not in desired are removed, missing
// ones inserted, shared ones left alone. Callers run this inside the same
// transaction as the project row update.
func syncMembers(ctx context.Context, q dbtx, table string, projectID int64, desired []int64) error {
	rows, err := q.QueryContext(ctx,
		fmt.Sprintf("SELECT person_id FROM %s WHERE project_id = $1", table), projectID)
	if err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}
	var current []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan %s: %w", table, err)
		}
		current = append(current, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load %s: %w", table, err)
	}

	add, remove := diffMembers(current, desired)

	if len(remove) > 0 {
		_, err := q.ExecContext(ctx,
			fmt.Sprintf("DELETE FROM %s WHERE project_id = $1 AND person_id = ANY($2)", table),
			projectID, pq.Int64Array(remove))
		if err != nil {
			return fmt.Errorf("remove from %s: %w", table, err)
		}
	}
	for _, personID := range add {
		_, err := q.ExecContext(ctx,
			fmt.Sprintf("INSERT INTO %s (project_id, person_id) VALUES ($1, $2)", table),
			projectID, personID)
		if err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}
	return nil
}

// personsExist verifies that every id resolves to a persons row.
func personsExist(ctx context.Context, q dbtx, ids []int64) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}
	distinct := make(map[int64]bool, len(ids))
	uniq := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !distinct[id] {
			distinct[id] = true
			uniq = append(uniq, id)
		}
	}

	var count int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM persons WHERE id = ANY($1)", pq.Int64Array(uniq)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == len(uniq), nil
}

// loadRelations resolves the four role memberships for a set of projects in
// one query per role.
func loadRelations(ctx context.Context, q dbtx, projectIDs []int64) (map[int64]*models.ProjectRelations, error) {
	out := make(map[int64]*models.ProjectRelations, len(projectIDs))
	for _, id := range projectIDs {
		out[id] = &models.ProjectRelations{}
	}
	if len(projectIDs) == 0 {
		return out, nil
	}

	for _, role := range relationRoles {
		rows, err := q.QueryContext(ctx, fmt.Sprintf(`
			SELECT j.project_id, p.id, p.first_name, p.last_name, p.email, p.phone, p.status
			FROM %s j
			JOIN persons p ON p.id = j.person_id
			WHERE j.project_id = ANY($1)
			ORDER BY j.project_id, p.id`, role.table), pq.Int64Array(projectIDs))
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", role.table, err)
		}
		for rows.Next() {
			var projectID int64
			var p models.Person
			if err := rows.Scan(&projectID, &p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.Status); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan %s: %w", role.table, err)
			}
			rel := out[projectID]
			if rel == nil {
				continue
			}
			ref := p.Ref()
			switch role.name {
			case "owners":
				rel.Owners = append(rel.Owners, ref)
			case "referencePersons":
				rel.ReferencePersons = append(rel.ReferencePersons, ref)
			case "analysts":
				rel.Analysts = append(rel.Analysts, ref)
			case "developers":
				rel.Developers = append(rel.Developers, ref)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("load %s: %w", role.table, err)
		}
	}
	return out, nil
}

// loadComments fetches comments newest-first for a set of projects.
func loadComments(ctx context.Context, q dbtx, projectIDs []int64) (map[int64][]models.ProjectComment, error) {
	out := make(map[int64][]models.ProjectComment, len(projectIDs))
	if len(projectIDs) == 0 {
		return out, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, project_id, content, author, created_at
		FROM project_comments
		WHERE project_id = ANY($1)
		ORDER BY created_at DESC, id DESC`, pq.Int64Array(projectIDs))
	if err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c models.ProjectComment
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Content, &c.Author, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		out[c.ProjectID] = append(out[c.ProjectID], c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load comments: %w", err)
	}
	return out, nil
}
