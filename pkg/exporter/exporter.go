// Package exporter builds the departments Excel workbook served by the
// export endpoint and the export_excel CLI tool.
package exporter

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tealeg/xlsx/v3"
)

// SheetName is the single worksheet the export produces.
const SheetName = "Départements"

// dateLayout matches the dd/mm/yyyy format the export has always used.
const dateLayout = "02/01/2006"

var headers = []string{
	"N°",
	"ID",
	"Nom du Département",
	"Acronyme",
	"Date de Création",
	"Dernière Modification",
}

// DepartmentRow is one exported department. Deleted departments are never
// part of an export.
type DepartmentRow struct {
	ID        int64
	Name      string
	ShortName string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// FetchDepartments loads the exportable departments, optionally filtered by
// a case-insensitive name search, ordered by name ascending.
func FetchDepartments(ctx context.Context, db *pgxpool.Pool, search string) ([]DepartmentRow, error) {
	sqlStr := `
		SELECT id, name, short_name, created_at, updated_at
		FROM departments
		WHERE status <> 'DELETED'`
	args := []interface{}{}
	if search != "" {
		sqlStr += " AND name ILIKE $1"
		args = append(args, "%"+search+"%")
	}
	sqlStr += " ORDER BY name ASC"

	rows, err := db.Query(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()

	var out []DepartmentRow
	for rows.Next() {
		var d DepartmentRow
		if err := rows.Scan(&d.ID, &d.Name, &d.ShortName, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read departments: %w", err)
	}
	return out, nil
}

// BuildWorkbook turns department rows into an xlsx file. Pure: no I/O.
func BuildWorkbook(departments []DepartmentRow) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("add sheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, h := range headers {
		headerRow.AddCell().Value = h
	}

	for i, d := range departments {
		row := sheet.AddRow()
		row.AddCell().SetInt64(int64(i + 1))
		row.AddCell().SetInt64(d.ID)
		row.AddCell().Value = d.Name
		row.AddCell().Value = d.ShortName
		row.AddCell().Value = d.CreatedAt.Format(dateLayout)
		row.AddCell().Value = d.UpdatedAt.Format(dateLayout)
	}

	return file, nil
}

// Departments fetches and builds in one call.
func Departments(ctx context.Context, db *pgxpool.Pool, search string) (*xlsx.File, error) {
	rows, err := FetchDepartments(ctx, db, search)
	if err != nil {
		return nil, err
	}
	return BuildWorkbook(rows)
}

// Filename returns the download name for an export generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("departements_%s.xlsx", t.UTC().Format("2006-01-02"))
}
