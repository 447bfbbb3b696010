//go:build integration

package tests

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"project-tracker-api/internal/models"
	"project-tracker-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDepartment(t *testing.T, name, shortName string) models.DepartmentView {
	t.Helper()
	w := doJSON(t, "POST", "/departments", map[string]string{
		"name":      name,
		"shortName": shortName,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var v models.DepartmentView
	decode(t, w, &v)
	return v
}

func TestDepartmentCreate(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	v := createDepartment(t, "Direction des Systèmes d'Information", "DSI")

	assert.NotZero(t, v.ID)
	assert.Equal(t, "Direction des Systèmes d'Information", v.Name)
	assert.Equal(t, "DSI", v.ShortName)
	assert.Equal(t, "active", v.Status)
	assert.NotEmpty(t, v.CreatedAt)
}

func TestDepartmentCreateValidation(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	w := doJSON(t, "POST", "/departments", map[string]string{"name": "  "})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var e apiError
	decode(t, w, &e)
	assert.Equal(t, "invalid input", e.Error)
	require.Len(t, e.Details, 2)

	fields := []string{e.Details[0].Field, e.Details[1].Field}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "shortName")
}

func TestDepartmentListHidesDeleted(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	kept := createDepartment(t, "Ressources Humaines", "RH")
	gone := createDepartment(t, "Direction Financière", "DF")

	w := doJSON(t, "DELETE", fmt.Sprintf("/departments/%d", gone.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, "GET", "/departments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.DepartmentView
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)

	// status=ALL surfaces everything, deleted included.
	w = doJSON(t, "GET", "/departments?status=all", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Len(t, list, 2)
}

func TestDepartmentListSearch(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	createDepartment(t, "Ressources Humaines", "RH")
	createDepartment(t, "Direction Financière", "DF")

	w := doJSON(t, "GET", "/departments?search=humaines", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []models.DepartmentView
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, "RH", list[0].ShortName)
}

func TestDepartmentListBadStatus(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	w := doJSON(t, "GET", "/departments?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDepartmentGetNotFound(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	w := doJSON(t, "GET", "/departments/9999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var e apiError
	decode(t, w, &e)
	assert.Equal(t, "department not found", e.Error)
}

func TestDepartmentUpdate(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	v := createDepartment(t, "Ressources Humaines", "RH")

	w := doJSON(t, "PUT", fmt.Sprintf("/departments/%d", v.ID), map[string]string{
		"shortName": "DRH",
		"status":    "inactive",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated models.DepartmentView
	decode(t, w, &updated)
	assert.Equal(t, "DRH", updated.ShortName)
	assert.Equal(t, "inactive", updated.Status)
	assert.Equal(t, v.Name, updated.Name)
}

func TestDepartmentUpdateEmptyBody(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	v := createDepartment(t, "Ressources Humaines", "RH")

	w := doJSON(t, "PUT", fmt.Sprintf("/departments/%d", v.ID), map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var e apiError
	decode(t, w, &e)
	assert.Equal(t, "no fields to update", e.Error)
}

func TestDepartmentDeleteRestoreCycle(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	v := createDepartment(t, "Direction Financière", "DF")

	w := doJSON(t, "DELETE", fmt.Sprintf("/departments/%d", v.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted models.DepartmentView
	decode(t, w, &deleted)
	assert.Equal(t, "deleted", deleted.Status)

	// Deleting again is a no-op.
	w = doJSON(t, "DELETE", fmt.Sprintf("/departments/%d", v.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, "POST", fmt.Sprintf("/departments/%d/restore", v.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var restored models.DepartmentView
	decode(t, w, &restored)
	assert.Equal(t, "active", restored.Status)

	// Restoring a live department is rejected.
	w = doJSON(t, "POST", fmt.Sprintf("/departments/%d/restore", v.ID), nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	var e apiError
	decode(t, w, &e)
	assert.Equal(t, "department is not deleted", e.Error)
}

func TestDepartmentExport(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	createDepartment(t, "Ressources Humaines", "RH")

	w := doJSON(t, "GET", "/departments/export", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))

	disposition := w.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="departements_`), disposition)
	assert.True(t, strings.HasSuffix(disposition, `.xlsx"`), disposition)
	assert.NotZero(t, w.Body.Len())
}
