//go:build integration

package tests

import (
	"fmt"
	"net/http"
	"testing"

	"project-tracker-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statsResponse struct {
	Departments struct {
		Total    int `json:"total"`
		Active   int `json:"active"`
		Inactive int `json:"inactive"`
		Deleted  int `json:"deleted"`
	} `json:"departments"`
	Persons struct {
		Total  int `json:"total"`
		Active int `json:"active"`
	} `json:"persons"`
	Projects struct {
		Total        int `json:"total"`
		New          int `json:"new"`
		InProgress   int `json:"inProgress"`
		Delivered    int `json:"delivered"`
		Deleted      int `json:"deleted"`
		HighPriority int `json:"highPriority"`
		DeliveryRate int `json:"deliveryRate"`
	} `json:"projects"`
}

func TestStatsEmpty(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	w := doJSON(t, "GET", "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var s statsResponse
	decode(t, w, &s)
	assert.Zero(t, s.Departments.Total)
	assert.Zero(t, s.Projects.Total)
	assert.Zero(t, s.Projects.DeliveryRate)
}

func TestStatsCounts(t *testing.T) {
	testutil.RequireIntegration(t)
	resetTables(t)

	d1 := createDepartment(t, "Ressources Humaines", "RH")
	createDepartment(t, "Direction Financière", "DF")
	w := doJSON(t, "DELETE", fmt.Sprintf("/departments/%d", d1.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	a := createPerson(t, "Awa", "Diop", "a@example.org")

	createProject(t, "Livré", []int64{a.ID}, map[string]interface{}{
		"status": "delivered", "priority": 5,
	})
	createProject(t, "En Cours", []int64{a.ID}, map[string]interface{}{
		"status": "in_progress",
	})
	gone := createProject(t, "Supprimé", []int64{a.ID}, nil)
	w = doJSON(t, "DELETE", fmt.Sprintf("/projects/%d", gone.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, "GET", "/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var s statsResponse
	decode(t, w, &s)

	assert.Equal(t, 2, s.Departments.Total)
	assert.Equal(t, 1, s.Departments.Active)
	assert.Equal(t, 1, s.Departments.Deleted)

	assert.Equal(t, 1, s.Persons.Total)
	assert.Equal(t, 1, s.Persons.Active)

	// Deleted projects count separately and leave the totals.
	assert.Equal(t, 2, s.Projects.Total)
	assert.Equal(t, 1, s.Projects.Delivered)
	assert.Equal(t, 1, s.Projects.InProgress)
	assert.Equal(t, 1, s.Projects.Deleted)
	assert.Equal(t, 1, s.Projects.HighPriority)
	assert.Equal(t, 50, s.Projects.DeliveryRate)
}
