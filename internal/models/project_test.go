package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProjectViewEmptyRelations(t *testing.T) {
	p := Project{
		ID:        1,
		Name:      "Portail Intranet",
		StartDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		Priority:  4,
		Status:    ProjectStatusNew,
	}

	v := BuildProjectView(p, ProjectRelations{}, nil)

	// Clients iterate these; they must never be null in JSON.
	require.NotNil(t, v.Owners)
	require.NotNil(t, v.ReferencePersons)
	require.NotNil(t, v.Analysts)
	require.NotNil(t, v.Developers)
	require.NotNil(t, v.Comments)
	assert.Empty(t, v.Owners)

	assert.Equal(t, "new", v.Status)
	assert.Equal(t, "2026-01-05T00:00:00Z", v.StartDate)
	assert.Equal(t, "2026-06-30T00:00:00Z", v.EndDate)
	assert.Nil(t, v.LastComment)
	assert.Nil(t, v.TestLink)
}

func TestBuildProjectViewLastComment(t *testing.T) {
	p := Project{ID: 2, Name: "x", Status: ProjectStatusInProgress}
	comments := []ProjectComment{
		{ID: 12, ProjectID: 2, Content: "newest", Author: "b", CreatedAt: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)},
		{ID: 11, ProjectID: 2, Content: "older", Author: "a", CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)},
	}

	v := BuildProjectView(p, ProjectRelations{}, comments)

	require.Len(t, v.Comments, 2)
	assert.Equal(t, "newest", v.Comments[0].Content)
	require.NotNil(t, v.LastComment)
	assert.Equal(t, int64(12), v.LastComment.ID)
	assert.Equal(t, "newest", v.LastComment.Content)
	assert.Equal(t, "in_progress", v.Status)
}

func TestBuildProjectViewRelations(t *testing.T) {
	phone := "+221770000001"
	rel := ProjectRelations{
		Owners: []PersonRef{
			{ID: 5, FirstName: "Awa", LastName: "Diop", Email: "awa@example.org", Phone: &phone, Status: "active"},
		},
		Developers: []PersonRef{
			{ID: 6, FirstName: "Moussa", LastName: "Ndiaye", Email: "moussa@example.org", Status: "active"},
		},
	}

	v := BuildProjectView(Project{ID: 3, Name: "x", Status: ProjectStatusDelivered}, rel, nil)

	require.Len(t, v.Owners, 1)
	assert.Equal(t, "Awa", v.Owners[0].FirstName)
	require.Len(t, v.Developers, 1)
	assert.Empty(t, v.Analysts)
}

func TestPersonViewLowersStatus(t *testing.T) {
	p := Person{
		ID:        7,
		FirstName: "Fatou",
		LastName:  "Sall",
		Email:     "fatou@example.org",
		Status:    StatusInactive,
		CreatedAt: time.Date(2025, 12, 1, 8, 30, 0, 0, time.UTC),
	}

	v := p.View()
	assert.Equal(t, "inactive", v.Status)
	assert.Equal(t, "2025-12-01T08:30:00Z", v.CreatedAt)
	assert.Nil(t, v.Phone)

	ref := p.Ref()
	assert.Equal(t, "inactive", ref.Status)
	assert.Equal(t, p.Email, ref.Email)
}

func TestDepartmentView(t *testing.T) {
	d := Department{
		ID:        1,
		Name:      "Direction des Systèmes d'Information",
		ShortName: "DSI",
		Status:    StatusActive,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}

	v := d.View()
	assert.Equal(t, "active", v.Status)
	assert.Equal(t, "DSI", v.ShortName)
	assert.Equal(t, "2025-01-01T00:00:00Z", v.CreatedAt)
}

func TestValidProjectStatus(t *testing.T) {
	assert.True(t, ValidProjectStatus("NEW"))
	assert.True(t, ValidProjectStatus("IN_PROGRESS"))
	assert.True(t, ValidProjectStatus("DELIVERED"))
	assert.False(t, ValidProjectStatus("new"))
	assert.False(t, ValidProjectStatus("DONE"))
	assert.False(t, ValidProjectStatus(""))
}

func TestValidEntityStatus(t *testing.T) {
	assert.True(t, ValidEntityStatus("ACTIVE"))
	assert.True(t, ValidEntityStatus("INACTIVE"))
	assert.True(t, ValidEntityStatus("DELETED"))
	assert.False(t, ValidEntityStatus("active"))
	assert.False(t, ValidEntityStatus("ARCHIVED"))
}

func TestIsoTimeNormalizesZone(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	got := isoTime(time.Date(2026, 5, 1, 13, 0, 0, 0, loc))
	assert.Equal(t, "2026-05-01T12:00:00Z", got)
}
