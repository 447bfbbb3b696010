package models

import "time"

// Project statuses as stored. The status field is free-form within the
// enum: the API never enforces new -> in_progress -> delivered ordering.
const (
	ProjectStatusNew        = "NEW"
	ProjectStatusInProgress = "IN_PROGRESS"
	ProjectStatusDelivered  = "DELIVERED"
)

func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusNew, ProjectStatusInProgress, ProjectStatusDelivered:
		return true
	}
	return false
}

type Project struct {
	ID          int64
	Name        string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Priority    int
	TestLink    *string
	Status      string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectComment struct {
	ID        int64
	ProjectID int64
	Content   string
	Author    string
	CreatedAt time.Time
}

// CommentView is the client-facing shape of a project comment.
type CommentView struct {
	ID        int64  `json:"id"`
	Content   string `json:"content"`
	Author    string `json:"author"`
	CreatedAt string `json:"createdAt"`
}

func (c ProjectComment) View() CommentView {
	return CommentView{
		ID:        c.ID,
		Content:   c.Content,
		Author:    c.Author,
		CreatedAt: isoTime(c.CreatedAt),
	}
}

// ProjectRelations holds the resolved memberships of the four
// project<->person roles.
type ProjectRelations struct {
	Owners           []PersonRef
	ReferencePersons []PersonRef
	Analysts         []PersonRef
	Developers       []PersonRef
}

// ProjectView is the client-facing shape of a project with its relations
// and comments embedded. lastComment is derived, not stored.
type ProjectView struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Description      *string       `json:"description,omitempty"`
	Owners           []PersonRef   `json:"owners"`
	StartDate        string        `json:"startDate"`
	EndDate          string        `json:"endDate"`
	Priority         int           `json:"priority"`
	TestLink         *string       `json:"testLink,omitempty"`
	Status           string        `json:"status"`
	Deleted          bool          `json:"deleted"`
	CreatedAt        string        `json:"createdAt"`
	UpdatedAt        string        `json:"updatedAt"`
	ReferencePersons []PersonRef   `json:"referencePersons"`
	Analysts         []PersonRef   `json:"analysts"`
	Developers       []PersonRef   `json:"developers"`
	Comments         []CommentView `json:"comments"`
	LastComment      *CommentView  `json:"lastComment,omitempty"`
}

// BuildProjectView assembles the view model. comments must already be
// ordered newest-first; the first one becomes lastComment.
func BuildProjectView(p Project, rel ProjectRelations, comments []ProjectComment) ProjectView {
	v := ProjectView{
		ID:               p.ID,
		Name:             p.Name,
		Description:      p.Description,
		Owners:           orEmpty(rel.Owners),
		StartDate:        isoTime(p.StartDate),
		EndDate:          isoTime(p.EndDate),
		Priority:         p.Priority,
		TestLink:         p.TestLink,
		Status:           lowerStatus(p.Status),
		Deleted:          p.Deleted,
		CreatedAt:        isoTime(p.CreatedAt),
		UpdatedAt:        isoTime(p.UpdatedAt),
		ReferencePersons: orEmpty(rel.ReferencePersons),
		Analysts:         orEmpty(rel.Analysts),
		Developers:       orEmpty(rel.Developers),
		Comments:         []CommentView{},
	}
	for _, c := range comments {
		v.Comments = append(v.Comments, c.View())
	}
	if len(v.Comments) > 0 {
		last := v.Comments[0]
		v.LastComment = &last
	}
	return v
}

func orEmpty(refs []PersonRef) []PersonRef {
	if refs == nil {
		return []PersonRef{}
	}
	return refs
}

// CreateProjectRequest is the request body for creating a project
type CreateProjectRequest struct {
	Name               string     `json:"name" validate:"required"`
	Description        *string    `json:"description,omitempty"`
	OwnerIDs           []int64    `json:"ownerIds" validate:"required,min=1"`
	StartDate          *time.Time `json:"startDate" validate:"required"`
	EndDate            *time.Time `json:"endDate" validate:"required"`
	Priority           int        `json:"priority" validate:"required,min=1,max=5"`
	TestLink           *string    `json:"testLink,omitempty" validate:"omitempty,url"`
	Status             *string    `json:"status,omitempty"`
	ReferencePersonIDs []int64    `json:"referencePersonIds,omitempty"`
	AnalystIDs         []int64    `json:"analystIds,omitempty"`
	DeveloperIDs       []int64    `json:"developerIds,omitempty"`
}

// UpdateProjectRequest is the request body for a partial project update.
// Relation id lists use pointers so an explicit empty array (full clear)
// can be told apart from an absent field (leave membership untouched).
type UpdateProjectRequest struct {
	Name               *string    `json:"name,omitempty" validate:"omitempty,min=1"`
	Description        *string    `json:"description,omitempty"`
	OwnerIDs           *[]int64   `json:"ownerIds,omitempty"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	Priority           *int       `json:"priority,omitempty" validate:"omitempty,min=1,max=5"`
	TestLink           *string    `json:"testLink,omitempty" validate:"omitempty,url"`
	Status             *string    `json:"status,omitempty"`
	ReferencePersonIDs *[]int64   `json:"referencePersonIds,omitempty"`
	AnalystIDs         *[]int64   `json:"analystIds,omitempty"`
	DeveloperIDs       *[]int64   `json:"developerIds,omitempty"`
	Deleted            *bool      `json:"deleted,omitempty"`
}

// CreateCommentRequest is the request body for adding a project comment
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
	Author  string `json:"author" validate:"required"`
}
