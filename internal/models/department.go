package models

import "time"

// Entity statuses as stored. View models expose them lower-cased.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusDeleted  = "DELETED"
)

// ValidEntityStatus reports whether s is a known department/person status.
// Expects the stored (upper-case) form.
func ValidEntityStatus(s string) bool {
	switch s {
	case StatusActive, StatusInactive, StatusDeleted:
		return true
	}
	return false
}

type Department struct {
	ID        int64
	Name      string
	ShortName string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DepartmentView is the client-facing shape of a department.
type DepartmentView struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

func (d Department) View() DepartmentView {
	return DepartmentView{
		ID:        d.ID,
		Name:      d.Name,
		ShortName: d.ShortName,
		Status:    lowerStatus(d.Status),
		CreatedAt: isoTime(d.CreatedAt),
		UpdatedAt: isoTime(d.UpdatedAt),
	}
}

// CreateDepartmentRequest is the request body for creating a department
type CreateDepartmentRequest struct {
	Name      string `json:"name" validate:"required"`
	ShortName string `json:"shortName" validate:"required"`
}

// UpdateDepartmentRequest is the request body for a partial department update
type UpdateDepartmentRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1"`
	ShortName *string `json:"shortName,omitempty" validate:"omitempty,min=1"`
	Status    *string `json:"status,omitempty"`
}
