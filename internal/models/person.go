package models

import (
	"strings"
	"time"
)

type Person struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PersonView is the client-facing shape of a person.
type PersonView struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

// PersonRef is the flattened person shape embedded in project views.
type PersonRef struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Status    string  `json:"status"`
}

func (p Person) View() PersonView {
	return PersonView{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Status:    lowerStatus(p.Status),
		CreatedAt: isoTime(p.CreatedAt),
		UpdatedAt: isoTime(p.UpdatedAt),
	}
}

func (p Person) Ref() PersonRef {
	return PersonRef{
		ID:        p.ID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Email:     p.Email,
		Phone:     p.Phone,
		Status:    lowerStatus(p.Status),
	}
}

// CreatePersonRequest is the request body for creating a person
type CreatePersonRequest struct {
	FirstName string  `json:"firstName" validate:"required"`
	LastName  string  `json:"lastName" validate:"required"`
	Email     string  `json:"email" validate:"required,email"`
	Phone     *string `json:"phone,omitempty"`
	Status    *string `json:"status,omitempty"`
}

// UpdatePersonRequest is the request body for a partial person update
type UpdatePersonRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,min=1"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty"`
	Status    *string `json:"status,omitempty"`
}

func lowerStatus(s string) string {
	return strings.ToLower(s)
}

func isoTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
