package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Name     string  `json:"name" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Link     *string `json:"link,omitempty" validate:"omitempty,url"`
	Priority int     `json:"priority" validate:"required,min=1,max=5"`
	OwnerIDs []int64 `json:"ownerIds" validate:"required,min=1"`
}

func TestStructValid(t *testing.T) {
	details := Struct(sampleRequest{
		Name:     "Portail Intranet",
		Email:    "awa.diop@example.org",
		Priority: 3,
		OwnerIDs: []int64{1},
	})
	assert.Nil(t, details)
}

func TestStructMissingRequired(t *testing.T) {
	details := Struct(sampleRequest{Priority: 2, OwnerIDs: []int64{1}})
	require.Len(t, details, 2)

	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	// Field names come from the json tags, not the Go names.
	assert.Equal(t, "is required", byField["name"])
	assert.Equal(t, "is required", byField["email"])
}

func TestStructBadEmail(t *testing.T) {
	details := Struct(sampleRequest{
		Name:     "x",
		Email:    "not-an-email",
		Priority: 1,
		OwnerIDs: []int64{1},
	})
	require.Len(t, details, 1)
	assert.Equal(t, "email", details[0].Field)
	assert.Equal(t, "must be a valid email address", details[0].Message)
}

func TestStructBadURL(t *testing.T) {
	link := "not a url"
	details := Struct(sampleRequest{
		Name:     "x",
		Email:    "a@b.org",
		Link:     &link,
		Priority: 1,
		OwnerIDs: []int64{1},
	})
	require.Len(t, details, 1)
	assert.Equal(t, "link", details[0].Field)
	assert.Equal(t, "must be a valid URL", details[0].Message)
}

func TestStructNumericBounds(t *testing.T) {
	details := Struct(sampleRequest{
		Name:     "x",
		Email:    "a@b.org",
		Priority: 9,
		OwnerIDs: []int64{1},
	})
	require.Len(t, details, 1)
	assert.Equal(t, "priority", details[0].Field)
	assert.Equal(t, "must be at most 5", details[0].Message)
}

func TestStructEmptySlice(t *testing.T) {
	details := Struct(sampleRequest{
		Name:     "x",
		Email:    "a@b.org",
		Priority: 1,
		OwnerIDs: []int64{},
	})
	require.Len(t, details, 1)
	assert.Equal(t, "ownerIds", details[0].Field)
	assert.Equal(t, "must contain at least 1 element(s)", details[0].Message)
}
