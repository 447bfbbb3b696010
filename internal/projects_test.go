package internal

import (
	"testing"

	"project-tracker-api/internal/models"
	"project-tracker-api/internal/validate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearTestLink(t *testing.T) {
	blank := "   "
	req := models.UpdateProjectRequest{TestLink: &blank}

	assert.True(t, clearTestLink(&req))
	assert.Nil(t, req.TestLink)
	// A clearing patch must survive validation; the url tag would reject
	// the raw empty string.
	assert.Nil(t, validate.Struct(req))
}

func TestClearTestLinkKeepsURL(t *testing.T) {
	link := "https://test.example.org/intranet"
	req := models.UpdateProjectRequest{TestLink: &link}

	assert.False(t, clearTestLink(&req))
	require.NotNil(t, req.TestLink)
	assert.Equal(t, link, *req.TestLink)
}

func TestClearTestLinkAbsent(t *testing.T) {
	req := models.UpdateProjectRequest{}

	assert.False(t, clearTestLink(&req))
	assert.Nil(t, req.TestLink)
}
