package internal

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseListParams(t *testing.T) {
	r := httptest.NewRequest("GET", "/persons?search=%20diop%20&status=inactive&includeDeleted=1", nil)
	p := parseListParams(r)

	assert.Equal(t, "diop", p.search)
	assert.Equal(t, "INACTIVE", p.status)
	assert.True(t, p.includeDeleted)
}

func TestParseListParamsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/persons", nil)
	p := parseListParams(r)

	assert.Empty(t, p.search)
	assert.Empty(t, p.status)
	assert.False(t, p.includeDeleted)
}

func TestTruthy(t *testing.T) {
	for _, s := range []string{"1", "true", "TRUE", "yes", "anything"} {
		assert.True(t, truthy(s), s)
	}
	for _, s := range []string{"", "0", "false", "FALSE", "no", " no "} {
		assert.False(t, truthy(s), s)
	}
}
