package internal

import (
	"net/http"
	"strings"
)

// listParams holds the query parameters shared by the list endpoints.
// status is normalized to the stored (upper-case) form; "ALL" disables the
// status filter entirely.
type listParams struct {
	search         string
	status         string
	includeDeleted bool
}

const statusAll = "ALL"

func parseListParams(r *http.Request) listParams {
	values := r.URL.Query()

	status := strings.ToUpper(strings.TrimSpace(values.Get("status")))

	return listParams{
		search:         strings.TrimSpace(values.Get("search")),
		status:         status,
		includeDeleted: truthy(values.Get("includeDeleted")),
	}
}

// truthy mirrors the loose client contract: any non-empty value except
// explicit negatives counts as true.
func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "0", "false", "no":
		return false
	}
	return true
}
