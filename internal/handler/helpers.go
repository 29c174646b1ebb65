package handler

import (
	"net/http"

	"github.com/nullchan-dev/nullchan/internal/utils"
)

// firstNonEmpty resolves a field that may arrive from several request
// sources. Callers pass values in precedence order (query before body; the
// board path variable never competes with other sources).
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// decodeBody decodes an optional JSON body into dst. PUT and DELETE
// operations accept their fields via query parameters instead of a body, so
// an empty or absent body is not an error here; required-field checks happen
// after query/body merging.
func decodeBody(r *http.Request, dst any) {
	if r.Body == nil || r.ContentLength == 0 {
		return
	}
	_ = utils.Decode(r.Body, dst)
}
