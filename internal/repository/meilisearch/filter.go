package meilisearch

import (
	"strconv"
	"strings"
)

// escapeFilterValue quotes v for use inside a Meilisearch filter expression.
func escapeFilterValue(v string) string {
	v = strings.ReplaceAll(v, `\`, `\\`)
	v = strings.ReplaceAll(v, `"`, `\"`)
	return `"` + v + `"`
}

// highlightFilter requires an exact normalized-highlight match and, with a
// cursor, only ids strictly below it.
func highlightFilter(norm string, cursor *int64) string {
	f := "highlights_norm = " + escapeFilterValue(norm)
	if cursor != nil {
		f += " AND review_id < " + strconv.FormatInt(*cursor, 10)
	}
	return f
}
