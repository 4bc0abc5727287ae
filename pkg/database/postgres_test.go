package database

import (
	"go/parser"
	"go/token"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Migration models are passed in by main; this package must not depend on internal/.
func TestPostgresDoesNotImportInternal(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "postgres.go", nil, parser.ImportsOnly)
	require.NoError(t, err)

	for _, imp := range f.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		require.NoError(t, err)
		assert.False(t, strings.HasPrefix(path, "readerFeed/internal/"), "unexpected import %s", path)
	}
}
