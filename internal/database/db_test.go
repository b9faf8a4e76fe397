package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joyas-pwa/joyas-api/internal/config"
)

func TestStatements(t *testing.T) {
	stmts := Statements()
	require.Len(t, stmts, 5)
	for _, s := range stmts {
		assert.True(t, strings.HasPrefix(s, "CREATE TABLE IF NOT EXISTS"), s)
		assert.NotContains(t, s, "--")
	}
	assert.Contains(t, stmts[0], "app_user")
	assert.Contains(t, stmts[4], "ON DELETE CASCADE")
}

func TestDSN(t *testing.T) {
	dsn := DSN(config.Config{
		DBUser: "joyas", DBPass: "p@ss", DBHost: "db", DBPort: "3307", DBName: "joyas",
	})
	assert.True(t, strings.HasPrefix(dsn, "joyas:p@ss@tcp(db:3307)/joyas?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}
