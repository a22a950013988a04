package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"locallibrary/internal/catalog"
)

func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	return filepath.Clean(filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations"))
}

func TestMigrations_ParseInOrder(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)

	for i, m := range migrations {
		assert.Equal(t, int64(i+1), m.Version, "gap before %s", filepath.Base(m.Source))
	}
}

func TestMigrations_HaveUpAndDown(t *testing.T) {
	dir := repoMigrationsDir(t)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		b, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)
		assert.Contains(t, string(b), "-- +goose Up", e.Name())
		assert.Contains(t, string(b), "-- +goose Down", e.Name())
	}
}

func TestMigrations_StatusCheckMatchesModel(t *testing.T) {
	b, err := os.ReadFile(filepath.Join(repoMigrationsDir(t), "00003_create_book_instances.sql"))
	require.NoError(t, err)
	ddl := string(b)

	for _, s := range catalog.Statuses() {
		assert.Contains(t, ddl, "'"+string(s)+"'", "status %s", s.Label())
	}
	assert.Contains(t, ddl, "DEFAULT '"+string(catalog.DefaultStatus)+"'")
}
