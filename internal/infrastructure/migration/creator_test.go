package migration

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"add stock ledger", "add_stock_ledger"},
		{"Add-Stock-Ledger", "add_stock_ledger"},
		{"ADD_STOCK_LEDGER", "add_stock_ledger"},
		{"add__stock__ledger", "add_stock_ledger"},
		{"Add Series 123", "add_series_123"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"trailing_", "trailing"},
		{"_leading", "leading"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreateMigration(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "migrations")

	mf, err := CreateMigration(dir, "add outbox index", "Index outbox by scope")
	require.NoError(t, err)

	assert.Len(t, mf.Version, 14)
	upBase := strings.TrimSuffix(filepath.Base(mf.UpPath), ".up.sql")
	downBase := strings.TrimSuffix(filepath.Base(mf.DownPath), ".down.sql")
	assert.Equal(t, upBase, downBase)
	assert.True(t, strings.HasSuffix(upBase, "_add_outbox_index"))

	upContent, err := os.ReadFile(mf.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(upContent), "Index outbox by scope")
	assert.Contains(t, string(upContent), "BEGIN;")

	downContent, err := os.ReadFile(mf.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(downContent), "(rollback)")

	require.NoError(t, CheckPairs(dir))
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("-- test"), 0o644))
	}
}

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"000002_documents.up.sql",
		"000002_documents.down.sql",
		"000001_master_data.up.sql",
		"000001_master_data.down.sql",
		"README.md",
	)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir.up.sql"), 0o755))

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_master_data", "000002_documents"}, migrations)
}

func TestListMigrations_NonexistentDirectory(t *testing.T) {
	migrations, err := ListMigrations(filepath.Join(t.TempDir(), "missing"))
	require.NoError(t, err)
	assert.Empty(t, migrations)
}

func TestCheckPairs_ReportsMissingHalves(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir,
		"000001_a.up.sql",
		"000001_a.down.sql",
		"000002_b.up.sql",
		"000003_c.down.sql",
	)

	err := CheckPairs(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000002_b.down.sql missing")
	assert.Contains(t, err.Error(), "000003_c.up.sql missing")
}

func TestRepositoryMigrationsArePaired(t *testing.T) {
	dir := filepath.Join("..", "..", "..", "migrations")

	migrations, err := ListMigrations(dir)
	require.NoError(t, err)
	assert.NotEmpty(t, migrations)
	assert.NoError(t, CheckPairs(dir))
}
