package sheets

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"shakeup-scraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://docs.google.com/spreadsheets/d/abc123/edit?usp=sharing", "abc123"},
		{"https://docs.google.com/spreadsheets/d/abc123/edit", "abc123"},
		{"https://docs.google.com/spreadsheets/d/abc123?gid=0", "abc123"},
		{"https://docs.google.com/spreadsheets/d/abc123#gid=0", "abc123"},
		{"https://docs.google.com/spreadsheets/", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractSpreadsheetID(tt.url), tt.url)
	}
}

func TestSanitizeSheetName(t *testing.T) {
	assert.Equal(t, "shakeup_2026_10_16", sanitizeSheetName("shakeup/2026?10*16"))
	assert.Equal(t, "Sheet1", sanitizeSheetName("   "))
	assert.Equal(t, "a_b_", sanitizeSheetName("a[b]"))
}

func TestBuildValues(t *testing.T) {
	results := []models.ShakeupResult{
		{CompetitionName: "foo-bar", ShakeupAll: 0.16, ShakeupTop10Pct: math.NaN(), RankCorrelation: 0.8, Entries: 5},
	}

	values := buildValues(results, "urls.txt")
	require.Len(t, values, 3)
	assert.Equal(t, []interface{}{"Source", "urls.txt"}, values[0])
	assert.Equal(t, "Competition", values[1][0])
	assert.Equal(t, []interface{}{"foo-bar", 0.16, "", 0.8, 5}, values[2])

	assert.Len(t, buildValues(results, ""), 2, "no metadata row without a source")
}

func TestReadCredentials(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "sa.json")
	require.NoError(t, os.WriteFile(valid, []byte(`{"type":"service_account","project_id":"p"}`), 0o600))
	_, err := readCredentials(valid)
	assert.NoError(t, err)

	user := filepath.Join(dir, "user.json")
	require.NoError(t, os.WriteFile(user, []byte(`{"type":"authorized_user"}`), 0o600))
	_, err = readCredentials(user)
	assert.Error(t, err)

	_, err = readCredentials(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	t.Setenv("GOOGLE_SHEETS_CREDENTIALS", "")
	_, err = readCredentials("")
	assert.Error(t, err)

	t.Setenv("GOOGLE_SHEETS_CREDENTIALS", ` {"type":"service_account"} `)
	_, err = readCredentials("")
	assert.NoError(t, err)
}
