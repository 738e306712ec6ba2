package db

import (
	"context"
	"math"
	"os"
	"testing"

	"shakeup-scraper/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNullFloat(t *testing.T) {
	assert.False(t, nullFloat(math.NaN()).Valid)

	v := nullFloat(0.16)
	assert.True(t, v.Valid)
	assert.Equal(t, 0.16, v.Float64)

	assert.True(t, math.IsNaN(floatOrNaN(nullFloat(math.NaN()))))
	assert.Equal(t, 0.5, floatOrNaN(nullFloat(0.5)))
}

func TestConnStringFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "secret")
	assert.Equal(t,
		"host=db.internal port=5432 user=shakeup password=secret dbname=shakeup sslmode=disable",
		ConnStringFromEnv())

	t.Setenv("DATABASE_URL", "postgres://u:p@h/db")
	assert.Equal(t, "postgres://u:p@h/db", ConnStringFromEnv())
}

func TestSaveResults(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, connStr, zerolog.Nop())
	require.NoError(t, err)
	defer database.Close()

	results := []models.ShakeupResult{
		{CompetitionName: "foo-bar", ShakeupAll: 0.16, ShakeupTop10Pct: math.NaN(), RankCorrelation: 0.8, Entries: 5},
		{CompetitionName: "titanic", ShakeupAll: 0.01, ShakeupTop10Pct: 0.002, RankCorrelation: 0.99, Entries: 900},
	}

	runID, err := database.SaveResults(ctx, "test", results)
	require.NoError(t, err)

	records, err := database.GetRunResults(ctx, runID)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0].ToResult()
	assert.Equal(t, "foo-bar", first.CompetitionName)
	assert.InDelta(t, 0.16, first.ShakeupAll, 1e-12)
	assert.True(t, math.IsNaN(first.ShakeupTop10Pct))
	assert.Equal(t, 5, first.Entries)
	assert.Equal(t, "titanic", records[1].CompetitionName)
}
