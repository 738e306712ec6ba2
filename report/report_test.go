package report

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"shakeup-scraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []models.ShakeupResult{
	{CompetitionName: "foo-bar", ShakeupAll: 0.16, ShakeupTop10Pct: math.NaN(), RankCorrelation: 0.8, Entries: 5},
	{CompetitionName: "titanic", ShakeupAll: 0.0123, ShakeupTop10Pct: 0.004, RankCorrelation: 0.97, Entries: 1200},
}

func TestRender_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample, FormatTable))

	out := buf.String()
	assert.Contains(t, out, "COMPETITION")
	assert.Contains(t, out, "foo-bar")
	assert.Contains(t, out, "titanic")
	assert.Contains(t, out, "NaN")
	assert.Contains(t, out, "0.16")
	assert.Less(t, strings.Index(out, "foo-bar"), strings.Index(out, "titanic"), "input order kept")
}

func TestRender_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample, FormatCSV))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.EqualFold("Competition,Shakeup (all),Shakeup (top 10%),Spearman,Entries", lines[0]), lines[0])
	assert.Equal(t, "foo-bar,0.16,NaN,0.8,5", lines[1])
	assert.Equal(t, "titanic,0.0123,0.004,0.97,1200", lines[2])
}

func TestRender_Markdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sample, FormatMarkdown))
	assert.Contains(t, buf.String(), "| foo-bar |")
}

func TestRender_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Render(&buf, sample, "xml"))
	assert.Empty(t, buf.String())
}

func TestRenderRecord(t *testing.T) {
	var buf bytes.Buffer
	RenderRecord(&buf, sample[0])

	out := buf.String()
	assert.Contains(t, out, "Competition")
	assert.Contains(t, out, "foo-bar")
	assert.Contains(t, out, "Spearman")
	assert.Contains(t, out, "0.8")
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "NaN", FormatFloat(math.NaN()))
	assert.Equal(t, "0.16", FormatFloat(0.16))
	assert.Equal(t, "0.333333", FormatFloat(1.0/3))
	assert.Equal(t, "-1", FormatFloat(-1))
}
