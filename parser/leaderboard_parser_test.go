package parser

import (
	"fmt"
	"strings"
	"testing"

	"shakeup-scraper/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func leaderboardHTML(rows ...string) string {
	return `<html><body><table id="leaderboard-table">
<thead><tr><th>#</th><th>Team</th></tr></thead>
<tbody>` + strings.Join(rows, "\n") + `</tbody></table></body></html>`
}

func row(id string, rank string) string {
	return fmt.Sprintf(`<tr id="%s"><td class="leader-number">%s</td><td class="team-name">team %s</td></tr>`, id, rank, id)
}

func TestParse_DocumentOrder(t *testing.T) {
	html := leaderboardHTML(
		row("team-17", "1"),
		row("team-3", "2"),
		row("team-99", "3"),
		row("team-5", " 5 "),
		row("team-1", "1,024"),
	)

	rows, err := NewLeaderboardParser("", "").Parse(html)
	require.NoError(t, err)

	assert.Equal(t, []models.LeaderboardRow{
		{Rank: 1, ParticipantID: "team-17"},
		{Rank: 2, ParticipantID: "team-3"},
		{Rank: 3, ParticipantID: "team-99"},
		{Rank: 5, ParticipantID: "team-5"},
		{Rank: 1024, ParticipantID: "team-1"},
	}, rows)
}

func TestParse_RowCount(t *testing.T) {
	for _, k := range []int{1, 7, 250} {
		t.Run(fmt.Sprintf("%d rows", k), func(t *testing.T) {
			var rs []string
			for i := 1; i <= k; i++ {
				rs = append(rs, row(fmt.Sprintf("p%d", i), fmt.Sprint(i)))
			}
			rows, err := NewLeaderboardParser("", "").Parse(leaderboardHTML(rs...))
			require.NoError(t, err)
			require.Len(t, rows, k)
			for i, r := range rows {
				assert.Equal(t, i+1, r.Rank)
				assert.Equal(t, fmt.Sprintf("p%d", i+1), r.ParticipantID)
			}
		})
	}
}

func TestParse_SkipsRowsWithoutRankCell(t *testing.T) {
	html := leaderboardHTML(
		`<tr id="banner"><td colspan="2">Final standings</td></tr>`,
		row("a", "1"),
		`<tr><td class="leader-number">2</td></tr>`,
		row("b", "2"),
	)

	rows, err := NewLeaderboardParser("", "").Parse(html)
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardRow{
		{Rank: 1, ParticipantID: "a"},
		{Rank: 2, ParticipantID: "b"},
	}, rows)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"empty page", ""},
		{"no table", "<html><body><p>Leaderboard not available</p></body></html>"},
		{"rows without ids", leaderboardHTML(`<tr><td class="leader-number">1</td></tr>`)},
		{"non numeric rank", leaderboardHTML(row("a", "1"), row("b", "—"))},
		{"zero rank", leaderboardHTML(row("a", "0"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := NewLeaderboardParser("", "").Parse(tt.html)
			require.Error(t, err)
			assert.Nil(t, rows)
			assert.True(t, models.IsKind(err, models.KindParse), "got %v", err)
		})
	}
}

func TestParse_CustomSelectors(t *testing.T) {
	html := `<div class="lb">
<div class="entry" data-team="x" id="t-x"><span class="place">2</span></div>
<div class="entry" id="t-y"><span class="place">1</span></div>
</div>`

	rows, err := NewLeaderboardParser("div.entry[id]", "span.place").Parse(html)
	require.NoError(t, err)
	assert.Equal(t, []models.LeaderboardRow{
		{Rank: 2, ParticipantID: "t-x"},
		{Rank: 1, ParticipantID: "t-y"},
	}, rows)
}

func TestParseRank(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"1", 1, false},
		{"\n\t42 ", 42, false},
		{"2,500", 2500, false},
		{"", 0, true},
		{"-3", 0, true},
		{"1st", 0, true},
	}
	for _, tt := range tests {
		got, err := parseRank(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}
