package parser

import (
	"fmt"
	"strconv"
	"strings"

	"shakeup-scraper/models"

	"github.com/PuerkitoBio/goquery"
)

// Default selectors for a Kaggle-style leaderboard table
const (
	DefaultRowSelector  = "tr[id]"
	DefaultRankSelector = "td.leader-number"
)

// LeaderboardParser extracts ranked rows from leaderboard HTML
type LeaderboardParser struct {
	rowSelector  string
	rankSelector string
}

// NewLeaderboardParser creates a parser; empty selectors fall back to the defaults
func NewLeaderboardParser(rowSelector, rankSelector string) *LeaderboardParser {
	if rowSelector == "" {
		rowSelector = DefaultRowSelector
	}
	if rankSelector == "" {
		rankSelector = DefaultRankSelector
	}
	return &LeaderboardParser{
		rowSelector:  rowSelector,
		rankSelector: rankSelector,
	}
}

// Parse extracts (rank, id) rows in document order.
// Rows without a rank cell are skipped; a rank cell that is not a positive
// integer, or a page without any rows, is a parse error.
func (p *LeaderboardParser) Parse(htmlContent string) ([]models.LeaderboardRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &models.Error{Kind: models.KindParse, Message: "failed to parse HTML", Err: err}
	}

	var rows []models.LeaderboardRow
	var rowErr error

	doc.Find(p.rowSelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		id := strings.TrimSpace(s.AttrOr("id", ""))
		if id == "" {
			return true
		}

		cell := s.Find(p.rankSelector).First()
		if cell.Length() == 0 {
			return true
		}

		rank, err := parseRank(cell.Text())
		if err != nil {
			rowErr = models.NewParseError("", fmt.Sprintf("row %q: %v", id, err))
			return false
		}

		rows = append(rows, models.LeaderboardRow{Rank: rank, ParticipantID: id})
		return true
	})

	if rowErr != nil {
		return nil, rowErr
	}
	if len(rows) == 0 {
		return nil, models.NewParseError("", fmt.Sprintf("no leaderboard rows matched %q with a %q cell", p.rowSelector, p.rankSelector))
	}

	return rows, nil
}

// parseRank reads a rank cell such as "12", " 3 " or "1,024"
func parseRank(text string) (int, error) {
	text = strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	rank, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("invalid rank %q", text)
	}
	if rank < 1 {
		return 0, fmt.Errorf("rank must be positive, got %d", rank)
	}
	return rank, nil
}
