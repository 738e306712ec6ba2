package models

// LeaderboardRow is one ranked row scraped from a leaderboard page
type LeaderboardRow struct {
	Rank          int
	ParticipantID string // row id attribute, unique within one snapshot
}

// JoinedEntry is a participant present on both the private and public boards
type JoinedEntry struct {
	ParticipantID string
	PrivateRank   int
	PublicRank    int
}

// Delta returns private rank minus public rank
func (e JoinedEntry) Delta() int {
	return e.PrivateRank - e.PublicRank
}

// ShakeupResult holds the shakeup statistics for one competition
type ShakeupResult struct {
	CompetitionName string
	ShakeupAll      float64
	ShakeupTop10Pct float64 // NaN when the top 10% slice is empty
	RankCorrelation float64 // Spearman's rho, NaN when fewer than 2 entries
	Entries         int     // number of joined entries
}
