package shakeup

import (
	"math"
	"sort"

	"shakeup-scraper/models"

	"gonum.org/v1/gonum/stat"
)

// Stats holds the three shakeup statistics for a joined entry set
type Stats struct {
	All         float64
	Top10Pct    float64
	Correlation float64
}

// Join inner-joins private and public rows on participant id, keeping private order.
// Ids on only one board are dropped; a repeated public id keeps its first rank.
func Join(private, public []models.LeaderboardRow) []models.JoinedEntry {
	publicRank := make(map[string]int, len(public))
	for _, row := range public {
		if _, seen := publicRank[row.ParticipantID]; !seen {
			publicRank[row.ParticipantID] = row.Rank
		}
	}

	entries := make([]models.JoinedEntry, 0, len(private))
	for _, row := range private {
		rank, ok := publicRank[row.ParticipantID]
		if !ok {
			continue
		}
		entries = append(entries, models.JoinedEntry{
			ParticipantID: row.ParticipantID,
			PrivateRank:   row.Rank,
			PublicRank:    rank,
		})
	}
	return entries
}

// Statistics computes the shakeup of entries, which must be in private-board order.
//
// All is mean(|private-public|)/N. Top10Pct is the same over the first
// floor(0.1*N) entries, still divided by N, and is NaN when that slice is
// empty. Correlation is Spearman's rho and is NaN when N < 2.
func Statistics(entries []models.JoinedEntry) Stats {
	n := len(entries)
	if n == 0 {
		return Stats{All: math.NaN(), Top10Pct: math.NaN(), Correlation: math.NaN()}
	}

	absDelta := make([]float64, n)
	private := make([]float64, n)
	public := make([]float64, n)
	for i, e := range entries {
		absDelta[i] = math.Abs(float64(e.Delta()))
		private[i] = float64(e.PrivateRank)
		public[i] = float64(e.PublicRank)
	}

	size := float64(n)
	s := Stats{
		All:         stat.Mean(absDelta, nil) / size,
		Top10Pct:    math.NaN(),
		Correlation: math.NaN(),
	}

	if cut := int(math.Floor(0.1 * size)); cut > 0 {
		s.Top10Pct = stat.Mean(absDelta[:cut], nil) / size
	}

	if n >= 2 {
		s.Correlation = Spearman(private, public)
	}

	return s
}

// Spearman returns the rank correlation of x and y, averaging ranks of ties.
// It is NaN when either input is constant or shorter than 2.
func Spearman(x, y []float64) float64 {
	if len(x) != len(y) {
		panic("shakeup: length mismatch")
	}
	if len(x) < 2 {
		return math.NaN()
	}

	rho := stat.Correlation(averageRanks(x), averageRanks(y), nil)
	if math.IsNaN(rho) {
		return rho
	}
	return math.Max(-1, math.Min(1, rho))
}

// averageRanks assigns 1-based ranks, giving tied values the mean of their positions
func averageRanks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	for start := 0; start < len(idx); {
		end := start + 1
		for end < len(idx) && values[idx[end]] == values[idx[start]] {
			end++
		}
		// positions start..end-1 hold equal values, ranks start+1..end
		avg := float64(start+1+end) / 2
		for k := start; k < end; k++ {
			ranks[idx[k]] = avg
		}
		start = end
	}
	return ranks
}
