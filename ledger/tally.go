// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ledger

import (
	"math"
	"sort"

	"github.com/danielhkuo/campus-vote/models"
)

// ComputeTally ranks candidates by votes, highest first.
// Ties keep roster order and share a rank. Percentages are of the total
// votes cast, rounded to one decimal, and 0 when nobody has voted.
func ComputeTally(candidates []models.Candidate) []models.TallyEntry {
	total := 0
	for _, c := range candidates {
		total += c.Votes
	}

	entries := make([]models.TallyEntry, len(candidates))
	for i, c := range candidates {
		entries[i] = models.TallyEntry{
			Candidate:  c,
			Votes:      c.Votes,
			Percentage: percentage(c.Votes, total),
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Votes > entries[j].Votes
	})

	// Standard competition ranking: 1, 1, 3
	for i := range entries {
		if i > 0 && entries[i].Votes == entries[i-1].Votes {
			entries[i].Rank = entries[i-1].Rank
		} else {
			entries[i].Rank = i + 1
		}
	}

	return entries
}

func percentage(votes, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(votes)*1000/float64(total)) / 10
}
