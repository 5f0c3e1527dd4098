package report

import (
	"sort"
	"strconv"

	"github.com/tirasundara/h1b-certified-stats/internal/domain"
	"golang.org/x/exp/maps"
)

// DefaultTopEntries is the number of entries kept in a ranked report
const DefaultTopEntries = 10

// Entry is a single ranked label with its certified count
type Entry struct {
	Label string
	Count int
}

// Rank sorts the table by count descending then label ascending and keeps the first limit entries
func Rank(table domain.FrequencyTable, limit int) []Entry {
	labels := maps.Keys(table)

	entries := make([]Entry, 0, len(labels))
	for _, label := range labels {
		entries = append(entries, Entry{Label: label, Count: table[label]})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Label < entries[j].Label
	})

	if limit >= 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries
}

// Percentage returns count*100/denominator with one fractional digit and a % suffix.
// Rounding applies to the float64 quotient, so 3/2000 gives "0.1%". A zero
// denominator yields "0.0%".
func Percentage(count, denominator int) string {
	if denominator == 0 {
		return "0.0%"
	}

	pct := float64(count) * 100 / float64(denominator)
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}
