package suggest

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Base match scores per tier. Tiers are evaluated in strict priority order
// and the first hit wins; they are never summed.
const (
	exactMatchScore     = 100.0
	prefixMatchScore    = 90.0
	substringMatchScore = 70.0
	fuzzyMatchCeiling   = 50.0

	// emptyQueryMatchScore ranks query-less candidates as substring-tier
	// matches, so recency and frequency alone decide the order.
	emptyQueryMatchScore = 70.0
)

// Recency decay constants, in points per the days elapsed since last use.
// The 7-30 day ramp starts where the week tier leaves off at day seven, so
// the curve never rises as items age.
const (
	recencyFresh     = 100.0 // within one day
	recencyWeekStart = 90.0  // decay start after the first day
	recencyWeekFloor = 20.0
	recencyWeekRate  = 10.0                                 // points lost per day inside the first week
	recencyMonthHigh = recencyWeekStart - 6*recencyWeekRate // week tier's value at day seven
	recencyMonthLow  = 10.0
	recencyFloor     = 10.0 // very old items stay faintly rankable
)

// Frequency blend: a linear base tempered by a logarithmic term so a single
// very frequent item cannot dominate linearly.
const (
	freqLinearWeight = 0.7
	freqLogWeight    = 0.3
)

// excludedScore marks candidates that match no tier at all.
const excludedScore = -1.0

// editDistance computes the Levenshtein distance between two strings with
// unit costs, using a single-row dynamic programming table over runes.
func editDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(curr[j-1]+1, min(prev[j]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// similarity maps edit distance to a 0-1 scale relative to the longer of
// the two strings.
func similarity(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	longest := max(la, lb)
	if longest == 0 {
		return 1
	}
	return 1 - float64(editDistance(a, b))/float64(longest)
}

// matchScores assigns each candidate its base match score for the query, or
// excludedScore when the candidate fails every tier. The trie resolves the
// exact and prefix tiers; substring and fuzzy fall back to a scan.
func matchScores(cands []candidate, trie *patricia.Trie, query string, threshold float64) []float64 {
	scores := make([]float64, len(cands))

	if query == "" {
		for i := range scores {
			scores[i] = emptyQueryMatchScore
		}
		return scores
	}

	for i := range scores {
		scores[i] = excludedScore
	}

	if item := trie.Get(patricia.Prefix(query)); item != nil {
		scores[item.(int)] = exactMatchScore
	}

	_ = trie.VisitSubtree(patricia.Prefix(query), func(p patricia.Prefix, item patricia.Item) error {
		i := item.(int)
		if scores[i] == excludedScore {
			scores[i] = prefixMatchScore
		}
		return nil
	})

	for i := range cands {
		if scores[i] != excludedScore {
			continue
		}
		if strings.Contains(cands[i].key, query) {
			scores[i] = substringMatchScore
			continue
		}
		if sim := similarity(query, cands[i].key); sim >= threshold {
			scores[i] = sim * fuzzyMatchCeiling
		}
	}
	return scores
}

// recencyScore maps days elapsed since the last use onto a 0-100 scale:
// a flat 100 within one day, a steep per-day decay through the first week,
// a gentler ramp from the day-seven value out to thirty days and a floor of
// 10 beyond that. The score never increases with elapsed time.
func recencyScore(lastUsed, now time.Time) float64 {
	days := now.Sub(lastUsed).Hours() / 24
	switch {
	case days <= 1:
		return recencyFresh
	case days <= 7:
		return math.Max(recencyWeekStart-(days-1)*recencyWeekRate, recencyWeekFloor)
	case days <= 30:
		rate := (recencyMonthHigh - recencyMonthLow) / 23
		return math.Max(recencyMonthHigh-(days-7)*rate, recencyMonthLow)
	default:
		return recencyFloor
	}
}

// frequencyScore normalizes an occurrence count against the maximum count
// in the current result set and blends in a logarithmic term.
func frequencyScore(count, maxCount int) float64 {
	if maxCount <= 0 || count <= 0 {
		return 0
	}
	base := float64(count) / float64(maxCount) * 100
	lg := math.Log(float64(count)+1) / math.Log(float64(maxCount)+1) * 100
	return base*freqLinearWeight + lg*freqLogWeight
}

// rank scores every candidate against the query and returns the top results
// ordered best-first. Ties break on more recent last use, then on title.
func rank(cands []candidate, trie *patricia.Trie, query string, now time.Time, p Params) []Suggestion {
	match := matchScores(cands, trie, query, p.FuzzyThreshold)

	maxCount := 0
	for i := range cands {
		if match[i] == excludedScore {
			continue
		}
		if cands[i].count > maxCount {
			maxCount = cands[i].count
		}
	}

	results := make([]Suggestion, 0, len(cands))
	for i := range cands {
		if match[i] == excludedScore {
			continue
		}
		c := &cands[i]
		recency := recencyScore(c.lastUsed, now)
		frequency := frequencyScore(c.count, maxCount)
		results = append(results, Suggestion{
			ItemID:         c.rep.ID,
			Title:          c.rep.Title,
			Description:    c.rep.Description,
			Quantity:       c.rep.Quantity,
			ImageRefs:      c.rep.ImageRefs,
			Score:          match[i]*p.MatchWeight + recency*p.RecencyWeight + frequency*p.FrequencyWeight,
			MatchScore:     match[i],
			RecencyScore:   recency,
			FrequencyScore: frequency,
			Occurrences:    c.count,
			LastUsed:       c.lastUsed,
			AvgGap:         c.avgGap(),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if !results[i].LastUsed.Equal(results[j].LastUsed) {
			return results[i].LastUsed.After(results[j].LastUsed)
		}
		return results[i].Title < results[j].Title
	})

	if p.MaxResults > 0 && len(results) > p.MaxResults {
		results = results[:p.MaxResults]
	}
	return results
}
