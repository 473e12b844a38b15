package alias

import "github.com/lithammer/fuzzysearch/fuzzy"

// similarity scores two case-folded strings 0-100 using edit distance,
// with the fuzzy library's subsequence rank as a secondary signal for
// abbreviation-style noise ("donac" vs "d.o.n.a.c.").
func similarity(a, b string) int {
	if a == b {
		return 100
	}

	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 0
	}

	distScore := 100 * (maxLen - editDistance(a, b)) / maxLen

	rankScore := 0
	if rank := fuzzy.RankMatchFold(b, a); rank >= 0 && rank < len(a) {
		rankScore = 60 - rank*40/len(a)
	}

	if distScore > rankScore {
		return distScore
	}
	return rankScore
}

// editDistance is the Levenshtein distance computed with two rolling rows.
func editDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	ra, rb := []rune(a), []rune(b)
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
			curr[j] = minOf(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func minOf(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
