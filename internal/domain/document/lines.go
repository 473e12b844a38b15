package document

import (
	"sort"
	"strings"
)

// SplitLines tokenizes a raw text blob into ordered lines. Trailing
// whitespace is trimmed but blank lines are kept: the item parser uses
// them as block boundaries.
func SplitLines(text string) []RawLine {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	lines := make([]RawLine, len(raw))
	for i, t := range raw {
		lines[i] = RawLine{Text: strings.TrimRight(t, " \t"), Index: i}
	}
	return lines
}

// LinesFromTokens builds positioned lines from per-row token groups, as
// delivered by a layout-aware text extractor. Tokens within a row are
// ordered by x coordinate and joined to form the line text.
func LinesFromTokens(rows [][]PositionedToken) []RawLine {
	lines := make([]RawLine, len(rows))
	for i, row := range rows {
		sorted := make([]PositionedToken, len(row))
		copy(sorted, row)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a].X < sorted[b].X })

		parts := make([]string, 0, len(sorted))
		for _, tok := range sorted {
			if t := strings.TrimSpace(tok.Text); t != "" {
				parts = append(parts, t)
			}
		}
		lines[i] = RawLine{
			Text:   strings.Join(parts, " "),
			Tokens: sorted,
			Index:  i,
		}
	}
	return lines
}

// SplitColumns partitions a positioned line into left and right column
// text at the given x threshold. The second value is false when the line
// carries no position metadata.
func (l RawLine) SplitColumns(threshold float64) (left, right string, ok bool) {
	if !l.HasPosition() {
		return "", "", false
	}
	var lparts, rparts []string
	for _, tok := range l.Tokens {
		t := strings.TrimSpace(tok.Text)
		if t == "" {
			continue
		}
		if tok.X < threshold {
			lparts = append(lparts, t)
		} else {
			rparts = append(rparts, t)
		}
	}
	return strings.Join(lparts, " "), strings.Join(rparts, " "), true
}
