// Package clientname locates and normalizes the customer name printed on
// a document. Upstream text extraction doubles or abbreviates names
// ("DONAC S.R.L. DONAC S.R.L.", "s.m.", "d di domodossola"), so the
// normalizer runs an ordered pipeline of idempotent stages: repeated-span
// collapse, abbreviation expansion, canonical alias lookup and smart
// capitalization.
package clientname

import (
	"regexp"
	"strings"

	"github.com/alfierilab/ddtft/pkg/tables"
)

// Corporate-suffix and agency abbreviations expanded before alias lookup.
var abbreviations = map[string]string{
	"srl":    "S.R.L.",
	"s.r.l":  "S.R.L.",
	"spa":    "S.P.A.",
	"s.p.a":  "S.P.A.",
	"snc":    "S.N.C.",
	"s.n.c":  "S.N.C.",
	"sas":    "S.A.S.",
	"s.a.s":  "S.A.S.",
	"az.":    "AZIENDA",
	"agr.":   "AGRICOLA",
	"coop":   "COOPERATIVA",
	"s.m.":   "ESSE EMME",
	"sm":     "ESSE EMME",
	"s.s.s.": "ESSE ESSE ESSE",
	"sss":    "ESSE ESSE ESSE",
}

// Italian phonetic-alphabet spellings dictated over the phone and
// transcribed verbatim by the upstream extractor.
var phoneticWords = map[string]string{
	"ancona": "A", "bologna": "B", "como": "C", "domodossola": "D",
	"empoli": "E", "firenze": "F", "genova": "G", "hotel": "H",
	"imola": "I", "livorno": "L", "milano": "M", "napoli": "N",
	"otranto": "O", "palermo": "P", "quadro": "Q", "roma": "R",
	"savona": "S", "torino": "T", "udine": "U", "venezia": "V",
	"zara": "Z",
}

var phoneticPattern = regexp.MustCompile(`(?i)\b([a-z])\s+(?:di|come)\s+([a-z]+)\b`)

// Connectives that stay lower-case unless they open the name.
var connectives = map[string]bool{
	"di": true, "dei": true, "del": true, "della": true, "delle": true,
	"da": true, "e": true, "il": true, "la": true, "lo": true,
	"gli": true, "le": true,
}

// Corporate forms kept fully upper-case.
var upperForms = map[string]bool{
	"srl": true, "spa": true, "snc": true, "sas": true, "ss": true,
	"sc": true, "dop": true, "igp": true, "doc": true, "iva": true,
}

// Normalizer canonicalizes raw client names.
type Normalizer struct {
	aliases []tables.ClientAlias
}

// NewNormalizer builds a Normalizer over the injected alias table. A nil
// table disables the canonical-alias stage.
func NewNormalizer(aliases []tables.ClientAlias) *Normalizer {
	return &Normalizer{aliases: aliases}
}

// Normalize runs the full pipeline. It is idempotent:
// Normalize(Normalize(x)) == Normalize(x).
func (n *Normalizer) Normalize(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	s = CollapseRepeats(s)
	s = expandPhonetic(s)
	s = expandAbbreviations(s)
	s = collapseSpaces(s)
	if canonical, ok := n.lookupAlias(s); ok {
		return canonical
	}
	return SmartCapitalize(s)
}

// CollapseRepeats removes a repeated trailing span of 1 to 3 tokens, and
// the full doubled-name case where the second half of the tokens equals
// the first half.
func CollapseRepeats(s string) string {
	for {
		tokens := strings.Fields(s)
		if len(tokens) < 2 {
			return s
		}

		collapsed := false

		// Doubled whole name: "STIG SRL STIG SRL".
		if len(tokens)%2 == 0 {
			half := len(tokens) / 2
			if equalSpan(tokens[:half], tokens[half:]) {
				s = strings.Join(tokens[:half], " ")
				collapsed = true
			}
		}

		// Repeated trailing span of up to 3 tokens.
		if !collapsed {
			for span := 3; span >= 1; span-- {
				if len(tokens) < 2*span {
					continue
				}
				tail := tokens[len(tokens)-span:]
				prev := tokens[len(tokens)-2*span : len(tokens)-span]
				if equalSpan(tail, prev) {
					s = strings.Join(tokens[:len(tokens)-span], " ")
					collapsed = true
					break
				}
			}
		}

		if !collapsed {
			return s
		}
	}
}

func equalSpan(a, b []string) bool {
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}

func expandPhonetic(s string) string {
	return phoneticPattern.ReplaceAllStringFunc(s, func(m string) string {
		sub := phoneticPattern.FindStringSubmatch(m)
		if letter, ok := phoneticWords[strings.ToLower(sub[2])]; ok {
			if strings.EqualFold(sub[1], letter) {
				return letter
			}
		}
		return m
	})
}

func expandAbbreviations(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		key := strings.ToLower(strings.TrimSuffix(tok, "."))
		if exp, ok := abbreviations[key]; ok {
			tokens[i] = exp
			continue
		}
		if exp, ok := abbreviations[strings.ToLower(tok)]; ok {
			tokens[i] = exp
		}
	}
	return strings.Join(tokens, " ")
}

// lookupAlias resolves the fixed canonical map with three tiers: exact,
// case-insensitive exact, then substring containment. The first tier that
// matches wins.
func (n *Normalizer) lookupAlias(s string) (string, bool) {
	for _, a := range n.aliases {
		if s == a.Alias {
			return a.Canonical, true
		}
	}
	for _, a := range n.aliases {
		if strings.EqualFold(s, a.Alias) {
			return a.Canonical, true
		}
	}
	upper := strings.ToUpper(s)
	for _, a := range n.aliases {
		ua := strings.ToUpper(a.Alias)
		if strings.Contains(upper, ua) || strings.Contains(ua, upper) {
			return a.Canonical, true
		}
	}
	// Already-canonical names pass through unchanged.
	for _, a := range n.aliases {
		if strings.EqualFold(s, a.Canonical) {
			return a.Canonical, true
		}
	}
	return "", false
}

// SmartCapitalize title-cases a company name: the first token and regular
// words are title-cased, short all-letter tokens and corporate forms stay
// upper-case, Italian connectives stay lower-case.
func SmartCapitalize(s string) string {
	tokens := strings.Fields(s)
	for i, tok := range tokens {
		lower := strings.ToLower(tok)
		bare := strings.ReplaceAll(lower, ".", "")

		switch {
		case i == 0:
			tokens[i] = titleCaseToken(tok)
		case connectives[lower]:
			tokens[i] = lower
		case upperForms[bare]:
			tokens[i] = strings.ToUpper(tok)
		case len(tok) <= 3 && isLetters(tok):
			tokens[i] = strings.ToUpper(tok)
		default:
			tokens[i] = titleCaseToken(tok)
		}
	}
	return strings.Join(tokens, " ")
}

func titleCaseToken(tok string) string {
	bare := strings.ReplaceAll(strings.ToLower(tok), ".", "")
	if upperForms[bare] {
		return strings.ToUpper(tok)
	}
	r := []rune(tok)
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

func isLetters(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
