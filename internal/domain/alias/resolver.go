// Package alias resolves normalized-but-variant client spellings to one
// canonical client identity. The alias table is the only cross-document
// state in the parsing core: it is loaded at startup into an immutable
// snapshot swapped atomically on refresh, so concurrent parses always
// read a consistent table and nothing mutates mid-parse.
package alias

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alfierilab/ddtft/pkg/tables"
)

// Tier identifies which matching tier produced a resolution.
type Tier string

const (
	TierExact   Tier = "exact"
	TierPartial Tier = "partial"
	TierFuzzy   Tier = "fuzzy"
)

// Match is a resolved client identity.
type Match struct {
	Input     string
	Canonical string
	Code      string
	VATNumber string
	Tier      Tier
	Score     int
}

// Loader supplies the alias table; pkg/tables provides the CSV-backed
// implementation.
type Loader func() ([]tables.ClientAlias, error)

type entry struct {
	alias     string // case-folded
	canonical string
	code      string
	vatNumber string
	variant   bool
}

type snapshot struct {
	exact   map[string]entry
	entries []entry
	builtAt time.Time
}

// Resolver maps raw client names to canonical identities with
// exact, partial and fuzzy tiers.
type Resolver struct {
	loader    Loader
	ttl       time.Duration
	threshold int
	logger    *slog.Logger

	snap      atomic.Pointer[snapshot]
	refreshMu sync.Mutex
}

// NewResolver loads the initial snapshot and returns a Resolver.
// threshold is the minimum fuzzy similarity score (0-100) accepted by the
// fuzzy tier.
func NewResolver(loader Loader, ttl time.Duration, threshold int, logger *slog.Logger) (*Resolver, error) {
	r := &Resolver{loader: loader, ttl: ttl, threshold: threshold, logger: logger}
	if err := r.Refresh(); err != nil {
		return nil, fmt.Errorf("initial alias load: %w", err)
	}
	return r, nil
}

// Refresh rebuilds the snapshot from the loader and swaps it in
// atomically. In-flight resolutions keep reading the snapshot they
// started with.
func (r *Resolver) Refresh() error {
	r.refreshMu.Lock()
	defer r.refreshMu.Unlock()

	rows, err := r.loader()
	if err != nil {
		return err
	}
	r.snap.Store(buildSnapshot(rows))
	r.logger.Debug("alias table refreshed", slog.Int("aliases", len(rows)))
	return nil
}

// Resolve maps name to its canonical identity. The snapshot is taken once
// per call; a stale-but-expired snapshot is refreshed first, best-effort.
func (r *Resolver) Resolve(name string) (*Match, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}

	s := r.snap.Load()
	if time.Since(s.builtAt) > r.ttl {
		if err := r.Refresh(); err != nil {
			r.logger.Warn("alias refresh failed, using stale snapshot", slog.Any("error", err))
		}
		s = r.snap.Load()
	}

	folded := strings.ToLower(name)

	// Tier 1: exact.
	if e, ok := s.exact[folded]; ok {
		return matchFrom(name, e, TierExact, 100), true
	}

	// Tier 2: partial containment, best length-ratio wins.
	var best *Match
	for _, e := range s.entries {
		if !strings.Contains(folded, e.alias) && !strings.Contains(e.alias, folded) {
			continue
		}
		score := containmentScore(folded, e.alias)
		if best == nil || score > best.Score {
			best = matchFrom(name, e, TierPartial, score)
		}
	}
	if best != nil {
		return best, true
	}

	// Tier 3: fuzzy.
	for _, e := range s.entries {
		score := similarity(folded, e.alias)
		if score < r.threshold {
			continue
		}
		if best == nil || score > best.Score {
			best = matchFrom(name, e, TierFuzzy, score)
		}
	}
	if best != nil {
		r.logger.Debug("fuzzy alias resolution",
			slog.String("input", name),
			slog.String("canonical", best.Canonical),
			slog.Int("score", best.Score),
		)
		return best, true
	}
	return nil, false
}

// AliasCount returns the number of aliases in the current snapshot,
// generated variants included.
func (r *Resolver) AliasCount() int {
	return len(r.snap.Load().entries)
}

func matchFrom(input string, e entry, tier Tier, score int) *Match {
	return &Match{
		Input:     input,
		Canonical: e.canonical,
		Code:      e.code,
		VATNumber: e.vatNumber,
		Tier:      tier,
		Score:     score,
	}
}

func buildSnapshot(rows []tables.ClientAlias) *snapshot {
	s := &snapshot{
		exact:   make(map[string]entry, len(rows)*4),
		builtAt: time.Now(),
	}

	add := func(alias string, row tables.ClientAlias, variant bool) {
		folded := strings.ToLower(strings.TrimSpace(alias))
		if folded == "" {
			return
		}
		if _, exists := s.exact[folded]; exists {
			return
		}
		e := entry{
			alias:     folded,
			canonical: row.Canonical,
			code:      row.Code,
			vatNumber: row.VATNumber,
			variant:   variant,
		}
		s.exact[folded] = e
		s.entries = append(s.entries, e)
	}

	for _, row := range rows {
		add(row.Alias, row, false)
		add(row.Canonical, row, true)
		for _, v := range nameVariants(row.Alias) {
			add(v, row, true)
		}
	}
	return s
}

// nameVariants generates the spellings the upstream extraction commonly
// produces for one alias: dots stripped, corporate suffix collapsed, and
// the leading words of very long names.
func nameVariants(alias string) []string {
	var out []string
	if v := strings.ReplaceAll(alias, ".", ""); v != alias {
		out = append(out, v)
	}
	collapsed := strings.NewReplacer(
		"S.R.L.", "SRL",
		"S.P.A.", "SPA",
		"S.N.C.", "SNC",
		"S.A.S.", "SAS",
	).Replace(alias)
	if collapsed != alias {
		out = append(out, collapsed)
	}
	if words := strings.Fields(alias); len(words) > 3 {
		out = append(out, strings.Join(words[:3], " "))
	}
	return out
}

func containmentScore(a, b string) int {
	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}
	if len(longer) == 0 {
		return 0
	}
	return 75 + 25*len(shorter)/len(longer)
}
