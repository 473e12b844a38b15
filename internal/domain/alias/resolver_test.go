package alias

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfierilab/ddtft/pkg/tables"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func staticLoader(rows []tables.ClientAlias) Loader {
	return func() ([]tables.ClientAlias, error) { return rows, nil }
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := NewResolver(staticLoader(tables.DefaultClientAliases()), time.Hour, 70, discardLogger())
	require.NoError(t, err)
	return r
}

func TestResolveExact(t *testing.T) {
	r := newTestResolver(t)

	m, ok := r.Resolve("DONAC S.R.L.")
	require.True(t, ok)
	assert.Equal(t, TierExact, m.Tier)
	assert.Equal(t, "Donac", m.Canonical)
	assert.Equal(t, "20322", m.Code)
	assert.Equal(t, 100, m.Score)
}

func TestResolveExactIsCaseInsensitive(t *testing.T) {
	r := newTestResolver(t)

	m, ok := r.Resolve("donac s.r.l.")
	require.True(t, ok)
	assert.Equal(t, TierExact, m.Tier)
	assert.Equal(t, "Donac", m.Canonical)
}

func TestResolveGeneratedVariants(t *testing.T) {
	r := newTestResolver(t)

	// Dot-stripped variant of "DONAC S.R.L.".
	m, ok := r.Resolve("DONAC SRL")
	require.True(t, ok)
	assert.Equal(t, "Donac", m.Canonical)

	// Leading-words variant of a long alias.
	m, ok = r.Resolve("PIEMONTE CARNI DI")
	require.True(t, ok)
	assert.Equal(t, "Piemonte Carni", m.Canonical)
}

func TestResolvePartialContainment(t *testing.T) {
	r := newTestResolver(t)

	m, ok := r.Resolve("SPETT.LE DONAC S.R.L. FILIALE DI SAVIGLIANO")
	require.True(t, ok)
	assert.Equal(t, TierPartial, m.Tier)
	assert.Equal(t, "Donac", m.Canonical)
	assert.GreaterOrEqual(t, m.Score, 75)
}

func TestResolveFuzzy(t *testing.T) {
	r := newTestResolver(t)

	// One transposition away from "ESSEMME".
	m, ok := r.Resolve("ESSEME")
	require.True(t, ok)
	assert.Equal(t, "Esse Emme", m.Canonical)
	assert.NotEqual(t, TierExact, m.Tier)
	assert.GreaterOrEqual(t, m.Score, 70)
}

func TestResolveNoMatch(t *testing.T) {
	r := newTestResolver(t)

	_, ok := r.Resolve("FORNITORE COMPLETAMENTE SCONOSCIUTO XYZ")
	assert.False(t, ok)

	_, ok = r.Resolve("   ")
	assert.False(t, ok)
}

func TestRefreshSwapsSnapshot(t *testing.T) {
	rows := []tables.ClientAlias{{Alias: "VECCHIO", Canonical: "Vecchio"}}
	loader := func() ([]tables.ClientAlias, error) { return rows, nil }

	r, err := NewResolver(loader, time.Hour, 70, discardLogger())
	require.NoError(t, err)

	_, ok := r.Resolve("NUOVO")
	assert.False(t, ok)

	rows = []tables.ClientAlias{{Alias: "NUOVO", Canonical: "Nuovo"}}
	require.NoError(t, r.Refresh())

	m, ok := r.Resolve("NUOVO")
	require.True(t, ok)
	assert.Equal(t, "Nuovo", m.Canonical)
}

func TestExpiredSnapshotRefreshesOnResolve(t *testing.T) {
	calls := 0
	loader := func() ([]tables.ClientAlias, error) {
		calls++
		return []tables.ClientAlias{{Alias: "DONAC", Canonical: "Donac"}}, nil
	}

	r, err := NewResolver(loader, 0, 70, discardLogger())
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	_, ok := r.Resolve("DONAC")
	assert.True(t, ok)
	assert.Equal(t, 2, calls)
}

func TestRefreshFailureKeepsStaleSnapshot(t *testing.T) {
	failing := false
	loader := func() ([]tables.ClientAlias, error) {
		if failing {
			return nil, errors.New("table unavailable")
		}
		return []tables.ClientAlias{{Alias: "DONAC", Canonical: "Donac"}}, nil
	}

	r, err := NewResolver(loader, 0, 70, discardLogger())
	require.NoError(t, err)

	failing = true
	m, ok := r.Resolve("DONAC")
	require.True(t, ok)
	assert.Equal(t, "Donac", m.Canonical)
}

func TestAliasCountIncludesVariants(t *testing.T) {
	r, err := NewResolver(staticLoader([]tables.ClientAlias{
		{Alias: "DONAC S.R.L.", Canonical: "Donac"},
	}), time.Hour, 70, discardLogger())
	require.NoError(t, err)

	// Alias, canonical and the dot-stripped variant at minimum.
	assert.GreaterOrEqual(t, r.AliasCount(), 3)
}
