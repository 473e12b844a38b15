package items

import (
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfierilab/ddtft/internal/domain/document"
	"github.com/alfierilab/ddtft/pkg/tables"
)

func newTestParser() *Parser {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(tables.DefaultArticleCodes(), 0.001, logger)
}

func parseText(t *testing.T, text string) []document.LineItem {
	t.Helper()
	return newTestParser().Parse(document.SplitLines(text))
}

func TestParseRowWithDiscountColumn(t *testing.T) {
	items := parseText(t, "060041 AGNOLOTTI BRASATO CARNE LC 250 G PZ 120 1,9000 15,00 193,80 10 00\n")
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "060041", it.Code)
	assert.Equal(t, "AGNOLOTTI BRASATO CARNE LC 250 G", it.Description)
	assert.Equal(t, "PZ", it.Unit)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(120)))
	assert.True(t, it.UnitPrice.Equal(decimal.RequireFromString("1.9")))
	assert.True(t, it.DiscountPercent.Equal(decimal.NewFromInt(15)))
	assert.False(t, it.DiscountInferred)
	assert.True(t, it.LineTotal.Equal(decimal.RequireFromString("193.8")))
	assert.Equal(t, 10, it.VATRate)
}

func TestParseRowWithoutDiscountColumn(t *testing.T) {
	items := parseText(t, "200016 TAJARIN UOVO KG 5 12,5000 62,50 4\n")
	require.Len(t, items, 1)

	it := items[0]
	assert.Equal(t, "200016", it.Code)
	assert.Equal(t, "TAJARIN UOVO", it.Description)
	assert.Equal(t, "KG", it.Unit)
	assert.True(t, it.Quantity.Equal(decimal.NewFromInt(5)))
	assert.True(t, it.DiscountPercent.IsZero())
	assert.False(t, it.DiscountInferred)
	assert.True(t, it.LineTotal.Equal(decimal.RequireFromString("62.5")))
	assert.Equal(t, 4, it.VATRate)
}

func TestParseRowInfersImplicitDiscount(t *testing.T) {
	// 10 * 10,00 = 100,00 but the printed total is 90,00.
	items := parseText(t, "070017 GRISSINI STIRATI CF 10 10,0000 90,00 22\n")
	require.Len(t, items, 1)

	it := items[0]
	assert.True(t, it.DiscountInferred)
	assert.True(t, it.DiscountPercent.Equal(decimal.NewFromInt(10)))
	assert.True(t, it.LineTotal.Equal(decimal.NewFromInt(90)))
}

func TestParseRoundingNoiseIsNotADiscount(t *testing.T) {
	// 3 * 1,6650 = 4,995, printed as 5,00.
	items := parseText(t, "070056 PLIN RICOTTA SPINACI PZ 3 1,6650 5,00 10\n")
	require.Len(t, items, 1)
	assert.False(t, items[0].DiscountInferred)
	assert.True(t, items[0].DiscountPercent.IsZero())
}

func TestParseUnitAnchorsOnLastUnitToken(t *testing.T) {
	// "KG" inside the description must not end the description early.
	items := parseText(t, "200523 FORMAGGIO STAGIONATO KG INTERO PZ 2 18,0000 36,00 4\n")
	require.Len(t, items, 1)
	assert.Equal(t, "FORMAGGIO STAGIONATO KG INTERO", items[0].Description)
	assert.Equal(t, "PZ", items[0].Unit)
}

func TestParseStopsAtTotalsBlock(t *testing.T) {
	items := parseText(t,
		"200016 TAJARIN UOVO KG 5 12,5000 62,50 4\n"+
			"TOTALE MERCE 62,50\n"+
			"060041 AGNOLOTTI PZ 10 1,0000 10,00 10\n")
	require.Len(t, items, 1)
	assert.Equal(t, "200016", items[0].Code)
}

func TestParseStopsAtBlankLine(t *testing.T) {
	items := parseText(t,
		"200016 TAJARIN UOVO KG 5 12,5000 62,50 4\n"+
			"\n"+
			"060041 AGNOLOTTI PZ 10 1,0000 10,00 10\n")
	require.Len(t, items, 1)
	assert.Equal(t, "200016", items[0].Code)
}

func TestParseStopsAtMidLineBoundaryMarker(t *testing.T) {
	items := parseText(t,
		"200016 TAJARIN UOVO KG 5 12,5000 62,50 4\n"+
			"Riepilogo IVA Imponibile 62,50\n"+
			"060041 AGNOLOTTI PZ 10 1,0000 10,00 10\n")
	require.Len(t, items, 1)
	assert.Equal(t, "200016", items[0].Code)
}

func TestParseRejectsRowTotalBeyondOneCent(t *testing.T) {
	// 10 * 1,0000 = 10,00 but the printed total reads 10,04.
	items := parseText(t,
		"060041 AGNOLOTTI PZ 10 1,0000 0,00 10,04 10\n"+
			"200016 TAJARIN UOVO KG 5 12,5000 62,50 4\n")
	require.Len(t, items, 1)
	assert.Equal(t, "200016", items[0].Code)
}

func TestParseSkipsNonItemLines(t *testing.T) {
	items := parseText(t,
		"DOCUMENTO DI TRASPORTO\n"+
			"DONAC S.R.L.\n"+
			"VIA SALUZZO, 65\n"+
			"200016 TAJARIN UOVO KG 5 12,5000 62,50 4\n"+
			"Trasporto a mezzo vettore\n")
	require.Len(t, items, 1)
}

func TestParseItalianThousandsInQuantity(t *testing.T) {
	items := parseText(t, "PS000034 SFOGLIA FRESCA GR 1.200 0,0500 60,00 10\n")
	require.Len(t, items, 1)
	assert.True(t, items[0].Quantity.Equal(decimal.NewFromInt(1200)))
}

func TestParseNoItems(t *testing.T) {
	items := parseText(t, "testo qualunque\nsenza righe articolo\n")
	assert.Empty(t, items)
}
