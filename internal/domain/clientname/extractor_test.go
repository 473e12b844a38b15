package clientname

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/alfierilab/ddtft/internal/domain/document"
	"github.com/alfierilab/ddtft/pkg/tables"
)

func newTestExtractor() *Extractor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewExtractor(NewNormalizer(tables.DefaultClientAliases()), logger)
}

func TestExtractDDTFromTransportHeader(t *testing.T) {
	lines := document.SplitLines(
		"DOCUMENTO DI TRASPORTO\n" +
			"4521 19/05/25 1 20322\n" +
			"DONAC S.R.L. DONAC S.R.L.\n" +
			"VIA SALUZZO, 65\n" +
			"12038 SAVIGLIANO CN\n",
	)

	got := newTestExtractor().Extract(document.KindDDT, lines)
	assert.Equal(t, "Donac", got)
}

func TestExtractDDTSkipsAddressRows(t *testing.T) {
	lines := document.SplitLines(
		"4521 19/05/25 1 20322\n" +
			"VIA SALUZZO, 65\n" +
			"DONAC S.R.L.\n",
	)

	got := newTestExtractor().Extract(document.KindDDT, lines)
	assert.Equal(t, "Donac", got)
}

func TestExtractInvoiceFromSpettLe(t *testing.T) {
	lines := document.SplitLines(
		"FATTURA IMMEDIATA\n" +
			"Spett.le\n" +
			"BARISONE & BALDON S.R.L.\n" +
			"CORSO ALBA, 12\n",
	)

	got := newTestExtractor().Extract(document.KindInvoice, lines)
	assert.Equal(t, "Barisone E Baldon", got)
}

func TestExtractInvoiceNameOnLabelLine(t *testing.T) {
	lines := document.SplitLines("Spett.le MAROTTA S.R.L.\nVIA CUNEO 3\n")

	got := newTestExtractor().Extract(document.KindInvoice, lines)
	assert.Equal(t, "Marotta", got)
}

func TestExtractMirroredTwoColumnName(t *testing.T) {
	lines := document.SplitLines(
		"Cliente                 Luogo di consegna\n" +
			"IL GUSTO FRUTTA E VERDURA / IL GUSTO FRUTTA E VERDURA\n",
	)

	got := newTestExtractor().Extract(document.KindDDT, lines)
	assert.Equal(t, "Il Gusto", got)
}

func TestExtractNothingFound(t *testing.T) {
	lines := document.SplitLines("solo testo di corpo\nsenza alcuna intestazione\n")
	assert.Empty(t, newTestExtractor().Extract(document.KindInvoice, lines))
}
