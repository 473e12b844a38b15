package classify

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alfierilab/ddtft/internal/domain/document"
)

func newTestClassifier() *Classifier {
	return New(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		fileName string
		want     document.Kind
	}{
		{
			name: "nota di credito in content",
			text: "NOTA DI CREDITO N. 123 del 01/02/24",
			want: document.KindCreditNote,
		},
		{
			name:     "credit note content beats invoice keywords and filename",
			text:     "FATTURA ACCOMPAGNATORIA\nNOTA DI CREDITO N. 55",
			fileName: "FTV_2024_055.pdf",
			want:     document.KindCreditNote,
		},
		{
			name: "split nota and credito tokens",
			text: "NOTA     DI\nCREDITO 2024",
			want: document.KindCreditNote,
		},
		{
			name:     "filename hint NC_",
			text:     "documento generico senza intestazione",
			fileName: "NC_703873.pdf",
			want:     document.KindCreditNote,
		},
		{
			name:     "filename hint FTV",
			text:     "documento generico senza intestazione",
			fileName: "FTV_2024_100.pdf",
			want:     document.KindInvoice,
		},
		{
			name:     "filename hint DDV",
			text:     "documento generico senza intestazione",
			fileName: "DDV_4521.pdf",
			want:     document.KindDDT,
		},
		{
			name: "documento di trasporto in content",
			text: "DOCUMENTO DI TRASPORTO\nD.D.T. N. 4521 del 15/03/24",
			want: document.KindDDT,
		},
		{
			name: "fattura immediata in content",
			text: "FATTURA IMMEDIATA N° 100 del 01/06/24",
			want: document.KindInvoice,
		},
		{
			name: "tie between invoice and ddt defaults to invoice",
			text: "FATTURA\nTRASPORTO a mezzo vettore",
			want: document.KindInvoice,
		},
		{
			name: "loose FT number when nothing else matches",
			text: "FT 703873 del 12/05/24",
			want: document.KindInvoice,
		},
		{
			name: "loose NC number when nothing else matches",
			text: "NC 703873 del 12/05/24",
			want: document.KindCreditNote,
		},
	}

	c := newTestClassifier()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Classify(tt.text, tt.fileName)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyUnrecognized(t *testing.T) {
	c := newTestClassifier()
	_, err := c.Classify("testo senza alcun segnale utile", "scan001.pdf")
	require.Error(t, err)

	var cerr *ClassificationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "scan001.pdf", cerr.FileName)
	assert.Contains(t, cerr.Error(), "scan001.pdf")
}
