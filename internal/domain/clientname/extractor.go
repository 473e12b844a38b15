package clientname

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/alfierilab/ddtft/internal/domain/document"
)

// Strategy locates the raw client-name span in a document layout. An
// empty return means the strategy does not apply; the extractor moves on
// to the next one in the chain.
type Strategy interface {
	Name() string
	Extract(lines []document.RawLine) string
}

// Extractor runs an ordered strategy chain per document kind.
type Extractor struct {
	strategies map[document.Kind][]Strategy
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewExtractor builds an Extractor with the default strategy chains:
// DDT layouts are anchored on the transport-header row, invoices and
// credit notes on the "Spett.le" block, and both fall back to the
// two-column customer header.
func NewExtractor(normalizer *Normalizer, logger *slog.Logger) *Extractor {
	ddvHeader := &TransportHeaderStrategy{}
	docNumber := &DocumentNumberStrategy{}
	spettLe := &SpettLeStrategy{}
	columns := &CustomerHeaderStrategy{}

	return &Extractor{
		strategies: map[document.Kind][]Strategy{
			document.KindDDT:        {ddvHeader, docNumber, columns, spettLe},
			document.KindInvoice:    {spettLe, docNumber, columns},
			document.KindCreditNote: {spettLe, docNumber, columns},
		},
		normalizer: normalizer,
		logger:     logger,
	}
}

// Extract returns the normalized client name, or an empty string when no
// anchor pattern matches. Callers treat an empty name as a validation
// issue, never a crash.
func (e *Extractor) Extract(kind document.Kind, lines []document.RawLine) string {
	for _, s := range e.strategies[kind] {
		raw := s.Extract(lines)
		if raw == "" {
			continue
		}
		e.logger.Debug("client name located",
			slog.String("strategy", s.Name()),
			slog.String("raw", raw),
		)
		return e.normalizer.Normalize(raw)
	}
	return ""
}

// transportHeaderRow matches the DDV header: number, date, page, client
// code (e.g. "4521 19/05/25 1 20322"). The client name is printed on the
// following non-empty line.
var transportHeaderRow = regexp.MustCompile(`^(\d{4})\s+(\d{1,2}/\d{2}/\d{2})\s+(\d+)\s+(\d{4,5})$`)

// TransportHeaderStrategy anchors on the DDV header row.
type TransportHeaderStrategy struct{}

func (s *TransportHeaderStrategy) Name() string { return "transport_header" }

func (s *TransportHeaderStrategy) Extract(lines []document.RawLine) string {
	for i, line := range lines {
		if !transportHeaderRow.MatchString(strings.TrimSpace(line.Text)) {
			continue
		}
		for j := i + 1; j < len(lines) && j <= i+2; j++ {
			name := candidateName(lines[j].Text)
			if name != "" {
				return name
			}
		}
	}
	return ""
}

// documentNumberLine matches an invoice-style document number such as
// "4785/25/05"; the customer block follows it.
var documentNumberLine = regexp.MustCompile(`\b\d{4,6}/\d{2}/\d{2}\b`)

// DocumentNumberStrategy anchors on the document-number line.
type DocumentNumberStrategy struct{}

func (s *DocumentNumberStrategy) Name() string { return "document_number" }

func (s *DocumentNumberStrategy) Extract(lines []document.RawLine) string {
	for i, line := range lines {
		if !documentNumberLine.MatchString(line.Text) {
			continue
		}
		for j := i + 1; j < len(lines) && j <= i+3; j++ {
			name := candidateName(lines[j].Text)
			if name != "" {
				return name
			}
		}
	}
	return ""
}

// SpettLeStrategy reads the addressee block opened by "Spett.le".
type SpettLeStrategy struct{}

func (s *SpettLeStrategy) Name() string { return "spett_le" }

var spettLe = regexp.MustCompile(`(?i)Spett\.?le`)

func (s *SpettLeStrategy) Extract(lines []document.RawLine) string {
	for i, line := range lines {
		if !spettLe.MatchString(line.Text) {
			continue
		}
		// Name may share the label's line or sit below it.
		rest := strings.TrimSpace(spettLe.ReplaceAllString(line.Text, ""))
		if name := candidateName(rest); name != "" {
			return name
		}
		for j := i + 1; j < len(lines) && j <= i+4; j++ {
			name := candidateName(lines[j].Text)
			if name != "" {
				return name
			}
		}
	}
	return ""
}

// CustomerHeaderStrategy reads the two-column "Cliente / Luogo di
// consegna" header: the next line carries the customer name, possibly
// mirrored in both columns.
type CustomerHeaderStrategy struct{}

func (s *CustomerHeaderStrategy) Name() string { return "customer_header" }

func (s *CustomerHeaderStrategy) Extract(lines []document.RawLine) string {
	for i, line := range lines {
		lower := strings.ToLower(line.Text)
		if !strings.Contains(lower, "cliente") || !strings.Contains(lower, "luogo di consegna") {
			continue
		}
		for j := i + 1; j < len(lines) && j <= i+2; j++ {
			name := candidateName(lines[j].Text)
			if name != "" {
				return name
			}
		}
	}
	return ""
}

var cityLine = regexp.MustCompile(`\d{5}\s+[A-Z]`)

// candidateName filters a line down to a plausible customer name,
// rejecting labels, contact rows and address rows.
func candidateName(text string) string {
	t := strings.TrimSpace(text)
	if len(t) <= 3 {
		return ""
	}
	lower := strings.ToLower(t)
	switch {
	case strings.Contains(lower, "luogo di consegna"),
		strings.Contains(lower, "consegna"),
		strings.Contains(lower, "tel."),
		strings.Contains(lower, "fax"),
		strings.Contains(lower, "www."),
		strings.Contains(lower, "p.iva"),
		strings.Contains(lower, "partita iva"):
		return ""
	}
	if cityLine.MatchString(t) {
		return ""
	}
	if isStreetLine(t) {
		return ""
	}
	// Two-column rows mirror the name around a separator.
	if idx := strings.Index(t, " / "); idx > 0 {
		t = strings.TrimSpace(t[:idx])
	}
	return t
}

var streetPrefix = regexp.MustCompile(`(?i)^(VIA|V\.LE|VIALE|CORSO|C\.SO|PIAZZA|P\.ZA|STRADA|LOC\.|LOCALITA'?|FRAZ\.|FRAZIONE)\s`)

func isStreetLine(t string) bool {
	return streetPrefix.MatchString(t)
}
