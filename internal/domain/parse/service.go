// Package parse assembles the full document pipeline: classification,
// client identification, delivery address resolution, line items and
// totals. All collaborators are injected; the service keeps no per-call
// state, so one instance serves concurrent parses.
package parse

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alfierilab/ddtft/internal/domain/address"
	"github.com/alfierilab/ddtft/internal/domain/alias"
	"github.com/alfierilab/ddtft/internal/domain/classify"
	"github.com/alfierilab/ddtft/internal/domain/clientname"
	"github.com/alfierilab/ddtft/internal/domain/document"
	"github.com/alfierilab/ddtft/internal/domain/items"
	"github.com/alfierilab/ddtft/internal/domain/totals"
)

// Input is one document to parse. Positions, when available from the
// extraction layer, enable the layout-aware address strategies; Text
// alone still parses with the textual fallbacks.
type Input struct {
	Text      string
	FileName  string
	Positions [][]document.PositionedToken
}

// Service runs the pipeline.
type Service struct {
	classifier *classify.Classifier
	extractor  *clientname.Extractor
	aliases    *alias.Resolver
	addresses  *address.Resolver
	items      *items.Parser
	totals     *totals.Reconciler
	logger     *slog.Logger
}

// New wires the pipeline from its stages.
func New(
	classifier *classify.Classifier,
	extractor *clientname.Extractor,
	aliases *alias.Resolver,
	addresses *address.Resolver,
	itemParser *items.Parser,
	reconciler *totals.Reconciler,
	logger *slog.Logger,
) *Service {
	return &Service{
		classifier: classifier,
		extractor:  extractor,
		aliases:    aliases,
		addresses:  addresses,
		items:      itemParser,
		totals:     reconciler,
		logger:     logger,
	}
}

var (
	documentNumber = regexp.MustCompile(`(?i)(?:DDT|D\.D\.T\.|FATTURA|FT|NOTA\s+DI\s+CREDITO|NC|Documento)(?:\s+(?:ACCOMPAGNATORIA|IMMEDIATA|DIFFERITA|DI\s+TRASPORTO))?\s*(?:n\.?|nr\.?|numero)?\s*[::]?\s*(\d{1,6}(?:/\d{1,4})?)`)
	headerNumber   = regexp.MustCompile(`^(\d{4})\s+(\d{1,2}/\d{2}/\d{2})\s+\d+\s+\d{4,5}$`)
	datePattern    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2}(?:\d{2})?)\b`)
	vatNumber      = regexp.MustCompile(`(?i)P(?:artita)?\.?\s*IVA\s*[::]?\s*(\d{11})`)
	orderReference = regexp.MustCompile(`(?i)(?:ODV|Rif\.?\s*Ordine|Vs\.?\s*Ordine|Ordine\s+(?:n\.?|nr\.?))\s*[::]?\s*([A-Z0-9][A-Z0-9/\-]{2,20})`)
)

// Parse runs the full pipeline. Classification failure is the only hard
// error; every other missing piece degrades to a warning on the
// resulting document.
func (s *Service) Parse(ctx context.Context, in Input) (*document.ParsedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kind, err := s.classifier.Classify(in.Text, in.FileName)
	if err != nil {
		return nil, err
	}

	lines := document.SplitLines(in.Text)
	if len(in.Positions) > 0 {
		lines = document.LinesFromTokens(in.Positions)
	}

	doc := &document.ParsedDocument{
		ID:         uuid.New(),
		Kind:       kind,
		FileName:   in.FileName,
		ImportedAt: time.Now().UTC(),
	}

	s.fillHeader(doc, lines)

	name := s.extractor.Extract(kind, lines)
	if name == "" {
		doc.AddWarning("client name not found")
	} else {
		doc.Client.CanonicalName = name
		if m, ok := s.aliases.Resolve(name); ok {
			doc.Client.CanonicalName = m.Canonical
			doc.Client.Code = m.Code
			if doc.Client.VATNumber == "" {
				doc.Client.VATNumber = m.VATNumber
			}
			s.logger.Debug("client resolved",
				slog.String("input", name),
				slog.String("canonical", m.Canonical),
				slog.String("tier", string(m.Tier)),
			)
		}
	}

	addr := s.addresses.Resolve(address.Input{
		Lines:        lines,
		ClientName:   doc.Client.CanonicalName,
		ClientCode:   doc.Client.Code,
		ClientAnchor: anchorLine(lines, doc.Client.CanonicalName),
	})
	doc.DeliveryAddr = addr
	if addr == nil {
		s.logger.Debug("no delivery address resolved", slog.String("file", in.FileName))
	}

	doc.Items = s.items.Parse(lines)
	if len(doc.Items) == 0 && kind != document.KindCreditNote {
		doc.AddWarning("no line items recognised")
	}

	res := s.totals.Reconcile(doc.Items, in.Text)
	doc.Subtotal = res.Subtotal
	doc.VATTotal = res.VATTotal
	doc.Total = res.Total
	doc.VATBreakdown = res.Breakdown
	if res.Warning != "" {
		doc.AddWarning(res.Warning)
	}

	return doc, nil
}

// fillHeader extracts number, date, VAT number and order reference. The
// order reference is deliberately matched by its own labels only: it
// must never be backfilled from the document number or vice versa.
func (s *Service) fillHeader(doc *document.ParsedDocument, lines []document.RawLine) {
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if doc.Number == "" {
			if m := headerNumber.FindStringSubmatch(text); m != nil {
				doc.Number = m[1]
				if doc.Date.IsZero() {
					doc.Date = parseDate(m[2])
				}
				continue
			}
			if m := documentNumber.FindStringSubmatch(text); m != nil {
				doc.Number = m[1]
			}
		}
		if doc.Date.IsZero() {
			if m := datePattern.FindStringSubmatch(text); m != nil {
				doc.Date = parseDate(m[0])
			}
		}
		if doc.Client.VATNumber == "" {
			if m := vatNumber.FindStringSubmatch(text); m != nil {
				doc.Client.VATNumber = m[1]
			}
		}
		if doc.OrderReference == "" {
			if m := orderReference.FindStringSubmatch(text); m != nil {
				doc.OrderReference = m[1]
			}
		}
	}
	if doc.Number == "" {
		doc.AddWarning("document number not found")
	}
	if doc.Date.IsZero() {
		doc.AddWarning("document date not found")
	}
}

// parseDate accepts dd/mm/yy and dd/mm/yyyy; two-digit years are in the
// 2000s.
func parseDate(s string) time.Time {
	m := datePattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}
	}
	layout := "2/1/2006"
	if len(m[3]) == 2 {
		layout = "2/1/06"
	}
	t, err := time.Parse(layout, fmt.Sprintf("%s/%s/%s", m[1], m[2], m[3]))
	if err != nil {
		return time.Time{}
	}
	return t
}

// anchorLine finds the line carrying the client name, used to scope the
// proximity address strategy. -1 when not located.
func anchorLine(lines []document.RawLine, name string) int {
	if name == "" {
		return -1
	}
	probe := strings.ToUpper(strings.Fields(name)[0])
	if len(probe) < 4 {
		probe = strings.ToUpper(name)
	}
	for i, line := range lines {
		if strings.Contains(strings.ToUpper(line.Text), probe) {
			return i
		}
	}
	return -1
}
