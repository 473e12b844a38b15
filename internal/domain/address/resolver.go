// Package address locates the recipient delivery address on a document,
// keeping it distinct from the sender's own printed address. Documents
// print the customer's registered seat and the delivery destination in
// two physically adjacent columns, so extraction runs a fixed chain of
// independent strategies, from layout-aware (x coordinates) down to loose
// regex fallbacks. The chain order is a contract: the first candidate
// that survives validation wins, and a missing address is a normal
// outcome, not an error.
package address

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/alfierilab/ddtft/internal/domain/document"
	"github.com/alfierilab/ddtft/pkg/tables"
)

// Input carries what the strategies need from the rest of the parse.
type Input struct {
	Lines      []document.RawLine
	ClientName string
	ClientCode string
	// ClientAnchor is the line index where the client name was found,
	// -1 when unknown.
	ClientAnchor int
}

// Strategy proposes zero or more candidate addresses. Candidates are
// validated by the resolver in the order proposed.
type Strategy interface {
	Name() string
	Candidates(in Input) []document.Address
}

// Resolver runs the strategy chain.
type Resolver struct {
	strategies []Strategy
	validator  *Validator
	logger     *slog.Logger
}

// Options tunes the resolver.
type Options struct {
	// ColumnXThreshold separates the sender/client column from the
	// delivery column. Empirically calibrated on the source layouts;
	// revisit for new document templates.
	ColumnXThreshold float64
	// FixedAddresses enables the per-client fallback table. Off by
	// default: addresses should come from the document itself.
	FixedAddresses []tables.FixedAddress
}

// NewResolver builds the default chain in its contractual order.
func NewResolver(validator *Validator, opts Options, logger *slog.Logger) *Resolver {
	strategies := []Strategy{
		&TwoColumnStrategy{Threshold: opts.ColumnXThreshold},
		&LabeledFieldStrategy{},
		&ProximityStrategy{},
		&DualAddressLineStrategy{},
		&GapColumnStrategy{},
		&LooseScanStrategy{},
	}
	if len(opts.FixedAddresses) > 0 {
		strategies = append(strategies, &FixedAddressStrategy{Table: opts.FixedAddresses})
	}
	return &Resolver{strategies: strategies, validator: validator, logger: logger}
}

// Resolve returns the delivery address, or nil when no strategy produces
// a valid candidate. Callers must treat nil as an incomplete-but-valid
// document.
func (r *Resolver) Resolve(in Input) *document.Address {
	for _, s := range r.strategies {
		for _, cand := range s.Candidates(in) {
			cand := cand
			if r.validator.Validate(&cand) {
				r.logger.Debug("delivery address resolved",
					slog.String("strategy", s.Name()),
					slog.String("street", cand.Street),
				)
				return &cand
			}
			r.logger.Debug("candidate discarded",
				slog.String("strategy", s.Name()),
				slog.String("street", cand.Street),
			)
		}
	}
	return nil
}

// TwoColumnStrategy splits positioned rows at the x threshold and reads
// the right (delivery) column: a street row followed by a postal-code
// row.
type TwoColumnStrategy struct {
	Threshold float64
}

func (s *TwoColumnStrategy) Name() string { return "two_column" }

func (s *TwoColumnStrategy) Candidates(in Input) []document.Address {
	var out []document.Address
	for i, line := range in.Lines {
		if !line.HasPosition() {
			continue
		}
		_, right, _ := line.SplitColumns(s.Threshold)
		if !IsStreetLine(right) {
			continue
		}
		cand := document.Address{Street: strings.TrimSpace(right)}
		for j := i + 1; j < len(in.Lines) && j <= i+2; j++ {
			next := in.Lines[j]
			if !next.HasPosition() {
				continue
			}
			_, nextRight, _ := next.SplitColumns(s.Threshold)
			if cap, city, prov, ok := parseCityLine(nextRight); ok {
				cand.PostalCode, cand.City, cand.Province = cap, city, prov
				break
			}
			if strings.Contains(nextRight, "INGR.") || strings.Contains(nextRight, "SCARICO") {
				cand.AdditionalInfo = strings.TrimSpace(nextRight)
			}
		}
		out = append(out, cand)
	}
	return out
}

var deliveryLabel = regexp.MustCompile(`(?i)(luogo di consegna|indirizzo di consegna|destinazione merce|consegnare a|consegna presso|punto di consegna|destinazione|consegna:)`)

// LabeledFieldStrategy reads the address block following an explicit
// delivery label.
type LabeledFieldStrategy struct{}

func (s *LabeledFieldStrategy) Name() string { return "labeled_field" }

func (s *LabeledFieldStrategy) Candidates(in Input) []document.Address {
	var out []document.Address
	for i, line := range in.Lines {
		if !deliveryLabel.MatchString(line.Text) {
			continue
		}
		// Inline form: "Consegna: VIA ROMA, 1".
		if idx := strings.Index(line.Text, ":"); idx >= 0 {
			if rest := strings.TrimSpace(line.Text[idx+1:]); IsStreetLine(rest) {
				cand := document.Address{Street: rest}
				fillCity(&cand, in.Lines, i+1, i+2)
				out = append(out, cand)
				continue
			}
		}
		for j := i + 1; j < len(in.Lines) && j <= i+6; j++ {
			text := strings.TrimSpace(in.Lines[j].Text)
			if stopLine(text) {
				break
			}
			if IsStreetLine(text) {
				cand := document.Address{Street: text}
				fillCity(&cand, in.Lines, j+1, j+2)
				out = append(out, cand)
				break
			}
		}
	}
	return out
}

// ProximityStrategy scans a fixed window after the client-name anchor for
// the first street-type line.
type ProximityStrategy struct{}

func (s *ProximityStrategy) Name() string { return "proximity" }

func (s *ProximityStrategy) Candidates(in Input) []document.Address {
	if in.ClientAnchor < 0 {
		return nil
	}
	var out []document.Address
	for j := in.ClientAnchor + 1; j < len(in.Lines) && j <= in.ClientAnchor+6; j++ {
		text := strings.TrimSpace(in.Lines[j].Text)
		if stopLine(text) {
			break
		}
		if IsStreetLine(text) {
			cand := document.Address{Street: text}
			fillCity(&cand, in.Lines, j+1, j+2)
			out = append(out, cand)
			break
		}
	}
	return out
}

// DualAddressLineStrategy handles a single line carrying two concatenated
// street addresses; the second half is the delivery address.
type DualAddressLineStrategy struct{}

func (s *DualAddressLineStrategy) Name() string { return "dual_address_line" }

var dualStreet = regexp.MustCompile(`(?i)^(.*?(?:VIA|V\.LE|VIALE|CORSO|C\.SO|PIAZZA|P\.ZA|STRADA)[^/]+?)\s*(?:/\s*)?((?:VIA|V\.LE|VIALE|CORSO|C\.SO|PIAZZA|P\.ZA|STRADA)\s.+)$`)

func (s *DualAddressLineStrategy) Candidates(in Input) []document.Address {
	var out []document.Address
	for i, line := range in.Lines {
		m := dualStreet.FindStringSubmatch(strings.TrimSpace(line.Text))
		if m == nil || !IsStreetLine(m[1]) {
			continue
		}
		cand := document.Address{Street: strings.TrimSpace(m[2])}
		// The matching city row usually carries two postal codes; the
		// second belongs to the delivery address.
		for j := i + 1; j < len(in.Lines) && j <= i+2; j++ {
			text := strings.TrimSpace(in.Lines[j].Text)
			caps := postalCode.FindAllStringIndex(text, -1)
			if len(caps) >= 2 {
				if cap, city, prov, ok := parseCityLine(strings.TrimLeft(text[caps[len(caps)-1][0]:], " -/")); ok {
					cand.PostalCode, cand.City, cand.Province = cap, city, prov
				} else {
					cand.PostalCode = text[caps[len(caps)-1][0]:caps[len(caps)-1][1]]
				}
				break
			}
			if cap, city, prov, ok := parseCityLine(text); ok {
				cand.PostalCode, cand.City, cand.Province = cap, city, prov
				break
			}
		}
		out = append(out, cand)
	}
	return out
}

// GapColumnStrategy splits unpositioned two-column rows on a run of two
// or more spaces or a slash separator, taking the right part.
type GapColumnStrategy struct{}

func (s *GapColumnStrategy) Name() string { return "gap_column" }

var columnGap = regexp.MustCompile(`\s{2,}|\s/\s`)

func (s *GapColumnStrategy) Candidates(in Input) []document.Address {
	var out []document.Address
	for i, line := range in.Lines {
		parts := columnGap.Split(strings.TrimSpace(line.Text), -1)
		if len(parts) < 2 {
			continue
		}
		right := strings.TrimSpace(parts[len(parts)-1])
		if !IsStreetLine(right) {
			continue
		}
		cand := document.Address{Street: right}
		for j := i + 1; j < len(in.Lines) && j <= i+2; j++ {
			nextParts := columnGap.Split(strings.TrimSpace(in.Lines[j].Text), -1)
			nextRight := strings.TrimSpace(nextParts[len(nextParts)-1])
			if cap, city, prov, ok := parseCityLine(nextRight); ok {
				cand.PostalCode, cand.City, cand.Province = cap, city, prov
				break
			}
		}
		out = append(out, cand)
	}
	return out
}

// LooseScanStrategy is the weakest fallback: any street line followed
// within two lines by a postal-code line.
type LooseScanStrategy struct{}

func (s *LooseScanStrategy) Name() string { return "loose_scan" }

func (s *LooseScanStrategy) Candidates(in Input) []document.Address {
	var out []document.Address
	for i, line := range in.Lines {
		text := strings.TrimSpace(line.Text)
		if !IsStreetLine(text) {
			continue
		}
		cand := document.Address{Street: text}
		fillCity(&cand, in.Lines, i+1, i+2)
		out = append(out, cand)
	}
	return out
}

// FixedAddressStrategy resolves via the per-client table, keyed by client
// code. Only wired when explicitly enabled in configuration.
type FixedAddressStrategy struct {
	Table []tables.FixedAddress
}

func (s *FixedAddressStrategy) Name() string { return "fixed_address" }

func (s *FixedAddressStrategy) Candidates(in Input) []document.Address {
	if in.ClientCode == "" {
		return nil
	}
	for _, f := range s.Table {
		if f.ClientCode == in.ClientCode {
			return []document.Address{{
				Street:         f.Street,
				AdditionalInfo: f.AdditionalInfo,
				PostalCode:     f.PostalCode,
				City:           f.City,
				Province:       f.Province,
			}}
		}
	}
	return nil
}

func fillCity(cand *document.Address, lines []document.RawLine, from, to int) {
	for j := from; j < len(lines) && j <= to; j++ {
		if cap, city, prov, ok := parseCityLine(lines[j].Text); ok {
			cand.PostalCode, cand.City, cand.Province = cap, city, prov
			return
		}
	}
}

var stopMarkers = regexp.MustCompile(`(?i)(vettore|trasporto a mezzo|partita iva|p\.iva)`)

func stopLine(text string) bool {
	return stopMarkers.MatchString(text)
}
