// Package document defines the structured record produced by parsing a
// DDT (transport document), Fattura (invoice) or Nota di Credito from
// extracted plain text. All entities are created fresh per parse and are
// immutable once the assembler returns them.
package document

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind identifies the commercial document type.
type Kind int

const (
	KindUnknown Kind = iota
	KindDDT
	KindInvoice
	KindCreditNote
)

// String returns the conventional short code for the document kind.
func (k Kind) String() string {
	switch k {
	case KindDDT:
		return "DDT"
	case KindInvoice:
		return "FT"
	case KindCreditNote:
		return "NC"
	default:
		return "UNKNOWN"
	}
}

// MarshalText implements encoding.TextMarshaler so Kind serializes as its
// short code in JSON output.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the short code back into a Kind.
func (k *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "DDT":
		*k = KindDDT
	case "FT":
		*k = KindInvoice
	case "NC":
		*k = KindCreditNote
	default:
		*k = KindUnknown
	}
	return nil
}

// PositionedToken is a text fragment with its horizontal coordinate,
// used by column-aware address extraction.
type PositionedToken struct {
	Text string  `json:"text"`
	X    float64 `json:"x"`
}

// RawLine is one line of extracted text. Tokens carries the horizontally
// positioned fragments of the line when the upstream extractor provides
// them; it is empty for plain text input.
type RawLine struct {
	Text   string
	Tokens []PositionedToken
	Index  int
}

// HasPosition reports whether layout coordinates are available for the line.
func (l RawLine) HasPosition() bool {
	return len(l.Tokens) > 0
}

// Address is a resolved Italian postal address.
type Address struct {
	Street         string `json:"street"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	PostalCode     string `json:"postal_code"`
	City           string `json:"city"`
	Province       string `json:"province"`
}

// IsComplete reports whether the address satisfies the structural
// invariant: a street plus either a postal code or a province code.
func (a Address) IsComplete() bool {
	return a.Street != "" && (a.PostalCode != "" || a.Province != "")
}

// LineItem is one priced product row.
type LineItem struct {
	Code            string          `json:"code"`
	Description     string          `json:"description"`
	Unit            string          `json:"unit"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	// DiscountInferred marks discounts reconstructed from the printed row
	// total rather than read from an explicit column.
	DiscountInferred bool            `json:"discount_inferred,omitempty"`
	LineTotal        decimal.Decimal `json:"line_total"`
	VATRate          int             `json:"vat_rate"`
}

// Client identifies the document's customer. Identity is re-derived per
// document; the alias table supplies the canonical name.
type Client struct {
	CanonicalName string `json:"canonical_name"`
	Code          string `json:"code,omitempty"`
	VATNumber     string `json:"vat_number,omitempty"`
}

// VATBreakdown is the taxable total for a single VAT rate bracket.
type VATBreakdown struct {
	Rate    int             `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	Tax     decimal.Decimal `json:"tax"`
}

// ParsedDocument is the root aggregate returned by the assembler.
// Downstream consumers (persistence, export) receive it as an immutable
// snapshot; Warnings carries the non-fatal anomalies collected while
// parsing.
type ParsedDocument struct {
	ID             uuid.UUID       `json:"id"`
	Kind           Kind            `json:"kind"`
	Number         string          `json:"number"`
	Date           time.Time       `json:"date"`
	OrderReference string          `json:"order_reference,omitempty"`
	Client         Client          `json:"client"`
	DeliveryAddr   *Address        `json:"delivery_address,omitempty"`
	Items          []LineItem      `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	VATTotal       decimal.Decimal `json:"vat_total"`
	Total          decimal.Decimal `json:"total"`
	VATBreakdown   []VATBreakdown  `json:"vat_breakdown,omitempty"`
	FileName       string          `json:"file_name,omitempty"`
	ImportedAt     time.Time       `json:"imported_at"`
	Warnings       []string        `json:"warnings,omitempty"`
}

// AddWarning appends a non-fatal notice to the document.
func (d *ParsedDocument) AddWarning(w string) {
	d.Warnings = append(d.Warnings, w)
}
