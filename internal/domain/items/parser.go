// Package items parses the article rows of a document body into line
// items. Rows come in two printed layouts: one carrying an explicit
// discount column and one without, where any discount must be inferred
// from the quantity/price/total relationship.
package items

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/alfierilab/ddtft/internal/domain/document"
	"github.com/alfierilab/ddtft/pkg/money"
	"github.com/alfierilab/ddtft/pkg/tables"
)

// Units recognised in the unit-of-measure column. The unit token anchors
// the split between description and the numeric tail.
var unitTokens = map[string]bool{
	"PZ": true, "KG": true, "CF": true, "CT": true, "LT": true,
	"MT": true, "GR": true, "ML": true, "BT": true, "SC": true,
}

var (
	articleCodePattern = regexp.MustCompile(`^[0-9A-Z]{5,8}$`)
	numberToken        = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})*(?:,\d+)?$|^-?\d+(?:[.,]\d+)?$`)
	vatToken           = regexp.MustCompile(`^(4|10|22)$`)
	blockEnd           = regexp.MustCompile(`(?i)\b(TOTALE|SCATOLONI|IMPONIBILE|ALIQUOTA)\b`)
)

// rowTolerance bounds the printed row total against qty*price*(1-disc);
// a row off by more than a cent is not trusted as a line item.
var rowTolerance = decimal.NewFromFloat(0.01)

// Parser extracts line items. The article-code table, when non-empty,
// whitelists codes; unknown code-looking tokens still parse but are
// logged for table maintenance.
type Parser struct {
	knownCodes map[string]bool
	tolerance  decimal.Decimal
	logger     *slog.Logger
}

// New builds a Parser. discountTolerance is the relative slack below
// which a total/(qty*price) shortfall is treated as rounding noise
// rather than an implicit discount.
func New(codes []tables.ArticleCode, discountTolerance float64, logger *slog.Logger) *Parser {
	known := make(map[string]bool, len(codes))
	for _, c := range codes {
		known[c.Code] = true
	}
	return &Parser{
		knownCodes: known,
		tolerance:  decimal.NewFromFloat(discountTolerance),
		logger:     logger,
	}
}

// Parse walks the body lines and returns the items in document order.
// Lines that look like article rows but fail both layouts are skipped
// with a log entry; they never abort the parse.
func (p *Parser) Parse(lines []document.RawLine) []document.LineItem {
	var items []document.LineItem
	inBody := false
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			if inBody {
				break
			}
			continue
		}
		if blockEnd.MatchString(text) {
			if inBody {
				break
			}
			continue
		}
		item, ok := p.parseRow(text)
		if !ok {
			if inBody && looksLikeArticleRow(text) {
				p.logger.Warn("unparseable article row", slog.String("line", text))
			}
			continue
		}
		inBody = true
		items = append(items, item)
	}
	return items
}

func looksLikeArticleRow(text string) bool {
	fields := strings.Fields(text)
	return len(fields) > 2 && articleCodePattern.MatchString(fields[0])
}

// parseRow recognises a single article row. The row shape is
//
//	CODE DESCRIPTION... UNIT QTY PRICE [DISCOUNT] TOTAL VAT [suffix]
//
// anchored on the last unit token: descriptions may themselves contain
// weight markers like "250 G", so splitting on the first match would
// truncate them.
func (p *Parser) parseRow(text string) (document.LineItem, bool) {
	fields := strings.Fields(text)
	if len(fields) < 6 {
		return document.LineItem{}, false
	}
	code := fields[0]
	if !articleCodePattern.MatchString(code) {
		return document.LineItem{}, false
	}
	if len(p.knownCodes) > 0 && !p.knownCodes[code] {
		p.logger.Debug("article code not in table", slog.String("code", code))
	}

	unitIdx := -1
	for i := len(fields) - 1; i > 1; i-- {
		if unitTokens[strings.ToUpper(fields[i])] {
			unitIdx = i
			break
		}
	}
	if unitIdx < 0 || unitIdx < 2 {
		return document.LineItem{}, false
	}
	tail := fields[unitIdx+1:]

	item := document.LineItem{
		Code:        code,
		Description: strings.Join(fields[1:unitIdx], " "),
		Unit:        strings.ToUpper(fields[unitIdx]),
	}

	// Layout with discount column first; on failure retry without it.
	if p.fillTail(&item, tail, true) || p.fillTail(&item, tail, false) {
		return item, true
	}
	return document.LineItem{}, false
}

// fillTail interprets the numeric tail after the unit token. With
// withDiscount the expected columns are QTY PRICE DISCOUNT TOTAL VAT,
// otherwise QTY PRICE TOTAL VAT. Trailing bookkeeping tokens ("00",
// column codes) are tolerated after the VAT rate.
func (p *Parser) fillTail(item *document.LineItem, tail []string, withDiscount bool) bool {
	want := 4
	if withDiscount {
		want = 5
	}
	if len(tail) < want {
		return false
	}
	nums := make([]decimal.Decimal, 0, want-1)
	for _, tok := range tail[:want-1] {
		if !numberToken.MatchString(tok) {
			return false
		}
		d, err := money.ParseItalian(tok)
		if err != nil {
			return false
		}
		nums = append(nums, d)
	}
	if !vatToken.MatchString(tail[want-1]) {
		return false
	}
	vat, err := strconv.Atoi(tail[want-1])
	if err != nil {
		return false
	}

	item.Quantity = nums[0]
	item.UnitPrice = nums[1]
	item.VATRate = vat
	if withDiscount {
		item.DiscountPercent = nums[2]
		item.LineTotal = nums[3]
		item.DiscountInferred = false
		return p.consistent(item)
	}
	item.DiscountPercent = decimal.Zero
	item.LineTotal = nums[2]
	p.inferDiscount(item)
	return p.consistent(item)
}

// inferDiscount detects a discount the layout does not print: when the
// printed total falls short of qty*price beyond the tolerance, derive
// the percentage and mark it inferred.
func (p *Parser) inferDiscount(item *document.LineItem) {
	gross := item.Quantity.Mul(item.UnitPrice)
	if gross.IsZero() || item.LineTotal.GreaterThanOrEqual(gross) {
		return
	}
	ratio := item.LineTotal.Div(gross)
	shortfall := decimal.NewFromInt(1).Sub(ratio)
	if shortfall.LessThanOrEqual(p.tolerance) {
		return
	}
	item.DiscountPercent = shortfall.Mul(decimal.NewFromInt(100)).Round(2)
	item.DiscountInferred = true
}

// consistent cross-checks the printed total against qty*price*(1-disc),
// within a cent of rounding per row. A violating row is logged and
// rejected; the scan continues.
func (p *Parser) consistent(item *document.LineItem) bool {
	expected := item.Quantity.Mul(item.UnitPrice)
	if !item.DiscountPercent.IsZero() {
		factor := decimal.NewFromInt(1).Sub(item.DiscountPercent.Div(decimal.NewFromInt(100)))
		expected = expected.Mul(factor)
	}
	diff := expected.Sub(item.LineTotal).Abs()
	if diff.LessThanOrEqual(rowTolerance) {
		return true
	}
	p.logger.Warn("row total mismatch",
		slog.String("code", item.Code),
		slog.String("expected", expected.StringFixed(2)),
		slog.String("printed", item.LineTotal.StringFixed(2)),
	)
	return false
}
