package address

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/alfierilab/ddtft/internal/domain/document"
	"github.com/alfierilab/ddtft/pkg/tables"
)

var (
	streetPrefix = regexp.MustCompile(`(?i)^(VIA|V\.LE|VIALE|CORSO|C\.SO|PIAZZA|P\.ZA|STRADA|STR\.|LOC\.|LOCALITA'?|FRAZ\.|FRAZIONE|BORGO|VICOLO|V\.LO|LARGO|L\.GO|CONTRADA|C\.DA)\s+`)
	postalCode   = regexp.MustCompile(`\b(\d{5})\b`)
	civicNumber  = regexp.MustCompile(`,?\s\d+(?:/?[A-Za-z])?\s*$`)
	cityPattern  = regexp.MustCompile(`^(\d{5})\s*-?\s*(.+?)(?:\s+([A-Z]{2}))?\s*$`)
)

// IsStreetLine reports whether text starts with a recognized street-type
// prefix.
func IsStreetLine(text string) bool {
	return streetPrefix.MatchString(strings.TrimSpace(text))
}

// parseCityLine splits "12038 SAVIGLIANO CN" or "12100 - CUNEO CN" into
// postal code, city and province.
func parseCityLine(text string) (cap, city, province string, ok bool) {
	m := cityPattern.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), m[3], true
}

// Validator rejects delivery-address candidates that are structurally
// incomplete or that belong to the sender/carrier denylist. It applies to
// every candidate regardless of the strategy that produced it.
type Validator struct {
	keywords    *ahocorasick.Matcher
	postalCodes map[string]bool
	logger      *slog.Logger
}

// NewValidator compiles the injected denylist.
func NewValidator(deny []tables.SenderDenyEntry, logger *slog.Logger) *Validator {
	var kws []string
	codes := make(map[string]bool)
	for _, d := range deny {
		if d.Keyword != "" {
			kws = append(kws, strings.ToUpper(d.Keyword))
		}
		if d.PostalCode != "" {
			codes[d.PostalCode] = true
		}
	}
	var matcher *ahocorasick.Matcher
	if len(kws) > 0 {
		matcher = ahocorasick.NewStringMatcher(kws)
	}
	return &Validator{
		keywords:    matcher,
		postalCodes: codes,
		logger:      logger,
	}
}

// Validate reports whether the candidate is acceptable as a delivery
// address.
func (v *Validator) Validate(a *document.Address) bool {
	if a == nil {
		return false
	}
	if !IsStreetLine(a.Street) {
		return false
	}
	if a.PostalCode == "" && !civicNumber.MatchString(a.Street) {
		return false
	}
	if v.isDenied(a) {
		v.logger.Debug("candidate matches sender denylist",
			slog.String("street", a.Street),
			slog.String("postal_code", a.PostalCode),
		)
		return false
	}
	return true
}

// IsSenderAddress reports whether the address matches the denylist.
func (v *Validator) IsSenderAddress(a *document.Address) bool {
	return a != nil && v.isDenied(a)
}

func (v *Validator) isDenied(a *document.Address) bool {
	if v.postalCodes[a.PostalCode] {
		return true
	}
	if v.keywords == nil {
		return false
	}
	full := strings.ToUpper(strings.Join([]string{a.Street, a.AdditionalInfo, a.City}, " "))
	return len(v.keywords.Match([]byte(full))) > 0
}
