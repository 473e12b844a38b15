// Package tables loads the externally supplied data tables the parsing
// core depends on: the client alias map, the sender address denylist and
// the article-code whitelist. Tables are CSV files unmarshaled with gocsv;
// each loader falls back to the shipped defaults when no file is
// configured, so a deployment can override any table without code changes.
package tables

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
)

// ClientAlias maps one raw spelling of a client name to its canonical
// identity.
type ClientAlias struct {
	Alias     string `csv:"alias"`
	Canonical string `csv:"canonical"`
	Code      string `csv:"code"`
	VATNumber string `csv:"vat_number"`
}

// SenderDenyEntry marks an address fragment that belongs to the sender or
// one of its carriers. A delivery-address candidate matching either the
// keyword or the postal code is rejected.
type SenderDenyEntry struct {
	Keyword    string `csv:"keyword"`
	PostalCode string `csv:"postal_code"`
}

// ArticleCode is one entry of the known article-code whitelist.
type ArticleCode struct {
	Code string `csv:"code"`
}

// FixedAddress is a per-client fallback delivery address keyed by the
// client's internal code. Disabled by default; see config.
type FixedAddress struct {
	ClientCode     string `csv:"client_code"`
	Street         string `csv:"street"`
	AdditionalInfo string `csv:"additional_info"`
	PostalCode     string `csv:"postal_code"`
	City           string `csv:"city"`
	Province       string `csv:"province"`
}

// LoadClientAliases reads the alias table from path, or returns the
// shipped defaults when path is empty.
func LoadClientAliases(path string) ([]ClientAlias, error) {
	if path == "" {
		return DefaultClientAliases(), nil
	}
	var rows []ClientAlias
	if err := loadCSV(path, &rows); err != nil {
		return nil, fmt.Errorf("client alias table: %w", err)
	}
	return rows, nil
}

// LoadSenderDenylist reads the sender denylist from path, or returns the
// shipped defaults when path is empty.
func LoadSenderDenylist(path string) ([]SenderDenyEntry, error) {
	if path == "" {
		return DefaultSenderDenylist(), nil
	}
	var rows []SenderDenyEntry
	if err := loadCSV(path, &rows); err != nil {
		return nil, fmt.Errorf("sender denylist: %w", err)
	}
	return rows, nil
}

// LoadArticleCodes reads the article-code whitelist from path, or returns
// the shipped defaults when path is empty.
func LoadArticleCodes(path string) ([]ArticleCode, error) {
	if path == "" {
		return DefaultArticleCodes(), nil
	}
	var rows []ArticleCode
	if err := loadCSV(path, &rows); err != nil {
		return nil, fmt.Errorf("article codes: %w", err)
	}
	return rows, nil
}

// LoadFixedAddresses reads the per-client fixed address table. There are
// no defaults: an empty path yields an empty table.
func LoadFixedAddresses(path string) ([]FixedAddress, error) {
	if path == "" {
		return nil, nil
	}
	var rows []FixedAddress
	if err := loadCSV(path, &rows); err != nil {
		return nil, fmt.Errorf("fixed addresses: %w", err)
	}
	return rows, nil
}

func loadCSV(path string, out interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.Unmarshal(f, out)
}
