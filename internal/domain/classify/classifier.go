// Package classify decides the commercial document kind (DDT, invoice or
// credit note) from the extracted text and an optional filename hint.
//
// Precedence is deliberate and testable: content-based credit-note
// detection beats filename hints, which beat content keyword scoring.
// "NC" substrings show up inside filenames meant for invoices, so credit
// notes must be recognized from the text first.
package classify

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/alfierilab/ddtft/internal/domain/document"
)

// ClassificationError is returned when no pattern assigns a kind with any
// confidence. It is the only hard failure of the parsing core.
type ClassificationError struct {
	FileName string
}

func (e *ClassificationError) Error() string {
	if e.FileName == "" {
		return "document type not recognized"
	}
	return fmt.Sprintf("document type not recognized for %q", e.FileName)
}

var creditNotePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)NOTA\s+DI\s+CREDITO`),
	regexp.MustCompile(`(?i)NOTA\s+CREDITO`),
	regexp.MustCompile(`(?i)NOTA\s+ACCREDITO`),
	regexp.MustCompile(`NC\s+N[°.\s]*\d+`),
	regexp.MustCompile(`NC\s+\d{6}`),
	regexp.MustCompile(`(?m)^NC\s*$`),
}

var invoicePatterns = []*regexp.Regexp{
	regexp.MustCompile(`FATTURA\s+ACCOMPAGNATORIA`),
	regexp.MustCompile(`FATTURA\s+IMMEDIATA`),
	regexp.MustCompile(`FATTURA\s+DIFFERITA`),
	regexp.MustCompile(`FATTURA\s+N[°.\s]*\d+`),
	regexp.MustCompile(`FT\s+N[°.\s]*\d+`),
	regexp.MustCompile(`(?m)^FT\s*$`),
	regexp.MustCompile(`FT\s*\d{4}`),
}

var (
	looseNC = regexp.MustCompile(`NC\s+\d+`)
	looseFT = regexp.MustCompile(`FT\s+\d+`)
)

var ddtPatterns = []*regexp.Regexp{
	regexp.MustCompile(`DOCUMENTO\s+DI\s+TRASPORTO`),
	regexp.MustCompile(`D\.D\.T\.`),
	regexp.MustCompile(`DDT\s*N[°.\s]*\d+`),
	regexp.MustCompile(`BOLLA\s+DI\s+CONSEGNA`),
	regexp.MustCompile(`DOCUMENTO\s+ACCOMPAGNATORIO`),
}

// Classifier scores text against credit-note, invoice and DDT pattern
// sets. Keyword sets are compiled once into Aho-Corasick matchers so
// scoring is a single pass over the text.
type Classifier struct {
	invoiceKeywords *ahocorasick.Matcher
	ddtKeywords     *ahocorasick.Matcher
	logger          *slog.Logger
}

// New builds a Classifier.
func New(logger *slog.Logger) *Classifier {
	return &Classifier{
		invoiceKeywords: ahocorasick.NewStringMatcher([]string{
			"FATTURA", "DOCUMENTO COMMERCIALE",
		}),
		ddtKeywords: ahocorasick.NewStringMatcher([]string{
			"DOCUMENTO DI TRASPORTO", "TRASPORTO", "DDT", "BOLLA DI CONSEGNA",
		}),
		logger: logger,
	}
}

// Classify determines the document kind. It returns a
// *ClassificationError when the text and filename carry no recognizable
// signal at all.
func (c *Classifier) Classify(text, fileName string) (document.Kind, error) {
	upper := strings.ToUpper(text)
	upperName := strings.ToUpper(fileName)

	// Credit notes first, from content only.
	for _, p := range creditNotePatterns {
		if p.MatchString(text) {
			c.logger.Debug("classified as credit note", slog.String("pattern", p.String()))
			return document.KindCreditNote, nil
		}
	}
	if strings.Contains(upper, "NOTA") && strings.Contains(upper, "CREDITO") {
		return document.KindCreditNote, nil
	}

	// Filename hints.
	switch {
	case strings.Contains(upperName, "NC_") || strings.Contains(upperName, "NCV"):
		return document.KindCreditNote, nil
	case strings.Contains(upperName, "FTV") || strings.Contains(upperName, "FT_"):
		return document.KindInvoice, nil
	case strings.Contains(upperName, "DDV") || strings.Contains(upperName, "DDT"):
		return document.KindDDT, nil
	}

	// Content keyword scoring. More matches wins; ties default to invoice.
	invoiceScore := c.score(upper, invoicePatterns, c.invoiceKeywords)
	ddtScore := c.score(upper, ddtPatterns, c.ddtKeywords)

	c.logger.Debug("keyword scoring",
		slog.Int("invoice", invoiceScore),
		slog.Int("ddt", ddtScore),
		slog.String("file", fileName),
	)

	switch {
	case invoiceScore == 0 && ddtScore == 0 && looseNC.MatchString(upper):
		return document.KindCreditNote, nil
	case invoiceScore == 0 && ddtScore == 0 && looseFT.MatchString(upper):
		return document.KindInvoice, nil
	case ddtScore > invoiceScore:
		return document.KindDDT, nil
	case invoiceScore > 0:
		return document.KindInvoice, nil
	}

	return document.KindUnknown, &ClassificationError{FileName: fileName}
}

func (c *Classifier) score(upper string, patterns []*regexp.Regexp, keywords *ahocorasick.Matcher) int {
	score := len(keywords.Match([]byte(upper)))
	for _, p := range patterns {
		if p.MatchString(upper) {
			score++
		}
	}
	return score
}
