package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// RedactionSeparator joins the zones kept from a partially public decision.
const RedactionSeparator = "\n\n[...]\n\n"

var delimiterPattern = regexp.MustCompile(`(?m)\*(?:DEB|FIN)[A-Z]*`)

// Redactor keeps the publishable zones of partially public decisions.
type Redactor struct {
	indexing driven.IndexingService
}

// NewRedactor creates a new redactor.
func NewRedactor(indexing driven.IndexingService) *Redactor {
	return &Redactor{indexing: indexing}
}

// Redact returns the text of d reduced to its introduction and dispositif.
// Any failure is returned as a *domain.RedactionError.
func (r *Redactor) Redact(ctx context.Context, d domain.Decision) (string, error) {
	id := d.ID()
	fail := func(reason string, err error) (string, error) {
		return "", &domain.RedactionError{DecisionID: id, Reason: reason, Err: err}
	}

	// 1. Clean the source text
	text, err := r.indexing.CleanContent(ctx, d.String(domain.FieldHTMLSource))
	if err != nil {
		return fail("its text is empty or invalid", err)
	}
	text = strings.TrimSpace(delimiterPattern.ReplaceAllString(text, ""))
	if text == "" {
		return fail("its text is empty or invalid", domain.ErrEmptyText)
	}

	// 2. Zone it
	zoning, err := r.indexing.GetZones(ctx, id, text)
	if err != nil {
		return fail("its zoning failed", err)
	}
	if zoning == nil {
		return fail("its zoning failed", domain.ErrZoningFailed)
	}
	if zoning.Detail != nil {
		return fail("its zoning failed", fmt.Errorf("%w: %v", domain.ErrZoningFailed, zoning.Detail))
	}

	// 3. Require both published zones
	if len(zoning.Zones) == 0 {
		return fail("it has no zone", domain.ErrMissingZone)
	}
	introduction := zoning.Zones[domain.ZoneIntroduction]
	if len(introduction) == 0 {
		return fail("it has no introduction", fmt.Errorf("%w: %s", domain.ErrMissingZone, domain.ZoneIntroduction))
	}
	dispositif := zoning.Zones[domain.ZoneDispositif]
	if len(dispositif) == 0 {
		return fail("it has no dispositif", fmt.Errorf("%w: %s", domain.ErrMissingZone, domain.ZoneDispositif))
	}

	return ReconstructText(text, introduction, dispositif), nil
}

// ReconstructText extracts every span of the zones, in order, trims them and
// joins them with RedactionSeparator. Offsets count characters; they are
// clamped to the text and swapped when reversed.
func ReconstructText(text string, zones ...domain.Zone) string {
	runes := []rune(text)
	var parts []string
	for _, zone := range zones {
		for _, span := range zone {
			parts = append(parts, strings.TrimSpace(substring(runes, span.Start, span.End)))
		}
	}
	return strings.Join(parts, RedactionSeparator)
}

func substring(runes []rune, start, end int) string {
	clamp := func(i int) int {
		switch {
		case i < 0:
			return 0
		case i > len(runes):
			return len(runes)
		default:
			return i
		}
	}
	start, end = clamp(start), clamp(end)
	if start > end {
		start, end = end, start
	}
	return string(runes[start:end])
}
