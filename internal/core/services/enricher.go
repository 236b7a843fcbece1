package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
	"github.com/custodia-labs/juricasync/internal/logger"
)

const portalisMarker = "Portalis"

var (
	markupPattern     = regexp.MustCompile(`(?m)</?[^>]+(>|$)`)
	whitespacePattern = regexp.MustCompile(`\s`)

	// Tried in order, strictest first.
	portalisPatterns = []*regexp.Regexp{
		regexp.MustCompile(`Portalis(?:\s+|\n+)(\b\S{4}-\S-\S{3}-(?:\s?|\n+)\S+\b)`),
		regexp.MustCompile(`Portalis(?:\s*|\n*):?(?:\s+|\n+)(\b\S{2,4}(?:\s*)-(?:\s*)\S(?:\s*)-(?:\s*)\S{3}(?:\s*)-(?:\s*)(?:\s?|\n+)\S+\b)`),
		regexp.MustCompile(`Portalis(?:\s*|\n*):?(?:\s+|\n+)(\b\S{2,4}(?:\s*)-(?:\s*)\S{3}(?:\s*)-(?:\s*)(?:\s?|\n+)\S+\b)`),
	}
)

// ExtractPortalis returns the Portalis number quoted in a decision text,
// whitespace removed, or "" when the text has none.
func ExtractPortalis(html string) string {
	text := markupPattern.ReplaceAllString(html, "")
	if !strings.Contains(text, portalisMarker) {
		return ""
	}
	text = strings.Map(foldSpace, text)
	for _, p := range portalisPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			return whitespacePattern.ReplaceAllString(m[1], "")
		}
	}
	return ""
}

// foldSpace maps non-ASCII spaces to a plain space. RE2 \s only matches
// ASCII whitespace.
func foldSpace(r rune) rune {
	if r > unicode.MaxASCII && unicode.IsSpace(r) {
		return ' '
	}
	return r
}

// Enricher adds the fields derived at collection time to source decisions.
type Enricher struct {
	references driven.ReferenceStore
}

// NewEnricher creates a new enricher.
func NewEnricher(references driven.ReferenceStore) *Enricher {
	return &Enricher{references: references}
}

// Enrich returns a copy of d with its Portalis number and occultation block
// set. Occultation attributes missing from d are merged in. Lookup failures
// leave the derived fields nil.
func (e *Enricher) Enrich(ctx context.Context, d domain.Decision) domain.Decision {
	out := d.Clone()

	if portalis := ExtractPortalis(d.String(domain.FieldHTMLSource)); portalis != "" {
		out[domain.FieldPortalis] = portalis
	} else {
		out[domain.FieldPortalis] = nil
	}

	out[domain.FieldOccultationBlock] = nil
	blockID, attrs, err := e.occultationBlock(ctx, d.String(domain.FieldNAC))
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Occultation block lookup failed for decision %d: %v", d.ID(), err)
		}
		return out
	}
	out[domain.FieldOccultationBlock] = blockID
	for k, v := range attrs {
		if !out.Has(k) {
			out[k] = v
		}
	}
	return out
}

func (e *Enricher) occultationBlock(ctx context.Context, nac string) (int64, domain.Attributes, error) {
	if nac == "" || e.references == nil {
		return 0, nil, domain.ErrNotFound
	}
	blockID, err := e.references.NACBlock(ctx, nac)
	if err != nil {
		return 0, nil, err
	}
	attrs, err := e.references.OccultationBlock(ctx, blockID)
	if err != nil {
		return 0, nil, err
	}
	return blockID, attrs, nil
}
