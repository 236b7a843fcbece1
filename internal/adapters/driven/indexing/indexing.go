package indexing

import (
	"context"
	"fmt"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.IndexingService = (*Client)(nil)

// sourceKind tags every request made on behalf of this collector.
const sourceKind = domain.OriginRaw

type normalizeRequest struct {
	SourceKind domain.Origin              `json:"sourceKind"`
	Decision   domain.Decision            `json:"decision"`
	Existing   *domain.NormalizedDecision `json:"existing"`
}

type auditRequest struct {
	SourceKind  domain.Origin `json:"sourceKind"`
	Decision    any           `json:"decision"`
	DuplicateID string        `json:"duplicateId,omitempty"`
	Message     string        `json:"message,omitempty"`
	Error       string        `json:"error,omitempty"`
}

type affaireRequest struct {
	SourceKind domain.Origin   `json:"sourceKind"`
	Decision   domain.Decision `json:"decision"`
}

type cleanRequest struct {
	SourceKind domain.Origin `json:"sourceKind"`
	HTML       string        `json:"html"`
}

type zonesRequest struct {
	ID         int64         `json:"id"`
	SourceKind domain.Origin `json:"sourceKind"`
	Text       string        `json:"text"`
}

// NormalizeDecision builds the normalized form of a decision.
func (c *Client) NormalizeDecision(
	ctx context.Context,
	d domain.Decision,
	existing *domain.NormalizedDecision,
) (*domain.NormalizedDecision, error) {
	var n *domain.NormalizedDecision
	req := normalizeRequest{SourceKind: sourceKind, Decision: d, Existing: existing}
	if err := c.call(ctx, "/normalizeDecision", req, &n); err != nil {
		return nil, err
	}
	if n == nil {
		return nil, fmt.Errorf("normalize decision %d: empty result", d.ID())
	}
	return n, nil
}

// IndexDecision opens the history of a decision.
func (c *Client) IndexDecision(ctx context.Context, entry domain.AuditEntry) error {
	return c.call(ctx, "/indexDecision", newAuditRequest(entry), nil)
}

// UpdateDecision appends an entry to the history of a decision.
func (c *Client) UpdateDecision(ctx context.Context, entry domain.AuditEntry) error {
	return c.call(ctx, "/updateDecision", newAuditRequest(entry), nil)
}

// IndexAffaire refreshes the case file of a decision.
func (c *Client) IndexAffaire(ctx context.Context, d domain.Decision) error {
	return c.call(ctx, "/indexAffaire", affaireRequest{SourceKind: sourceKind, Decision: d}, nil)
}

// CleanContent converts source HTML into plain text.
func (c *Client) CleanContent(ctx context.Context, html string) (string, error) {
	var text string
	if err := c.call(ctx, "/cleanContent", cleanRequest{SourceKind: sourceKind, HTML: html}, &text); err != nil {
		return "", err
	}
	return text, nil
}

// GetZones returns the zoning of a decision text. A null result yields nil.
func (c *Client) GetZones(ctx context.Context, id int64, text string) (*domain.Zoning, error) {
	var zoning *domain.Zoning
	if err := c.call(ctx, "/getZones", zonesRequest{ID: id, SourceKind: sourceKind, Text: text}, &zoning); err != nil {
		return nil, err
	}
	return zoning, nil
}

// ShouldBeRejected reports whether the codes forbid any publication.
func (c *Client) ShouldBeRejected(ctx context.Context, codes domain.PublicationCodes) (bool, error) {
	return c.policy(ctx, "/shouldBeRejected", codes)
}

// IsPartiallyPublic reports whether only some zones may be published.
func (c *Client) IsPartiallyPublic(ctx context.Context, codes domain.PublicationCodes) (bool, error) {
	return c.policy(ctx, "/isPartiallyPublic", codes)
}

// ShouldBeSentToScreening reports whether publication awaits a screening verdict.
func (c *Client) ShouldBeSentToScreening(ctx context.Context, codes domain.PublicationCodes) (bool, error) {
	return c.policy(ctx, "/shouldBeSentToJudifiltre", codes)
}

func (c *Client) policy(ctx context.Context, path string, codes domain.PublicationCodes) (bool, error) {
	var answer bool
	if err := c.call(ctx, path, codes, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

func newAuditRequest(entry domain.AuditEntry) auditRequest {
	req := auditRequest{
		SourceKind:  entry.Origin,
		DuplicateID: entry.DuplicateID,
		Message:     entry.Message,
	}
	if entry.Normalized != nil {
		req.Decision = entry.Normalized
	} else {
		req.Decision = entry.Decision
	}
	if entry.Err != nil {
		req.Error = entry.Err.Error()
	}
	return req
}
