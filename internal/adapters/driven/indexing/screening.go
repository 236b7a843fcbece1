package indexing

import (
	"context"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.ScreeningService = (*Client)(nil)

type releasedBatch struct {
	Decisions []domain.ScreenedDecision `json:"releasableDecisions"`
}

type notPublicBatch struct {
	Decisions []domain.ScreenedDecision `json:"notPublicDecisions"`
}

// Submit sends a decision to the screening service.
func (c *Client) Submit(ctx context.Context, s domain.Submission) (domain.ScreeningResult, error) {
	var result domain.ScreeningResult
	if err := c.call(ctx, "/judifiltre/submit", s, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a decision from the screening service.
func (c *Client) Delete(ctx context.Context, d domain.ScreenedDecision) (domain.ScreeningResult, error) {
	var result domain.ScreeningResult
	if err := c.call(ctx, "/judifiltre/delete", d, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Released returns the decisions screened as public.
func (c *Client) Released(ctx context.Context) ([]domain.ScreenedDecision, error) {
	var batch releasedBatch
	if err := c.call(ctx, "/judifiltre/public", nil, &batch); err != nil {
		return nil, err
	}
	return batch.Decisions, nil
}

// NotPublic returns the decisions screened as not public.
func (c *Client) NotPublic(ctx context.Context) ([]domain.ScreenedDecision, error) {
	var batch notPublicBatch
	if err := c.call(ctx, "/judifiltre/notPublic", nil, &batch); err != nil {
		return nil, err
	}
	return batch.Decisions, nil
}
