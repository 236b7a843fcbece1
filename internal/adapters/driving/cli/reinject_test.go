package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/juricasync/internal/core/domain"
)

func TestReinjectCmd_PrintsSummary(t *testing.T) {
	reinjector := &mockReinjector{summary: domain.RunSummary{Updated: 5, Errors: 1}}
	setupJobConfig(t, &JobConfig{Reinjector: reinjector})

	out, err := execute("reinject")

	require.NoError(t, err)
	assert.Contains(t, out, "Reinjected: 5, Error: 1")
}

func TestReinjectCmd_BatchFailureExitsNormally(t *testing.T) {
	reinjector := &mockReinjector{summary: domain.RunSummary{Errors: 1}, err: errBatch}
	logs := setupJobConfig(t, &JobConfig{Reinjector: reinjector})

	_, err := execute("reinject")

	require.NoError(t, err)
	assert.Contains(t, logs.String(), "reinject failed")
}

func TestReinjectCmd_NotConfigured(t *testing.T) {
	setupJobConfig(t, &JobConfig{})

	_, err := execute("reinject")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "reinjector not configured")
}
