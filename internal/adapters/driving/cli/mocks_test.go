package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/custodia-labs/juricasync/internal/core/domain"
	"github.com/custodia-labs/juricasync/internal/logger"
)

var errBatch = errors.New("source unreachable")

// mockCollector implements driving.Collector for testing.
type mockCollector struct {
	newSummary  domain.RunSummary
	syncSummary domain.RunSummary
	err         error
	calls       []string
}

func (m *mockCollector) CollectNew(_ context.Context) (domain.RunSummary, error) {
	m.calls = append(m.calls, "new")
	return m.newSummary, m.err
}

func (m *mockCollector) SyncUpdated(_ context.Context) (domain.RunSummary, error) {
	m.calls = append(m.calls, "sync")
	return m.syncSummary, m.err
}

// mockReinjector implements driving.Reinjector for testing.
type mockReinjector struct {
	summary domain.RunSummary
	err     error
}

func (m *mockReinjector) Reinject(_ context.Context) (domain.RunSummary, error) {
	return m.summary, m.err
}

// mockScreeningImporter implements driving.ScreeningImporter for testing.
type mockScreeningImporter struct {
	released    domain.RunSummary
	notPublic   domain.RunSummary
	releasedErr error
	calls       []string
}

func (m *mockScreeningImporter) ImportReleased(_ context.Context) (domain.RunSummary, error) {
	m.calls = append(m.calls, "released")
	return m.released, m.releasedErr
}

func (m *mockScreeningImporter) CleanNotPublic(_ context.Context) (domain.RunSummary, error) {
	m.calls = append(m.calls, "notPublic")
	return m.notPublic, nil
}

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	settings domain.Settings
	err      error
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) GetDefaults() domain.Settings {
	return domain.DefaultSettings()
}

func (m *mockSettingsService) Validate() error {
	return m.settings.Validate()
}

// mockRecorder implements driven.RunRecorder for testing.
type mockRecorder struct {
	jobs     []string
	runs     map[string]domain.RunSummary
	flushes  int
	flushErr error
}

func (m *mockRecorder) ObserveRun(job string, summary domain.RunSummary, _ time.Duration) {
	if m.runs == nil {
		m.runs = make(map[string]domain.RunSummary)
	}
	m.jobs = append(m.jobs, job)
	m.runs[job] = summary
}

func (m *mockRecorder) Flush() error {
	m.flushes++
	return m.flushErr
}

// setupJobConfig installs config for the duration of the test, with the
// bootstrap disabled and logs captured.
func setupJobConfig(t *testing.T, config *JobConfig) *bytes.Buffer {
	t.Helper()
	oldConfig, oldBootstrap := jobConfig, bootstrap
	jobConfig, bootstrap = config, nil

	logs := new(bytes.Buffer)
	logger.SetOutput(logs)

	t.Cleanup(func() {
		jobConfig, bootstrap = oldConfig, oldBootstrap
		configPath, verbose = "", false
		logger.SetOutput(os.Stderr)
		logger.SetJob("")
		rootCmd.SetArgs(nil)
	})
	return logs
}

// execute runs the root command with args and returns its output.
func execute(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
