package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreDriver_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		driver   StoreDriver
		expected bool
	}{
		{name: "sqlite is valid", driver: StoreDriverSQLite, expected: true},
		{name: "mongo is valid", driver: StoreDriverMongo, expected: true},
		{name: "memory is valid", driver: StoreDriverMemory, expected: true},
		{name: "empty string is invalid", driver: StoreDriver(""), expected: false},
		{name: "unknown driver is invalid", driver: StoreDriver("oracle"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.driver.IsValid())
		})
	}
}

func TestStoreDriver_Description(t *testing.T) {
	assert.Equal(t, "MongoDB", StoreDriverMongo.Description())
	assert.Equal(t, "Unknown", StoreDriver("x").Description())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, "pgx", s.Source.Driver)
	assert.Equal(t, StoreDriverSQLite, s.Store.Driver)
	assert.Equal(t, "sder", s.Store.Database)
	assert.Equal(t, 1, s.Collect.NewWindowMonths)
	assert.Equal(t, 24*time.Hour, s.Collect.SyncFallback)
	assert.Equal(t, 60*time.Second, s.Indexing.Timeout)
	assert.False(t, s.Indexing.UsesOAuth())
}

func TestSettings_Validate(t *testing.T) {
	valid := DefaultSettings()
	valid.Source.DSN = "postgres://localhost/jurica"
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{name: "missing dsn", mutate: func(s *Settings) { s.Source.DSN = "" }},
		{name: "unknown store driver", mutate: func(s *Settings) { s.Store.Driver = "oracle" }},
		{name: "mongo without uri", mutate: func(s *Settings) { s.Store.Driver = StoreDriverMongo }},
		{name: "missing indexing url", mutate: func(s *Settings) { s.Indexing.BaseURL = "" }},
		{name: "non-positive window", mutate: func(s *Settings) { s.Collect.NewWindowMonths = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestIndexingSettings_UsesOAuth(t *testing.T) {
	s := IndexingSettings{TokenURL: "https://auth/token", ClientID: "id"}
	assert.False(t, s.UsesOAuth())

	s.ClientSecret = "secret"
	assert.True(t, s.UsesOAuth())
}
