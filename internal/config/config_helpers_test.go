package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const helperVar = "DINE_TEST_HELPER_VAR"

func TestGetEnvAsInt(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  int
	}{
		{name: "unset uses default", value: nil, want: 4},
		{name: "worker count", value: ptr("8"), want: 8},
		{name: "zero disables retention", value: ptr("0"), want: 0},
		{name: "negative is kept", value: ptr("-1"), want: -1},
		{name: "float falls back", value: ptr("2.5"), want: 4},
		{name: "garbage falls back", value: ptr("many"), want: 4},
		{name: "empty falls back", value: ptr(""), want: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setOrUnset(t, helperVar, tt.value)
			assert.Equal(t, tt.want, getEnvAsInt(helperVar, 4))
		})
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  time.Duration
	}{
		{name: "unset uses default", value: nil, want: time.Hour},
		{name: "reconcile every quarter hour", value: ptr("15m"), want: 15 * time.Minute},
		{name: "retry delay in millis", value: ptr("250ms"), want: 250 * time.Millisecond},
		{name: "compound", value: ptr("1h30m"), want: 90 * time.Minute},
		{name: "bare number falls back", value: ptr("60"), want: time.Hour},
		{name: "garbage falls back", value: ptr("hourly"), want: time.Hour},
		{name: "empty falls back", value: ptr(""), want: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setOrUnset(t, helperVar, tt.value)
			assert.Equal(t, tt.want, getEnvAsDuration(helperVar, time.Hour))
		})
	}
}

func TestGetEnvAsList(t *testing.T) {
	tests := []struct {
		name  string
		value *string
		want  []string
	}{
		{name: "unset is empty", value: nil, want: nil},
		{name: "empty is empty", value: ptr(""), want: nil},
		{name: "single proxy", value: ptr("10.0.0.1"), want: []string{"10.0.0.1"}},
		{name: "trims spaces", value: ptr(" 10.0.0.1 , 10.0.0.2"), want: []string{"10.0.0.1", "10.0.0.2"}},
		{name: "drops empty entries", value: ptr("10.0.0.1,,  ,10.0.0.2,"), want: []string{"10.0.0.1", "10.0.0.2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setOrUnset(t, helperVar, tt.value)
			assert.Equal(t, tt.want, getEnvAsList(helperVar))
		})
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("API_KEY", "test-key")
	t.Setenv("TRUSTED_PROXIES", "127.0.0.1, ::1")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"127.0.0.1", "::1"}, cfg.TrustedProxies)
}

func TestConfig_Location(t *testing.T) {
	t.Run("loaded zone", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("DEFAULT_TIMEZONE", "Asia/Tokyo")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "Asia/Tokyo", cfg.Location().String())
	})

	t.Run("falls back to UTC for a zone that no longer loads", func(t *testing.T) {
		cfg := &Config{DefaultTimezone: "Nowhere/Special"}
		assert.Equal(t, time.UTC, cfg.Location())
	})
}

func TestConfig_UsesPostgres(t *testing.T) {
	assert.True(t, (&Config{StorageDriver: StorageDriverPostgres}).UsesPostgres())
	assert.False(t, (&Config{StorageDriver: StorageDriverMemory}).UsesPostgres())

	t.Run("driver is case-insensitive", func(t *testing.T) {
		clearEnvVars(t)
		t.Setenv("API_KEY", "test-key")
		t.Setenv("STORAGE_DRIVER", "Memory")

		cfg, err := Load()
		require.NoError(t, err)
		assert.False(t, cfg.UsesPostgres())
	})
}

func TestLoad_InvalidNumericSettingsFallBack(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("API_KEY", "test-key")
	t.Setenv("DB_MAX_CONNS", "lots")
	t.Setenv("DB_MAX_CONN_IDLE_TIME", "idle")
	t.Setenv("DB_MAX_CONN_LIFETIME", "forever")
	t.Setenv("SUMMARY_CACHE_SIZE", "big")
	t.Setenv("SUMMARY_CACHE_TTL", "5")
	t.Setenv("WORKER_COUNT", "two")
	t.Setenv("RECONCILE_INTERVAL", "nightly")
	t.Setenv("EVENT_MAX_RETRIES", "x")
	t.Setenv("EVENT_RETRY_DELAY", "soon")
	t.Setenv("EVENT_LOG_RETENTION_DAYS", "month")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultDBMaxConns, cfg.DBMaxConns)
	assert.Equal(t, 5*time.Minute, cfg.DBMaxConnIdleTime)
	assert.Equal(t, 30*time.Minute, cfg.DBMaxConnLifetime)
	assert.Equal(t, DefaultSummaryCacheSize, cfg.SummaryCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.SummaryCacheTTL)
	assert.Equal(t, DefaultWorkerCount, cfg.WorkerCount)
	assert.Equal(t, time.Hour, cfg.ReconcileInterval)
	assert.Equal(t, DefaultEventMaxRetries, cfg.EventMaxRetries)
	assert.Equal(t, 2*time.Second, cfg.EventRetryDelay)
	assert.Equal(t, DefaultEventLogRetentionDays, cfg.EventLogRetentionDays)
}

func TestLoad_CacheAndEventSettings(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("API_KEY", "test-key")
	t.Setenv("SUMMARY_CACHE_SIZE", "50")
	t.Setenv("SUMMARY_CACHE_TTL", "30s")
	t.Setenv("EVENT_MAX_RETRIES", "2")
	t.Setenv("EVENT_RETRY_DELAY", "100ms")
	t.Setenv("EVENT_DEADLETTER_PATH", "/var/lib/dine/dead.jsonl")
	t.Setenv("EVENT_LOG_RETENTION_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.SummaryCacheSize)
	assert.Equal(t, 30*time.Second, cfg.SummaryCacheTTL)
	assert.Equal(t, 2, cfg.EventMaxRetries)
	assert.Equal(t, 100*time.Millisecond, cfg.EventRetryDelay)
	assert.Equal(t, "/var/lib/dine/dead.jsonl", cfg.EventDeadLetterPath)
	assert.Equal(t, 7, cfg.EventLogRetentionDays)
}

func ptr(s string) *string { return &s }

// setOrUnset sets key for the test, or makes sure it is absent when value is nil
func setOrUnset(t *testing.T, key string, value *string) {
	t.Helper()
	if value == nil {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
		return
	}
	t.Setenv(key, *value)
}
