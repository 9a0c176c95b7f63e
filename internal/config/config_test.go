package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"BODY_CACHE_MAX_ITEMS", "BATCH_WORKERS", "SUMMARY_LIMIT_DEFAULT",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_FILE", "LOG_COMPRESS",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, DefaultBodyCacheMaxItems, cfg.BodyCacheMaxItems)
	assert.Equal(t, DefaultBatchWorkers, cfg.BatchWorkers)
	assert.Equal(t, DefaultSummaryLimit, cfg.SummaryLimitDefault)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "", cfg.LogFile)
	assert.True(t, cfg.LogCompress)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BODY_CACHE_MAX_ITEMS", "0")
	t.Setenv("BATCH_WORKERS", "8")
	t.Setenv("SUMMARY_LIMIT_DEFAULT", "25")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("LOG_COMPRESS", "off")

	cfg := Load()
	assert.Equal(t, 0, cfg.BodyCacheMaxItems)
	assert.Equal(t, 8, cfg.BatchWorkers)
	assert.Equal(t, 25, cfg.SummaryLimitDefault)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.LogCompress)
}

func TestGetEnvHelpers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		fn    func() any
		want  any
	}{
		{"int garbage", "abc", func() any { return getEnvInt("TEST_KEY", 7) }, 7},
		{"int negative", "-3", func() any { return getEnvInt("TEST_KEY", 7) }, -3},
		{"positive rejects zero", "0", func() any { return getEnvPositiveInt("TEST_KEY", 7) }, 7},
		{"positive rejects negative", "-1", func() any { return getEnvPositiveInt("TEST_KEY", 7) }, 7},
		{"bool yes", "yes", func() any { return getEnvBool("TEST_KEY", false) }, true},
		{"bool unknown", "maybe", func() any { return getEnvBool("TEST_KEY", true) }, true},
		{"string set", "x", func() any { return getEnvString("TEST_KEY", "d") }, "x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_KEY", tt.value)
			assert.Equal(t, tt.want, tt.fn())
		})
	}
}
