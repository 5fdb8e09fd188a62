package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"hicentral-parser-service/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeEnvFile(t, ""))
	require.NoError(t, err)

	assert.Equal(t, "hicentral-parser-service", cfg.AppName)
	assert.Equal(t, constants.DefaultBaseURL, cfg.Crawler.BaseURL)
	assert.Equal(t, "https://propertysearch.hicentral.com/HBR/ForSale/?/Results/HotSheet//1//", cfg.Crawler.StartURL())
	assert.True(t, cfg.Crawler.Debug)
	assert.Zero(t, cfg.Crawler.RequestTimeout)

	assert.Equal(t, constants.DelayStrategyRandom, cfg.Delay.Strategy)
	assert.Equal(t, time.Second, cfg.Delay.Min)
	assert.Equal(t, 3*time.Second, cfg.Delay.Max)

	assert.Equal(t, "dump_hicentral_ads.json", cfg.Output.DumpFilename)
	assert.False(t, cfg.FluentBit.Enabled)
	assert.Equal(t, "debug", cfg.StdoutLogger.Level)
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	path := writeEnvFile(t, `
HICENTRAL_BASE_URL=http://127.0.0.1:8080/
CRAWL_DEBUG=false
DELAY_MIN_SECONDS=0.5
DELAY_MAX_SECONDS=1.25
DUMP_FILENAME=out.json
REQUEST_TIMEOUT_SECONDS=15
`)
	// godotenv пишет прямо в окружение процесса
	t.Cleanup(func() {
		for _, key := range []string{"HICENTRAL_BASE_URL", "CRAWL_DEBUG", "DELAY_MIN_SECONDS", "DELAY_MAX_SECONDS", "DUMP_FILENAME", "REQUEST_TIMEOUT_SECONDS"} {
			os.Unsetenv(key)
		}
	})

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, cfg.Crawler.Debug)
	assert.Equal(t, "http://127.0.0.1:8080/HBR/ForSale/?/Results/HotSheet//1//", cfg.Crawler.StartURL())
	assert.Equal(t, 500*time.Millisecond, cfg.Delay.Min)
	assert.Equal(t, 1250*time.Millisecond, cfg.Delay.Max)
	assert.Equal(t, 15*time.Second, cfg.Crawler.RequestTimeout)
	assert.Equal(t, "out.json", cfg.Output.DumpFilename)
}

func TestLoadConfigRejectsInvertedDelayBounds(t *testing.T) {
	t.Setenv("DELAY_MIN_SECONDS", "5")
	t.Setenv("DELAY_MAX_SECONDS", "1")

	_, err := LoadConfig(writeEnvFile(t, ""))
	assert.Error(t, err)
}

func TestLoadConfigTokenBucket(t *testing.T) {
	t.Setenv("DELAY_STRATEGY", "TOKEN_BUCKET")
	t.Setenv("DELAY_RATE_PER_SECOND", "2")
	t.Setenv("DELAY_BURST", "3")

	cfg, err := LoadConfig(writeEnvFile(t, ""))
	require.NoError(t, err)
	assert.Equal(t, constants.DelayStrategyTokenBucket, cfg.Delay.Strategy)
	assert.Equal(t, 2.0, cfg.Delay.RatePerSecond)
	assert.Equal(t, 3, cfg.Delay.Burst)
}

func TestLoadConfigUnknownStrategy(t *testing.T) {
	t.Setenv("DELAY_STRATEGY", "exponential")

	_, err := LoadConfig(writeEnvFile(t, ""))
	assert.Error(t, err)
}

func TestLoadConfigMissingExplicitEnvFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadConfigFluentWithoutHostIsDisabled(t *testing.T) {
	t.Setenv("FLUENTBIT_ENABLED", "true")
	t.Setenv("FLUENTBIT_HOST", "")

	cfg, err := LoadConfig(writeEnvFile(t, ""))
	require.NoError(t, err)
	assert.False(t, cfg.FluentBit.Enabled)
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "not-a-number")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}
