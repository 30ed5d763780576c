package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func missingEnvFile(t *testing.T) string {
	return "--env-file=" + filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig([]string{missingEnvFile(t)})
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Duration(0), cfg.Revalidate)
	assert.Equal(t, 30*time.Minute, cfg.PageIdleTimeout)
	assert.Equal(t, time.Minute, cfg.JanitorInterval)
	assert.Equal(t, language.English, cfg.LanguageTag())
	assert.False(t, cfg.SecureCookies)
}

func TestLoadConfig_EnvironmentAndFlags(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("REVALIDATE", "1m")
	t.Setenv("LOCALE", "sv")

	cfg, err := LoadConfig([]string{missingEnvFile(t), "--fetch-timeout=3s", "--secure-cookies"})
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, time.Minute, cfg.Revalidate)
	assert.Equal(t, 3*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "sv", cfg.LanguageTag().String())
	assert.True(t, cfg.SecureCookies)
}

func TestLoadConfig_DotenvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envPath, []byte("API_BASE_URL=http://api.internal:9000\nSESSION_SECRET=dotenv-secret\n"), 0o600))
	t.Cleanup(func() {
		os.Unsetenv("API_BASE_URL")
		os.Unsetenv("SESSION_SECRET")
	})

	cfg, err := LoadConfig([]string{"--env-file", envPath})
	require.NoError(t, err)

	assert.Equal(t, "http://api.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, "dotenv-secret", cfg.SessionSecret)
}

func TestLoadConfig_RejectsRelativeBaseURL(t *testing.T) {
	_, err := LoadConfig([]string{missingEnvFile(t), "--api-base-url=/posts"})
	assert.ErrorContains(t, err, "absolute URL")
}

func TestLoadConfig_RejectsBadLocale(t *testing.T) {
	_, err := LoadConfig([]string{missingEnvFile(t), "--locale=not a locale"})
	assert.ErrorContains(t, err, "LOCALE")
}

func TestConfig_ValidateDurations(t *testing.T) {
	base := Config{
		Port:            "3000",
		APIBaseURL:      DefaultAPIBaseURL,
		FetchTimeout:    time.Second,
		PageIdleTimeout: time.Minute,
		JanitorInterval: time.Second,
		Locale:          "en",
	}
	require.NoError(t, base.Validate())

	noTimeout := base
	noTimeout.FetchTimeout = 0
	assert.ErrorContains(t, noTimeout.Validate(), "FETCH_TIMEOUT")

	noIdle := base
	noIdle.PageIdleTimeout = 0
	assert.ErrorContains(t, noIdle.Validate(), "PAGE_IDLE_TIMEOUT")
}
