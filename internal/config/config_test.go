package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/skillswap/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                   ":8080",
		SiteURL:                "http://localhost:8080",
		LogLevel:               "INFO",
		LogFormat:              "text",
		SupabaseURL:            "https://abc.supabase.co",
		SupabaseAnonKey:        "anon-key",
		AvatarBucket:           "avatars",
		S3Region:               "auto",
		SentryTracesSampleRate: 0.1,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_MissingSupabase(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		message string
	}{
		{
			name:    "missing url",
			mutate:  func(c *config.Config) { c.SupabaseURL = "" },
			message: "SUPABASE_URL is required",
		},
		{
			name:    "relative url",
			mutate:  func(c *config.Config) { c.SupabaseURL = "abc.supabase.co" },
			message: "SUPABASE_URL must be an absolute URL",
		},
		{
			name:    "missing anon key",
			mutate:  func(c *config.Config) { c.SupabaseAnonKey = "" },
			message: "SUPABASE_ANON_KEY is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_SampleRate(t *testing.T) {
	for _, rate := range []float64{-0.1, 1.5} {
		cfg := validConfig()
		cfg.SentryTracesSampleRate = rate
		assert.Error(t, cfg.Validate(), "rate %v should be rejected", rate)
	}

	cfg := validConfig()
	cfg.SentryTracesSampleRate = 1
	assert.NoError(t, cfg.Validate())
}

func TestValidate_LogFormat(t *testing.T) {
	cfg := validConfig()
	cfg.LogFormat = "yaml"
	assert.Error(t, cfg.Validate())

	cfg.LogFormat = "JSON"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_S3RequiresEndpoint(t *testing.T) {
	cfg := validConfig()
	cfg.S3Bucket = "avatars"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "S3_ENDPOINT")

	cfg.S3Endpoint = "https://account.r2.cloudflarestorage.com"
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.UseS3())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://abc.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
	t.Setenv("SITE_URL", "https://skillswap.example/")
	t.Setenv("SENTRY_TRACES_SAMPLE_RATE", "0.5")
	t.Setenv("DB_PATH", "file:test.db")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://abc.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "https://skillswap.example", cfg.SiteURL)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "avatars", cfg.AvatarBucket)
	assert.Equal(t, 0.5, cfg.SentryTracesSampleRate)
	assert.True(t, cfg.UseSQLite())
	assert.False(t, cfg.UseS3())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("SENTRY_TRACES_SAMPLE_RATE", "lots")

	_, err := config.Load()
	assert.Error(t, err)
}
