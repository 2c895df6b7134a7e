package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every lookup location at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "", cfg.DB)
	assert.Equal(t, "dev", cfg.Log.Mode)
	assert.Equal(t, "local", cfg.Generator.Mode)
	assert.Equal(t, "http://127.0.0.1:8000/api", cfg.Generator.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, 3, cfg.Generator.Retry.MaxAttempts)
	assert.Equal(t, 2000, cfg.Ingest.ChunkSize)
	assert.Equal(t, 500, cfg.Ingest.MaxRows)
	assert.Equal(t, 4, cfg.Evaluation.Options)
	assert.Equal(t, 20, cfg.Snapshots.Keep)
	assert.Equal(t, ":8000", cfg.Server.Addr)

	gen := cfg.Cardgen()
	assert.Equal(t, 500, gen.MaxRows)
	assert.Equal(t, cfg.Generator.Retry.InitialWait, gen.Retry.InitialWait)
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	confDir := filepath.Join(dir, "flashcarding")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	yaml := "generator:\n  mode: remote\n  timeout: 5s\nsnapshots:\n  keep: 7\nevaluation:\n  options: 3\n"
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "config.yaml"), []byte(yaml), 0o644))

	t.Setenv("FLASHCARDING_SNAPSHOTS_KEEP", "9")
	t.Setenv("FLASHCARDING_SERVER_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("options", 4, "")
	require.NoError(t, flags.Parse([]string{"--options", "5"}))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, "remote", cfg.Generator.Mode, "file over default")
	assert.Equal(t, 5*time.Second, cfg.Generator.Timeout)
	assert.Equal(t, 9, cfg.Snapshots.Keep, "env over file")
	assert.Equal(t, 5, cfg.Evaluation.Options, "flag over file")
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestLoad_UnsetFlagKeepsLowerLayers(t *testing.T) {
	isolate(t)
	t.Setenv("FLASHCARDING_INGEST_CHUNK_SIZE", "1000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("chunk-size", 2000, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load(Options{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, 1000, cfg.Ingest.ChunkSize)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	const key = "FLASHCARDING_INGEST_MAX_ROWS"
	t.Cleanup(func() { os.Unsetenv(key) })

	path := filepath.Join(dir, "custom.env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=42\n"), 0o644))

	cfg, err := Load(Options{EnvFile: path})
	require.NoError(t, err)
	assert.Equal(t, 42, cfg.Ingest.MaxRows)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		opts func(dir string) Options
	}{
		{"bad generator mode", map[string]string{"FLASHCARDING_GENERATOR_MODE": "cloud"}, nil},
		{"too few options", map[string]string{"FLASHCARDING_EVALUATION_OPTIONS": "1"}, nil},
		{"bad log level", map[string]string{"FLASHCARDING_LOG_LEVEL": "loud"}, nil},
		{"max wait below initial", map[string]string{"FLASHCARDING_GENERATOR_RETRY_MAX_WAIT": "1ms"}, nil},
		{"missing explicit file", nil, func(dir string) Options {
			return Options{File: filepath.Join(dir, "nope.yaml")}
		}},
		{"missing explicit env file", nil, func(dir string) Options {
			return Options{EnvFile: filepath.Join(dir, "nope.env")}
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := isolate(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			var opts Options
			if tc.opts != nil {
				opts = tc.opts(dir)
			}
			_, err := Load(opts)
			assert.Error(t, err)
		})
	}
}
