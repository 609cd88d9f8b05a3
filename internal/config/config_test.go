package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atinyakov/neoqrc/internal/config"
)

var envNames = []string{
	"SERVER_ADDRESS", "BASE_URL", "FILE_STORAGE_PATH", "DATABASE_DSN", "TRUSTED_SUBNET", "TRUSTED_PROXY",
	"GRPC_PORT", "REDIS_ADDR", "KAFKA_BROKERS", "KAFKA_TOPIC", "GEO_API_URL", "LOG_LEVEL",
	"LOG_FILE", "JWT_SECRET", "ENABLE_HTTPS", "ENABLE_PPROF", "COUNTDOWN_SECONDS",
	"LOOKUP_TIMEOUT", "CACHE_TTL", "HTTPS_HOSTS", "CONFIG",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envNames {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseArgs(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		opts, err := config.ParseArgs(nil)
		require.NoError(t, err)
		require.Equal(t, "localhost:8080", opts.Port)
		require.Equal(t, "http://localhost:8080", opts.ResultHostname)
		require.Equal(t, "", opts.FilePath)
		require.False(t, opts.EnableHTTPS)
		require.False(t, opts.EnablePprof)
		require.Equal(t, 3, opts.CountdownSeconds)
		require.Equal(t, 3*time.Second, opts.LookupTimeout.Duration)
		require.Equal(t, "qr-scans", opts.KafkaTopic)
		require.Empty(t, opts.Config)
	})

	t.Run("flags", func(t *testing.T) {
		clearEnv(t)

		opts, err := config.ParseArgs([]string{
			"-a", "127.0.0.1:9000", "-d", "postgres://flag", "-k", "b1:9092, b2:9092",
			"-countdown", "5", "-lookup-timeout", "500ms",
		})
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:9000", opts.Port)
		require.Equal(t, "postgres://flag", opts.DatabaseDSN)
		require.Equal(t, []string{"b1:9092", "b2:9092"}, opts.KafkaBrokers)
		require.Equal(t, 5, opts.CountdownSeconds)
		require.Equal(t, 500*time.Millisecond, opts.LookupTimeout.Duration)
	})

	t.Run("env overrides", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SERVER_ADDRESS", "127.0.0.1:9999")
		t.Setenv("BASE_URL", "http://example.com")
		t.Setenv("FILE_STORAGE_PATH", "/tmp/data")
		t.Setenv("ENABLE_HTTPS", "true")
		t.Setenv("TRUSTED_SUBNET", "192.168.0.0/24")
		t.Setenv("COUNTDOWN_SECONDS", "0")
		t.Setenv("LOOKUP_TIMEOUT", "2s")

		opts, err := config.ParseArgs([]string{"-a", "localhost:1"})
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:9999", opts.Port)
		require.Equal(t, "http://example.com", opts.ResultHostname)
		require.Equal(t, "/tmp/data", opts.FilePath)
		require.True(t, opts.EnableHTTPS)
		require.Equal(t, "192.168.0.0/24", opts.TrustedSubnet)
		require.Equal(t, 0, opts.CountdownSeconds)
		require.Equal(t, 2*time.Second, opts.LookupTimeout.Duration)
	})

	t.Run("config file", func(t *testing.T) {
		clearEnv(t)

		cfg := config.Options{
			Port:           "10.0.0.1:8081",
			ResultHostname: "http://testhost",
			FilePath:       "/config/path",
			DatabaseDSN:    "postgres://test",
			EnablePprof:    true,
			EnableHTTPS:    true,
			TrustedSubnet:  "10.10.0.0/16",
			LookupTimeout:  config.Duration{Duration: time.Second},
		}
		content, err := json.Marshal(cfg)
		require.NoError(t, err)
		t.Setenv("CONFIG", writeConfig(t, string(content)))

		opts, err := config.ParseArgs(nil)
		require.NoError(t, err)
		require.Equal(t, "10.0.0.1:8081", opts.Port)
		require.Equal(t, "http://testhost", opts.ResultHostname)
		require.Equal(t, "/config/path", opts.FilePath)
		require.Equal(t, "postgres://test", opts.DatabaseDSN)
		require.True(t, opts.EnablePprof)
		require.True(t, opts.EnableHTTPS)
		require.Equal(t, "10.10.0.0/16", opts.TrustedSubnet)
		require.Equal(t, time.Second, opts.LookupTimeout.Duration)
		require.Equal(t, "qr-scans", opts.KafkaTopic)
		require.Equal(t, 5*time.Minute, opts.CacheTTL.Duration)
		require.Equal(t, 3, opts.CountdownSeconds)
	})

	t.Run("trusted proxy", func(t *testing.T) {
		clearEnv(t)

		opts, err := config.ParseArgs([]string{"-trusted-proxy", "172.16.0.0/12"})
		require.NoError(t, err)
		require.Equal(t, "172.16.0.0/12", opts.TrustedProxy)

		t.Setenv("TRUSTED_PROXY", "10.0.0.1/32")
		opts, err = config.ParseArgs(nil)
		require.NoError(t, err)
		require.Equal(t, "10.0.0.1/32", opts.TrustedProxy)
	})

	t.Run("non-positive durations", func(t *testing.T) {
		clearEnv(t)

		_, err := config.ParseArgs([]string{"-cache-ttl", "0s"})
		require.Error(t, err)

		t.Setenv("CACHE_TTL", "-1m")
		_, err = config.ParseArgs(nil)
		require.Error(t, err)

		clearEnv(t)
		_, err = config.ParseArgs([]string{"-lookup-timeout", "0s"})
		require.Error(t, err)
	})

	t.Run("long lookup timeout", func(t *testing.T) {
		clearEnv(t)

		opts, err := config.ParseArgs([]string{"-lookup-timeout", "10s"})
		require.NoError(t, err)
		require.Equal(t, 10*time.Second, opts.LookupTimeout.Duration)
	})

	t.Run("flags beat config file", func(t *testing.T) {
		clearEnv(t)
		path := writeConfig(t, `{"server_address":"10.0.0.1:8081","base_url":"http://file"}`)

		opts, err := config.ParseArgs([]string{"-c", path, "-a", "0.0.0.0:80"})
		require.NoError(t, err)
		require.Equal(t, "0.0.0.0:80", opts.Port)
		require.Equal(t, "http://file", opts.ResultHostname)
		require.Equal(t, path, opts.Config)
	})

	t.Run("missing config file", func(t *testing.T) {
		clearEnv(t)

		_, err := config.ParseArgs([]string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		require.Error(t, err)
	})

	t.Run("bad env value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ENABLE_PPROF", "sometimes")

		_, err := config.ParseArgs(nil)
		require.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		clearEnv(t)

		_, err := config.ParseArgs([]string{"-zzz"})
		require.Error(t, err)
	})
}
