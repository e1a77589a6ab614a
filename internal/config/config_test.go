// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 EmberMUD Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermud/embermud/pkg/errutil"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "embermud.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.Server.TelnetAddr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 10, cfg.Limits.Burst)
	assert.True(t, cfg.Database.AutoMigrate)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  telnetAddr: ":5000"
log:
  level: debug
  format: text
limits:
  burst: 3
`)
	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.Server.TelnetAddr)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 3, cfg.Limits.Burst)
	// Untouched keys keep their defaults.
	assert.Equal(t, ":9090", cfg.Server.MetricsAddr)
	assert.Equal(t, float64(5), cfg.Limits.Sustained)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, `
server:
  telnetAddr: ":5000"
`)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("server.telnetAddr", "", "")
	flags.String("database.url", "", "")
	require.NoError(t, flags.Parse([]string{
		"--server.telnetAddr=:6000",
		"--database.url=postgres://localhost/embermud",
	}))

	cfg, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, ":6000", cfg.Server.TelnetAddr)
	assert.Equal(t, "postgres://localhost/embermud", cfg.Database.URL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_FILE_FAILED")
}

func TestLoad_RejectsBadLevel(t *testing.T) {
	path := writeConfig(t, `
log:
  level: loud
`)
	_, err := Load(path, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestLoad_RejectsZeroBurst(t *testing.T) {
	path := writeConfig(t, `
limits:
  burst: -1
`)
	_, err := Load(path, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	schema := string(data)
	assert.Contains(t, schema, SchemaID)
	assert.Contains(t, schema, "telnetAddr")
	assert.Contains(t, schema, "seedPath")
	assert.Contains(t, schema, `"enum"`)
}

func TestValidate_DefaultIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}
