package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		args       []string
		wantExit   bool
		wantErrMsg string
	}{
		{
			name: "defaults",
			args: nil,
		},
		{
			name:     "help requests a clean exit",
			args:     []string{"-h"},
			wantExit: true,
		},
		{
			name:       "unknown flag",
			args:       []string{"-bogus"},
			wantErrMsg: "flag provided but not defined",
		},
		{
			name:       "invalid log format",
			args:       []string{"-log-format", "xml"},
			wantErrMsg: "invalid log-format",
		},
		{
			name:       "invalid log level",
			args:       []string{"-log-level", "verbose"},
			wantErrMsg: "invalid log-level",
		},
		{
			name:       "metadata without registry",
			args:       []string{"-metadata", "meta.properties"},
			wantErrMsg: "-metadata requires -registry",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var out strings.Builder
			config, shouldExit, err := Parse(tc.args, &out)

			if tc.wantErrMsg != "" {
				require.Error(t, err)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				assert.Contains(t, err.Error(), tc.wantErrMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantExit, shouldExit)
			if !tc.wantExit {
				require.NotNil(t, config)
			}
		})
	}
}

func TestParse_PopulatesConfig(t *testing.T) {
	t.Parallel()

	// --- Arrange / Act ---
	var out strings.Builder
	config, shouldExit, err := Parse([]string{
		"-location", "file:custom.yaml, configtree:/etc/config/",
		"-profiles", "dev,local",
		"-registry", "candidates.properties",
		"-metadata", "metadata.properties",
		"-entry-point", "my.EntryPoint",
		"-ignore-not-found",
		"-log-format", "TEXT",
		"-log-level", "DEBUG",
	}, &out)

	// --- Assert ---
	require.NoError(t, err)
	require.False(t, shouldExit)
	assert.Equal(t, []string{"file:custom.yaml", "configtree:/etc/config/"}, config.Locations)
	assert.Equal(t, []string{"dev", "local"}, config.Profiles)
	assert.Equal(t, "candidates.properties", config.RegistryPath)
	assert.Equal(t, "metadata.properties", config.MetadataPath)
	assert.Equal(t, "my.EntryPoint", config.EntryPointKey)
	assert.True(t, config.IgnoreNotFound)
	assert.Equal(t, "text", config.LogFormat, "format is lowercased")
	assert.Equal(t, "debug", config.LogLevel)
}

func TestParse_HelpTextMentionsUsage(t *testing.T) {
	t.Parallel()

	var out strings.Builder
	_, shouldExit, err := Parse([]string{"-h"}, &out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "confboot [options]")
}
