package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetConfigFile(t *testing.T) {
	originalCfgFile := cfgFile
	defer func() {
		cfgFile = originalCfgFile
	}()

	tests := []struct {
		name     string
		cfgValue string
		want     string
	}{
		{
			name:     "default config file",
			cfgValue: defaultConfigFile,
			want:     "gomerge.yaml",
		},
		{
			name:     "custom config file",
			cfgValue: "/path/to/custom.yaml",
			want:     "/path/to/custom.yaml",
		},
		{
			name:     "config file with spaces",
			cfgValue: "/path/to/my config.yaml",
			want:     "/path/to/my config.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgFile = tt.cfgValue
			got := GetConfigFile()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetCLIOverrides(t *testing.T) {
	defer resetFlags()

	tests := []struct {
		name      string
		mode      string
		logLevel  string
		logFormat string
		want      CLIOverrides
	}{
		{
			name: "empty overrides",
			want: CLIOverrides{},
		},
		{
			name:      "all overrides set",
			mode:      "post_save",
			logLevel:  "debug",
			logFormat: "json",
			want: CLIOverrides{
				Mode:      "post_save",
				LogLevel:  "debug",
				LogFormat: "json",
			},
		},
		{
			name:     "partial overrides",
			logLevel: "warn",
			want: CLIOverrides{
				LogLevel: "warn",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mergeMode = tt.mode
			logLevel = tt.logLevel
			logFormat = tt.logFormat

			got := GetCLIOverrides()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootCommandStructure(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "gomerge", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.Equal(t, Version, rootCmd.Version)
}

func TestRootCommandPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	configFlag := flags.Lookup("config")
	if assert.NotNil(t, configFlag) {
		assert.Equal(t, "c", configFlag.Shorthand)
		assert.Equal(t, "gomerge.yaml", configFlag.DefValue)
	}

	modeFlag := flags.Lookup("mode")
	if assert.NotNil(t, modeFlag) {
		assert.Equal(t, "m", modeFlag.Shorthand)
		assert.Equal(t, "", modeFlag.DefValue)
	}

	for _, name := range []string{"log-level", "log-format"} {
		flag := flags.Lookup(name)
		if assert.NotNil(t, flag, name) {
			assert.Equal(t, "", flag.DefValue)
		}
	}

	noColorFlag := flags.Lookup("no-color")
	if assert.NotNil(t, noColorFlag) {
		assert.Equal(t, "false", noColorFlag.DefValue)
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	commands := rootCmd.Commands()
	commandNames := make([]string, len(commands))
	for i, cmd := range commands {
		commandNames[i] = cmd.Name()
	}

	for _, expected := range []string{"merge", "plan", "save", "schema", "validate", "version"} {
		assert.Contains(t, commandNames, expected, "missing %s command", expected)
	}
}

func TestLoadConfig_DefaultsWhenDefaultFileMissing(t *testing.T) {
	resetFlags()
	defer resetFlags()
	mergeMode = "post_save"

	cfg, err := loadConfig()
	assert.NoError(t, err)
	if assert.NotNil(t, cfg) {
		assert.Equal(t, "post_save", cfg.Merge.Mode)
		assert.True(t, cfg.Validation.FailOnViolations)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	defer resetFlags()

	t.Run("missing custom file", func(t *testing.T) {
		resetFlags()
		cfgFile = "/nonexistent/gomerge.yaml"
		_, err := loadConfig()
		assert.ErrorContains(t, err, "failed to load config")
	})

	t.Run("invalid mode override", func(t *testing.T) {
		resetFlags()
		mergeMode = "overwrite"
		_, err := loadConfig()
		assert.ErrorContains(t, err, "invalid configuration")
	})
}
