package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/viper"
)

// Load reads a gomerge YAML file. Keys it leaves out keep the values of
// DefaultConfig, so a file holding only relations is a complete config.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper decodes the merge, validation, relation, source and logging
// sections held by v over the defaults.
func LoadFromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	for _, field := range cfg.expandable() {
		*field = expandEnvVar(*field)
	}
	return cfg, nil
}

// envVarPattern matches ${NAME} and $NAME.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandable lists the settings that may reference the environment: the
// source connection read by the schema command and the log destination.
func (c *Config) expandable() []*string {
	return []*string{
		&c.Source.Host,
		&c.Source.User,
		&c.Source.Password,
		&c.Source.Database,
		&c.Logging.Output,
	}
}

// expandEnvVar substitutes ${NAME} and $NAME references. Unset variables
// are left as written.
func expandEnvVar(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.TrimPrefix(match, "$")
		name = strings.TrimSuffix(strings.TrimPrefix(name, "{"), "}")
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return match
	})
}

// ApplyOverrides applies the --mode, --log-level and --log-format flags.
// Empty values keep the file's settings.
func (c *Config) ApplyOverrides(mode, logLevel, logFormat string) {
	if mode != "" {
		c.Merge.Mode = mode
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
}
