package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/grovetools/carbon/errors"
	"github.com/grovetools/carbon/pkg/paths"
	"github.com/grovetools/carbon/util/pathutil"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames lists the project file names searched in every directory,
// in order of precedence.
var configNames = []string{
	"carbon.yml",
	"carbon.yaml",
	".carbon.yml",
	".carbon.yaml",
	"carbon.toml",
}

// Load reads and parses a single configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg := &Config{}
	if err := decodeInto(cfg, path, data); err != nil {
		return nil, err
	}
	return finalize(cfg)
}

// LoadDefault loads configuration starting from the current directory.
func LoadDefault() (*Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to get current directory")
	}
	return LoadFrom(cwd)
}

// LoadFrom loads configuration with layering:
// 1. Built-in defaults
// 2. Global config (<config dir>/carbon.yml)
// 3. Project config found from startDir upward
//
// Neither file is required; with no file at all the defaults are returned.
func LoadFrom(startDir string) (*Config, error) {
	return LoadFromWithLogger(startDir, logrus.New())
}

// LoadFromWithLogger is LoadFrom with an explicit logger for debug output.
func LoadFromWithLogger(startDir string, logger *logrus.Logger) (*Config, error) {
	cfg := &Config{}

	globalPath := GlobalConfigPath()
	if globalPath != "" {
		if data, err := os.ReadFile(globalPath); err == nil {
			logger.WithField("path", globalPath).Debug("Loading global configuration")
			if err := decodeInto(cfg, globalPath, data); err != nil {
				logger.WithError(err).Warn("Failed to parse global configuration, continuing without it")
				cfg = &Config{}
			}
		}
	}

	projectPath, err := FindConfigFile(startDir)
	if err == nil && projectPath != globalPath {
		logger.WithField("path", projectPath).Debug("Loading project configuration")
		data, err := os.ReadFile(projectPath)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read project config").
				WithDetail("path", projectPath)
		}
		// Decoding onto the global layer only overrides keys the project sets.
		if err := decodeInto(cfg, projectPath, data); err != nil {
			return nil, err
		}
	}

	final, err := finalize(cfg)
	if err != nil {
		return nil, err
	}

	if logger.IsLevelEnabled(logrus.DebugLevel) {
		if out, err := yaml.Marshal(final); err == nil {
			logger.Debugf("Merged configuration:\n%s", string(out))
		}
	}
	return final, nil
}

// LoadFromBytes parses YAML configuration from a byte array.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := decodeInto(cfg, "carbon.yml", data); err != nil {
		return nil, err
	}
	return finalize(cfg)
}

// decodeInto expands environment variables and decodes YAML or TOML onto cfg.
// TOML is normalized through YAML so both formats share one decode path.
func decodeInto(cfg *Config, path string, data []byte) error {
	expanded := []byte(expandEnvVars(string(data)))

	if strings.HasSuffix(path, ".toml") {
		var raw map[string]interface{}
		if err := toml.Unmarshal(expanded, &raw); err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration").
				WithDetail("path", path)
		}
		normalized, err := yaml.Marshal(raw)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to normalize TOML configuration").
				WithDetail("path", path)
		}
		expanded = normalized
	}

	if err := yaml.Unmarshal(expanded, cfg); err != nil {
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration").
			WithDetail("path", path)
	}
	return nil
}

func finalize(cfg *Config) (*Config, error) {
	cfg.SetDefaults()
	if cfg.Cache.Path == "" && cfg.Cache.Backend == "badger" {
		if dir := paths.CacheDir(); dir != "" {
			cfg.Cache.Path = filepath.Join(dir, "emissions")
		}
	}
	if cfg.Cache.Path != "" {
		expanded, err := pathutil.Expand(cfg.Cache.Path)
		if err != nil {
			return nil, errors.ConfigValidation("cache.path", err.Error())
		}
		cfg.Cache.Path = expanded
	}

	validator, err := NewSchemaValidator()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to create validator")
	}
	if err := validator.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches for a carbon configuration file from startDir
// up to the filesystem root, then in the global config directory.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if globalPath := GlobalConfigPath(); globalPath != "" {
		if info, err := os.Stat(globalPath); err == nil && !info.IsDir() {
			return globalPath, nil
		}
	}

	return "", errors.ConfigNotFound(startDir).WithDetail("searchPath", startDir)
}

// GlobalConfigPath returns the path of the user-wide carbon.yml.
func GlobalConfigPath() string {
	dir := paths.ConfigDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "carbon.yml")
}

// expandEnvVars replaces ${VAR} with environment variable values.
// ${VAR:-default} falls back to default when VAR is unset or empty.
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
