package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"
	dirMode        = 0700
	fileMode       = 0600

	modelFileName     = "model.xgb"
	scalerFileName    = "scaler.yaml"
	referenceFileName = "reference.csv"

	fallbackScoreDefault = 0.5
)

// Config represents app config object.
type Config struct {
	// ModelPath is the serialized classifier artifact.
	ModelPath string `yaml:"model"`
	// ScalerPath is the fitted standardizer parameters file.
	ScalerPath string `yaml:"scaler"`
	// ReferencePath is the training pipeline's reference CSV export.
	ReferencePath string `yaml:"reference"`
	// ArtifactBaseURL is where artifact fetch downloads from.
	ArtifactBaseURL string `yaml:"artifact_base_url,omitempty"`
	// FallbackScore is assigned to routes that cannot be scored. Zero is
	// a valid value; a missing key means the default.
	FallbackScore *float64 `yaml:"fallback_score"`
}

func getDefaultConfig(dirPath string) *Config {
	return &Config{
		ModelPath:     filepath.Join(dirPath, modelFileName),
		ScalerPath:    filepath.Join(dirPath, scalerFileName),
		ReferencePath: filepath.Join(dirPath, referenceFileName),
		FallbackScore: floatPtr(fallbackScoreDefault),
	}
}

func floatPtr(v float64) *float64 {
	return &v
}

// Save writes the config into the given directory.
func Save(dirPath string, c *Config) error {
	if dirPath == "" {
		return errors.New("config directory required")
	}
	if c == nil {
		return errors.New("config required")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	path := filepath.Join(dirPath, configFileName)
	if err := os.WriteFile(path, b, fileMode); err != nil {
		return errors.Wrapf(err, "failed to write config file: %s", configFileName)
	}
	return nil
}

// ReadOrCreate reads app config from directory or creates a new one with
// defaults relative to that directory.
func ReadOrCreate(dirPath string) (*Config, error) {
	if dirPath == "" {
		return nil, errors.New("config directory required")
	}

	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			return nil, errors.Wrapf(err, "failed to create dir: %s", dirPath)
		}
	}

	path := filepath.Join(dirPath, configFileName)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err := Save(dirPath, getDefaultConfig(dirPath)); err != nil {
			return nil, errors.Wrap(err, "failed to create default config")
		}
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading config file: %s", path)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling config file: %s", path)
	}
	if c.FallbackScore == nil {
		c.FallbackScore = floatPtr(fallbackScoreDefault)
	}
	return &c, nil
}

// GetOrCreateHomeDir returns the app home directory for the current user.
// The create flag is set to true if the directory was created.
func GetOrCreateHomeDir(name string) (path string, created bool, err error) {
	if name == "" {
		return "", false, errors.New("name cannot be empty")
	}

	if !strings.HasPrefix(name, ".") {
		name = "." + name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", false, errors.Wrap(err, "failed to get user home dir")
	}
	log.Debugf("home dir: %s", home)

	dir := filepath.Join(home, name)
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		log.Debugf("creating dir: %s", dir)
		if err := os.Mkdir(dir, dirMode); err != nil {
			return "", false, errors.Wrapf(err, "failed to create dir: %s", dir)
		}
		created = true
	}
	return dir, created, nil
}
