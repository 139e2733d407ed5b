package entities

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	DefaultBitbucketBaseURL = "https://api.bitbucket.org/2.0"
	DefaultRegistryURL      = "https://registry.npmjs.org"

	// RegistrySourceHTTP queries the registry's HTTP API for the latest version.
	RegistrySourceHTTP = "http"
	// RegistrySourceNpm shells out to "npm view".
	RegistrySourceNpm = "npm"
)

// Settings is the optional file configuration of the tool.
type Settings struct {
	Bitbucket BitbucketSettings `yaml:"bitbucket"`
	Registry  RegistrySettings  `yaml:"registry"`
	Manifest  ManifestSettings  `yaml:"manifest"`
	Branch    BranchSettings    `yaml:"branch"`
}

// BitbucketSettings configures the hosting service client.
type BitbucketSettings struct {
	BaseURL           string `yaml:"base_url"`
	CloseSourceBranch bool   `yaml:"close_source_branch"`
}

// RegistrySettings configures where the latest published version is looked up.
type RegistrySettings struct {
	Source string `yaml:"source"` // "http" or "npm"
	URL    string `yaml:"url"`
	Token  string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// ManifestSettings configures which file is updated and how dependencies are resolved.
type ManifestSettings struct {
	Path       string   `yaml:"path"`
	GroupOrder []string `yaml:"group_order"`
}

// BranchSettings configures the generated branch names.
type BranchSettings struct {
	Prefix string `yaml:"prefix"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// DefaultSettings returns the settings used when no configuration file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Bitbucket: BitbucketSettings{
			BaseURL:           DefaultBitbucketBaseURL,
			CloseSourceBranch: true,
		},
		Registry: RegistrySettings{
			Source: RegistrySourceHTTP,
			URL:    DefaultRegistryURL,
		},
		Manifest: ManifestSettings{
			Path: DefaultManifestPath,
		},
		Branch: BranchSettings{
			Prefix: DefaultBranchPrefix,
		},
	}
}

// NewSettings reads the configuration file at path on top of the defaults.
// An empty path yields the defaults.
func NewSettings(path string) (*Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}
	if unmarshalErr := yaml.Unmarshal(data, settings); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	settings.Bitbucket.BaseURL = strings.TrimSuffix(expandEnv(settings.Bitbucket.BaseURL), "/")
	settings.Registry.URL = strings.TrimSuffix(expandEnv(settings.Registry.URL), "/")
	settings.Registry.Token = resolveToken(settings.Registry.Token)

	if validateErr := settings.Validate(); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// Validate checks the values a run cannot proceed without.
func (s *Settings) Validate() error {
	if s.Bitbucket.BaseURL == "" {
		return errors.New("bitbucket.base_url is required")
	}
	switch s.Registry.Source {
	case RegistrySourceHTTP:
		if s.Registry.URL == "" {
			return errors.New("registry.url is required when registry.source is \"http\"")
		}
	case RegistrySourceNpm:
	default:
		return fmt.Errorf("registry.source must be %q or %q, got %q",
			RegistrySourceHTTP, RegistrySourceNpm, s.Registry.Source)
	}
	if s.Manifest.Path == "" {
		return errors.New("manifest.path is required")
	}
	if _, err := ParseGroupOrder(s.Manifest.GroupOrder); err != nil {
		return fmt.Errorf("manifest.group_order: %w", err)
	}
	return nil
}

// Order returns the configured dependency group precedence.
func (s ManifestSettings) Order() []DependencyGroup {
	order, err := ParseGroupOrder(s.GroupOrder)
	if err != nil {
		return DefaultGroupOrder()
	}
	return order
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".bitbucket-autopr.yaml",
		".bitbucket-autopr.yml",
		"bitbucket-autopr.yaml",
		"bitbucket-autopr.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

func expandEnv(raw string) string {
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// resolveToken expands ${VAR} references and, if the result names an existing
// file, reads the token from it.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := expandEnv(raw)
	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Debugf("Read registry token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}
