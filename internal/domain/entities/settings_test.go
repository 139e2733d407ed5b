//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
)

func writeSettingsFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".bitbucket-autopr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewSettings(t *testing.T) {
	t.Run("should return the defaults without a file", func(t *testing.T) {
		// given
		path := ""

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultSettings(), settings)
		assert.True(t, settings.Bitbucket.CloseSourceBranch)
		assert.Equal(t, "patch/", settings.Branch.Prefix)
		assert.Equal(t, entities.DefaultGroupOrder(), settings.Manifest.Order())
	})

	t.Run("should overlay the file on the defaults", func(t *testing.T) {
		// given
		path := writeSettingsFile(t, `
bitbucket:
  close_source_branch: false
registry:
  source: npm
manifest:
  path: web/package.json
  group_order: [devDependencies, dependencies]
branch:
  prefix: deps/
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, entities.DefaultBitbucketBaseURL, settings.Bitbucket.BaseURL)
		assert.False(t, settings.Bitbucket.CloseSourceBranch)
		assert.Equal(t, entities.RegistrySourceNpm, settings.Registry.Source)
		assert.Equal(t, "web/package.json", settings.Manifest.Path)
		assert.Equal(t, []entities.DependencyGroup{
			entities.DevDependenciesGroup, entities.DependenciesGroup,
		}, settings.Manifest.Order())
		assert.Equal(t, "deps/", settings.Branch.Prefix)
	})

	t.Run("should expand environment variables in URLs and tokens", func(t *testing.T) {
		// given
		t.Setenv("AUTOPR_TEST_REGISTRY", "https://npm.example.com/")
		t.Setenv("AUTOPR_TEST_TOKEN", "s3cr3t")
		path := writeSettingsFile(t, `
registry:
  url: ${AUTOPR_TEST_REGISTRY}
  token: ${AUTOPR_TEST_TOKEN}
`)

		// when
		settings, err := entities.NewSettings(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "https://npm.example.com", settings.Registry.URL)
		assert.Equal(t, "s3cr3t", settings.Registry.Token)
	})

	t.Run("should reject an unknown registry source", func(t *testing.T) {
		// given
		path := writeSettingsFile(t, "registry:\n  source: yarn\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "registry.source")
	})

	t.Run("should reject an unknown dependency group", func(t *testing.T) {
		// given
		path := writeSettingsFile(t, "manifest:\n  group_order: [bundleDependencies]\n")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "manifest.group_order")
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		// given
		path := filepath.Join(t.TempDir(), "missing.yaml")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})

	t.Run("should fail for malformed YAML", func(t *testing.T) {
		// given
		path := writeSettingsFile(t, "bitbucket: [unterminated")

		// when
		_, err := entities.NewSettings(path)

		// then
		require.Error(t, err)
	})
}

func TestResolveToken(t *testing.T) {
	t.Run("should read the token from a file", func(t *testing.T) {
		// given
		tokenFile := filepath.Join(t.TempDir(), "token")
		require.NoError(t, os.WriteFile(tokenFile, []byte("from-file\n"), 0o600))

		// when
		token := entities.ResolveToken(tokenFile)

		// then
		assert.Equal(t, "from-file", token)
	})

	t.Run("should keep an inline token", func(t *testing.T) {
		// given
		raw := "inline-token"

		// when
		token := entities.ResolveToken(raw)

		// then
		assert.Equal(t, "inline-token", token)
	})

	t.Run("should resolve an unset variable to empty", func(t *testing.T) {
		// given
		raw := "${AUTOPR_TEST_UNSET_VARIABLE}"

		// when
		token := entities.ResolveToken(raw)

		// then
		assert.Empty(t, token)
	})
}
