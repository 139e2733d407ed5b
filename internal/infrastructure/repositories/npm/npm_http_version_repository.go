package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/repositories"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/httpclient"
)

// HTTPVersionRepository reads the "latest" dist-tag from an npm registry's HTTP API.
type HTTPVersionRepository struct {
	registryURL string
	token       string
	httpClient  *http.Client
}

// NewHTTPVersionRepository creates an HTTPVersionRepository for the configured registry.
// Its signature matches the version registry's factory.
func NewHTTPVersionRepository(settings entities.RegistrySettings) repositories.VersionRepository {
	return NewHTTPVersionRepositoryWithClient(settings, httpclient.New())
}

// NewHTTPVersionRepositoryWithClient creates an HTTPVersionRepository using the given HTTP client.
func NewHTTPVersionRepositoryWithClient(
	settings entities.RegistrySettings,
	httpClient *http.Client,
) *HTTPVersionRepository {
	registryURL := settings.URL
	if registryURL == "" {
		registryURL = entities.DefaultRegistryURL
	}
	return &HTTPVersionRepository{
		registryURL: strings.TrimRight(registryURL, "/"),
		token:       settings.Token,
		httpClient:  httpClient,
	}
}

type distTagResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (it *HTTPVersionRepository) LatestVersion(ctx context.Context, name string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s/latest", it.registryURL, url.PathEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if it.token != "" {
		req.Header.Set("Authorization", "Bearer "+it.token)
	}

	resp, err := it.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch the latest version of %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("package %s is not published in %s", name, it.registryURL)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d fetching %s", resp.StatusCode, name)
	}

	var latest distTagResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&latest); decodeErr != nil {
		return "", fmt.Errorf("failed to parse the registry response for %s: %w", name, decodeErr)
	}
	if latest.Version == "" {
		return "", errors.New("registry response has no version for " + name)
	}

	logger.Debugf("Latest published version of %s is %s", name, latest.Version)
	return latest.Version, nil
}

var _ repositories.VersionRepository = (*HTTPVersionRepository)(nil)
