//go:build unit

package bitbucket_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
	"github.com/Ulis123/bitbucket-auto-pull-request/internal/infrastructure/repositories/bitbucket"
)

func newRepository(t *testing.T, handler http.Handler, credentials entities.Credentials) *bitbucket.HostingRepository {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return bitbucket.NewHostingRepositoryWithClient(bitbucket.NewClient(server.URL, credentials, server.Client()))
}

func tokenCredentials() entities.Credentials {
	return entities.Credentials{Kind: entities.AuthToken, Token: "secret-token"}
}

func TestHostingRepositoryWorkspaceExists(t *testing.T) {
	t.Parallel()

	t.Run("should authenticate with a bearer token", func(t *testing.T) {
		t.Parallel()

		// given
		var authorization string
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authorization = r.Header.Get("Authorization")
			assert.Equal(t, "/workspaces/acme", r.URL.Path)
			_, _ = io.WriteString(w, `{"slug":"acme"}`)
		}), tokenCredentials())

		// when
		err := repository.WorkspaceExists(context.Background(), "acme")

		// then
		require.NoError(t, err)
		assert.Equal(t, "Bearer secret-token", authorization)
	})

	t.Run("should authenticate with username and password", func(t *testing.T) {
		t.Parallel()

		// given
		var username, password string
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, _ = r.BasicAuth()
			_, _ = io.WriteString(w, `{}`)
		}), entities.Credentials{Kind: entities.AuthBasic, Username: "jdoe", Password: "app-password"})

		// when
		err := repository.WorkspaceExists(context.Background(), "acme")

		// then
		require.NoError(t, err)
		assert.Equal(t, "jdoe", username)
		assert.Equal(t, "app-password", password)
	})

	t.Run("should map a 404 to workspace not found", func(t *testing.T) {
		t.Parallel()

		// given
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"type":"error","error":{"message":"No workspace with identifier 'nope'."}}`)
		}), tokenCredentials())

		// when
		err := repository.WorkspaceExists(context.Background(), "nope")

		// then
		require.ErrorIs(t, err, entities.ErrWorkspaceNotFound)
	})

	t.Run("should flatten other API errors into one message", func(t *testing.T) {
		t.Parallel()

		// given
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w,
				`{"type":"error","error":{"message":"Unauthorized","detail":"Token is expired"}}`)
		}), tokenCredentials())

		// when
		err := repository.WorkspaceExists(context.Background(), "acme")

		// then
		var apiErr *bitbucket.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "Unauthorized", apiErr.Message)
		assert.Equal(t, "Token is expired", apiErr.Detail)
		assert.Contains(t, err.Error(), "Unauthorized: Token is expired")
	})

	t.Run("should fall back to the status text for unstructured errors", func(t *testing.T) {
		t.Parallel()

		// given
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = io.WriteString(w, "upstream unavailable")
		}), tokenCredentials())

		// when
		err := repository.WorkspaceExists(context.Background(), "acme")

		// then
		var apiErr *bitbucket.APIError
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, "Bad Gateway", apiErr.Message)
		assert.Equal(t, "upstream unavailable", apiErr.Detail)
	})
}

func TestHostingRepositoryRepositoryExists(t *testing.T) {
	t.Parallel()

	t.Run("should map a 404 to repository not found", func(t *testing.T) {
		t.Parallel()

		// given
		var requested string
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested = r.URL.Path
			w.WriteHeader(http.StatusNotFound)
		}), tokenCredentials())

		// when
		err := repository.RepositoryExists(context.Background(), "acme", "web-app")

		// then
		require.ErrorIs(t, err, entities.ErrRepositoryNotFound)
		assert.Equal(t, "/repositories/acme/web-app", requested)
	})
}

func TestHostingRepositoryListBranches(t *testing.T) {
	t.Parallel()

	t.Run("should follow the next link across pages", func(t *testing.T) {
		t.Parallel()

		// given
		var serverURL string
		mux := http.NewServeMux()
		mux.HandleFunc("/repositories/acme/web-app/refs/branches", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				_, _ = io.WriteString(w, `{"values":[{"name":"develop","target":{"hash":"def456"}}]}`)
				return
			}
			assert.Equal(t, "100", r.URL.Query().Get("pagelen"))
			_, _ = fmt.Fprintf(w, `{"values":[{"name":"main","target":{"hash":"abc123"}}],`+
				`"next":"%s/repositories/acme/web-app/refs/branches?pagelen=100&page=2"}`, serverURL)
		})
		server := httptest.NewServer(mux)
		t.Cleanup(server.Close)
		serverURL = server.URL
		repository := bitbucket.NewHostingRepositoryWithClient(
			bitbucket.NewClient(server.URL, tokenCredentials(), server.Client()))

		// when
		branches, err := repository.ListBranches(context.Background(), "acme", "web-app")

		// then
		require.NoError(t, err)
		assert.Equal(t, []entities.Branch{
			{Name: "main", Hash: "abc123"},
			{Name: "develop", Hash: "def456"},
		}, branches)
	})

	t.Run("should return no branches for an empty repository", func(t *testing.T) {
		t.Parallel()

		// given
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"values":[]}`)
		}), tokenCredentials())

		// when
		branches, err := repository.ListBranches(context.Background(), "acme", "web-app")

		// then
		require.NoError(t, err)
		assert.Empty(t, branches)
	})
}

func TestHostingRepositoryReadFile(t *testing.T) {
	t.Parallel()

	t.Run("should read the raw file at the commit", func(t *testing.T) {
		t.Parallel()

		// given
		var requested string
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requested = r.URL.Path
			_, _ = io.WriteString(w, `{"name":"app"}`)
		}), tokenCredentials())

		// when
		content, err := repository.ReadFile(context.Background(), "acme", "web-app", "abc123", "web/package.json")

		// then
		require.NoError(t, err)
		assert.Equal(t, `{"name":"app"}`, string(content))
		assert.Equal(t, "/repositories/acme/web-app/src/abc123/web/package.json", requested)
	})
}

func TestHostingRepositoryCreateBranch(t *testing.T) {
	t.Parallel()

	t.Run("should create the branch from the given commit", func(t *testing.T) {
		t.Parallel()

		// given
		var received bitbucket.CreateBranchRequest
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/repositories/acme/web-app/refs/branches", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"name":"patch/left-pad-1.2.0","target":{"hash":"abc123"}}`)
		}), tokenCredentials())

		// when
		branch, err := repository.CreateBranch(context.Background(), "acme", "web-app", "patch/left-pad-1.2.0", "abc123")

		// then
		require.NoError(t, err)
		assert.Equal(t, "patch/left-pad-1.2.0", received.Name)
		assert.Equal(t, "abc123", received.Target.Hash)
		assert.Equal(t, &entities.Branch{Name: "patch/left-pad-1.2.0", Hash: "abc123"}, branch)
	})
}

func TestHostingRepositoryCommitFile(t *testing.T) {
	t.Parallel()

	t.Run("should send the file and commit metadata as a multipart form", func(t *testing.T) {
		t.Parallel()

		// given
		fields := map[string]string{}
		var fileContent string
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repositories/acme/web-app/src", r.URL.Path)
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			for key, values := range r.MultipartForm.Value {
				fields[key] = values[0]
			}
			file, _, err := r.FormFile("package.json")
			if assert.NoError(t, err) {
				data, _ := io.ReadAll(file)
				fileContent = string(data)
			}
			w.WriteHeader(http.StatusCreated)
		}), tokenCredentials())
		input := entities.CommitInput{
			Branch:     "patch/left-pad-1.2.0",
			ParentHash: "abc123",
			Path:       "package.json",
			Content:    []byte(`{"dependencies":{"left-pad":"^1.2.0"}}`),
			Message:    "Update left-pad to 1.2.0",
		}

		// when
		err := repository.CommitFile(context.Background(), "acme", "web-app", input)

		// then
		require.NoError(t, err)
		assert.Equal(t, map[string]string{
			"message": "Update left-pad to 1.2.0",
			"branch":  "patch/left-pad-1.2.0",
			"parents": "abc123",
		}, fields)
		assert.JSONEq(t, `{"dependencies":{"left-pad":"^1.2.0"}}`, fileContent)
	})
}

func TestHostingRepositoryCreatePullRequest(t *testing.T) {
	t.Parallel()

	t.Run("should open the pull request and return its web URL", func(t *testing.T) {
		t.Parallel()

		// given
		var received map[string]any
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/repositories/acme/web-app/pullrequests", r.URL.Path)
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id":7,"title":"Update left-pad to 1.2.0","state":"OPEN",`+
				`"links":{"html":{"href":"https://bitbucket.org/acme/web-app/pull-requests/7"}}}`)
		}), tokenCredentials())
		input := entities.PullRequestInput{
			SourceBranch:      "patch/left-pad-1.2.0",
			TargetBranch:      "main",
			Title:             "Update left-pad to 1.2.0",
			Description:       "This is automatically-generated PR to update left-pad to 1.2.0",
			CloseSourceBranch: true,
		}

		// when
		pr, err := repository.CreatePullRequest(context.Background(), "acme", "web-app", input)

		// then
		require.NoError(t, err)
		assert.Equal(t, &entities.PullRequest{
			ID:    7,
			Title: "Update left-pad to 1.2.0",
			URL:   "https://bitbucket.org/acme/web-app/pull-requests/7",
		}, pr)
		assert.Equal(t, true, received["close_source_branch"])
		assert.Equal(t, map[string]any{"branch": map[string]any{"name": "patch/left-pad-1.2.0"}}, received["source"])
		assert.Equal(t, map[string]any{"branch": map[string]any{"name": "main"}}, received["destination"])
	})

	t.Run("should surface the error detail of a rejected pull request", func(t *testing.T) {
		t.Parallel()

		// given
		repository := newRepository(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"type":"error","error":{"message":"Bad request",`+
				`"fields":{"source":["branch not found"]}}}`)
		}), tokenCredentials())

		// when
		_, err := repository.CreatePullRequest(context.Background(), "acme", "web-app", entities.PullRequestInput{})

		// then
		require.Error(t, err)
		assert.True(t, bitbucket.IsStatus(err, http.StatusBadRequest))
		assert.Contains(t, err.Error(), "Bad request")
	})
}
