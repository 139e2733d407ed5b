package httpclient

import (
	"fmt"
	"net/http"
	"os"
	"strings"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	logger "github.com/sirupsen/logrus"

	"github.com/Ulis123/bitbucket-auto-pull-request/internal/domain/entities"
)

const uaEnvVar = "BITBUCKET_AUTOPR_APPEND_USER_AGENT"

// New returns the DefaultPooledClient from cleanhttp that also sends the tool's User-Agent.
func New() *http.Client {
	cli := cleanhttp.DefaultPooledClient()
	cli.Transport = &userAgentRoundTripper{
		userAgent: UserAgent(entities.AppVersion),
		inner:     cli.Transport,
	}
	return cli
}

type userAgentRoundTripper struct {
	inner     http.RoundTripper
	userAgent string
}

func (rt *userAgentRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if _, ok := req.Header["User-Agent"]; !ok {
		req.Header.Set("User-Agent", rt.userAgent)
	}
	logger.Debugf("HTTP %s %s", req.Method, req.URL.Redacted())
	return rt.inner.RoundTrip(req)
}

// UserAgent builds the User-Agent header, with anything in
// BITBUCKET_AUTOPR_APPEND_USER_AGENT appended.
func UserAgent(version string) string {
	ua := fmt.Sprintf("%s/%s", entities.AppName, version)
	if add := strings.TrimSpace(os.Getenv(uaEnvVar)); add != "" {
		ua += " " + add
	}
	return ua
}
