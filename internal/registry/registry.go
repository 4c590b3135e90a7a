// Package registry fetches the latest published version of a package from an
// npm compatible registry.
package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/glitch452/easy-npm-publish/internal/build"
	"go.uber.org/zap"
)

// DefaultTimeout bounds each registry request.
const DefaultTimeout = 30 * time.Second

// VersionDetails is the registry metadata of one published version.
type VersionDetails struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	GitHead string `json:"gitHead"`
}

func (d *VersionDetails) validate() error {
	switch {
	case d.Name == "":
		return errors.New(`missing "name"`)
	case d.Version == "":
		return errors.New(`missing "version"`)
	case d.GitHead == "":
		return errors.New(`missing "gitHead"`)
	}
	return nil
}

// metadata is the subset of the full package document that is read.
type metadata struct {
	DistTags struct {
		Latest string `json:"latest"`
	} `json:"dist-tags"`
	Versions map[string]*VersionDetails `json:"versions"`
}

// StatusError is returned for registry responses other than 2xx and 404.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch request failed using url %q: %s", e.URL, e.Status)
}

// Client queries a registry.
type Client struct {
	BaseURL    *url.URL
	Token      string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates a client for the registry at registryURL.
func NewClient(registryURL, token string, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(registryURL)
	if err != nil {
		return nil, fmt.Errorf("parsing registry url %q: %w", registryURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("registry url %q must include a scheme and host", registryURL)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		BaseURL:    base,
		Token:      token,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
		Logger:     logger,
	}, nil
}

// Latest returns the details of the version the "latest" dist-tag points to.
// It returns nil without error when the package does not exist.
//
// The "/<name>/latest" endpoint is tried first; registries that lack it
// (GitHub Packages) are served from the full package document.
func (c *Client) Latest(ctx context.Context, name string) (*VersionDetails, error) {
	if details := c.fromLatestEndpoint(ctx, name); details != nil {
		c.Logger.Debug("registry details retrieved from latest endpoint", zap.String("package", name))
		return details, nil
	}

	u := c.packageURL(name)
	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	switch {
	case status.code == http.StatusNotFound:
		c.Logger.Debug("package not found in registry", zap.String("package", name))
		return nil, nil
	case status.code < 200 || status.code > 299:
		return nil, &StatusError{URL: u, StatusCode: status.code, Status: status.text}
	}

	var doc metadata
	if err := json.NewDecoder(body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding registry metadata from %q: %w", u, err)
	}

	details := doc.Versions[doc.DistTags.Latest]
	if details == nil {
		return nil, nil
	}
	if err := details.validate(); err != nil {
		return nil, fmt.Errorf("registry metadata for %s@%s: %w", name, doc.DistTags.Latest, err)
	}
	return details, nil
}

// fromLatestEndpoint returns nil on any failure so the caller falls back.
func (c *Client) fromLatestEndpoint(ctx context.Context, name string) *VersionDetails {
	u := c.packageURL(name) + "/latest"
	body, status, err := c.get(ctx, u)
	if err != nil {
		c.Logger.Debug("latest endpoint unavailable", zap.String("url", u), zap.Error(err))
		return nil
	}
	defer body.Close()

	if status.code < 200 || status.code > 299 {
		c.Logger.Debug("latest endpoint unavailable", zap.String("url", u), zap.Int("status", status.code))
		return nil
	}

	var details VersionDetails
	if err := json.NewDecoder(body).Decode(&details); err != nil {
		return nil
	}
	if err := details.validate(); err != nil {
		c.Logger.Debug("latest endpoint returned incomplete details", zap.Error(err))
		return nil
	}
	return &details
}

type httpStatus struct {
	code int
	text string
}

func (c *Client) get(ctx context.Context, u string) (io.ReadCloser, httpStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, httpStatus{}, fmt.Errorf("creating request for %q: %w", u, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", build.UserAgent())
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	client := c.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, httpStatus{}, fmt.Errorf("requesting %q: %w", u, err)
	}
	return resp.Body, httpStatus{code: resp.StatusCode, text: resp.Status}, nil
}

// packageURL joins the escaped package name onto the registry base URL.
// Scoped names keep the @ and encode the slash.
func (c *Client) packageURL(name string) string {
	base := strings.TrimSuffix(c.BaseURL.String(), "/")
	return base + "/" + url.PathEscape(name)
}
