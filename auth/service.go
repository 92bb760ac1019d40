package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultService is the credential service queried when no endpoint is
// configured.
const DefaultService = "https://roundtable.lsst.codes/segwarides/"

const defaultRequestTimeout = 30 * time.Second

// Credentials holds everything needed to reach one EFD deployment.
type Credentials struct {
	Host              string `json:"host" yaml:"host"`
	SchemaRegistryURL string `json:"schema_registry_url" yaml:"schema_registry_url"`
	Port              string `json:"port" yaml:"port"`
	Username          string `json:"username" yaml:"username"`
	Password          string `json:"password" yaml:"password"`
	Path              string `json:"path" yaml:"path"`
}

// ServiceClient retrieves per-deployment credentials from the credential
// service over HTTPS.
//
// Thread Safety: all methods are safe for concurrent use.
type ServiceClient struct {
	endpoint   string
	httpClient *http.Client
}

// NewServiceClient creates a client for the credential service at
// endpoint. An empty endpoint selects DefaultService.
func NewServiceClient(endpoint string) *ServiceClient {
	if endpoint == "" {
		endpoint = DefaultService
	}
	return &ServiceClient{
		endpoint:   strings.TrimRight(endpoint, "/") + "/",
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// ListAuth returns the deployment names the service holds credentials for.
func (s *ServiceClient) ListAuth(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.getJSON(ctx, s.endpoint+"creds", &names); err != nil {
		return nil, err
	}
	return names, nil
}

// GetAuth returns the credentials for the named deployment.
func (s *ServiceClient) GetAuth(ctx context.Context, alias string) (Credentials, error) {
	var creds Credentials
	if err := s.getJSON(ctx, s.endpoint+"creds/"+alias, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// getJSON performs a GET request and decodes the JSON response body.
func (s *ServiceClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrService, err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Drain body to allow connection reuse
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s", ErrUnknownAlias, url)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: status %d from %s", ErrService, resp.StatusCode, url)
	}

	const maxResponseSize = 1 << 20 // 1 MB
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%w: reading response: %w", ErrService, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decoding response: %w", ErrService, err)
	}
	return nil
}
