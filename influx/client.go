package influx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	influxclient "github.com/influxdata/influxdb1-client/v2"

	"github.com/lsst-sqre/efd-client-go/dataframe"
)

// Default timeouts for InfluxDB operations.
const (
	// defaultQueryTimeout bounds a single query round trip. EFD range
	// queries over long windows can legitimately take minutes.
	defaultQueryTimeout = 900 * time.Second

	defaultPingTimeout   = 5 * time.Second
	defaultHealthTimeout = 10 * time.Second
)

// Config describes an InfluxDB 1.x deployment.
type Config struct {
	// Addr is the base URL including any path prefix under which the
	// InfluxDB API is served, e.g. "https://efd.example.org:443/influxdb".
	Addr string

	// Database is the database queries run against.
	Database string

	Username string
	Password string

	// Timeout bounds each query round trip. Zero means
	// defaultQueryTimeout.
	Timeout time.Duration
}

// Client executes InfluxQL queries against an InfluxDB 1.x deployment and
// normalises responses into dataframes.
//
// Thread Safety: all methods are safe for concurrent use from multiple
// goroutines.
type Client struct {
	c  influxclient.Client
	db string

	connected bool
	mu        sync.RWMutex
}

// Connect dials an InfluxDB deployment and verifies it responds to a ping.
//
// Parameters:
//   - ctx: Context bounding the connection check
//   - cfg: Deployment address, database and credentials
//
// Returns:
//   - *Client: Connected client ready for queries
//   - error: If the address is invalid or the server is unreachable
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("%w: address is required", ErrConnectionFailed)
	}
	if cfg.Database == "" {
		return nil, fmt.Errorf("%w: database is required", ErrConnectionFailed)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}

	c, err := influxclient.NewHTTPClient(influxclient.HTTPConfig{
		Addr:     strings.TrimRight(cfg.Addr, "/"),
		Username: cfg.Username,
		Password: cfg.Password,
		Timeout:  timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	client := &Client{c: c, db: cfg.Database, connected: true}
	if err := client.Ping(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	return client, nil
}

// Health checks the deployment's health endpoint before any client is
// constructed. A non-200 response is an error.
func Health(ctx context.Context, addr string) error {
	healthCtx, cancel := context.WithTimeout(ctx, defaultHealthTimeout)
	defer cancel()

	url := strings.TrimRight(addr, "/") + "/health"
	req, err := http.NewRequestWithContext(healthCtx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("influx health check: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("influx health check: %w", err)
	}
	defer resp.Body.Close()
	// Drain body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("influx health check: status %d from %s", resp.StatusCode, url)
	}
	return nil
}

// Query executes an InfluxQL query string and returns the result as a
// dataframe indexed by the time column. An empty result normalises to an
// empty frame, not an error.
func (c *Client) Query(ctx context.Context, query string) (*dataframe.DataFrame, error) {
	if !c.isConnected() {
		return nil, ErrNotConnected
	}

	q := influxclient.NewQuery(query, c.db, "ns")

	// The underlying client has no context-aware query entry point, so
	// run it on a goroutine and race it against ctx. The HTTP timeout
	// from Config still bounds the abandoned request.
	type result struct {
		resp *influxclient.Response
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		resp, err := c.c.Query(q)
		ch <- result{resp, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQueryFailed, r.err)
		}
		if err := r.resp.Error(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrQueryFailed, err)
		}
		return frameFromResponse(r.resp)
	}
}

// Ping verifies the deployment responds.
func (c *Client) Ping(ctx context.Context) error {
	if !c.isConnected() {
		return ErrNotConnected
	}
	timeout := defaultPingTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	if _, _, err := c.c.Ping(timeout); err != nil {
		return fmt.Errorf("influx ping: %w", err)
	}
	return nil
}

// Close releases the underlying HTTP client. The client cannot be reused.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil
	}
	c.connected = false
	return c.c.Close()
}

func (c *Client) isConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}
