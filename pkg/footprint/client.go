// Package footprint is the HTTP client for the Global Footprint Network API,
// the source of per-country emissions series.
package footprint

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/grovetools/carbon/errors"
	"github.com/grovetools/carbon/pkg/models"
	"golang.org/x/time/rate"
)

// carbonRecordType selects the per-capita ecological footprint of
// consumption, which carries the carbon component per year.
const carbonRecordType = "EFCpc"

// Source is what the race loader consumes.
type Source interface {
	Countries(ctx context.Context) ([]models.Entity, error)
	Country(ctx context.Context, identifier string) (models.Series, error)
}

// Options configures a Client.
type Options struct {
	BaseURL  string
	Username string
	APIKey   string
	// RequestsPerSecond paces outgoing requests; 0 disables pacing.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client issues a single request per call. It does not retry, paginate or
// cache, and it sets no timeout of its own: callers cancel through ctx.
type Client struct {
	baseURL    string
	authHeader string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a Client.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	credentials := base64.StdEncoding.EncodeToString([]byte(opts.Username + ":" + opts.APIKey))

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		authHeader: "Basic " + credentials,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(limit, 1),
	}
}

// Countries returns the full roster of countries.
func (c *Client) Countries(ctx context.Context) ([]models.Entity, error) {
	var entities []models.Entity
	if err := c.get(ctx, c.baseURL+"/countries", &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

// Country returns every year of carbon footprint data for one country.
func (c *Client) Country(ctx context.Context, identifier string) (models.Series, error) {
	endpoint := fmt.Sprintf("%s/data/%s/all/%s", c.baseURL, url.PathEscape(identifier), carbonRecordType)

	var series models.Series
	if err := c.get(ctx, endpoint, &series); err != nil {
		return nil, err
	}
	if series == nil {
		series = models.Series{}
	}
	return series, nil
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.authHeader)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.UpstreamStatus(endpoint, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}
