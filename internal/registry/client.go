// Package registry talks to the npm registry and the npm downloads API.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const userAgent = "depshield"

// Options configures a Client. Zero values select the defaults.
type Options struct {
	RegistryURL  string
	DownloadsURL string
	Timeout      time.Duration
	RateLimit    float64 // requests per second shared by all calls
	RetryMax     int
}

// Client fetches packuments and download counts.
type Client struct {
	http         *retryablehttp.Client
	registryURL  string
	downloadsURL string
	limiter      *rate.Limiter
}

var (
	_ contract.MetadataSource = &Client{} // Compile-time check
	_ contract.DownloadSource = &Client{} // Compile-time check
)

// NewClient builds a registry client with retries and a shared rate limiter.
func NewClient(opts Options) *Client {
	if opts.RegistryURL == "" {
		opts.RegistryURL = contract.DefaultRegistryURL
	}
	if opts.DownloadsURL == "" {
		opts.DownloadsURL = contract.DefaultDownloadsURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = contract.DefaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = contract.DefaultRateLimit
	}
	if opts.RetryMax <= 0 {
		opts.RetryMax = 3
	}

	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = opts.RetryMax
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.HTTPClient.Timeout = opts.Timeout
	// Hand the final response back instead of a "giving up" error so the
	// status code can be inspected by the caller.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	burst := max(1, int(opts.RateLimit))
	return &Client{
		http:         retryClient,
		registryURL:  strings.TrimRight(opts.RegistryURL, "/"),
		downloadsURL: strings.TrimRight(opts.DownloadsURL, "/"),
		limiter:      rate.NewLimiter(rate.Limit(opts.RateLimit), burst),
	}
}

// FetchPackage fetches the full packument of a package. Scoped names are
// escaped so that "@scope/name" becomes "@scope%2Fname".
func (c *Client) FetchPackage(ctx context.Context, name string) (*schema.PackageMetadata, error) {
	resp, err := c.get(ctx, fmt.Sprintf("%s/%s", c.registryURL, url.PathEscape(name)))
	if err != nil {
		return nil, fmt.Errorf("fetching package %q: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", contract.ErrPackageNotFound, name)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("package %q: registry returned status %d", name, resp.StatusCode)
	}

	var meta schema.PackageMetadata
	if err := json.NewDecoder(resp.Body).Decode(&meta); err != nil {
		return nil, fmt.Errorf("decoding package %q: %w", name, err)
	}
	if meta.Name == "" {
		meta.Name = name
	}
	return &meta, nil
}

// FetchWeeklyDownloads returns the download count of the last week.
// A missing or non-numeric "downloads" field counts as 0.
func (c *Client) FetchWeeklyDownloads(ctx context.Context, name string) (int, error) {
	endpoint := fmt.Sprintf("%s/downloads/point/last-week/%s", c.downloadsURL, url.PathEscape(name))
	resp, err := c.get(ctx, endpoint)
	if err != nil {
		return 0, fmt.Errorf("fetching downloads for %q: %w", name, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("downloads for %q: API returned status %d", name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("reading downloads for %q: %w", name, err)
	}
	downloads := gjson.GetBytes(body, "downloads")
	if downloads.Type != gjson.Number {
		return 0, nil
	}
	return int(downloads.Int()), nil
}

func (c *Client) get(ctx context.Context, endpoint string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	contract.Log.WithField("url", endpoint).Debug("GET")
	return c.http.Do(req)
}
