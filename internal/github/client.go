// Package github reads repository activity and manifests from the GitHub API.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v60/github"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// contributorsPerPage bounds the contributors sample used for the bus factor.
const contributorsPerPage = 30

// defaultStatsRetryDelay is how long to wait before asking again for
// statistics that GitHub is still computing (HTTP 202).
const defaultStatsRetryDelay = 2 * time.Second

// manifestBranches are tried in order when fetching package.json.
var manifestBranches = []string{"main", "master"}

// Options configures a Client. Zero values select the defaults.
type Options struct {
	BaseURL         string
	Token           string
	Timeout         time.Duration
	RateLimit       float64
	StatsRetryDelay time.Duration
}

// Client fetches repository statistics, contributors and commit activity.
type Client struct {
	api        *gh.Client
	limiter    *rate.Limiter
	retryDelay time.Duration
}

var (
	_ contract.ActivitySource = &Client{} // Compile-time check
	_ contract.ManifestSource = &Client{} // Compile-time check
)

// NewClient builds a GitHub client. An empty token makes anonymous requests,
// which GitHub limits to 60 per hour.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = contract.DefaultTimeout
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = contract.DefaultRateLimit
	}
	if opts.StatsRetryDelay <= 0 {
		opts.StatsRetryDelay = defaultStatsRetryDelay
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = opts.Timeout
	}

	api := gh.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		baseURL, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub URL '%s': %w", opts.BaseURL, err)
		}
		api.BaseURL = baseURL
	}

	return &Client{
		api:        api,
		limiter:    rate.NewLimiter(rate.Limit(opts.RateLimit), max(1, int(opts.RateLimit))),
		retryDelay: opts.StatsRetryDelay,
	}, nil
}

// FetchActivity returns the commit activity and repository stats of owner/repo.
// It returns nil values and no error when the repository is missing or the
// API rate limit is exhausted, so that callers can treat it as "no data".
// Contributors and weekly commits are best effort and default to empty.
func (c *Client) FetchActivity(ctx context.Context, owner, repo string) (*schema.CommitActivity, *schema.RepoStats, error) {
	stats, err := c.fetchRepoStats(ctx, owner, repo)
	if err != nil {
		if isNoData(err) {
			contract.Log.WithField("repo", owner+"/"+repo).Debug("No GitHub data available")
			return nil, nil, nil
		}
		return nil, nil, err
	}

	activity := &schema.CommitActivity{
		Weeks:        c.fetchCommitActivity(ctx, owner, repo),
		Contributors: c.fetchContributors(ctx, owner, repo),
		OpenIssues:   stats.OpenIssues,
	}
	return activity, stats, nil
}

func (c *Client) fetchRepoStats(ctx context.Context, owner, repo string) (*schema.RepoStats, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	r, _, err := c.api.Repositories.Get(ctx, owner, repo)
	if err != nil {
		return nil, fmt.Errorf("fetching repository %s/%s: %w", owner, repo, err)
	}
	return &schema.RepoStats{
		Owner:      owner,
		Repo:       repo,
		Stars:      r.GetStargazersCount(),
		OpenIssues: r.GetOpenIssuesCount(),
		Archived:   r.GetArchived(),
	}, nil
}

func (c *Client) fetchContributors(ctx context.Context, owner, repo string) []schema.Contributor {
	if err := c.limiter.Wait(ctx); err != nil {
		return []schema.Contributor{}
	}
	opts := &gh.ListContributorsOptions{ListOptions: gh.ListOptions{PerPage: contributorsPerPage}}
	list, _, err := c.api.Repositories.ListContributors(ctx, owner, repo, opts)
	if err != nil {
		contract.LogWarn("Failed to list contributors for "+owner+"/"+repo, err)
		return []schema.Contributor{}
	}
	result := make([]schema.Contributor, 0, len(list))
	for _, item := range list {
		result = append(result, schema.Contributor{Login: item.GetLogin(), Contributions: item.GetContributions()})
	}
	return result
}

// fetchCommitActivity asks once more after a 202, which GitHub returns while
// it computes statistics for a repository that has not been queried lately.
func (c *Client) fetchCommitActivity(ctx context.Context, owner, repo string) []schema.WeeklyCommits {
	for attempt := 0; attempt < 2; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return []schema.WeeklyCommits{}
			case <-time.After(c.retryDelay):
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return []schema.WeeklyCommits{}
		}

		weeks, _, err := c.api.Repositories.ListCommitActivity(ctx, owner, repo)
		var accepted *gh.AcceptedError
		if errors.As(err, &accepted) {
			continue
		}
		if err != nil {
			contract.LogWarn("Failed to fetch commit activity for "+owner+"/"+repo, err)
			return []schema.WeeklyCommits{}
		}

		result := make([]schema.WeeklyCommits, 0, len(weeks))
		for _, w := range weeks {
			result = append(result, schema.WeeklyCommits{WeekStart: w.GetWeek().Unix(), Total: w.GetTotal()})
		}
		return result
	}
	return []schema.WeeklyCommits{}
}

// FetchManifest returns the raw package.json at the root of owner/repo,
// trying the main branch first and master second.
func (c *Client) FetchManifest(ctx context.Context, owner, repo string) ([]byte, error) {
	var lastErr error
	missing := true
	for _, branch := range manifestBranches {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		file, _, _, err := c.api.Repositories.GetContents(ctx, owner, repo, "package.json",
			&gh.RepositoryContentGetOptions{Ref: branch})
		if err != nil {
			lastErr = err
			missing = missing && isNotFound(err)
			continue
		}
		if file == nil {
			lastErr = fmt.Errorf("package.json is not a file on %s", branch)
			continue
		}
		content, err := file.GetContent()
		if err != nil {
			lastErr = err
			continue
		}
		return []byte(content), nil
	}
	if missing {
		return nil, fmt.Errorf("no package.json in %s/%s: %w", owner, repo, contract.ErrManifestMissing)
	}
	return nil, fmt.Errorf("could not fetch package.json of %s/%s: %w", owner, repo, lastErr)
}

// isNotFound reports whether err is a 404 from the API.
func isNotFound(err error) bool {
	var respErr *gh.ErrorResponse
	return errors.As(err, &respErr) && respErr.Response != nil &&
		respErr.Response.StatusCode == http.StatusNotFound
}

// isNoData reports whether err means the repository is unknown or the
// API quota is exhausted.
func isNoData(err error) bool {
	var rateErr *gh.RateLimitError
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &rateErr) || errors.As(err, &abuseErr) {
		return true
	}
	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound, http.StatusTooManyRequests:
			return true
		case http.StatusForbidden:
			return respErr.Response.Header.Get("X-RateLimit-Remaining") == "0"
		}
	}
	return false
}
