package gateways

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ochairo/assetverify/internal/domain/entities"
	"github.com/ochairo/assetverify/internal/domain/interfaces"
	"github.com/ochairo/assetverify/internal/domain/interfaces/gateways"
)

const (
	// DefaultGitHubAPIURL is the public GitHub REST endpoint
	DefaultGitHubAPIURL = "https://api.github.com"
	// Max retries for transient errors
	maxRetries = 3
	// Initial backoff duration
	initialBackoff = 1 * time.Second
	// Max backoff duration
	maxBackoff = 32 * time.Second
	// GitHub caps per_page at 100
	maxPerPage = 100
)

// HTTPGitHubGateway implements RepositoryGateway using the GitHub REST API
type HTTPGitHubGateway struct {
	client    *http.Client
	baseURL   string
	token     string
	userAgent string
	logger    interfaces.Logger
	backoff   func(attempt int) time.Duration
}

// NewHTTPGitHubGateway creates a new GitHub gateway with HTTP client
func NewHTTPGitHubGateway(token string, logger interfaces.Logger) *HTTPGitHubGateway {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &HTTPGitHubGateway{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:   DefaultGitHubAPIURL,
		token:     token,
		userAgent: "assetverify/1.0",
		logger:    logger,
		backoff:   calculateBackoff,
	}
}

// WithBaseURL points the gateway at another API root (GitHub Enterprise, test servers)
func (g *HTTPGitHubGateway) WithBaseURL(baseURL string) *HTTPGitHubGateway {
	g.baseURL = strings.TrimRight(baseURL, "/")
	return g
}

// Describe returns owner/repo
func (g *HTTPGitHubGateway) Describe(owner, repo string) string {
	return owner + "/" + repo
}

// checkRateLimit checks GitHub API rate limit headers and returns error if exhausted
func (g *HTTPGitHubGateway) checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil // No rate limit header, continue
	}

	remainingInt, err := strconv.Atoi(remaining)
	if err != nil {
		return nil // Invalid header, ignore
	}

	// The request that spends the last unit still succeeds; only a rejected
	// request means the quota is gone
	rejected := resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests
	if remainingInt == 0 && rejected {
		resetTime := resp.Header.Get("X-RateLimit-Reset")
		if resetTime != "" {
			if resetUnix, err := strconv.ParseInt(resetTime, 10, 64); err == nil {
				resetAt := time.Unix(resetUnix, 0)
				return fmt.Errorf("GitHub API rate limit exceeded (0 remaining), resets at %s", resetAt.Format(time.RFC3339))
			}
		}
		return fmt.Errorf("GitHub API rate limit exceeded (0 remaining)")
	}

	if remainingInt <= 10 {
		g.logger.Warn("GitHub API rate limit low", interfaces.F("remaining", remainingInt))
	}

	return nil
}

// isRetryableError checks if an HTTP status code is retryable
func isRetryableError(statusCode int) bool {
	switch statusCode {
	case http.StatusForbidden, // 403 - rate limit
		http.StatusTooManyRequests,     // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	default:
		return false
	}
}

// calculateBackoff returns the backoff duration for a retry attempt
func calculateBackoff(attempt int) time.Duration {
	backoff := float64(initialBackoff) * math.Pow(2, float64(attempt))
	if backoff > float64(maxBackoff) {
		backoff = float64(maxBackoff)
	}
	return time.Duration(backoff)
}

// doWithRetry executes an HTTP request with exponential backoff retry
func (g *HTTPGitHubGateway) doWithRetry(req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			wait := g.backoff(attempt - 1)
			g.logger.Debug("retrying GitHub request",
				interfaces.F("url", req.URL.String()),
				interfaces.F("attempt", attempt),
				interfaces.F("backoff", wait.String()))
			select {
			case <-req.Context().Done():
				return nil, req.Context().Err()
			case <-time.After(wait):
			}
		}

		resp, err = g.client.Do(req)
		if err != nil {
			// Network errors are retryable
			if attempt < maxRetries {
				continue
			}
			return nil, err
		}

		if rateLimitErr := g.checkRateLimit(resp); rateLimitErr != nil {
			//nolint:errcheck,gosec // G104: Best effort close on rate limit error
			resp.Body.Close()
			return nil, rateLimitErr
		}

		// Success or non-retryable error
		if !isRetryableError(resp.StatusCode) {
			return resp, nil
		}

		if attempt < maxRetries {
			//nolint:errcheck,gosec // G104: Best effort close before retry
			resp.Body.Close()
			continue
		}

		// Max retries reached, caller reports the status
		return resp, nil
	}

	return resp, err
}

func (g *HTTPGitHubGateway) get(ctx context.Context, endpoint string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+g.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", g.userAgent)

	g.logger.Debug("GitHub API request", interfaces.F("endpoint", endpoint))
	return g.doWithRetry(req)
}

// statusError turns a non-200 response into an error, mapping 404 to ErrNotFound
func statusError(resp *http.Response, what string) error {
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", what, gateways.ErrNotFound)
	}
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return fmt.Errorf("%s: status %d (failed to read response)", what, resp.StatusCode)
	}
	return fmt.Errorf("%s: status %d: %s", what, resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
}

// githubContent represents the GitHub contents API format
type githubContent struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	SHA      string `json:"sha"`
	Encoding string `json:"encoding"`
	Content  string `json:"content"`
}

// githubCommit represents one entry of the GitHub commits API
type githubCommit struct {
	SHA    string `json:"sha"`
	Commit struct {
		Message string `json:"message"`
		Author  struct {
			Name string    `json:"name"`
			Date time.Time `json:"date"`
		} `json:"author"`
		Verification *struct {
			Verified  bool   `json:"verified"`
			Reason    string `json:"reason"`
			Signature string `json:"signature"`
			Payload   string `json:"payload"`
		} `json:"verification"`
	} `json:"commit"`
}

// GetFileContent fetches path at ref and decodes the base64 payload
func (g *HTTPGitHubGateway) GetFileContent(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	endpoint := fmt.Sprintf("/repos/%s/%s/contents/%s?ref=%s",
		url.PathEscape(owner), url.PathEscape(repo), escapePath(path), url.QueryEscape(ref))

	resp, err := g.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", path, err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, fmt.Sprintf("failed to get %s@%s", path, ref))
	}

	var result githubContent
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Type != "" && result.Type != "file" {
		return nil, fmt.Errorf("%s is a %s, not a file", path, result.Type)
	}

	// The API wraps base64 at 60 columns
	content, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(result.Content, "\n", ""))
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return content, nil
}

// ListCommits lists up to limit commits of the default branch, newest first
func (g *HTTPGitHubGateway) ListCommits(ctx context.Context, owner, repo string, limit int) ([]entities.Commit, error) {
	if limit <= 0 {
		limit = entities.DefaultMaxCommits
	}
	perPage := limit
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	commits := make([]entities.Commit, 0, limit)
	for page := 1; len(commits) < limit; page++ {
		endpoint := fmt.Sprintf("/repos/%s/%s/commits?per_page=%d&page=%d",
			url.PathEscape(owner), url.PathEscape(repo), perPage, page)

		batch, err := g.listCommitPage(ctx, endpoint)
		if err != nil {
			return nil, err
		}
		commits = append(commits, batch...)

		if len(batch) < perPage {
			break
		}
	}

	if len(commits) > limit {
		commits = commits[:limit]
	}
	return commits, nil
}

func (g *HTTPGitHubGateway) listCommitPage(ctx context.Context, endpoint string) ([]entities.Commit, error) {
	resp, err := g.get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to list commits: %w", err)
	}
	//nolint:errcheck // Defer close on HTTP response body
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "failed to list commits")
	}

	var results []githubCommit
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode commits: %w", err)
	}

	commits := make([]entities.Commit, len(results))
	for i, c := range results {
		commits[i] = entities.Commit{
			SHA:       c.SHA,
			Message:   c.Commit.Message,
			Author:    c.Commit.Author.Name,
			Timestamp: c.Commit.Author.Date,
		}
		if v := c.Commit.Verification; v != nil {
			commits[i].Signature = v.Signature
			commits[i].Payload = v.Payload
		}
	}

	return commits, nil
}

// escapePath escapes each segment of a repository path, keeping the slashes
func escapePath(p string) string {
	segments := strings.Split(strings.TrimPrefix(p, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.Join(segments, "/")
}
