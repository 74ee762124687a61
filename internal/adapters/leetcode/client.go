// Package leetcode implements the remote contest-data client. It issues
// fixed GraphQL queries against the provider, memoizes results in the
// shared TTL cache, and normalizes provider failures into the shared
// sentinel kinds.
package leetcode

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/sync/semaphore"

	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/adapters/cache"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/internal/domain/types"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/logger"
	"github.com/Sagargupta16/LeetCode-Rating-Predictor/pkg/metrics"
)

// Cache key namespaces shared with any other process instance.
const (
	userKeyPrefix     = "user:"
	contestKeyPrefix  = "contest:"
	latestContestsKey = "latest_contests"
)

// Default client configuration.
const (
	defaultGraphQLURL  = "https://leetcode.com/graphql"
	defaultConcurrency = 5
	defaultTimeout     = 30 * time.Second

	breakerFailureThreshold = 5
	breakerOpenTimeout      = 30 * time.Second
)

// Client fetches user and contest data from the provider. One Client is
// shared process-wide; its admission gate bounds total outstanding remote
// calls across all in-flight requests.
type Client struct {
	httpClient  *http.Client
	graphqlURL  string
	cache       cache.Cache
	gate        *semaphore.Weighted
	breaker     *gobreaker.CircuitBreaker[[]byte]
	timeout     time.Duration
	concurrency int
	log         logger.Logger
}

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithGraphQLURL overrides the provider endpoint.
func WithGraphQLURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.graphqlURL = url
		}
	}
}

// WithConcurrency bounds outstanding remote calls process-wide.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTimeout bounds each remote call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// New constructs a Client backed by the given cache.
func New(store cache.Cache, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{},
		graphqlURL:  defaultGraphQLURL,
		cache:       store,
		timeout:     defaultTimeout,
		concurrency: defaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("leetcode")
	}
	c.gate = semaphore.NewWeighted(int64(c.concurrency))
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "leetcode-graphql",
		Timeout: breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailureThreshold
		},
	})
	return c
}

// FetchUserHistory returns the derived profile for username, reading
// through the cache. The caller validates the username before this point.
func (c *Client) FetchUserHistory(ctx context.Context, username string) (types.UserProfile, error) {
	key := userKeyPrefix + username

	var cached types.UserProfile
	if c.cache.Get(ctx, key, &cached) {
		metrics.RecordCacheHit("user")
		return cached, nil
	}
	metrics.RecordCacheMiss("user")

	raw, err := c.post(ctx, "user_ranking", userRankingQuery, map[string]any{"username": username})
	if err != nil {
		return types.UserProfile{}, err
	}

	var resp userRankingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return types.UserProfile{}, fmt.Errorf("%w: malformed user payload: %w", types.ErrUnavailable, err)
	}
	if resp.Data.UserContestRanking == nil {
		return types.UserProfile{}, fmt.Errorf("%w: no contest data for user %q", types.ErrNotFound, username)
	}

	profile := deriveProfile(*resp.Data.UserContestRanking, resp.Data.UserContestRankingHistory)
	c.cache.Set(ctx, key, profile)
	return profile, nil
}

// FetchContestMeta returns metadata for one contest slug, reading through
// the cache. The slug is validated before any network access so injected
// strings never reach an outbound query variable.
func (c *Client) FetchContestMeta(ctx context.Context, contestName string) (types.ContestMeta, error) {
	if !types.ValidContestSlug(contestName) {
		return types.ContestMeta{}, fmt.Errorf("%w: invalid contest name format", types.ErrValidation)
	}

	key := contestKeyPrefix + contestName
	var cached types.ContestMeta
	if c.cache.Get(ctx, key, &cached) {
		metrics.RecordCacheHit("contest")
		return cached, nil
	}
	metrics.RecordCacheMiss("contest")

	raw, err := c.post(ctx, "contest_detail", contestDetailQuery, map[string]any{"contestSlug": contestName})
	if err != nil {
		return types.ContestMeta{}, err
	}

	var resp contestDetailResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return types.ContestMeta{}, fmt.Errorf("%w: malformed contest payload: %w", types.ErrUnavailable, err)
	}
	detail := resp.Data.ContestDetailPage
	if detail == nil {
		return types.ContestMeta{}, fmt.Errorf("%w: no data for contest %q", types.ErrNotFound, contestName)
	}

	meta := types.ContestMeta{
		Title:               detail.Title,
		Slug:                detail.TitleSlug,
		RegisteredUserCount: detail.RegisterUserNum,
	}
	if meta.Title == "" {
		meta.Title = contestName
	}
	if meta.Slug == "" {
		meta.Slug = contestName
	}
	c.cache.Set(ctx, key, meta)
	return meta, nil
}

// LatestContests returns the most recent contest slugs, preferring the
// upcoming-contests query and falling back to the past-contests listing.
func (c *Client) LatestContests(ctx context.Context) ([]string, error) {
	var cached []string
	if c.cache.Get(ctx, latestContestsKey, &cached) && len(cached) > 0 {
		metrics.RecordCacheHit("latest")
		return cached, nil
	}
	metrics.RecordCacheMiss("latest")

	slugs, err := c.topContests(ctx)
	if err != nil {
		return nil, err
	}
	if len(slugs) == 0 {
		slugs, err = c.pastContests(ctx)
		if err != nil {
			return nil, err
		}
	}
	if len(slugs) > 0 {
		c.cache.Set(ctx, latestContestsKey, slugs)
	}
	return slugs, nil
}

func (c *Client) topContests(ctx context.Context) ([]string, error) {
	raw, err := c.post(ctx, "top_contests", topContestsQuery, nil)
	if err != nil {
		return nil, err
	}
	var resp topContestsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed contests payload: %w", types.ErrUnavailable, err)
	}
	slugs := make([]string, 0, len(resp.Data.TopTwoContests))
	for _, contest := range resp.Data.TopTwoContests {
		if contest.TitleSlug != "" {
			slugs = append(slugs, contest.TitleSlug)
		}
	}
	return slugs, nil
}

func (c *Client) pastContests(ctx context.Context) ([]string, error) {
	raw, err := c.post(ctx, "past_contests", pastContestsQuery, nil)
	if err != nil {
		return nil, err
	}
	var resp pastContestsResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("%w: malformed contests payload: %w", types.ErrUnavailable, err)
	}
	slugs := make([]string, 0, 2)
	for _, contest := range resp.Data.PastContests.Data {
		if contest.TitleSlug != "" {
			slugs = append(slugs, contest.TitleSlug)
		}
		if len(slugs) == 2 {
			break
		}
	}
	return slugs, nil
}

// post issues one gated, breaker-protected GraphQL call and returns the raw
// response body. Every failure maps to types.ErrUnavailable; the single
// attempt is never retried locally.
func (c *Client) post(ctx context.Context, queryKind, query string, variables map[string]any) ([]byte, error) {
	metrics.GateWaitStarted()
	err := c.gate.Acquire(ctx, 1)
	metrics.GateWaitDone()
	if err != nil {
		return nil, fmt.Errorf("%w: admission gate: %w", types.ErrUnavailable, err)
	}
	defer c.gate.Release(1)

	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doPost(ctx, query, variables)
	})
	elapsed := time.Since(start)

	if err != nil {
		metrics.RecordRemoteCall(queryKind, "error", elapsed.Seconds())
		c.log.Warn(ctx, "remote call failed",
			logger.String("query", queryKind),
			logger.Error(err),
		)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: provider circuit open", types.ErrUnavailable)
		}
		if errors.Is(err, types.ErrUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", types.ErrUnavailable, err)
	}
	metrics.RecordRemoteCall(queryKind, "ok", elapsed.Seconds())
	return body, nil
}

func (c *Client) doPost(ctx context.Context, query string, variables map[string]any) ([]byte, error) {
	payload, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %w", types.ErrUnavailable, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.graphqlURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", types.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Referer", "https://leetcode.com/")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: provider returned status %d", types.ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", types.ErrUnavailable, err)
	}
	return body, nil
}

// graphqlRequest is the outbound wire shape.
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}
