package intra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/yourname/blackholeescape/internal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.intra.42.fr"

	pageSize = 100
	maxPages = 10
)

var ErrNotFound = errors.New("intra: not found")

// StatusError is returned for any non-2xx answer other than 404.
type StatusError struct {
	Path   string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("intra: GET %s: status %d: %s", e.Path, e.Status, e.Body)
}

type Config struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	RateLimit    float64 // requests per second
	Timeout      time.Duration
}

type Client struct {
	baseURL    string
	http       *http.Client
	limiter    *rate.Limiter
	logger     internal.Logger
	retryWait  time.Duration
	maxRetries int
}

type Option func(*Client)

// WithRetryWait sets the pause after a 429 when the response carries no Retry-After.
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) { c.retryWait = d }
}

func WithMaxRetries(n int) Option {
	return func(c *Client) { c.maxRetries = n }
}

// New builds a client that authenticates with the client-credentials grant
// against {BaseURL}/oauth/token. Tokens are fetched lazily and refreshed by oauth2.
func New(ctx context.Context, cfg Config, logger internal.Logger, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.BaseURL, "/")

	cc := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     base + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	hc := cc.Client(context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: cfg.Timeout}))
	hc.Timeout = cfg.Timeout

	return NewWithHTTPClient(base, hc, cfg.RateLimit, logger, opts...)
}

// NewWithHTTPClient uses hc as is; the caller is responsible for authentication.
func NewWithHTTPClient(baseURL string, hc *http.Client, perSecond float64, logger internal.Logger, opts ...Option) *Client {
	if perSecond <= 0 {
		perSecond = 2
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		http:       hc,
		limiter:    rate.NewLimiter(rate.Limit(perSecond), burst),
		logger:     logger,
		retryWait:  5 * time.Second,
		maxRetries: 3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) User(ctx context.Context, login string) (*User, error) {
	var u User
	if err := c.get(ctx, "/v2/users/"+url.PathEscape(login), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) CursusUsers(ctx context.Context, userID int) ([]CursusUser, error) {
	return paginate[CursusUser](ctx, c, fmt.Sprintf("/v2/users/%d/cursus_users", userID), nil)
}

func (c *Client) CursusProjects(ctx context.Context, cursusID int) ([]Project, error) {
	return paginate[Project](ctx, c, fmt.Sprintf("/v2/cursus/%d/projects", cursusID), nil)
}

func (c *Client) ProjectsUsers(ctx context.Context, userID int) ([]ProjectUser, error) {
	params := url.Values{}
	params.Set("filter[user_id]", strconv.Itoa(userID))
	return paginate[ProjectUser](ctx, c, "/v2/projects_users", params)
}

// paginate walks page=1.. until a short page, stopping after maxPages.
func paginate[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}
	var all []T
	for page := 1; page <= maxPages; page++ {
		params.Set("page", strconv.Itoa(page))
		params.Set("per_page", strconv.Itoa(pageSize))

		var batch []T
		if err := c.get(ctx, path, params, &batch); err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < pageSize {
			return all, nil
		}
	}
	c.logger.Warnf("intra: %s: stopped after %d pages", path, maxPages)
	return all, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	target := c.baseURL + path
	if len(params) > 0 {
		target += "?" + params.Encode()
	}

	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("intra: GET %s: %w", path, err)
		}

		if resp.StatusCode == http.StatusTooManyRequests && attempt < c.maxRetries {
			wait := retryAfter(resp.Header.Get("Retry-After"), c.retryWait)
			resp.Body.Close()
			c.logger.Warnf("intra: rate limited on %s, retrying in %s", path, wait)
			select {
			case <-time.After(wait):
				continue
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return decode(resp, path, out)
	}
}

func decode(resp *http.Response, path string, out any) error {
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Path: path, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("intra: decode %s: %w", path, err)
	}
	return nil
}

func retryAfter(header string, fallback time.Duration) time.Duration {
	if secs, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
