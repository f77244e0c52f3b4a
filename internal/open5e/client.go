// Package open5e searches the Open5e monster database.
package open5e

//go:generate mockgen -destination=mock/mock_client.go -package=open5emock github.com/tatianab/wtii/internal/open5e Client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/tatianab/wtii/internal/errors"
	"github.com/tatianab/wtii/internal/models"
)

// DefaultBaseURL is the public Open5e API.
const DefaultBaseURL = "https://api.open5e.com"

// Client searches for creatures by name.
type Client interface {
	// SearchMonsters returns every creature whose record matches query.
	SearchMonsters(ctx context.Context, query string) ([]*models.CreatureSearchResult, error)
}

// Config contains configuration options for the client.
type Config struct {
	// BaseURL of the API (optional, defaults to DefaultBaseURL)
	BaseURL string
	// Timeout for a single search (optional, defaults to 10 seconds)
	Timeout time.Duration
	// HTTPClient overrides the transport (optional)
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Validate validates the Config and sets defaults if not provided.
func (cfg *Config) Validate() error {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.InvalidArgumentf("invalid base url %q", cfg.BaseURL)
	}
	if cfg.Timeout < 0 {
		return errors.InvalidArgument("timeout must not be negative")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return nil
}

type client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// New creates a new client with the given configuration.
func New(cfg *Config) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    cfg.HTTPClient,
		logger:  cfg.Logger,
	}, nil
}

func (c *client) SearchMonsters(ctx context.Context, query string) ([]*models.CreatureSearchResult, error) {
	endpoint := fmt.Sprintf("%s/monsters/?search=%s", c.baseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeInvalidArgument, "building search for %q", query)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeNetwork, "searching for %q", query)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Newf(errors.CodeUnexpectedStatus, "search for %q returned %s", query, resp.Status).
			WithMeta("status", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeMalformedResponse, "reading search response")
	}

	results, err := parseResults(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("monster search",
		zap.String("query", query),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// parseResults extracts the records from the paginated envelope
// {"count": n, "next": ..., "results": [...]}.
func parseResults(body []byte) ([]*models.CreatureSearchResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New(errors.CodeMalformedResponse, "search response is not valid JSON")
	}
	raw := gjson.GetBytes(body, "results")
	if !raw.Exists() || !raw.IsArray() {
		return nil, errors.New(errors.CodeMalformedResponse, "search response has no results list")
	}

	var results []*models.CreatureSearchResult
	if err := json.Unmarshal([]byte(raw.Raw), &results); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDecode, "decoding search results")
	}
	return results, nil
}
