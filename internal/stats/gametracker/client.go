package gametracker

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/stats"
)

const (
	providerName   = "gametracker"
	defaultBaseURL = "http://www.gametracker.com"
	statsPath      = "/games/bc2/stats/"

	// rankMarker precedes the two-digit rank in the rank insignia image path.
	rankMarker = `<img src="/images/bc2/r0`
	rankDigits = 2
)

// Config controls how the client reaches gametracker.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client scrapes a player's BC2 rank from the gametracker stats page.
type Client struct {
	baseURL    string
	httpClient stats.HTTPDoer
	timeout    time.Duration
}

// NewClient constructs a gametracker client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = stats.DefaultTimeout
	}
	return &Client{
		baseURL:    stats.NormalizeBaseURL(cfg.BaseURL, defaultBaseURL),
		httpClient: stats.ResolveHTTPClient(cfg.HTTPClient, timeout),
		timeout:    timeout,
	}
}

func (c *Client) Name() string {
	return providerName
}

// FetchRank downloads the player's stats page and extracts the rank.
func (c *Client) FetchRank(ctx context.Context, player string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := stats.GetBody(ctx, c.httpClient, providerName, c.statsURL(player))
	if err != nil {
		return 0, err
	}
	return ParseRank(body)
}

func (c *Client) statsURL(player string) string {
	return c.baseURL + statsPath + stats.EncodeName(player) + "/"
}

// ParseRank finds the rank insignia marker in a stats page and parses the
// two characters after it. A page without the marker has no rank.
func ParseRank(body string) (int, error) {
	if body == "" {
		return 0, fmt.Errorf("%s: empty page: %w", providerName, stats.ErrNotFound)
	}
	idx := indexFold(body, rankMarker, len(body)-rankDigits)
	if idx < 0 {
		return 0, fmt.Errorf("%s: rank marker missing: %w", providerName, stats.ErrNotFound)
	}
	start := idx + len(rankMarker)
	digits := body[start : start+rankDigits]
	rank, err := strconv.Atoi(strings.TrimSpace(digits))
	if err != nil {
		return 0, fmt.Errorf("%s: rank %q not numeric: %w", providerName, digits, stats.ErrNotFound)
	}
	return rank, nil
}

// indexFold returns the first ASCII case-insensitive match of marker that
// ends at or before limit, or -1.
func indexFold(s, marker string, limit int) int {
	if limit > len(s) {
		limit = len(s)
	}
	for i := 0; i+len(marker) <= limit; i++ {
		if strings.EqualFold(s[i:i+len(marker)], marker) {
			return i
		}
	}
	return -1
}
