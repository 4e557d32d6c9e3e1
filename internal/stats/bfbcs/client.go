package bfbcs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/stats"
)

const (
	providerName   = "bfbcs"
	defaultBaseURL = "http://api.bfbcs.com"
	playersPath    = "/api/pc"
	fieldSubset    = "smallinfo"
)

// Config controls how the client reaches the BFBCS API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client reads a player's rank from the BFBCS JSON API.
type Client struct {
	baseURL    string
	httpClient stats.HTTPDoer
	timeout    time.Duration
}

// NewClient constructs a BFBCS client.
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

// FetchRank queries the API for a single player and returns their rank.
func (c *Client) FetchRank(ctx context.Context, player string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	body, err := stats.GetBody(ctx, c.httpClient, providerName, c.playersURL(player))
	if err != nil {
		return 0, err
	}
	return ParseRank(body)
}

// The name is encoded by hand; url.Values would apply standard query escaping.
func (c *Client) playersURL(player string) string {
	return c.baseURL + playersPath + "?players=" + stats.EncodeName(player) + "&fields=" + fieldSubset
}

// ParseRank extracts players[0].rank from an API response.
//
// A response whose "found" is not 1 has no stats for the player. A found
// player with a missing or malformed record is an error. A rank that is
// present but not numeric counts as no rank.
func ParseRank(body string) (int, error) {
	if strings.TrimSpace(body) == "" {
		return 0, fmt.Errorf("%s: empty response: %w", providerName, stats.ErrNotFound)
	}

	var payload playersResponse
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return 0, fmt.Errorf("%s: decode response: %w", providerName, err)
	}

	if !isOne(payload.Found) {
		return 0, fmt.Errorf("%s: player not found: %w", providerName, stats.ErrNotFound)
	}
	if len(payload.Players) == 0 {
		return 0, errors.New(providerName + ": found player but players list is empty")
	}

	var info playerInfo
	if err := json.Unmarshal(payload.Players[0], &info); err != nil {
		return 0, fmt.Errorf("%s: decode player: %w", providerName, err)
	}
	if info.Rank == nil || !info.Rank.valid {
		return 0, errors.New(providerName + ": player record has no rank")
	}

	rank, err := strconv.ParseFloat(strings.TrimSpace(info.Rank.raw), 64)
	if err != nil || math.IsNaN(rank) || math.IsInf(rank, 0) {
		return 0, fmt.Errorf("%s: rank %q not numeric: %w", providerName, info.Rank.raw, stats.ErrNotFound)
	}
	return int(rank), nil
}

func isOne(n *json.Number) bool {
	if n == nil {
		return false
	}
	f, err := n.Float64()
	return err == nil && f == 1
}
