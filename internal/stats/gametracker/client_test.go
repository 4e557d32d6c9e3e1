package gametracker

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/stats"
)

type roundTripperFunc func(req *http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func okResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

const samplePage = `<html><body><div class="rank"><img src="/images/bc2/r007.png" alt="rank"></div></body></html>`

func TestFetchRankHitsStatsPageAndParses(t *testing.T) {
	var capturedPath string
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		capturedPath = req.URL.EscapedPath()
		if req.Method != http.MethodGet {
			t.Fatalf("expected GET, got %s", req.Method)
		}
		return okResponse(samplePage), nil
	})
	client := NewClient(Config{BaseURL: "http://gt.example.com/", HTTPClient: &http.Client{Transport: rt}})

	rank, err := client.FetchRank(context.Background(), "[TAG] Émile")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if rank != 7 {
		t.Fatalf("expected rank 7, got %d", rank)
	}
	if capturedPath != "/games/bc2/stats/%5BTAG%5D%20%C3%89mile/" {
		t.Fatalf("unexpected request path %s", capturedPath)
	}
}

func TestFetchRankHandlesNon200(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusBadGateway,
			Body:       io.NopCloser(strings.NewReader("boom")),
			Header:     make(http.Header),
		}, nil
	})
	client := NewClient(Config{HTTPClient: &http.Client{Transport: rt}})
	_, err := client.FetchRank(context.Background(), "p")
	if _, ok := stats.AsStatusError(err); !ok {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestFetchRankTimesOut(t *testing.T) {
	rt := roundTripperFunc(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})
	client := NewClient(Config{HTTPClient: &http.Client{Transport: rt}, Timeout: 20 * time.Millisecond})

	start := time.Now()
	_, err := client.FetchRank(context.Background(), "p")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("expected lookup to be bounded by the configured timeout")
	}
}

func TestParseRank(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		expected int
		notFound bool
	}{
		{"marker", samplePage, 7, false},
		{"upper-case marker", `<IMG SRC="/IMAGES/BC2/R045.png">`, 45, false},
		{"two digit rank", `..<img src="/images/bc2/r050"`, 50, false},
		{"missing marker", `<html>no rank here</html>`, 0, true},
		{"empty", ``, 0, true},
		{"marker at end", `<img src="/images/bc2/r0`, 0, true},
		{"one trailing char", `<img src="/images/bc2/r05`, 0, true},
		{"non numeric", `<img src="/images/bc2/r0xx"`, 0, true},
	}
	for _, tc := range cases {
		rank, err := ParseRank(tc.body)
		if tc.notFound {
			if !stats.IsNotFound(err) {
				t.Fatalf("%s: expected not-found, got rank=%d err=%v", tc.name, rank, err)
			}
			continue
		}
		if err != nil || rank != tc.expected {
			t.Fatalf("%s: expected %d, got %d err=%v", tc.name, tc.expected, rank, err)
		}
	}
}

func TestNewClientSetsDefaults(t *testing.T) {
	c := NewClient(Config{})
	if c.baseURL != defaultBaseURL {
		t.Fatalf("expected default base url, got %s", c.baseURL)
	}
	httpClient, ok := c.httpClient.(*http.Client)
	if !ok || httpClient.Timeout == 0 {
		t.Fatalf("expected default http client with timeout")
	}
	if c.Name() != "gametracker" {
		t.Fatalf("unexpected name %s", c.Name())
	}
}
