// Package challonge reads entrants and completed matches from the
// bracket-hosting API.
//
// The API authenticates migrated accounts through HTTP basic auth with
// the account login as username and the API key as password, and it
// rejects requests without a browser-like User-Agent. Both quirks are
// load-bearing and kept here.
package challonge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/rankdesk/pkg/metrics"
)

// Client defaults.
const (
	defaultBaseURL = "https://api.challonge.com/v1"
	defaultTimeout = 20 * time.Second
	// Some endpoints return 401 for requests without a browser UA.
	defaultUserAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	maxErrorBodyBytes = 2048
	stateComplete     = "complete"
)

// Participant is one tournament entrant.
type Participant struct {
	ID        int64
	Name      string
	FinalRank int // 0 when the bracket has not been finalized
}

// Match is a completed match with a decided winner.
type Match struct {
	WinnerID int64
	LoserID  int64
}

// Client talks to the bracket-hosting API.
type Client struct {
	baseURL    string
	username   string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// New builds a client with basic-auth credentials.
func New(username, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:   defaultBaseURL,
		username:  username,
		apiKey:    apiKey,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Participants returns all entrants of the tournament.
func (c *Client) Participants(ctx context.Context, tournament string) ([]Participant, error) {
	url := fmt.Sprintf("%s/tournaments/%s/participants.json", c.baseURL, TournamentSlug(tournament))

	var raw []struct {
		Participant struct {
			ID        int64  `json:"id"`
			Name      string `json:"name"`
			FinalRank *int   `json:"final_rank"`
		} `json:"participant"`
	}
	if err := c.get(ctx, url, "participants", &raw); err != nil {
		return nil, fmt.Errorf("fetch participants: %w", err)
	}

	out := make([]Participant, 0, len(raw))
	for _, r := range raw {
		p := Participant{ID: r.Participant.ID, Name: r.Participant.Name}
		if r.Participant.FinalRank != nil {
			p.FinalRank = *r.Participant.FinalRank
		}
		out = append(out, p)
	}
	return out, nil
}

// Matches returns the completed matches of the tournament that have a
// decided winner. Pending and forfeited matches are filtered out here
// so callers only ever see scoreable results.
func (c *Client) Matches(ctx context.Context, tournament string) ([]Match, error) {
	url := fmt.Sprintf("%s/tournaments/%s/matches.json", c.baseURL, TournamentSlug(tournament))

	var raw []struct {
		Match struct {
			State    string `json:"state"`
			WinnerID *int64 `json:"winner_id"`
			LoserID  *int64 `json:"loser_id"`
		} `json:"match"`
	}
	if err := c.get(ctx, url, "matches", &raw); err != nil {
		return nil, fmt.Errorf("fetch matches: %w", err)
	}

	var out []Match
	for _, r := range raw {
		if r.Match.State != stateComplete || r.Match.WinnerID == nil {
			continue
		}
		m := Match{WinnerID: *r.Match.WinnerID}
		if r.Match.LoserID != nil {
			m.LoserID = *r.Match.LoserID
		}
		out = append(out, m)
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, url, operation string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.SetBasicAuth(c.username, c.apiKey)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveBracketRequest(operation, "transport_error", time.Since(start).Seconds())
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.ObserveBracketRequest(operation, strconv.Itoa(resp.StatusCode), time.Since(start).Seconds())

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		// Surfaced verbatim to aid credential diagnosis; never retried.
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: %s: %s", ErrAuth, resp.Status, strings.TrimSpace(string(detail)))
	}
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return fmt.Errorf("%w: %s: %s", ErrStatus, resp.Status, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// TournamentSlug extracts the tournament identifier from a raw operator
// input, which may be a bare id or a full bracket URL.
func TournamentSlug(s string) string {
	s = strings.TrimSpace(strings.TrimSuffix(s, "/"))
	if i := strings.LastIndex(s, "/"); i >= 0 {
		return s[i+1:]
	}
	return s
}
