package passage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/verte-zerg/tuirace/internal/auth"
	"github.com/verte-zerg/tuirace/internal/model"
	"github.com/verte-zerg/tuirace/internal/race"
)

const requestTimeout = 10 * time.Second

// Client talks to the remote passage and stats service.
type Client struct {
	baseURL string
	session auth.Session
	http    *http.Client
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, session auth.Session) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		session: session,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// ByID implements Service.
func (c *Client) ByID(ctx context.Context, id string) (model.Passage, error) {
	var p model.Passage
	if err := c.getJSON(ctx, "/passages/"+url.PathEscape(id), nil, &p); err != nil {
		return model.Passage{}, err
	}
	return p, nil
}

// Random implements Service. The service answers with a list; the first
// entry is used.
func (c *Client) Random(ctx context.Context, difficulty model.Difficulty) (model.Passage, error) {
	var list []model.Passage
	query := url.Values{"difficulty": {string(difficulty)}}
	if err := c.getJSON(ctx, "/passages/random", query, &list); err != nil {
		return model.Passage{}, err
	}
	if len(list) == 0 {
		return model.Passage{}, ErrNotFound
	}
	return list[0], nil
}

// RecordSoloAttempt implements ResultSink.
func (c *Client) RecordSoloAttempt(ctx context.Context, _ model.Passage, res race.Result) error {
	body, err := json.Marshal(struct {
		WPM      int `json:"wpm"`
		Accuracy int `json:"accuracy"`
	}{res.WPM, res.Accuracy})
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/users/solo_practice", nil, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to record solo practice: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("failed to record solo practice: unexpected status %s", resp.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status for %s: %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body *bytes.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, u, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, nil)
	}
	if err != nil {
		return nil, err
	}
	for k, v := range auth.Header(c.session) {
		req.Header[k] = v
	}
	return req, nil
}
