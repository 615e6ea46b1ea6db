// Package client is the HTTP client for the Moltbook API. It owns
// authentication, retries, and JSON decoding; the curation packages only
// consume the decoded structures.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/micheloosterhof/moltbook/internal/feed"
)

// DefaultBaseURL is the production Moltbook API root.
const DefaultBaseURL = "https://www.moltbook.com/api/v1"

const (
	defaultMaxRetries = 3
	defaultRetryDelay = 10 * time.Second
	requestTimeout    = 30 * time.Second
)

// retryable are the status codes worth retrying.
var retryable = map[int]bool{429: true, 500: true, 502: true, 503: true, 504: true}

// Client talks to the Moltbook API. The zero value is not usable; use
// New or NewWithKey.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	MaxRetries int
	RetryDelay time.Duration

	apiKey string
}

// New builds a client, resolving credentials from the environment or the
// standard credential file locations.
func New() (*Client, error) {
	key, err := ResolveAPIKey("")
	if err != nil {
		return nil, err
	}
	return NewWithKey(key), nil
}

// NewWithKey builds a client with an explicit API key.
func NewWithKey(key string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: requestTimeout},
		MaxRetries: defaultMaxRetries,
		RetryDelay: defaultRetryDelay,
		apiKey:     key,
	}
}

// Do performs an authenticated request and returns the raw response
// body. Retries 429/5xx responses and connection errors up to
// MaxRetries, honoring Retry-After. A 429 carrying retry_after_minutes
// becomes a RateLimitError instead of a retry.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body any) (json.RawMessage, error) {
	reqURL := c.BaseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
	}

	var lastErr error
	for attempt := 0; attempt < c.MaxRetries; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return nil, err
			}
			if attempt < c.MaxRetries-1 {
				slog.Debug("connection error, retrying", "url", reqURL, "attempt", attempt+1, "error", err)
				c.wait(ctx, c.RetryDelay)
				continue
			}
			break
		}

		data, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			if attempt < c.MaxRetries-1 {
				c.wait(ctx, c.RetryDelay)
				continue
			}
			break
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return data, nil
		}

		errBody := parseErrorBody(data)

		if resp.StatusCode == http.StatusTooManyRequests {
			if minutes, ok := retryAfterMinutes(errBody); ok {
				return nil, &RateLimitError{
					APIError: APIError{
						Code:    resp.StatusCode,
						URL:     reqURL,
						Message: errorMessage(errBody),
						Body:    errBody,
					},
					RetryAfter: time.Duration(minutes) * time.Minute,
				}
			}
		}

		if !retryable[resp.StatusCode] {
			return nil, &APIError{
				Code:    resp.StatusCode,
				URL:     reqURL,
				Message: errorMessage(errBody),
				Body:    errBody,
			}
		}

		lastErr = &APIError{
			Code:    resp.StatusCode,
			URL:     reqURL,
			Message: errorMessage(errBody),
			Body:    errBody,
		}
		if attempt < c.MaxRetries-1 {
			delay := c.RetryDelay
			if ra, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && ra > 0 {
				delay = time.Duration(ra) * time.Second
			}
			slog.Debug("retryable API error", "url", reqURL, "status", resp.StatusCode, "attempt", attempt+1)
			c.wait(ctx, delay)
		}
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", c.MaxRetries, lastErr)
}

// wait sleeps for d or until the context is done.
func (c *Client) wait(ctx context.Context, d time.Duration) {
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}

// get performs a GET and decodes the response into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	data, err := c.Do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func parseErrorBody(data []byte) map[string]any {
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return map[string]any{}
	}
	return body
}

func retryAfterMinutes(body map[string]any) (int, bool) {
	switch v := body["retry_after_minutes"].(type) {
	case float64:
		return int(v), true
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Feed fetches the main feed for a ranking ("hot" or "new").
func (c *Client) Feed(ctx context.Context, sort string, limit int) (*feed.Page, error) {
	params := url.Values{"sort": {sort}, "limit": {strconv.Itoa(limit)}}
	var page feed.Page
	if err := c.get(ctx, "/feed", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SubmoltPosts fetches one community's posts.
func (c *Client) SubmoltPosts(ctx context.Context, submolt, sort string, limit, offset int) (*feed.Page, error) {
	params := url.Values{
		"sort":   {sort},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	var page feed.Page
	if err := c.get(ctx, "/submolts/"+submolt+"/posts", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Thread fetches a post with its full comment tree.
func (c *Client) Thread(ctx context.Context, postID string) (*feed.Thread, error) {
	var t feed.Thread
	if err := c.get(ctx, "/posts/"+postID, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Search queries the search API.
func (c *Client) Search(ctx context.Context, query string) (*feed.SearchResults, error) {
	var res feed.SearchResults
	if err := c.get(ctx, "/search", url.Values{"q": {query}}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Me fetches the authenticated agent's profile.
func (c *Client) Me(ctx context.Context) (*feed.Profile, error) {
	var p feed.Profile
	if err := c.get(ctx, "/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Profile fetches another agent's profile.
func (c *Client) Profile(ctx context.Context, name string) (*feed.Profile, error) {
	var p feed.Profile
	if err := c.get(ctx, "/agents/"+name, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Comment posts a comment (or a reply when parentID is set) and returns
// a reference to the created comment.
func (c *Client) Comment(ctx context.Context, postID, content, parentID string) (*feed.CommentRef, error) {
	body := map[string]any{"content": content}
	if parentID != "" {
		body["parent_id"] = parentID
	}
	data, err := c.Do(ctx, http.MethodPost, "/posts/"+postID+"/comments", nil, body)
	if err != nil {
		return nil, err
	}
	var ref feed.CommentRef
	if err := json.Unmarshal(data, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// CreatePost creates a post in a community.
func (c *Client) CreatePost(ctx context.Context, submolt, title, content, postURL string) (json.RawMessage, error) {
	body := map[string]any{"title": title, "content": content, "submolt": submolt}
	if postURL != "" {
		body["url"] = postURL
	}
	return c.Do(ctx, http.MethodPost, "/posts", nil, body)
}

// DeletePost deletes one of our own posts.
func (c *Client) DeletePost(ctx context.Context, postID string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, "/posts/"+postID, nil, nil)
}

// Upvote upvotes a post.
func (c *Client) Upvote(ctx context.Context, postID string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/posts/"+postID+"/upvote", nil, nil)
}

// Downvote downvotes a post.
func (c *Client) Downvote(ctx context.Context, postID string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/posts/"+postID+"/downvote", nil, nil)
}

// UpvoteComment upvotes a comment.
func (c *Client) UpvoteComment(ctx context.Context, commentID string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/comments/"+commentID+"/upvote", nil, nil)
}

// Follow follows an agent.
func (c *Client) Follow(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/agents/"+name+"/follow", nil, nil)
}

// Unfollow unfollows an agent.
func (c *Client) Unfollow(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, "/agents/"+name+"/follow", nil, nil)
}

// Submolts lists communities.
func (c *Client) Submolts(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/submolts", nil, nil)
}

// Submolt fetches one community's details.
func (c *Client) Submolt(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/submolts/"+name, nil, nil)
}

// CreateSubmolt creates a community.
func (c *Client) CreateSubmolt(ctx context.Context, name, displayName, description string) (json.RawMessage, error) {
	body := map[string]any{
		"name":         name,
		"display_name": displayName,
		"description":  description,
	}
	return c.Do(ctx, http.MethodPost, "/submolts", nil, body)
}

// Subscribe subscribes to a community.
func (c *Client) Subscribe(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, "/submolts/"+name+"/subscribe", nil, nil)
}

// Unsubscribe unsubscribes from a community.
func (c *Client) Unsubscribe(ctx context.Context, name string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, "/submolts/"+name+"/subscribe", nil, nil)
}

// Status fetches the agent claim status.
func (c *Client) Status(ctx context.Context) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, "/claim/status", nil, nil)
}

// UpdateProfile updates the authenticated agent's description.
func (c *Client) UpdateProfile(ctx context.Context, description string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, "/me", nil, map[string]any{"description": description})
}
