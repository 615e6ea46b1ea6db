package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	c := NewWithKey("test-key")
	c.BaseURL = url
	c.RetryDelay = time.Millisecond
	return c
}

func TestDoSendsBearerAuth(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	data, err := testClient(srv.URL).Do(context.Background(), http.MethodGet, "/feed", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.JSONEq(t, `{"ok": true}`, string(data))
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Do(context.Background(), http.MethodGet, "/feed", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoGivesUpAfterMaxRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	c.MaxRetries = 2
	_, err := c.Do(context.Background(), http.MethodGet, "/feed", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 2, calls)

	var apiErr *APIError
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Code)
}

func TestDoNonRetryableFailsImmediately(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no such post"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Do(context.Background(), http.MethodGet, "/posts/x", nil, nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "no such post", apiErr.Message)
}

func TestDoRateLimitWithCooldown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "slow down", "retry_after_minutes": 30}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Do(context.Background(), http.MethodPost, "/posts", nil, nil)
	require.Error(t, err)

	var rlErr *RateLimitError
	require.True(t, errors.As(err, &rlErr))
	assert.Equal(t, 30*time.Minute, rlErr.RetryAfter)
	assert.Contains(t, rlErr.Error(), "30 minute")
}

func TestDoRateLimitWithoutCooldownRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Do(context.Background(), http.MethodGet, "/feed", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestFeedDecodesPosts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/feed", r.URL.Path)
		assert.Equal(t, "hot", r.URL.Query().Get("sort"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"posts": [{"id": "p1", "author": {"name": "alice"}}]}`))
	}))
	defer srv.Close()

	page, err := testClient(srv.URL).Feed(context.Background(), "hot", 10)
	require.NoError(t, err)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "alice", page.Posts[0].AuthorName())
}

func TestCommentPostsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/posts/p1/comments", r.URL.Path)
		w.Write([]byte(`{"comment": {"id": "c1"}}`))
	}))
	defer srv.Close()

	ref, err := testClient(srv.URL).Comment(context.Background(), "p1", "hi", "")
	require.NoError(t, err)
	assert.Equal(t, "c1", ref.ID)
}

func TestResolveAPIKeyFromEnv(t *testing.T) {
	t.Setenv(EnvAPIKey, "from-env")
	key, err := ResolveAPIKey("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", key)
}
