package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gennadis/chatwidget/internal/chat"
	"github.com/gennadis/chatwidget/internal/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, strict bool) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.NewConfig()
	cfg.Endpoint = srv.URL + "/chat"
	cfg.StrictStatus = strict
	return NewClient(*cfg)
}

func TestSendPostsJSON(t *testing.T) {
	var got chat.ChatRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat", r.URL.Path)
		assert.Equal(t, JSONContentType, r.Header.Get("Content-Type"))
		_, err := uuid.Parse(r.Header.Get("X-Request-ID"))
		assert.NoError(t, err)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", JSONContentType)
		_, _ = w.Write([]byte(`{"response":"hi there"}`))
	}, false)

	resp, err := c.Send(context.Background(), "user_7", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.Text())
	assert.Equal(t, chat.ChatRequest{SessionID: "user_7", Query: "Hello"}, got)
}

func TestSendNonJSONBodyFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}, false)

	_, err := c.Send(context.Background(), "user_1", "ping")
	require.Error(t, err)
}

func TestSendNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	cfg := config.NewConfig()
	cfg.Endpoint = srv.URL
	srv.Close()

	_, err := NewClient(*cfg).Send(context.Background(), "user_1", "ping")
	require.Error(t, err)
}

func TestSendErrorStatusIsLenientByDefault(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"missing query"}`))
	}, false)

	resp, err := c.Send(context.Background(), "user_1", "ping")
	require.NoError(t, err)
	assert.Equal(t, "undefined", resp.Text())
}

func TestSendErrorStatusStrict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"response":"partial"}`))
	}, true)

	_, err := c.Send(context.Background(), "user_1", "ping")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
}

func TestSendHonoursContext(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Send(ctx, "user_1", "ping")
	require.ErrorIs(t, err, context.Canceled)
}

func TestSendNullBodyFails(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(" null\n"))
	}, false)

	_, err := c.Send(context.Background(), "user_1", "ping")
	require.ErrorIs(t, err, ErrNullBody)
}

func TestSendNullResponseField(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"response":null}`))
	}, false)

	resp, err := c.Send(context.Background(), "user_1", "ping")
	require.NoError(t, err)
	assert.Equal(t, "null", resp.Text())
}
