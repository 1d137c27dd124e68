package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/central-university-dev/go-hotel-sync/internal/domain/errors"
)

func newTestClient(t *testing.T, handler func(method string, values url.Values) string) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())

		parts := strings.Split(r.URL.Path, "/")
		method := parts[len(parts)-1]

		if method == "getMe" {
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"bot","username":"hotel_bot"}}`))
			return
		}

		_, _ = w.Write([]byte(handler(method, r.Form)))
	}))
	t.Cleanup(srv.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := NewClientWithEndpoint("test-token", srv.URL+"/bot%s/%s", 100, 30, 5, logger)
	require.NoError(t, err)

	return client
}

func TestNewClient_BoundedRequestTimeouts(t *testing.T) {
	client := newTestClient(t, func(string, url.Values) string {
		return `{"ok":true,"result":true}`
	})

	botHTTP, ok := client.bot.Client.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, requestTimeout, botHTTP.Timeout)

	pollHTTP, ok := client.pollBot.Client.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, pollTimeout, pollHTTP.Timeout)
	assert.Greater(t, pollTimeout, time.Duration(longPollWait)*time.Second)
}

func TestClient_DropPendingUpdates(t *testing.T) {
	var gotOffset string

	client := newTestClient(t, func(method string, values url.Values) string {
		require.Equal(t, "getUpdates", method)
		gotOffset = values.Get("offset")

		return `{"ok":true,"result":[{"update_id":7}]}`
	})

	next, err := client.DropPendingUpdates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "-1", gotOffset)
	assert.Equal(t, int64(8), next)
}

func TestClient_DropPendingUpdates_Empty(t *testing.T) {
	client := newTestClient(t, func(string, url.Values) string {
		return `{"ok":true,"result":[]}`
	})

	next, err := client.DropPendingUpdates(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(0), next)
}

func TestClient_SendTopicMessage_RetryAfter(t *testing.T) {
	client := newTestClient(t, func(string, url.Values) string {
		return `{"ok":false,"error_code":429,"description":"Too Many Requests","parameters":{"retry_after":3}}`
	})

	err := client.SendTopicMessage(context.Background(), 500, "текст")

	var retryErr *customerrors.ErrRetryAfter

	require.True(t, errors.As(err, &retryErr))
	assert.Equal(t, 3*time.Second, retryErr.Wait)
}
