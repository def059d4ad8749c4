package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsMessage(t *testing.T) {
	var received slackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &received))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
	}))
	t.Cleanup(server.Close)

	s := NewSlack(server.URL)
	require.True(t, s.Enabled())

	err := s.Send(context.Background(), "order placed")
	require.NoError(t, err)
	assert.Equal(t, "order placed", received.Text)
}

func TestSendNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	err := NewSlack(server.URL).Send(context.Background(), "hello")
	require.Error(t, err)
}

func TestDisabledNotifierDropsMessages(t *testing.T) {
	s := NewSlack("")
	assert.False(t, s.Enabled())
	assert.NoError(t, s.Send(context.Background(), "dropped"))
}
