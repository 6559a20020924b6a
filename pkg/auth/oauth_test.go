package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClientSendsBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := GetClient(context.Background(), "secret-token")
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "Bearer secret-token", got)
}

func TestGetXdgHome(t *testing.T) {
	t.Setenv("HOME", "/tmp/organizer-home")

	dir, err := GetXdgHome()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/organizer-home/.config/todoist-organizer", dir)
}
