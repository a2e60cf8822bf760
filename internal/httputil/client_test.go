// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris-arsenault/illuminator/pkg/types"
)

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(types.HTTPConfig{})
	assert.Equal(t, defaultTimeout, client.Timeout)
	assert.Nil(t, client.Transport)
}

func TestNewClientAppliesUserAgent(t *testing.T) {
	var gotAgent string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	client := NewClient(types.HTTPConfig{
		Timeout:   5 * time.Second,
		UserAgent: "illuminator/0.1",
	})

	resp, err := client.Get(ts.URL)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "illuminator/0.1", gotAgent)
	assert.Equal(t, 5*time.Second, client.Timeout)
}
