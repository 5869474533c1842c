package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kvmirror/kvmirror/lib/errors"
)

func newClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient(Config{
		BaseURL:       baseURL,
		Token:         "test-token",
		TimeoutSecond: 5,
		RetryCount:    2,
	}, nil)
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, bad := range []string{"", "not a url", "relative/path"} {
		_, err := NewClient(Config{BaseURL: bad}, nil)
		require.Error(t, err, "base URL %q", bad)
		assert.True(t, errors.IsConfiguration(err))
	}
}

func TestAuthorizationHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	require.NoError(t, c.PutRecord(context.Background(), "s", "k", []byte("v"), "text/plain"))
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestGetRecordNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	data, found, err := c.GetRecord(context.Background(), "s", "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, data)
}

func TestGetRecordReturnsBodyAndContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	data, found, err := c.GetRecord(context.Background(), "s", "k")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte("hello"), data.Body)
	assert.Equal(t, "text/plain; charset=utf-8", data.ContentType)
}

func TestErrorStatusIsServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)

	err := c.PutRecord(context.Background(), "s", "k", []byte("v"), "text/plain")
	require.Error(t, err)
	assert.True(t, errors.IsService(err))
	assert.Contains(t, err.Error(), "500")

	_, _, err = c.GetRecord(context.Background(), "s", "k")
	require.Error(t, err)
	assert.True(t, errors.IsService(err))
}

func TestDeleteIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	assert.NoError(t, c.DeleteRecord(context.Background(), "s", "k"))
	assert.NoError(t, c.DeleteStore(context.Background(), "s"))
}

func TestListKeysParsesPage(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("exclusiveStartKey")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"key":"a","size":3},{"key":"b","size":5}],"isTruncated":true,"nextExclusiveStartKey":"b"}`))
	}))
	defer srv.Close()

	c := newClient(t, srv.URL)
	result, err := c.ListKeys(context.Background(), "store-9", "start")
	require.NoError(t, err)

	assert.Equal(t, "/key-value-stores/store-9/keys", gotPath)
	assert.Equal(t, "start", gotQuery)
	require.Len(t, result.Items, 2)
	assert.Equal(t, KeyItem{Key: "a", Size: 3}, result.Items[0])
	assert.Equal(t, KeyItem{Key: "b", Size: 5}, result.Items[1])
	assert.True(t, result.IsTruncated)
	assert.Equal(t, "b", result.NextExclusiveStartKey)
}

func TestRecordURLEscapesSegments(t *testing.T) {
	c := newClient(t, "https://api.kvmirror.io/v2")
	assert.Equal(t,
		"https://api.kvmirror.io/v2/key-value-stores/store-1/records/some-key",
		c.RecordURL("store-1", "some-key"))
	assert.Equal(t,
		"https://api.kvmirror.io/v2/key-value-stores/store-1/records/with%20space",
		c.RecordURL("store-1", "with space"))
}

func TestNetworkFailureRetriesThenFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listens anymore

	c := newClient(t, srv.URL)
	err := c.PutRecord(context.Background(), "s", "k", []byte("v"), "")
	require.Error(t, err)
	assert.True(t, errors.IsService(err))
	assert.Contains(t, err.Error(), "2 attempts")
}
