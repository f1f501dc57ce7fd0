package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todotable/internal/model"
)

func TestList_MapsCanonicalFields(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(RequestIDHeader))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"userId": 1, "id": 2, "title": "quis ut nam", "completed": false},
			{"userId": 1, "id": 1, "title": "delectus aut autem", "completed": true, "tags": ["x"]}
		]`))
	}))
	defer ts.Close()

	todos, err := New(ts.URL + "/todos").List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Todo{
		{ID: 2, Title: "quis ut nam", Completed: false},
		{ID: 1, Title: "delectus aut autem", Completed: true},
	}, todos)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	todos, err := New(ts.URL).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, todos)
	assert.Empty(t, todos)
}

func TestCreate_SendsNoID(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/todos", r.URL.Path)
		assert.Contains(t, r.Header.Get("Content-Type"), "application/json")

		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		require.NoError(t, json.Unmarshal(raw, &body))
		assert.NotContains(t, body, "id")
		assert.Equal(t, "Buy milk", body["title"])
		assert.Equal(t, true, body["completed"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"title":"Buy milk","completed":true,"id":201}`))
	}))
	defer ts.Close()

	got, err := New(ts.URL+"/todos/").Create(context.Background(), model.Todo{ID: 99, Title: "Buy milk", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: 201, Title: "Buy milk", Completed: true}, got)
}

func TestUpdate(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/todos/5", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.NotContains(t, body, "id")
		assert.Equal(t, "Updated", body["title"])

		// echo without an id, the client fills it from the path
		_, _ = w.Write([]byte(`{"title":"Updated","completed":false}`))
	}))
	defer ts.Close()

	got, err := New(ts.URL+"/todos").Update(context.Background(), 5, model.Todo{Title: "Updated"})
	require.NoError(t, err)
	assert.Equal(t, model.Todo{ID: 5, Title: "Updated"}, got)
}

func TestDelete_ReturnsID(t *testing.T) {
	t.Parallel()

	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		path = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	id, err := New(ts.URL+"/todos").Delete(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	assert.Equal(t, "/todos/7", path)
}

func TestStatusErrors(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer ts.Close()

	c := New(ts.URL)
	ctx := context.Background()

	_, err := c.List(ctx)
	assertNetworkError(t, err, "list", http.StatusNotFound)
	_, err = c.Create(ctx, model.Todo{Title: "x"})
	assertNetworkError(t, err, "create", http.StatusNotFound)
	_, err = c.Update(ctx, 1, model.Todo{Title: "x"})
	assertNetworkError(t, err, "update", http.StatusNotFound)
	_, err = c.Delete(ctx, 1)
	assertNetworkError(t, err, "delete", http.StatusNotFound)
	assert.True(t, IsNotFound(err))
}

func TestTransportError(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, err := New(url).List(context.Background())
	assertNetworkError(t, err, "list", 0)
	assert.False(t, IsNotFound(err))
}

func TestBadBody(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	_, err := New(ts.URL).List(context.Background())
	assertNetworkError(t, err, "list", 0)
	assert.Contains(t, err.Error(), "decode response")
}

func TestWithTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer ts.Close()
	defer close(release)

	_, err := New(ts.URL, WithTimeout(50*time.Millisecond)).List(context.Background())
	assertNetworkError(t, err, "list", 0)
}

func TestUserAgent(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "todo-test/1", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := New(ts.URL, WithUserAgent("todo-test/1"), WithHTTPClient(ts.Client())).List(context.Background())
	require.NoError(t, err)
}

func assertNetworkError(t *testing.T, err error, op string, status int) {
	t.Helper()
	require.Error(t, err)
	var ne *NetworkError
	require.True(t, errors.As(err, &ne), "want *NetworkError, got %T", err)
	assert.Equal(t, op, ne.Op)
	assert.Equal(t, status, ne.StatusCode)
}
