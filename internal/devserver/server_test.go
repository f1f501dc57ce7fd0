package devserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todotable/internal/model"
	"github.com/idilsaglam/todotable/internal/remote"
	"github.com/idilsaglam/todotable/internal/store"
)

func TestSeed(t *testing.T) {
	todos := Seed(4)
	require.Len(t, todos, 4)
	assert.Equal(t, model.Todo{ID: 3, Title: "todo 3", Completed: true}, todos[2])
	assert.False(t, todos[0].Completed)
}

func TestHandlers(t *testing.T) {
	s := New(Seed(2), nil)

	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"list", http.MethodGet, "/todos", "", http.StatusOK, `[{"id":1,"title":"todo 1","completed":false},{"id":2,"title":"todo 2","completed":false}]`},
		{"get", http.MethodGet, "/todos/2", "", http.StatusOK, `{"id":2,"title":"todo 2","completed":false}`},
		{"get missing", http.MethodGet, "/todos/9", "", http.StatusNotFound, ""},
		{"bad id", http.MethodGet, "/todos/abc", "", http.StatusBadRequest, ""},
		{"create", http.MethodPost, "/todos", `{"title":"Buy milk","completed":true,"id":77}`, http.StatusCreated, `{"id":3,"title":"Buy milk","completed":true}`},
		{"create missing field", http.MethodPost, "/todos", `{"title":"x"}`, http.StatusBadRequest, ""},
		{"update", http.MethodPut, "/todos/1", `{"title":"Updated","completed":true}`, http.StatusOK, `{"id":1,"title":"Updated","completed":true}`},
		{"update missing", http.MethodPut, "/todos/42", `{"title":"Updated","completed":true}`, http.StatusNotFound, ""},
		{"delete", http.MethodDelete, "/todos/2", "", http.StatusOK, `{}`},
		{"delete again", http.MethodDelete, "/todos/2", "", http.StatusNotFound, ""},
		{"list after", http.MethodGet, "/todos", "", http.StatusOK, `[{"id":1,"title":"Updated","completed":true},{"id":3,"title":"Buy milk","completed":true}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			}
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

// The dev server, the HTTP client and the store together.
func TestStoreAgainstDevServer(t *testing.T) {
	ts := httptest.NewServer(New(Seed(3), nil).Handler())
	defer ts.Close()

	st := store.New(remote.New(ts.URL + "/todos"))
	defer st.Close()
	ctx := context.Background()

	require.NoError(t, st.Fetch(ctx))
	assert.Len(t, st.Snapshot().Todos, 3)

	created, err := st.Create(ctx, model.Todo{Title: "Buy milk", Completed: true})
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)

	_, err = st.Update(ctx, model.Todo{ID: 2, Title: "Updated"})
	require.NoError(t, err)

	_, err = st.Delete(ctx, 1)
	require.NoError(t, err)

	_, err = st.Delete(ctx, 1)
	require.Error(t, err)
	assert.True(t, remote.IsNotFound(err))

	snap := st.Snapshot()
	assert.Equal(t, store.Succeeded, snap.Status)
	assert.Equal(t, []model.Todo{
		{ID: 2, Title: "Updated"},
		{ID: 3, Title: "todo 3", Completed: true},
		{ID: 4, Title: "Buy milk", Completed: true},
	}, snap.Todos)

	// the remote agrees with the local collection
	require.NoError(t, st.Fetch(ctx))
	assert.Equal(t, snap.Todos, st.Snapshot().Todos)
}
