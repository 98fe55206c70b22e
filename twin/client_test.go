package twin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_CreateTwin(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Resources []ResourceDescriptor `json:"resources"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/workspaces/prod/twins", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Twin{ID: "twin-1", ChangeSetID: "cs-9", Components: 2})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token")
	twin, err := c.CreateTwin(context.Background(), "prod", []ResourceDescriptor{
		{Type: "storage_bucket", Name: "bucket-a"},
		{Type: "storage_bucket", Name: "bucket-b"},
	})

	require.NoError(t, err)
	assert.Equal(t, "twin-1", twin.ID)
	assert.Equal(t, 2, twin.Components)
	assert.Equal(t, "Bearer secret-token", gotAuth)
	require.Len(t, gotBody.Resources, 2)
	assert.Equal(t, "bucket-a", gotBody.Resources[0].Name)
}

func TestClient_CreateTwinRejectsEmptyResources(t *testing.T) {
	c := NewClient("http://unused", "tok")
	_, err := c.CreateTwin(context.Background(), "prod", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no resources")
}

func TestClient_CreateTwinServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "change set rejected", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	_, err := c.CreateTwin(context.Background(), "prod", []ResourceDescriptor{{Type: "storage_bucket", Name: "b"}})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "422")
	assert.Contains(t, err.Error(), "change set rejected")
}

func TestClient_GetTwin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/workspaces/prod/twins/twin-1", r.URL.Path)
		json.NewEncoder(w).Encode(Twin{ID: "twin-1", Status: "ready"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	twin, err := c.GetTwin(context.Background(), "prod", "twin-1")

	require.NoError(t, err)
	assert.Equal(t, "ready", twin.Status)
}

func TestClient_DeleteTwin(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	require.NoError(t, c.DeleteTwin(context.Background(), "prod", "twin-1"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/v1/workspaces/prod/twins/twin-1", gotPath)
}

func TestClient_ContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL, "tok")
	_, err := c.GetTwin(ctx, "prod", "twin-1")
	assert.Error(t, err)
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://example.test/", "tok")
	assert.Equal(t, "http://example.test", c.baseURL)
}
