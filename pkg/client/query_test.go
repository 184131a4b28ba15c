package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

func newQueryTestServer(t *testing.T, wantPath string, respond interface{}) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, wantPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(respond))
	}))
}

func TestQueryClient_Generate(t *testing.T) {
	srv := newQueryTestServer(t, "/api/v1/query/generate", types.GenerateResponse{
		QueryStringDisplay: "(solar cell)",
		URL:                "https://patents.google.com/?q=%28solar+cell%29",
	})
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.Query().Generate(context.Background(), &types.GenerateRequest{
		Format:           types.DialectGoogle,
		SearchConditions: []types.SearchCondition{types.NewTextConditionWithText("solar cell")},
	})
	require.NoError(t, err)
	assert.Equal(t, "(solar cell)", resp.QueryStringDisplay)
	assert.Contains(t, resp.URL, "patents.google.com")
}

func TestQueryClient_GenerateSafe_FailClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code":"QUERY_007","message":"proximity group spans fields"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp := c.Query().GenerateSafe(context.Background(), &types.GenerateRequest{
		Format: types.DialectUSPTO,
	})
	require.NotNil(t, resp)
	assert.Contains(t, resp.QueryStringDisplay, "Error: ")
	assert.Contains(t, resp.QueryStringDisplay, "proximity group spans fields")
	assert.Equal(t, types.SentinelURL, resp.URL)
}

func TestQueryClient_GenerateSafe_UnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c, err := NewClient(srv.URL, WithRetryMax(0))
	require.NoError(t, err)

	resp := c.Query().GenerateSafe(context.Background(), &types.GenerateRequest{Format: types.DialectGoogle})
	require.NotNil(t, resp)
	assert.Contains(t, resp.QueryStringDisplay, "Error: ")
	assert.Equal(t, types.SentinelURL, resp.URL)
}

func TestQueryClient_Parse(t *testing.T) {
	srv := newQueryTestServer(t, "/api/v1/query/parse", types.ParseResponse{
		SearchConditions: []types.SearchCondition{types.NewTextConditionWithText("battery")},
	})
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.Query().Parse(context.Background(), &types.ParseRequest{
		Format:      types.DialectGoogle,
		QueryString: "(battery)",
	})
	require.NoError(t, err)
	require.Len(t, resp.SearchConditions, 1)
}

func TestQueryClient_Convert(t *testing.T) {
	srv := newQueryTestServer(t, "/api/v1/query/convert", types.ConvertResponse{
		ConvertedText: `"solar cell".ti.`,
		Error:         "near() proximity has no USPTO equivalent",
	})
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.Query().Convert(context.Background(), &types.ConvertRequest{
		QueryString:  "TI=(solar near5 cell)",
		SourceFormat: types.DialectGoogle,
		TargetFormat: types.DialectUSPTO,
	})
	require.NoError(t, err)
	assert.Equal(t, `"solar cell".ti.`, resp.ConvertedText)
	assert.NotEmpty(t, resp.Error, "lossy conversion surfaces a warning, not a failure")
}

func TestQueryClient_Detect(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"dialect":"uspto"}`))
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	resp, err := c.Query().Detect(context.Background(), "TTL/(solar ADJ cell)")
	require.NoError(t, err)
	assert.Equal(t, types.DialectUSPTO, resp.Dialect)
	assert.Equal(t, "TTL/(solar ADJ cell)", gotBody["query_string"])
}

func TestClient_Query_SameInstance(t *testing.T) {
	c, err := NewClient("http://localhost:1")
	require.NoError(t, err)
	assert.Same(t, c.Query(), c.Query())
}

//Personal.AI order the ending
