package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/sieve"
	httpadapter "github.com/aretw0/sieve/pkg/adapters/http"
	"github.com/aretw0/sieve/pkg/adapters/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	server := httpadapter.NewServer(sieve.NewRunner(), store)
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(ts.Close)
	return ts, store
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func scenarioDoc(expected string) map[string]any {
	return map[string]any{
		"name": "greeting",
		"sequence": []any{
			map[string]any{"kind": "interact", "inputs": "Hello", "outputs": "Hi"},
			map[string]any{"kind": "equals", "key": "trace.last.outputs", "expected": expected},
		},
	}
}

func TestServer_RunScenario(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/runs", scenarioDoc("Hi"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "completed", body["state"])
	assert.Equal(t, "greeting", body["scenario"])
	assert.NotEmpty(t, body["run_id"])
}

func TestServer_RunPersistsResult(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/runs", scenarioDoc("wrong"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	runID := decode(t, resp)["run_id"].(string)

	get, err := http.Get(ts.URL + "/runs/" + runID)
	require.NoError(t, err)
	defer get.Body.Close()
	require.Equal(t, http.StatusOK, get.StatusCode)

	body := decode(t, get)
	assert.Equal(t, "halted", body["state"])

	list, err := http.Get(ts.URL + "/runs")
	require.NoError(t, err)
	defer list.Body.Close()
	assert.Contains(t, decode(t, list)["runs"], runID)
}

func TestServer_InvalidDocument(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/runs", map[string]any{
		"name":     "bad",
		"sequence": []any{map[string]any{"kind": "no_such_kind"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, decode(t, resp)["error"], "no_such_kind")
}

func TestServer_MalformedBody(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/runs", "application/json", bytes.NewBufferString("{not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServer_ResultNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/runs/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_Healthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
