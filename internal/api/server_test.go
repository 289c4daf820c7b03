// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sunward/solsite/internal/agent"
	"github.com/sunward/solsite/internal/catalog"
	"github.com/sunward/solsite/internal/kb"
	"github.com/sunward/solsite/internal/llm"
	"github.com/sunward/solsite/internal/retriever"
	"github.com/sunward/solsite/internal/tools"
	"github.com/sunward/solsite/internal/weather"
)

type mockProvider struct {
	chatResponse string
	lastMessages []llm.Message
	chatCalls    int
}

func (m *mockProvider) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	m.chatCalls++
	m.lastMessages = append([]llm.Message(nil), messages...)
	if m.chatResponse == "" {
		return "mock-response", nil
	}
	return m.chatResponse, nil
}

func (m *mockProvider) Embed(ctx context.Context, input []string) ([][]float32, error) {
	return nil, llm.ErrNoEmbeddings
}

func (m *mockProvider) Name() string { return "mock" }

func testDocs() []kb.Doc {
	return []kb.Doc{
		{
			ID:      "toy_grid_doc.txt:0",
			Source:  "California ISO Interconnection Queue Summary 2023",
			Path:    "toy_grid_doc.txt",
			Content: "The CAISO interconnection queue contains over 500 active solar generation projects.",
		},
		{
			ID:      "toy_grid_doc.txt:1",
			Source:  "California ISO Interconnection Queue Summary 2023",
			Path:    "toy_grid_doc.txt",
			Chunk:   1,
			Content: "Grid stability requires voltage ride-through from inverter-based resources.",
		},
	}
}

func newTestServer(t *testing.T, provider llm.Provider, opts ...Option) *Server {
	t.Helper()
	retr := retriever.New(testDocs(), nil, nil)
	runner := agent.New(provider, tools.NewToolset(tools.DefaultConfig()), retr)
	srv, err := NewServer(runner, provider, retr, opts...)
	require.NoError(t, err)
	return srv
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestAnalyzeEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockProvider{chatResponse: "Feasibility looks strong."})
	body, err := json.Marshal(analyzeRequest{Query: "Is it feasible to build a 50 MW solar farm at 36.5, -121.0?"})
	require.NoError(t, err)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/analyze", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rr.Code)

	var result agent.Result
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
	require.Equal(t, "feasibility", result.Route)
	require.Empty(t, result.Error)
	require.Equal(t, "Feasibility looks strong.", result.Response)
	require.Equal(t, 50.0, result.ToolResults["capacity_mw"])
}

func TestAnalyzeEndpointRejectsEmptyQuery(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/analyze", strings.NewReader(`{"query":"  "}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChatEndpointWithRAG(t *testing.T) {
	provider := &mockProvider{chatResponse: "Queue congestion is the main risk."}
	srv := newTestServer(t, provider)
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/chat",
		strings.NewReader(`{"prompt":"What is in the interconnection queue?","use_rag":true}`)))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "Queue congestion is the main risk.", resp["answer"])
	require.Equal(t, "mock", resp["provider"])
	ragContext, _ := resp["context"].(string)
	require.Contains(t, ragContext, "[Source: California ISO Interconnection Queue Summary 2023]")

	// The retrieved context rides along as a second system message.
	require.Len(t, provider.lastMessages, 3)
	require.Equal(t, "system", provider.lastMessages[1].Role)
	require.Contains(t, provider.lastMessages[1].Content, "interconnection queue")
}

func TestChatEndpointRequiresPrompt(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/chat", strings.NewReader(`{"use_rag":true}`)))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/search?q=interconnection+queue&limit=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Results []searchHit `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	require.Equal(t, "toy_grid_doc.txt:0", resp.Results[0].ID)
	require.Equal(t, "California ISO Interconnection Queue Summary 2023", resp.Results[0].Source)
}

func TestSearchEndpointRequiresQuery(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/search", nil))
	require.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHistoryEndpoint(t *testing.T) {
	store, err := catalog.Open(filepath.Join(t.TempDir(), "solsite.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.RecordAnalysis(context.Background(),
		"Is a 20 MW farm feasible?", "feasibility", "Yes.", "mock", 12*time.Millisecond)
	require.NoError(t, err)

	srv := newTestServer(t, &mockProvider{}, WithHistory(store))
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/history?limit=5", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Analyses []catalog.Analysis `json:"analyses"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Analyses, 1)
	require.Equal(t, "feasibility", resp.Analyses[0].Route)
}

func TestHistoryEndpointUnconfigured(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestLookupEndpointsUnconfigured(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	for _, path := range []string{"/v1/geocode?q=fresno", "/v1/websearch?q=solar", "/v1/weather?lat=37&lon=-121"} {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusServiceUnavailable, rr.Code, path)
	}
}

func TestWeatherEndpointValidatesCoordinates(t *testing.T) {
	// Bad parameters are rejected before any upstream call happens.
	srv := newTestServer(t, &mockProvider{}, WithWeather(weather.NewClient()))
	for _, path := range []string{"/v1/weather?lat=abc&lon=-121", "/v1/weather?lat=137&lon=-121"} {
		rr := httptest.NewRecorder()
		srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

func TestLogsEndpoint(t *testing.T) {
	srv := newTestServer(t, &mockProvider{})
	rr := httptest.NewRecorder()
	srv.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/logs", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	_, ok := resp["entries"]
	require.True(t, ok)
}
