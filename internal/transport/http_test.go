package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rpggio/medchron/internal/domain/project"
	"github.com/rpggio/medchron/internal/mcp"
	"github.com/stretchr/testify/require"
)

type testHandler struct {
	method    string
	sessionID string
	err       error
}

func (h *testHandler) Handle(_ context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	h.method = method
	h.sessionID = sessionID
	if h.err != nil {
		return nil, h.err
	}
	return map[string]string{"session": sessionID}, nil
}

func postRPC(t *testing.T, url, sessionID, body string) Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, url+"/rpc", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("Mcp-Session-Id", sessionID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHTTPServer_RPC(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, Options{}))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, "sess1", `{"jsonrpc":"2.0","method":"list_projects","id":1}`)
	require.Nil(t, resp.Error)
	require.Equal(t, "list_projects", handler.method)
	require.Equal(t, "sess1", handler.sessionID)
	require.EqualValues(t, 1, resp.ID)

	postRPC(t, server.URL, "", `{"jsonrpc":"2.0","method":"get_summary","id":2}`)
	require.Equal(t, mcp.DefaultSessionID, handler.sessionID)
}

func TestHTTPServer_RPCErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		body string
		code int
	}{
		{"parse", nil, `{"jsonrpc":`, ErrParseCode},
		{"invalid", nil, `{"jsonrpc":"1.0","method":"x","id":1}`, ErrInvalidReq},
		{"unknown method", mcp.ErrUnknownMethod, `{"jsonrpc":"2.0","method":"nope","id":1}`, ErrMethodNotFound},
		{"bad params", mcp.MapError(mcp.ErrInvalidParams), `{"jsonrpc":"2.0","method":"get_project","id":1}`, ErrInvalidParams},
		{"domain", project.ErrProjectNotFound, `{"jsonrpc":"2.0","method":"get_project","id":1}`, ErrToolCode},
		{"internal", errors.New("boom"), `{"jsonrpc":"2.0","method":"get_project","id":1}`, ErrInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(NewServer(&testHandler{err: tc.err}, Options{}))
			t.Cleanup(server.Close)

			resp := postRPC(t, server.URL, "", tc.body)
			require.NotNil(t, resp.Error)
			require.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

func TestHTTPServer_DomainErrorCarriesAPICode(t *testing.T) {
	server := httptest.NewServer(NewServer(&testHandler{err: project.ErrProjectNotFound}, Options{}))
	t.Cleanup(server.Close)

	resp := postRPC(t, server.URL, "", `{"jsonrpc":"2.0","method":"get_project","id":"a"}`)
	require.NotNil(t, resp.Error)
	data, ok := resp.Error.Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "PROJECT_NOT_FOUND", data["code"])
	require.Equal(t, "a", resp.ID)
}

func TestHTTPServer_Health(t *testing.T) {
	handler := &testHandler{}
	server := httptest.NewServer(NewServer(handler, Options{}))
	t.Cleanup(server.Close)

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTPServer_OptionalRoutes(t *testing.T) {
	ok := func(body string) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(body))
		})
	}
	var wrapped bool
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped = true
			next.ServeHTTP(w, r)
		})
	}

	bare := httptest.NewServer(NewServer(&testHandler{}, Options{}))
	t.Cleanup(bare.Close)
	resp, err := http.Get(bare.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	full := httptest.NewServer(NewServer(&testHandler{}, Options{
		MCP:        ok("mcp"),
		Metrics:    ok("metrics"),
		Middleware: []func(http.Handler) http.Handler{mw},
	}))
	t.Cleanup(full.Close)

	for path, want := range map[string]string{"/metrics": "metrics", "/mcp": "mcp"} {
		resp, err := http.Get(full.URL + path)
		require.NoError(t, err)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		require.Equal(t, want, string(body))
	}
	require.True(t, wrapped)
}

func TestSessionMiddleware(t *testing.T) {
	var got string
	var present bool
	h := SessionMiddleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got, present = SessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.False(t, present)

	req.Header.Set("Mcp-Session-Id", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	require.True(t, present)
	require.Equal(t, "abc", got)
}
