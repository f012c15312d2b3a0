package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()
	handler, _, _ := newTestHandler(t)
	server := NewServer(Config{Handler: handler})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func callText(t *testing.T, cs *sdkmcp.ClientSession, params *sdkmcp.CallToolParams) (string, bool) {
	t.Helper()
	result, err := cs.CallTool(context.Background(), params)
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, result.IsError
}

func TestServer_ListsEveryTool(t *testing.T) {
	cs := connect(t)

	result, err := cs.ListTools(context.Background(), &sdkmcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(result.Tools))
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	for _, def := range buildToolCatalog() {
		require.Contains(t, names, def.Name)
	}
}

func TestServer_CallToolReturnsJSON(t *testing.T) {
	cs := connect(t)

	text, isErr := callText(t, cs, &sdkmcp.CallToolParams{
		Name:      "list_projects",
		Arguments: map[string]any{"sort_by": "name", "page_size": 2},
	})
	require.False(t, isErr)

	var resp ListProjectsResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.Equal(t, 3, resp.TotalMatched)
	require.Len(t, resp.Rows, 2)
	require.Equal(t, "Baker v. Ridgeview Apartments", resp.Rows[0].Name)
}

func TestServer_DomainErrorsAreToolErrors(t *testing.T) {
	cs := connect(t)

	text, isErr := callText(t, cs, &sdkmcp.CallToolParams{
		Name:      "run_project",
		Arguments: map[string]any{"project_id": "empty"},
	})
	require.True(t, isErr)

	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	require.Equal(t, "NO_DOCUMENTS_INCLUDED", apiErr.Code)
	require.NotEmpty(t, apiErr.RecoveryHint)
}

func TestServer_SessionFromMeta(t *testing.T) {
	cs := connect(t)

	_, isErr := callText(t, cs, &sdkmcp.CallToolParams{
		Meta:      sdkmcp.Meta{"session_id": "alpha"},
		Name:      "toggle_selection",
		Arguments: map[string]any{"project_id": "p1"},
	})
	require.False(t, isErr)

	get := func(meta sdkmcp.Meta) ProjectResponse {
		text, isErr := callText(t, cs, &sdkmcp.CallToolParams{
			Meta:      meta,
			Name:      "get_project",
			Arguments: map[string]any{"id": "p1"},
		})
		require.False(t, isErr)
		var resp ProjectResponse
		require.NoError(t, json.Unmarshal([]byte(text), &resp))
		return resp
	}
	require.True(t, get(sdkmcp.Meta{"session_id": "alpha"}).Selected)
	require.False(t, get(nil).Selected)
}

func TestServer_DocResources(t *testing.T) {
	cs := connect(t)

	list, err := cs.ListResources(context.Background(), &sdkmcp.ListResourcesParams{})
	require.NoError(t, err)
	require.Len(t, list.Resources, len(docResources))

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "medchron://docs/index"})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	require.Contains(t, res.Contents[0].Text, "Tools by task")
}
