package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/history"
	"github.com/usestring/fd-mcp/internal/locate"
	"github.com/usestring/fd-mcp/internal/mcp/tools"
	"github.com/usestring/fd-mcp/internal/runner"
	"github.com/usestring/fd-mcp/internal/search"
)

type stubRunner struct {
	stdout string
}

func (s *stubRunner) Run(context.Context, runner.Command) (*runner.Result, error) {
	return &runner.Result{Stdout: []byte(s.stdout)}, nil
}

func (s *stubRunner) Shell(context.Context, string, string, time.Duration) (*runner.Result, error) {
	return &runner.Result{}, nil
}

func testDeps(t *testing.T) *tools.Deps {
	t.Helper()
	cfg := config.Default()
	cfg.Root = t.TempDir()
	loc := locate.New(locate.WithLookPath(func(name string) (string, error) {
		if name == "fd" {
			return "/usr/bin/fd", nil
		}
		return "", errors.New("not found")
	}))
	hist, err := history.New(8)
	require.NoError(t, err)
	return &tools.Deps{
		Config:  cfg,
		Engine:  search.New(cfg, search.Deps{Locator: loc, Runner: &stubRunner{stdout: "a.go\nb.go\n"}, History: hist}),
		Locator: loc,
		History: hist,
	}
}

func connect(t *testing.T, deps *tools.Deps) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	s, err := NewServer(deps, WithBuiltinTools(), WithBuiltinPrompts())
	require.NoError(t, err)

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = clientSession.Close() })
	return clientSession
}

func readJSON(t *testing.T, cs *sdkmcp.ClientSession, uri string) map[string]any {
	t.Helper()
	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: uri})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &out))
	return out
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{Config: config.Default()})
	assert.Error(t, err)
}

func TestServer_ListsToolsAndPrompts(t *testing.T) {
	cs := connect(t, testDeps(t))
	ctx := context.Background()

	toolsRes, err := cs.ListTools(ctx, &sdkmcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range toolsRes.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"search_files", "search_content", "exec", "recent_files", "count"}, names)

	promptsRes, err := cs.ListPrompts(ctx, &sdkmcp.ListPromptsParams{})
	require.NoError(t, err)
	names = names[:0]
	for _, p := range promptsRes.Prompts {
		names = append(names, p.Name)
	}
	assert.ElementsMatch(t, []string{"tool_guide", "find_code"}, names)
}

func TestServer_CallToolRecordsInvocation(t *testing.T) {
	cs := connect(t, testDeps(t))
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "search_files",
		Arguments: map[string]any{"pattern": "go", "path": ""},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)

	list := readJSON(t, cs, "fdmcp://invocations")
	assert.EqualValues(t, 1, list["count"])
	invs := list["invocations"].([]any)
	id := invs[0].(map[string]any)["id"].(string)

	inv := readJSON(t, cs, "fdmcp://invocation/"+id)
	assert.Equal(t, "fd", inv["tool"])
	assert.EqualValues(t, 2, inv["records"])

	status := readJSON(t, cs, "fdmcp://tools")
	toolList := status["tools"].([]any)
	require.Len(t, toolList, 2)
	fd := toolList[0].(map[string]any)
	assert.Equal(t, true, fd["available"])
	assert.Equal(t, "/usr/bin/fd", fd["path"])
	rg := toolList[1].(map[string]any)
	assert.Equal(t, false, rg["checked"])
}

func TestServer_UnknownInvocation(t *testing.T) {
	cs := connect(t, testDeps(t))

	_, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: "fdmcp://invocation/inv-999999"})
	assert.Error(t, err)
}

func TestServer_UnavailableToolIsErrorResult(t *testing.T) {
	cs := connect(t, testDeps(t))

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "search_content",
		Arguments: map[string]any{"search_pattern": "x"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, tc.Text, tools.ErrCodeToolUnavailable)
}

func TestServer_FindCodePrompt(t *testing.T) {
	cs := connect(t, testDeps(t))

	res, err := cs.GetPrompt(context.Background(), &sdkmcp.GetPromptParams{
		Name:      "find_code",
		Arguments: map[string]string{"goal": "retry config", "path": "internal"},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	tc, ok := res.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, tc.Text, "retry config")
	assert.Contains(t, tc.Text, `path: "internal"`)
}

func TestParseResourceURI(t *testing.T) {
	tests := []struct {
		uri     string
		want    map[string]string
		wantErr bool
	}{
		{uri: "fdmcp://tools", want: map[string]string{}},
		{uri: "fdmcp://invocations", want: map[string]string{}},
		{uri: "fdmcp://invocation/inv-000001", want: map[string]string{"id": "inv-000001"}},
		{uri: "fdmcp://invocation/", wantErr: true},
		{uri: "fdmcp://tools/extra", wantErr: true},
		{uri: "fdmcp://bogus", wantErr: true},
		{uri: "fdmcp://", wantErr: true},
		{uri: "http://tools", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := parseResourceURI(tt.uri)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
