package mcpsrv

import (
	"context"
	"path/filepath"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/fd-mcp/internal/config"
	"github.com/usestring/fd-mcp/internal/locate"
)

type pingInput struct {
	Name string `json:"name"`
}

type pingOutput struct {
	Root string `json:"root"`
}

func listTools(t *testing.T, s *Server) []string {
	t.Helper()
	ctx := context.Background()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "client"}, nil)
	clientSession, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer clientSession.Close()

	res, err := clientSession.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func TestNewServer_Options(t *testing.T) {
	root := t.TempDir()
	s, err := NewServer(
		WithRoot(root),
		WithContentFormat(config.ContentFormatJSON),
		WithBinary("fd", "/opt/fd"),
		WithLogLevel("error"),
		WithLogFile(filepath.Join(t.TempDir(), "fd-mcp.log")),
	)
	require.NoError(t, err)
	defer s.Close()

	cfg := s.Deps().Config
	assert.Equal(t, root, cfg.Root)
	assert.Equal(t, config.ContentFormatJSON, cfg.ContentFormat)
	assert.Equal(t, "/opt/fd", cfg.FdBinary)
	assert.NotNil(t, s.Deps().Engine)
	assert.NotNil(t, s.Deps().History)

	assert.Len(t, listTools(t, s), 5)
}

func TestNewServer_RejectsUnknownContentFormat(t *testing.T) {
	_, err := NewServer(WithContentFormat("xml"))
	assert.ErrorContains(t, err, "xml")
}

func TestNewServer_CustomTools(t *testing.T) {
	s, err := NewServer(
		WithRoot(t.TempDir()),
		WithoutBuiltinTools(),
		WithoutBuiltinPrompts(),
		WithTool(&mcp.Tool{Name: "ping", Description: "ping"},
			func(ctx context.Context, req *mcp.CallToolRequest, in pingInput) (*mcp.CallToolResult, pingOutput, error) {
				return nil, pingOutput{}, nil
			}),
		WithDepsTool(&mcp.Tool{Name: "root", Description: "workspace root"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, pingInput) (*mcp.CallToolResult, pingOutput, error) {
				return func(ctx context.Context, req *mcp.CallToolRequest, in pingInput) (*mcp.CallToolResult, pingOutput, error) {
					return nil, pingOutput{Root: d.Config.Root}, nil
				}
			}),
	)
	require.NoError(t, err)
	defer s.Close()

	assert.ElementsMatch(t, []string{"ping", "root"}, listTools(t, s))
}

func TestNewLocator_DoesNotProbeEagerly(t *testing.T) {
	cfg := config.Default()
	cfg.RgBinary = filepath.Join(t.TempDir(), "missing-rg")

	loc := NewLocator(cfg)
	for _, st := range loc.Status() {
		assert.False(t, st.Checked, st.Tool)
	}

	_, err := loc.Resolve(locate.ContentSearch)
	if err == nil {
		// A real rg on PATH still satisfies the lookup after the configured one misses.
		return
	}
	assert.ErrorIs(t, err, locate.ErrUnavailable)
}
