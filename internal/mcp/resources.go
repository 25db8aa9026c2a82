package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/fd-mcp/internal/history"
	"github.com/usestring/fd-mcp/internal/mcp/tools"
)

// Resource URI scheme: fdmcp://
// Supported URIs:
//   fdmcp://tools
//   fdmcp://invocations
//   fdmcp://invocation/{id}

const uriScheme = "fdmcp://"

// registerResources registers resources, resource templates and their handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         uriScheme + "tools",
		Name:        "Tool Availability",
		Description: "Whether fd and ripgrep were found and where. Tools not used yet show checked=false.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceTools)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         uriScheme + "invocations",
		Name:        "Recent Invocations",
		Description: "Recent fd and ripgrep runs, newest first, with argv, outcome and timing. Useful when a search returned less than expected.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceInvocations)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: uriScheme + "invocation/{id}",
		Name:        "Invocation",
		Description: "One recorded invocation by ID. IDs appear in fdmcp://invocations.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceInvocation)
}

// Resource handlers

func (s *Server) handleResourceTools(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	content := map[string]any{
		"root":  s.deps.Config.Root,
		"tools": s.deps.Locator.Status(),
	}
	return toResourceResult(req.Params.URI, content)
}

func (s *Server) handleResourceInvocations(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	invs := []*history.Invocation{}
	if s.deps.History != nil {
		invs = s.deps.History.Recent()
	}
	content := map[string]any{
		"count":       len(invs),
		"invocations": invs,
	}
	return toResourceResult(req.Params.URI, content)
}

func (s *Server) handleResourceInvocation(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	if s.deps.History == nil {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}
	inv, ok := s.deps.History.Get(params["id"])
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	return toResourceResult(req.Params.URI, inv)
}

// Helper functions

// parseResourceURI extracts parameters from a fdmcp:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected " + uriScheme)
	}

	path := strings.TrimPrefix(uri, uriScheme)
	parts := strings.Split(path, "/")
	if parts[0] == "" {
		return nil, tools.ErrInvalidInput("empty resource path")
	}

	params := make(map[string]string)
	resourceType := parts[0]

	switch resourceType {
	case "tools", "invocations":
		if len(parts) > 1 {
			return nil, tools.ErrInvalidInput(fmt.Sprintf("%s URI takes no path segments", resourceType))
		}

	case "invocation":
		if len(parts) < 2 || parts[1] == "" {
			return nil, tools.ErrInvalidInput("invocation URI requires an ID")
		}
		params["id"] = parts[1]

	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", resourceType))
	}

	return params, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
