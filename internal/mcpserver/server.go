// Package mcpserver exposes the tree producers as MCP tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/logging"
	"github.com/agentic-research/nestree/internal/nestedset"
	"github.com/agentic-research/nestree/internal/render"
)

// OutlineDefaults are used when a tree_outline call omits an argument.
type OutlineDefaults struct {
	Exclude   api.ID
	Group     api.ID
	Baseline  int
	UpdateURL string
	DeleteURL string
}

// Server wraps an MCP server whose tools read through one Builder.
type Server struct {
	builder  *nestedset.Builder
	outline  OutlineDefaults
	logger   *slog.Logger
	mcp      *server.MCPServer
	toolList []string
}

// New registers the tree tools and returns the server.
func New(name, version string, b *nestedset.Builder, outline OutlineDefaults, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		builder: b,
		outline: outline,
		logger:  logger,
		mcp:     server.NewMCPServer(name, version, server.WithToolCapabilities(false)),
	}

	s.add(mcp.NewTool("tree_options",
		mcp.WithDescription("Indented option list of the tree, in pre-order. Each label is prefixed with one indent glyph per level below the first."),
		mcp.WithNumber("root", mcp.Description("ID of the start record; 0 starts from every root")),
		mcp.WithNumber("depth", mcp.Description("Levels to descend below the start; negative is unbounded")),
	), s.handleOptions)

	s.add(mcp.NewTool("tree_outline",
		mcp.WithDescription("Nested outline of every record except the excluded absolute root, one group after another."),
		mcp.WithNumber("exclude", mcp.Description("ID of the record left out of the outline")),
		mcp.WithNumber("group", mcp.Description("Outline only the group with this root ID; 0 outlines every group")),
		mcp.WithNumber("baseline", mcp.Description("Level of the top-level items")),
		mcp.WithString("format", mcp.Description("Output markup"), mcp.Enum("html", "text")),
	), s.handleOutline)

	s.add(mcp.NewTool("tree_dropdown",
		mcp.WithDescription("Flat list of the records sharing the anchor's group, in Left order."),
		mcp.WithNumber("anchor", mcp.Required(), mcp.Description("ID of the anchor record")),
	), s.handleDropdown)

	s.add(mcp.NewTool("tree_structure",
		mcp.WithDescription("Recursive key/name/children structure for tree widgets, as JSON."),
		mcp.WithNumber("root", mcp.Description("ID of the start record; 0 starts from every root")),
		mcp.WithNumber("depth", mcp.Description("Levels to descend below the start; negative is unbounded")),
	), s.handleStructure)

	return s
}

func (s *Server) add(tool mcp.Tool, h server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, h)
	s.toolList = append(s.toolList, tool.Name)
}

// Tools returns the registered tool names.
func (s *Server) Tools() []string {
	return append([]string(nil), s.toolList...)
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Serve speaks MCP over stdin/stdout until ctx is done or stdin closes.
func (s *Server) Serve(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	s.logger.Info("serving MCP over stdio", "tools", s.toolList)
	return server.NewStdioServer(s.mcp).Listen(ctx, stdin, stdout)
}

func (s *Server) handleOptions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := api.ID(req.GetInt("root", 0))
	depth := nestedset.DepthFromFlag(req.GetInt("depth", -1))

	opts, err := s.builder.Options(ctx, nestedset.ByID(root), depth)
	if err != nil {
		return nil, fmt.Errorf("tree_options: %w", err)
	}
	s.logger.Debug("tree_options", "root", root, "depth", depth, "entries", opts.Len())
	return jsonResult(nestedset.Entries(opts))
}

func (s *Server) handleOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exclude := api.ID(req.GetInt("exclude", int(s.outline.Exclude)))
	group := api.ID(req.GetInt("group", int(s.outline.Group)))
	baseline := req.GetInt("baseline", s.outline.Baseline)

	var m nestedset.Markup
	format := req.GetString("format", "html")
	switch format {
	case "html":
		m = render.NewHTML(s.outline.UpdateURL, s.outline.DeleteURL)
	case "text":
		m = render.NewText(baseline)
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q", format)), nil
	}

	out, err := s.builder.GroupOutline(ctx, group, exclude, baseline, m)
	if errors.Is(err, nestedset.ErrMalformedSequence) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("tree_outline: %w", err)
	}
	if format == "text" {
		out = render.Compact(out)
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleDropdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	anchor, err := req.RequireInt("anchor")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts, err := s.builder.ScopedList(ctx, api.ID(anchor))
	if errors.Is(err, nestedset.ErrNotFound) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("tree_dropdown: %w", err)
	}
	return jsonResult(nestedset.Entries(opts))
}

func (s *Server) handleStructure(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	root := api.ID(req.GetInt("root", 0))
	depth := nestedset.DepthFromFlag(req.GetInt("depth", -1))

	nodes, err := s.builder.Tree(ctx, nestedset.ByID(root), depth)
	if err != nil {
		return nil, fmt.Errorf("tree_structure: %w", err)
	}
	if nodes == nil {
		nodes = []api.TreeNode{}
	}
	return jsonResult(nodes)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
