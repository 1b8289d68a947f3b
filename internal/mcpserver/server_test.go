package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/nestree/api"
	"github.com/agentic-research/nestree/internal/nestedset"
	"github.com/agentic-research/nestree/internal/source"
)

func catalog() []api.Record {
	return []api.Record{
		{ID: 1, Title: "Catalog", Left: 1, Right: 14, Level: 0, Root: 1, Active: true},
		{ID: 2, Title: "Tools", Left: 2, Right: 7, Level: 1, Root: 1, Active: true},
		{ID: 3, Title: "Hammers", Left: 3, Right: 4, Level: 2, Root: 1, Active: true},
		{ID: 4, Title: "Saws", Left: 5, Right: 6, Level: 2, Root: 1, Active: false},
		{ID: 5, Title: "Garden", Left: 8, Right: 13, Level: 1, Root: 1, Active: true},
		{ID: 6, Title: "Seeds", Left: 9, Right: 12, Level: 2, Root: 1, Active: true},
		{ID: 7, Title: "Tomato", Left: 10, Right: 11, Level: 3, Root: 1, Active: true},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	b := nestedset.NewBuilder(source.NewMemoryStore(catalog()...))
	return New("nestree", "test", b, OutlineDefaults{
		Exclude:   1,
		Baseline:  1,
		UpdateURL: "/update?id=%d",
		DeleteURL: "/delete?id=%d",
	}, nil)
}

func call(name string, args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestTools(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, []string{"tree_options", "tree_outline", "tree_dropdown", "tree_structure"}, s.Tools())
	assert.NotNil(t, s.MCP())
}

func TestOptionsTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleOptions(context.Background(), call("tree_options", map[string]any{"root": float64(2)}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	var got []api.Option
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	assert.Equal(t, []api.Option{
		{ID: 2, Label: "Tools"},
		{ID: 3, Label: "—›Hammers"},
		{ID: 4, Label: "—›Saws"},
	}, got)
}

func TestOptionsToolDepth(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleOptions(context.Background(), call("tree_options", map[string]any{"depth": float64(2)}))
	require.NoError(t, err)

	var got []api.Option
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	ids := make([]api.ID, len(got))
	for i, o := range got {
		ids[i] = o.ID
	}
	assert.Equal(t, []api.ID{1, 2, 5}, ids)
}

func TestOutlineTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleOutline(context.Background(), call("tree_outline", map[string]any{}))
	require.NoError(t, err)
	html := resultText(t, res)
	assert.Contains(t, html, `<div class="dd" id="sortable">`)
	assert.NotContains(t, html, `data-term="1"`)
	assert.Contains(t, html, `<span class="children"> (2)</span>`)

	res, err = s.handleOutline(context.Background(), call("tree_outline", map[string]any{"format": "text"}))
	require.NoError(t, err)
	assert.Equal(t, "- Tools (2)\n"+
		"  - Hammers\n"+
		"  - Saws [inactive]\n"+
		"- Garden (2)\n"+
		"  - Seeds (1)\n"+
		"    - Tomato\n", resultText(t, res))

	res, err = s.handleOutline(context.Background(), call("tree_outline", map[string]any{"format": "xml"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestOutlineToolMalformed(t *testing.T) {
	s := newTestServer(t)

	// Including the level-0 root below a baseline of 1 is rejected.
	res, err := s.handleOutline(context.Background(), call("tree_outline", map[string]any{"exclude": float64(0)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "malformed")
}

func TestOutlineToolGroups(t *testing.T) {
	records := append(catalog(),
		api.Record{ID: 8, Title: "Archive", Left: 1, Right: 4, Level: 0, Root: 8, Active: true},
		api.Record{ID: 9, Title: "Old", Left: 2, Right: 3, Level: 1, Root: 8, Active: true},
	)
	b := nestedset.NewBuilder(source.NewMemoryStore(records...))
	s := New("nestree", "test", b, OutlineDefaults{Exclude: 1, Group: 1, Baseline: 1}, nil)
	ctx := context.Background()

	res, err := s.handleOutline(ctx, call("tree_outline", map[string]any{"format": "text"}))
	require.NoError(t, err)
	assert.NotContains(t, resultText(t, res), "Old")
	assert.Contains(t, resultText(t, res), "    - Tomato\n")

	res, err = s.handleOutline(ctx, call("tree_outline", map[string]any{
		"format": "text", "group": float64(8), "exclude": float64(8),
	}))
	require.NoError(t, err)
	assert.Equal(t, "- Old\n", resultText(t, res))

	res, err = s.handleOutline(ctx, call("tree_outline", map[string]any{
		"format": "text", "group": float64(0), "exclude": float64(0), "baseline": float64(0),
	}))
	require.NoError(t, err)
	text := resultText(t, res)
	assert.True(t, strings.HasSuffix(text, "- Archive (1)\n  - Old\n"), text)
}

func TestDropdownTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleDropdown(context.Background(), call("tree_dropdown", map[string]any{"anchor": float64(6)}))
	require.NoError(t, err)
	var got []api.Option
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &got))
	require.Len(t, got, 7)
	assert.Equal(t, api.Option{ID: 1, Label: "Catalog"}, got[0])
	assert.Equal(t, api.Option{ID: 2, Label: "—> Tools"}, got[1])
	assert.Equal(t, api.Option{ID: 7, Label: "———> Tomato"}, got[6])

	res, err = s.handleDropdown(context.Background(), call("tree_dropdown", map[string]any{"anchor": float64(99)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = s.handleDropdown(context.Background(), call("tree_dropdown", map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestStructureTool(t *testing.T) {
	s := newTestServer(t)

	res, err := s.handleStructure(context.Background(), call("tree_structure", map[string]any{"root": float64(5)}))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"key":5,"name":"Garden","folder":true,"children":[
		{"key":6,"name":"Seeds","folder":true,"children":[{"key":7,"name":"Tomato"}]}
	]}]`, resultText(t, res))

	res, err = s.handleStructure(context.Background(), call("tree_structure", map[string]any{"root": float64(404)}))
	require.NoError(t, err)
	assert.Equal(t, "[]", resultText(t, res))
}
