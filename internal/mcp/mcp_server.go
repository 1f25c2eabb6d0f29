// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/madu/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the madu MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Madu Metrics Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		mgr:     mgr,
	}

	// --- 1. Tool: analyze_files ---
	s.AddTool(mcp.NewTool("analyze_files",
		mcp.WithDescription("Measure every file under a path with one metric and return the ranked rows with their total."),
		mcp.WithString("path", mcp.Description("File or directory to analyze (defaults to the server's configured root).")),
		mcp.WithString("metric", mcp.Description("Metric to rank by. Defaults to 'lines'."), mcp.Enum(metricNames()...)),
		mcp.WithNumber("top", mcp.Description("Keep at most this many rows (0 means all).")),
		mcp.WithNumber("skip", mcp.Description("Drop this many leading rows.")),
		mcp.WithNumber("days", mcp.Description("History window in days for history metrics.")),
		mcp.WithString("author", mcp.Description("Only count commits whose author contains this text.")),
		mcp.WithNumber("threshold", mcp.Description("Keep rows at or above this percent of the largest value (1-100).")),
	), h.handleAnalyzeFiles)

	// --- 2. Tool: summarize ---
	s.AddTool(mcp.NewTool("summarize",
		mcp.WithDescription("Aggregate one metric by file extension or by directory."),
		mcp.WithString("path", mcp.Description("File or directory to analyze.")),
		mcp.WithString("metric", mcp.Description("Metric to aggregate. Defaults to 'lines'."), mcp.Enum(metricNames()...)),
		mcp.WithString("group", mcp.Description("Group by extension ('summary') or directory ('dirs')."), mcp.Enum("summary", "dirs"), mcp.Required()),
		mcp.WithNumber("depth", mcp.Description("Truncate directory keys to this many segments (0 keeps full paths).")),
		mcp.WithNumber("top", mcp.Description("Keep at most this many groups.")),
		mcp.WithNumber("days", mcp.Description("History window in days for history metrics.")),
	), h.handleSummarize)

	return s
}

// StartMCPServer serves the madu tools over stdio until the client disconnects.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, mgr contract.CacheManager, version string) error {
	s := NewMCPServer(baseCfg, client, mgr, version)
	return server.ServeStdio(s)
}
