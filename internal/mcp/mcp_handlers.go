package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/huangsam/madu/core"
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/internal/outwriter"
	"github.com/huangsam/madu/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	mgr     contract.CacheManager
}

func (h *toolHandler) handleAnalyzeFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	cfg.Skip = request.GetInt("skip", 0)
	if cfg.Skip < 0 {
		return mcp.NewToolResultError("invalid parameters: skip cannot be negative"), nil
	}
	cfg.Author = request.GetString("author", "")
	if t := request.GetFloat("threshold", 0); t != 0 {
		if t < 1 || t > contract.MaxThreshold {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: threshold must be between 1 and %d", contract.MaxThreshold)), nil
		}
		cfg.Threshold = t
	}
	cfg.Group = schema.NoGroup

	return h.run(ctx, cfg)
}

func (h *toolHandler) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	switch group := schema.GroupMode(request.GetString("group", "")); group {
	case schema.SummaryGroup, schema.DirsGroup:
		cfg.Group = group
	default:
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: group must be summary or dirs (received %q)", group)), nil
	}
	cfg.Depth = request.GetInt("depth", 0)
	if cfg.Depth < 0 {
		return mcp.NewToolResultError("invalid parameters: depth cannot be negative"), nil
	}

	return h.run(ctx, cfg)
}

// configFor applies the arguments shared by every tool to a copy of the base config.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	cfg.Output = schema.JSONOut
	cfg.OutputFile = ""

	if p := request.GetString("path", ""); p != "" {
		root, err := filepath.Abs(cfg.RootPath)
		if err != nil {
			return nil, err
		}
		// Tools may only narrow the served root
		rel, err := contract.RelativeSlashPath(root, p)
		if err != nil {
			return nil, err
		}
		p = filepath.Join(root, filepath.FromSlash(rel))
		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("path does not exist: %s", p)
		}
		cfg.RootPath = p
	}
	if m := request.GetString("metric", ""); m != "" {
		kind := schema.MetricKind(m)
		if _, ok := schema.ValidMetricKinds[kind]; !ok {
			return nil, fmt.Errorf("unknown metric %q", m)
		}
		cfg.Metric = kind
		cfg.ShowAuthor = kind == schema.BlameMetric
	}
	if top := request.GetInt("top", cfg.Top); top >= 0 {
		cfg.Top = top
	} else {
		return nil, fmt.Errorf("top cannot be negative")
	}
	if days := request.GetInt("days", cfg.Days); days > 0 {
		cfg.Days = days
	} else {
		return nil, fmt.Errorf("days must be greater than 0")
	}
	return cfg, nil
}

// run executes one pass and returns the JSON document as the tool result.
func (h *toolHandler) run(ctx context.Context, cfg *contract.Config) (*mcp.CallToolResult, error) {
	result, err := core.NewPass(cfg, h.client, h.mgr)(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, err := outwriter.MarshalResult(result, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// metricNames lists the metric kinds accepted by the tools.
func metricNames() []string {
	names := make([]string, len(schema.AllMetricKinds))
	for i, k := range schema.AllMetricKinds {
		names[i] = string(k)
	}
	return names
}
