package imcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers every registry tool on the given MCP server.
// Tool schemas are generated from the registry descriptors; the handlers
// all funnel into Invoke.
func RegisterMCPTools(mcpServer *server.MCPServer, m *IbmiMcp) {
	for _, def := range Tools() {
		opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}
		if !def.Write {
			opts = append(opts, mcp.WithReadOnlyHintAnnotation(true))
		}
		for _, p := range def.Params {
			opts = append(opts, paramOption(p))
		}

		tool := mcp.NewTool(def.Name, opts...)
		name := def.Name
		mcpServer.AddTool(tool, m.loggedToolHandler(name, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			output := m.Invoke(ctx, InvokeInput{Tool: name, Args: req.GetArguments()})
			jsonBytes, err := json.Marshal(output)
			if err != nil {
				return mcp.NewToolResultError("failed to marshal tool result"), nil
			}
			if output.Error != nil {
				return mcp.NewToolResultError(string(jsonBytes)), nil
			}
			return mcp.NewToolResultText(string(jsonBytes)), nil
		}))
	}
}

func paramOption(p ParamSpec) mcp.ToolOption {
	propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
	if p.Required {
		propOpts = append(propOpts, mcp.Required())
	}
	switch p.Kind {
	case ParamLimit, ParamNumber:
		return mcp.WithNumber(p.Name, propOpts...)
	case ParamBool:
		return mcp.WithBoolean(p.Name, propOpts...)
	default:
		return mcp.WithString(p.Name, propOpts...)
	}
}

// loggedToolHandler wraps a tool handler to log request and response lengths.
func (m *IbmiMcp) loggedToolHandler(tool string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		reqLen := requestLength(req)
		result, err := handler(ctx, req)
		respLen := resultLength(result)
		m.logger.Info().
			Str("tool", tool).
			Int("request_bytes", reqLen).
			Int("response_bytes", respLen).
			Msg("tool call")
		return result, err
	}
}

// requestLength returns the JSON-encoded byte length of the request arguments.
func requestLength(req mcp.CallToolRequest) int {
	args := req.GetArguments()
	if len(args) == 0 {
		return 0
	}
	b, err := json.Marshal(args)
	if err != nil {
		return 0
	}
	return len(b)
}

// resultLength returns the total byte length of text content in a CallToolResult.
func resultLength(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	total := 0
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			total += len(tc.Text)
		}
	}
	return total
}
