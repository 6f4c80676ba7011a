// ABOUTME: MCP stdio server exposing the dialogue engine as tools
// ABOUTME: Tools cover chat, history, memory search, and opinions
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/pacify-defy/pacify-defy/internal/engine"
)

// Server wraps the engine behind an MCP tool surface.
type Server struct {
	engine *engine.Engine
	mcp    *mcpserver.MCPServer
}

// NewServer creates the MCP server and registers all tools.
func NewServer(e *engine.Engine, version string) *Server {
	s := &Server{
		engine: e,
		mcp:    mcpserver.NewMCPServer("pacify-defy", version),
	}
	s.registerTools()
	return s
}

// Serve runs the stdio transport until the client disconnects.
func (s *Server) Serve() error {
	return mcpserver.ServeStdio(s.mcp)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.Tool{
		Name:        "chat",
		Description: "Send a message to the assistant in its current mode and persona. Returns the response with metadata.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"message": map[string]interface{}{
					"type":        "string",
					"description": "The user message to respond to",
				},
				"mode": map[string]interface{}{
					"type":        "string",
					"description": "Optional mode override for this session: pacify or defy",
				},
			},
			Required: []string{"message"},
		},
	}, s.handleChat)

	s.mcp.AddTool(mcp.Tool{
		Name:        "conversation_history",
		Description: "Retrieve recent conversation turns in chronological order.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum turns to return (default 10)",
				},
			},
		},
	}, s.handleHistory)

	s.mcp.AddTool(mcp.Tool{
		Name:        "search_memory",
		Description: "Search stored conversations by text.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text to search for",
				},
				"limit": map[string]interface{}{
					"type":        "number",
					"description": "Maximum results (default 10)",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleSearch)

	s.mcp.AddTool(mcp.Tool{
		Name:        "list_opinions",
		Description: "List the opinions the assistant has formed, strongest first.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
		},
	}, s.handleOpinions)
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	message, err := request.RequireString("message")
	if err != nil {
		return mcp.NewToolResultError("message is required"), nil
	}
	if mode := request.GetString("mode", ""); mode != "" {
		if err := s.engine.SetMode(mode); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	result, err := s.engine.Respond(ctx, message)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("response failed: %v", err)), nil
	}

	var b strings.Builder
	b.WriteString(result.Text)
	fmt.Fprintf(&b, "\n\n[%s/%s", result.Mode, result.Persona)
	if result.Mood != "" {
		fmt.Fprintf(&b, " (%s)", result.Mood)
	}
	fmt.Fprintf(&b, ", %d words]", result.Words)
	if result.Suggestion != "" {
		fmt.Fprintf(&b, "\n%s", result.Suggestion)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handleHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := request.GetInt("limit", 10)
	turns, err := s.engine.History(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history failed: %v", err)), nil
	}
	if len(turns) == 0 {
		return mcp.NewToolResultText("No conversation history yet."), nil
	}

	var b strings.Builder
	for _, turn := range turns {
		fmt.Fprintf(&b, "[%s] %s/%s\nYou: %s\nAI: %s\n\n",
			turn.Timestamp.Format("2006-01-02 15:04"), turn.Mode, turn.Persona,
			turn.UserText, turn.AIText)
	}
	return mcp.NewToolResultText(strings.TrimSpace(b.String())), nil
}

func (s *Server) handleSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query is required"), nil
	}
	limit := request.GetInt("limit", 10)

	turns, err := s.engine.Search(query, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if len(turns) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No conversations matching %q.", query)), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching turns:\n\n", len(turns))
	for _, turn := range turns {
		fmt.Fprintf(&b, "[%s] You: %s\nAI: %s\n\n",
			turn.Timestamp.Format("2006-01-02 15:04"), turn.UserText, turn.AIText)
	}
	return mcp.NewToolResultText(strings.TrimSpace(b.String())), nil
}

func (s *Server) handleOpinions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opinions, err := s.engine.Opinions()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("opinions failed: %v", err)), nil
	}
	if len(opinions) == 0 {
		return mcp.NewToolResultText("No opinions formed yet."), nil
	}

	var b strings.Builder
	for _, op := range opinions {
		fmt.Fprintf(&b, "- %s: %s (confidence %.2f)\n", op.Topic, op.Stance, op.Confidence)
	}
	return mcp.NewToolResultText(strings.TrimSpace(b.String())), nil
}
