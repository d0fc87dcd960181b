package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"cophist/internal/core/config"
	"cophist/internal/core/db"
	"cophist/internal/core/importer"
	"cophist/pkg/vscopilot"
)

// SearchSessionsArgs defines arguments for the search_sessions tool
type SearchSessionsArgs struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// GetSessionDetailArgs defines arguments for the get_session_detail tool
type GetSessionDetailArgs struct {
	SessionID string `json:"session_id"`
}

// ListRecentSessionsArgs defines arguments for the list_recent_sessions tool
type ListRecentSessionsArgs struct {
	Limit     int    `json:"limit,omitempty"`
	Workspace string `json:"workspace,omitempty"`
}

// MessageMatch is one search hit returned to the client.
type MessageMatch struct {
	SessionID string `json:"session_id"`
	Workspace string `json:"workspace,omitempty"`
	Role      string `json:"role"`
	Snippet   string `json:"snippet"`
	Timestamp string `json:"timestamp,omitempty"`
}

// SessionSummary represents a session in the list view
type SessionSummary struct {
	SessionID    string `json:"session_id"`
	Title        string `json:"title,omitempty"`
	Workspace    string `json:"workspace,omitempty"`
	Type         string `json:"type"`
	CreatedAt    string `json:"created_at,omitempty"`
	MessageCount int    `json:"message_count"`
}

// SessionDetail is a full conversation returned to the client.
type SessionDetail struct {
	SessionSummary
	Messages []MessageDetail `json:"messages"`
}

// MessageDetail represents a single message in a session
type MessageDetail struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp,omitempty"`
	Sequence  int    `json:"sequence"`
}

// StartServer starts the MCP server over stdio.
func StartServer(dbPath string) error {
	database, err := db.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := database.Close(); closeErr != nil {
			log.Printf("Error closing database: %v", closeErr)
		}
	}()

	s := server.NewMCPServer(
		"cophist",
		vscopilot.Version,
	)

	searchTool := mcp.NewTool("search_sessions",
		mcp.WithDescription("Search imported GitHub Copilot chat history for a query string across all message content."),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search term to match against message content")),
		mcp.WithNumber("limit",
			mcp.Description("Max number of matches to return (default: 20)")),
	)
	s.AddTool(searchTool, makeSearchSessionsHandler(database))

	detailTool := mcp.NewTool("get_session_detail",
		mcp.WithDescription("Retrieve the full conversation of one Copilot chat session"),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("Session id to retrieve")),
	)
	s.AddTool(detailTool, makeGetSessionDetailHandler(database))

	listTool := mcp.NewTool("list_recent_sessions",
		mcp.WithDescription("Get recent Copilot chat sessions, optionally filtered by workspace"),
		mcp.WithNumber("limit",
			mcp.Description("Max sessions to return (default: 20)")),
		mcp.WithString("workspace",
			mcp.Description("Filter by workspace path substring")),
	)
	s.AddTool(listTool, makeListRecentSessionsHandler(database))

	statsTool := mcp.NewTool("get_statistics",
		mcp.WithDescription("Get aggregate statistics over the imported Copilot chat history"),
	)
	s.AddTool(statsTool, makeGetStatisticsHandler(database))

	return server.ServeStdio(s)
}

// syncDatabase refreshes the index from disk before a tool query. Silent
// on purpose; MCP stdio must carry protocol traffic only.
func syncDatabase(ctx context.Context, database *db.DB) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	roots, err := cfg.Roots()
	if err != nil {
		return fmt.Errorf("failed to resolve storage roots: %w", err)
	}

	engine := vscopilot.NewEngine(roots,
		vscopilot.WithWorkers(cfg.Workers),
		vscopilot.WithFileTimeout(cfg.FileTimeout),
		vscopilot.WithAgent(cfg.Agent),
	)
	corpus, err := engine.Discover(ctx)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	imp := importer.New(database)
	if _, err := imp.ImportCorpus(corpus, nil); err != nil {
		return fmt.Errorf("failed to sync: %w", err)
	}

	return nil
}

func makeSearchSessionsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := syncDatabase(ctx, database); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
		}

		var args SearchSessionsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit == 0 {
			limit = 20
		}

		coreResults, err := database.Search(args.Query, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
		}

		var matches []MessageMatch
		for _, r := range coreResults {
			matches = append(matches, MessageMatch{
				SessionID: r.SessionID,
				Workspace: r.Workspace,
				Role:      r.Role,
				Snippet:   r.Snippet,
				Timestamp: r.Timestamp,
			})
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"matches": matches,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeGetSessionDetailHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := syncDatabase(ctx, database); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
		}

		var args GetSessionDetailArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		session, messages, err := database.GetSession(args.SessionID)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("session not found: %v", err)), nil
		}

		detail := SessionDetail{
			SessionSummary: SessionSummary{
				SessionID:    session.SessionID,
				Title:        session.Title,
				Workspace:    session.Workspace,
				Type:         session.Type,
				MessageCount: len(messages),
			},
		}
		if !session.CreatedAt.IsZero() {
			detail.CreatedAt = session.CreatedAt.Format("2006-01-02 15:04:05")
		}
		for i, m := range messages {
			md := MessageDetail{
				Role:     m.Role,
				Content:  m.Content,
				Sequence: i,
			}
			if !m.Timestamp.IsZero() {
				md.Timestamp = m.Timestamp.Format("2006-01-02 15:04:05")
			}
			detail.Messages = append(detail.Messages, md)
		}

		resultJSON, err := json.Marshal(detail)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeListRecentSessionsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := syncDatabase(ctx, database); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
		}

		var args ListRecentSessionsArgs
		argsBytes, _ := json.Marshal(request.Params.Arguments)
		if err := json.Unmarshal(argsBytes, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}

		limit := args.Limit
		if limit == 0 {
			limit = 20
		}

		coreSessions, err := database.ListSessions(db.ListOptions{
			Workspace: args.Workspace,
			Limit:     limit,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
		}

		var sessions []SessionSummary
		for _, cs := range coreSessions {
			summary := SessionSummary{
				SessionID:    cs.SessionID,
				Title:        cs.Title,
				Workspace:    cs.Workspace,
				Type:         cs.Type,
				MessageCount: cs.MessageCount,
			}
			if !cs.CreatedAt.IsZero() {
				summary.CreatedAt = cs.CreatedAt.Format("2006-01-02 15:04:05")
			}
			sessions = append(sessions, summary)
		}

		resultJSON, err := json.Marshal(map[string]interface{}{
			"sessions": sessions,
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}

func makeGetStatisticsHandler(database *db.DB) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if err := syncDatabase(ctx, database); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("sync failed: %v", err)), nil
		}

		stats, err := database.GetStats()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to gather statistics: %v", err)), nil
		}

		result := map[string]interface{}{
			"total_sessions":   stats.TotalSessions,
			"total_messages":   stats.TotalMessages,
			"sessions_by_type": stats.SessionsByType,
		}
		if !stats.OldestSession.IsZero() {
			result["oldest_session"] = stats.OldestSession.Format("2006-01-02 15:04:05")
		}
		if !stats.NewestSession.IsZero() {
			result["newest_session"] = stats.NewestSession.Format("2006-01-02 15:04:05")
		}
		if stats.MostActiveWorkspace != "" {
			result["most_active_workspace"] = stats.MostActiveWorkspace
			result["most_active_workspace_sessions"] = stats.MostActiveWorkspaceCount
		}

		resultJSON, err := json.Marshal(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}

		return mcp.NewToolResultText(string(resultJSON)), nil
	}
}
