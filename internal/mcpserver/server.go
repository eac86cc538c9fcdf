// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Habitus tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/habitus/internal/apperr"
	"github.com/starford/habitus/internal/habitstore"
	"github.com/starford/habitus/internal/view"
)

const contractURI = "habitus://habit-model"

// Server wraps the MCP server with Habitus tools.
type Server struct {
	mcp   *server.MCPServer
	store *habitstore.Store
	views *view.Builder
}

// New creates a new MCP server with all Habitus tools registered.
func New(store *habitstore.Store, views *view.Builder) *Server {
	s := &Server{store: store, views: views}

	s.mcp = server.NewMCPServer(
		"Habitus",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_habits",
		mcp.WithDescription("List all habits with streak, completed day slots and weekly progress."),
	), s.listHabits)

	s.mcp.AddTool(mcp.NewTool("toggle_habit",
		mcp.WithDescription("Toggle completion of a habit for a day of the current week. "+
			"Read the habit model via the "+contractURI+" resource for slot numbering."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Habit id")),
		mcp.WithNumber("day", mcp.Description("Day slot 1 (Sunday) to 7 (Saturday); today when omitted")),
	), s.toggleHabit)

	s.mcp.AddTool(mcp.NewTool("get_progress",
		mcp.WithDescription("Overall weekly progress across all habits, raw and rounded."),
	), s.getProgress)

	s.mcp.AddTool(mcp.NewTool("get_week",
		mcp.WithDescription("Days of the current week with dates and today's marker."),
	), s.getWeek)

	s.mcp.AddTool(mcp.NewTool("habit_stats",
		mcp.WithDescription("Detail view of one habit: weekly completion, best streak and total completions."),
		mcp.WithNumber("id", mcp.Required(), mcp.Description("Habit id")),
	), s.habitStats)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Habit Model",
			mcp.WithResourceDescription("Day slot numbering, toggle and progress rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(err error) *mcp.CallToolResult {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError(fmt.Sprintf("not found: %v", err))
	case errors.Is(err, apperr.ErrInvalidDaySlot):
		return mcp.NewToolResultError(fmt.Sprintf("invalid day: %v", err))
	default:
		return mcp.NewToolResultError(err.Error())
	}
}

func (s *Server) listHabits(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.views.Dashboard().Habits), nil
}

func (s *Server) toggleHabit(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var res habitstore.ToggleResult
	if _, ok := req.GetArguments()["day"]; ok {
		day, err := req.RequireInt("day")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		res, err = s.store.ToggleCompletion(id, day)
		if err != nil {
			return errorResult(err), nil
		}
	} else {
		res, err = s.store.Toggle(id)
		if err != nil {
			return errorResult(err), nil
		}
	}
	return jsonResult(res), nil
}

func (s *Server) getProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(view.NewProgress(s.store.OverallProgress())), nil
}

func (s *Server) getWeek(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.store.CurrentWeekDays()), nil
}

func (s *Server) habitStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.views.Detail(ctx, id)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(detail), nil
}

func (s *Server) readContractResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     HabitModelContract,
		},
	}, nil
}
