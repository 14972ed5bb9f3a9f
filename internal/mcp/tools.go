package mcp

import (
	"context"
	"strconv"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/liftlog/internal/storage"
)

// --- Tool definitions ---

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List workout sessions, most recent first. Each session includes completion percentage, volume, reps, duration, and per-exercise set records."),
	mcp.WithString("completed", mcp.Description("Filter by completion state."), mcp.Enum("true", "false")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of sessions to return. Defaults to 50.")),
)

var toolGetSession = mcp.NewTool("get_session",
	mcp.WithDescription("Fetch a single workout session by id, including its per-exercise set records."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Session UUID.")),
)

var toolGetSessionStats = mcp.NewTool("get_session_stats",
	mcp.WithDescription("Training statistics: total and this-week completed session counts, current consecutive-day streak, total volume lifted (kg), and recent sessions."),
)

var toolListWorkouts = mcp.NewTool("list_workouts",
	mcp.WithDescription("List workout templates with their ordered exercise entries and per-entry overrides (sets, reps, rest)."),
)

var toolListExercises = mcp.NewTool("list_exercises",
	mcp.WithDescription("List the exercise catalog visible to the user: owned plus predefined exercises."),
	mcp.WithString("type", mcp.Description("Filter by exercise type."), mcp.Enum("reps", "time", "cardio")),
	mcp.WithString("category", mcp.Description("Filter by category (e.g. 'legs', 'back')")),
	mcp.WithString("muscle_group", mcp.Description("Filter by muscle group (e.g. 'quads', 'lats')")),
)

// --- Tool handlers ---

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filter storage.SessionFilter
	if v := req.GetString("completed", ""); v != "" {
		completed, err := strconv.ParseBool(v)
		if err != nil {
			return mcp.NewToolResultError("completed must be true or false"), nil
		}
		filter.Completed = &completed
	}
	if limit := req.GetInt("limit", 0); limit > 0 {
		filter.Limit = limit
	}

	sessions, err := h.ds.ListSessions(ctx, UserIDFromContext(ctx), filter)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := uuid.Parse(req.GetString("id", ""))
	if err != nil {
		return mcp.NewToolResultError("id must be a valid UUID"), nil
	}

	session, err := h.ds.GetSession(ctx, id, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_session", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(session)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessionStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := h.ds.GetStats(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_session_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(stats)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workouts, err := h.ds.ListWorkouts(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp list_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(workouts)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listExercises(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	filter := storage.ExerciseFilter{
		Type:        req.GetString("type", ""),
		Category:    req.GetString("category", ""),
		MuscleGroup: req.GetString("muscle_group", ""),
	}

	exercises, err := h.ds.ListExercises(ctx, UserIDFromContext(ctx), filter)
	if err != nil {
		h.log.Error("mcp list_exercises", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(exercises)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
