package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/liftlog/internal/storage"
)

func (h *handlers) trainingSummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := h.ds.GetStats(ctx, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}

	summary := map[string]any{
		"total_completed": stats.TotalCompleted,
		"week_completed":  stats.WeekCompleted,
		"current_streak":  stats.CurrentStreak,
		"total_volume_kg": stats.TotalVolumeKg,
		"recent_sessions": stats.RecentSessions,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	sessions, err := h.ds.ListSessions(ctx, UserIDFromContext(ctx), storage.SessionFilter{Limit: 20})
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(sessions)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
