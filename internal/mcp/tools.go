package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

var errNoUser = errors.New("user_id is required")

// resolveUser takes the user_id argument, falling back to the transport's
// default user.
func resolveUser(ctx context.Context, req mcp.CallToolRequest) (uuid.UUID, error) {
	if s := req.GetString("user_id", ""); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid user_id: %w", err)
		}
		return id, nil
	}
	if id, ok := UserIDFromContext(ctx); ok {
		return id, nil
	}
	return uuid.Nil, errNoUser
}

func userParam() mcp.ToolOption {
	return mcp.WithString("user_id", mcp.Description("User UUID. Optional when the connection has a default user."))
}

func jsonResult(v any) *mcp.CallToolResult {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed")
	}
	return result
}

// --- Tool definitions ---

var toolGetUserProfile = mcp.NewTool("get_user_profile",
	mcp.WithDescription("Get a user's profile and progression: age, max HR, daily burn target, XP, streak, freezes and lifetime totals."),
	userParam(),
)

var toolGetDailyStats = mcp.NewTool("get_daily_stats",
	mcp.WithDescription("Dashboard summary: today's burn points against the daily target, the trailing 7 days, streak and loyalty bonus, level progress and lifetime totals."),
	userParam(),
)

var toolGetWorkouts = mcp.NewTool("get_workouts",
	mcp.WithDescription("List a user's workouts, newest first, with zone breakdown, burn points, calories and XP earned."),
	userParam(),
	mcp.WithNumber("limit", mcp.Description("Page size. Defaults to 20, max 100.")),
	mcp.WithNumber("offset", mcp.Description("Number of workouts to skip. Defaults to 0.")),
)

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Get one workout including its heart-rate samples."),
	mcp.WithString("workout_id", mcp.Required(), mcp.Description("Workout UUID")),
)

var toolGetTrends = mcp.NewTool("get_trends",
	mcp.WithDescription("Chart data over a trailing window: daily points, weekly buckets and per-day seconds in each zone."),
	userParam(),
	mcp.WithNumber("days", mcp.Description("Window length in days. Defaults to 30, max 365.")),
)

var toolGetQuests = mcp.NewTool("get_quests",
	mcp.WithDescription("Today's quests and progress toward each."),
	userParam(),
)

var toolGetAchievements = mcp.NewTool("get_achievements",
	mcp.WithDescription("The achievement catalog with the user's unlock status and unlock times."),
	userParam(),
)

var toolGetPersonalBests = mcp.NewTool("get_personal_bests",
	mcp.WithDescription("The user's best session points, longest workout and longest time in the Peak zone, with the dates they were set."),
	userParam(),
)

var toolListTemplates = mcp.NewTool("list_templates",
	mcp.WithDescription("Built-in workout templates followed by the user's custom templates."),
	userParam(),
)

// --- Tool handlers ---

func (h *handlers) getUserProfile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := resolveUser(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	u, err := h.ds.GetUser(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_user_profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(u.View()), nil
}

func (h *handlers) getDailyStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := resolveUser(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	stats, err := h.ds.Stats(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_daily_stats", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(stats), nil
}

func (h *handlers) getWorkouts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := resolveUser(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	workouts, total, err := h.ds.ListWorkouts(ctx, uid, req.GetInt("limit", 0), req.GetInt("offset", 0))
	if err != nil {
		h.log.Error("mcp get_workouts", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(map[string]any{"workouts": workouts, "total": total}), nil
}

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, err := req.RequireString("workout_id")
	if err != nil {
		return mcp.NewToolResultError("workout_id parameter is required"), nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return mcp.NewToolResultError("invalid workout_id"), nil
	}
	w, err := h.ds.GetWorkout(ctx, id)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(w), nil
}

func (h *handlers) getTrends(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := resolveUser(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	trends, err := h.ds.Trends(ctx, uid, req.GetInt("days", 0))
	if err != nil {
		h.log.Error("mcp get_trends", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(trends), nil
}

func (h *handlers) getQuests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := resolveUser(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	board, err := h.ds.Quests(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_quests", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(board), nil
}

func (h *handlers) getAchievements(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := resolveUser(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	statuses, err := h.ds.Achievements(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_achievements", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(statuses), nil
}

func (h *handlers) getPersonalBests(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := resolveUser(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	pb, err := h.ds.PersonalBests(ctx, uid)
	if err != nil {
		h.log.Error("mcp get_personal_bests", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(pb), nil
}

func (h *handlers) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid, err := resolveUser(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	templates, err := h.ds.ListTemplates(ctx, uid)
	if err != nil {
		h.log.Error("mcp list_templates", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(templates), nil
}
