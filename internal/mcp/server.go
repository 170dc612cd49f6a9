package mcp

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserHeader carries the default user for MCP requests over HTTP.
const UserHeader = "X-PulseFit-User"

// UserIDFromContext extracts the default user ID injected by the transport
// layer.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// WithUserID returns a context with the given default user ID.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("PulseFit", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("PulseFit heart-rate training server. Query a user's burn points, streaks, level, achievements, personal bests, workouts and trends. Tools take a user_id; when the transport supplies a default user it may be omitted."),
	)

	h := &handlers{ds: ds, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolGetUserProfile, Handler: h.getUserProfile},
		server.ServerTool{Tool: toolGetDailyStats, Handler: h.getDailyStats},
		server.ServerTool{Tool: toolGetWorkouts, Handler: h.getWorkouts},
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetTrends, Handler: h.getTrends},
		server.ServerTool{Tool: toolGetQuests, Handler: h.getQuests},
		server.ServerTool{Tool: toolGetAchievements, Handler: h.getAchievements},
		server.ServerTool{Tool: toolGetPersonalBests, Handler: h.getPersonalBests},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
	)

	s.AddResources(
		server.ServerResource{Resource: resZones, Handler: h.zones},
		server.ServerResource{Resource: resAchievementCatalog, Handler: h.achievementCatalog},
		server.ServerResource{Resource: resTemplates, Handler: h.builtInTemplates},
	)

	return s
}

// NewHTTPHandler serves s over streamable HTTP. A UserHeader on the request
// sets the default user for tool calls.
func NewHTTPHandler(s *server.MCPServer) http.Handler {
	return server.NewStreamableHTTPServer(s,
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			if id, err := uuid.Parse(r.Header.Get(UserHeader)); err == nil {
				return WithUserID(ctx, id)
			}
			return ctx
		}),
	)
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resZones = mcp.NewResource(
	"pulsefit://zones",
	"Heart-Rate Zones",
	mcp.WithResourceDescription("The zone table: percentage-of-max-HR ranges, names, colours and burn points per minute"),
	mcp.WithMIMEType("application/json"),
)

var resAchievementCatalog = mcp.NewResource(
	"pulsefit://achievement_catalog",
	"Achievement Catalog",
	mcp.WithResourceDescription("Every achievement with its requirement and XP reward"),
	mcp.WithMIMEType("application/json"),
)

var resTemplates = mcp.NewResource(
	"pulsefit://templates",
	"Workout Templates",
	mcp.WithResourceDescription("Built-in workout templates with their target-zone segments"),
	mcp.WithMIMEType("application/json"),
)
