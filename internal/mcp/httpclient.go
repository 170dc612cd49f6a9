package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/meltforce/pulsefit/internal/engine"
	"github.com/meltforce/pulsefit/internal/models"
)

// HTTPClient implements DataSource by calling the PulseFit REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. apiKey
// may be empty when the server does not require one.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values, out any) error {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("httpclient: create request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("httpclient: decode %s: %w", path, err)
	}
	return nil
}

func userPath(id uuid.UUID, suffix string) string {
	return "/api/v1/users/" + id.String() + suffix
}

func (c *HTTPClient) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var v models.UserView
	if err := c.get(ctx, userPath(id, ""), nil, &v); err != nil {
		return nil, err
	}
	return &v.User, nil
}

func (c *HTTPClient) Stats(ctx context.Context, userID uuid.UUID) (*engine.Stats, error) {
	var st engine.Stats
	if err := c.get(ctx, userPath(userID, "/stats"), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *HTTPClient) Trends(ctx context.Context, userID uuid.UUID, days int) (*engine.TrendReport, error) {
	params := url.Values{}
	if days > 0 {
		params.Set("days", strconv.Itoa(days))
	}
	var r engine.TrendReport
	if err := c.get(ctx, userPath(userID, "/trends"), params, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

func (c *HTTPClient) Quests(ctx context.Context, userID uuid.UUID) (*engine.QuestBoard, error) {
	var b engine.QuestBoard
	if err := c.get(ctx, userPath(userID, "/quests"), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *HTTPClient) Achievements(ctx context.Context, userID uuid.UUID) ([]engine.AchievementStatus, error) {
	var resp struct {
		Achievements []engine.AchievementStatus `json:"achievements"`
	}
	if err := c.get(ctx, userPath(userID, "/achievements"), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Achievements, nil
}

func (c *HTTPClient) PersonalBests(ctx context.Context, userID uuid.UUID) (models.PersonalBests, error) {
	var pb models.PersonalBests
	err := c.get(ctx, userPath(userID, "/personal-bests"), nil, &pb)
	return pb, err
}

func (c *HTTPClient) ListWorkouts(ctx context.Context, userID uuid.UUID, limit, offset int) ([]models.WorkoutRecord, int, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp struct {
		Workouts []models.WorkoutRecord `json:"workouts"`
		Total    int                    `json:"total"`
	}
	if err := c.get(ctx, userPath(userID, "/workouts"), params, &resp); err != nil {
		return nil, 0, err
	}
	return resp.Workouts, resp.Total, nil
}

func (c *HTTPClient) GetWorkout(ctx context.Context, id uuid.UUID) (*models.WorkoutRecord, error) {
	var w models.WorkoutRecord
	if err := c.get(ctx, "/api/v1/workouts/"+id.String(), nil, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// ListTemplates returns the built-in templates followed by the user's own,
// matching the in-process service.
func (c *HTTPClient) ListTemplates(ctx context.Context, userID uuid.UUID) ([]models.Template, error) {
	var builtIn, custom struct {
		Templates []models.Template `json:"templates"`
	}
	if err := c.get(ctx, "/api/v1/templates", nil, &builtIn); err != nil {
		return nil, err
	}
	if err := c.get(ctx, userPath(userID, "/templates"), nil, &custom); err != nil {
		return nil, err
	}
	return append(builtIn.Templates, custom.Templates...), nil
}
