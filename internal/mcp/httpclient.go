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

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/service"
	"github.com/meltforce/liftlog/internal/storage"
)

// HTTPClient implements DataSource by calling the LiftLog REST API. Used for
// remote MCP mode where the binary runs locally (stdio) but the data lives on
// a remote server. The bearer token scopes every call, so the userID
// arguments are ignored.
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL, token string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func (c *HTTPClient) ListSessions(ctx context.Context, _ uuid.UUID, f storage.SessionFilter) ([]models.WorkoutSession, error) {
	params := url.Values{}
	if f.Completed != nil {
		params.Set("completed", strconv.FormatBool(*f.Completed))
	}
	if f.Limit > 0 {
		params.Set("limit", strconv.Itoa(f.Limit))
	}

	body, err := c.get(ctx, "/api/v1/sessions", params)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) GetSession(ctx context.Context, sessionID, _ uuid.UUID) (*models.WorkoutSession, error) {
	body, err := c.get(ctx, "/api/v1/sessions/"+sessionID.String(), nil)
	if err != nil {
		return nil, err
	}

	var session models.WorkoutSession
	if err := json.Unmarshal(body, &session); err != nil {
		return nil, fmt.Errorf("httpclient: decode session: %w", err)
	}
	return &session, nil
}

func (c *HTTPClient) ListWorkouts(ctx context.Context, _ uuid.UUID) ([]models.Workout, error) {
	body, err := c.get(ctx, "/api/v1/workouts", nil)
	if err != nil {
		return nil, err
	}

	var workouts []models.Workout
	if err := json.Unmarshal(body, &workouts); err != nil {
		return nil, fmt.Errorf("httpclient: decode workouts: %w", err)
	}
	return workouts, nil
}

func (c *HTTPClient) ListExercises(ctx context.Context, _ uuid.UUID, f storage.ExerciseFilter) ([]models.Exercise, error) {
	params := url.Values{}
	if f.Type != "" {
		params.Set("type", f.Type)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.MuscleGroup != "" {
		params.Set("muscle_group", f.MuscleGroup)
	}

	body, err := c.get(ctx, "/api/v1/exercises", params)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

func (c *HTTPClient) GetStats(ctx context.Context, _ uuid.UUID) (*service.Stats, error) {
	body, err := c.get(ctx, "/api/v1/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats service.Stats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("httpclient: decode stats: %w", err)
	}
	return &stats, nil
}
