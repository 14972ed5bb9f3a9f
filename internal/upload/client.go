package upload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// apiExercise and apiWorkout mirror the server's response shapes without
// importing the storage package (which would pull in pgx and other
// server-side dependencies).
type apiExercise struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiWorkout struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type apiSession struct {
	ID string `json:"id"`
}

// Client talks to the LiftLog server with a bearer token. Mutating calls
// retry up to 3 times with exponential backoff.
type Client struct {
	serverURL  string
	token      string
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the LiftLog server.
func NewClient(serverURL, token string) *Client {
	return &Client{
		serverURL: serverURL,
		token:     token,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *Client) do(method, path string, payload, out any) error {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshaling payload: %w", err)
		}
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(method, c.serverURL+path, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out != nil {
				if err := json.Unmarshal(respBody, out); err != nil {
					return fmt.Errorf("decoding %s response: %w", path, err)
				}
			}
			return nil
		}

		lastErr = fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, respBody)
		// Client errors are not retried; the request will not get better.
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return lastErr
		}
	}

	return fmt.Errorf("after 3 attempts: %w", lastErr)
}

// ListExercises fetches the caller's visible exercise catalog.
func (c *Client) ListExercises() ([]apiExercise, error) {
	var exercises []apiExercise
	if err := c.do(http.MethodGet, "/api/v1/exercises", nil, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// CreateExercise inserts a catalog entry and returns its id.
func (c *Client) CreateExercise(name, exerciseType, category string, restSeconds *int) (string, error) {
	payload := map[string]any{"name": name, "type": exerciseType, "category": category}
	if restSeconds != nil {
		payload["rest_seconds"] = *restSeconds
	}
	var created apiExercise
	if err := c.do(http.MethodPost, "/api/v1/exercises", payload, &created); err != nil {
		return "", err
	}
	return created.ID, nil
}

// ListWorkouts fetches the caller's workouts.
func (c *Client) ListWorkouts() ([]apiWorkout, error) {
	var workouts []apiWorkout
	if err := c.do(http.MethodGet, "/api/v1/workouts", nil, &workouts); err != nil {
		return nil, err
	}
	return workouts, nil
}

// CreateWorkout inserts a workout referencing the given exercise ids in order.
func (c *Client) CreateWorkout(name string, exerciseIDs []string) (string, error) {
	entries := make([]map[string]any, 0, len(exerciseIDs))
	for _, id := range exerciseIDs {
		entries = append(entries, map[string]any{"exercise_id": id})
	}
	var created apiWorkout
	err := c.do(http.MethodPost, "/api/v1/workouts", map[string]any{
		"name":      name,
		"exercises": entries,
	}, &created)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

// StartSession opens a session for the workout and returns the session id.
func (c *Client) StartSession(workoutID string) (string, error) {
	var session apiSession
	err := c.do(http.MethodPost, "/api/v1/sessions/start", map[string]any{
		"workout_id": workoutID,
	}, &session)
	if err != nil {
		return "", err
	}
	return session.ID, nil
}

// UpdateSession replaces the session's performance records.
func (c *Client) UpdateSession(sessionID string, performed []map[string]any) error {
	return c.do(http.MethodPut, "/api/v1/sessions/"+sessionID, map[string]any{
		"exercises_performed": performed,
	}, nil)
}

// CompleteSession marks the session completed.
func (c *Client) CompleteSession(sessionID, notes string) error {
	return c.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/complete", map[string]any{
		"notes": notes,
	}, nil)
}

// AbandonSession marks the session abandoned with the exported reason.
func (c *Client) AbandonSession(sessionID, reason string) error {
	return c.do(http.MethodPost, "/api/v1/sessions/"+sessionID+"/abandon", map[string]any{
		"abandon_reason": reason,
	}, nil)
}
