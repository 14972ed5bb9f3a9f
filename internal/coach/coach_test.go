package coach

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/service"
)

// fakeCompleter returns a canned reply and records the request.
type fakeCompleter struct {
	reply string
	err   error
	last  openai.ChatCompletionRequest
}

func (f *fakeCompleter) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.last = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: f.reply}},
		},
	}, nil
}

// fakeCoachStore holds one user and an in-memory history.
type fakeCoachStore struct {
	user    *models.User
	history []models.ChatMessage
}

func (f *fakeCoachStore) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	cp := *f.user
	return &cp, nil
}

func (f *fakeCoachStore) GetChatHistory(_ context.Context, _ uuid.UUID) ([]models.ChatMessage, error) {
	return append([]models.ChatMessage(nil), f.history...), nil
}

func (f *fakeCoachStore) AppendChatMessages(_ context.Context, _ uuid.UUID, messages []models.ChatMessage) error {
	f.history = append(f.history, messages...)
	if len(f.history) > models.MaxChatHistory {
		f.history = f.history[len(f.history)-models.MaxChatHistory:]
	}
	return nil
}

func newTestGateway(reply string) (*Gateway, *fakeCompleter, *fakeCoachStore) {
	weight := 80.0
	store := &fakeCoachStore{
		user: &models.User{
			ID:               uuid.New(),
			Username:         "ana",
			WeightKg:         &weight,
			Goals:            []string{"strength"},
			Equipment:        []string{"barbell"},
			SessionMinutes:   45,
			DaysPerWeek:      3,
			CoachPersonality: "strict",
		},
	}
	completer := &fakeCompleter{reply: reply}
	gw := New(completer, "test-model", store, nil, slog.New(slog.DiscardHandler))
	return gw, completer, store
}

// TestChatRecordsBothTurns verifies the chat round trip: system prompt from
// the profile, history included, both turns appended afterwards.
func TestChatRecordsBothTurns(t *testing.T) {
	gw, completer, store := newTestGateway("Eat more protein.")
	store.history = []models.ChatMessage{
		{Role: models.RoleUser, Content: "earlier question"},
		{Role: models.RoleAssistant, Content: "earlier answer"},
	}

	reply, err := gw.Chat(context.Background(), store.user.ID, "What should I eat?")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Eat more protein." {
		t.Errorf("reply = %q", reply)
	}

	// system + 2 history + current message
	if len(completer.last.Messages) != 4 {
		t.Fatalf("sent %d messages, want 4", len(completer.last.Messages))
	}
	system := completer.last.Messages[0]
	if system.Role != openai.ChatMessageRoleSystem {
		t.Errorf("first message role = %q", system.Role)
	}
	for _, want := range []string{"strict", "ana", "80.0 kg", "strength", "barbell", "3 days per week"} {
		if !strings.Contains(system.Content, want) {
			t.Errorf("system prompt missing %q:\n%s", want, system.Content)
		}
	}

	if len(store.history) != 4 {
		t.Fatalf("history length = %d, want 4", len(store.history))
	}
	last := store.history[len(store.history)-1]
	if last.Role != models.RoleAssistant || last.Content != "Eat more protein." {
		t.Errorf("last history entry = %+v", last)
	}
}

// TestChatUpstreamFailure verifies API errors surface as a contained 502 and
// leave the history untouched.
func TestChatUpstreamFailure(t *testing.T) {
	gw, completer, store := newTestGateway("")
	completer.err = errors.New("connection refused")

	_, err := gw.Chat(context.Background(), store.user.ID, "hello")
	if service.StatusOf(err) != 502 {
		t.Errorf("status = %d, want 502", service.StatusOf(err))
	}
	if strings.Contains(err.Error(), "connection refused") {
		t.Errorf("raw upstream error leaked: %v", err)
	}
	if len(store.history) != 0 {
		t.Errorf("history recorded a failed turn: %v", store.history)
	}
}

// TestChatEmptyMessage verifies validation happens before any API call.
func TestChatEmptyMessage(t *testing.T) {
	gw, completer, store := newTestGateway("unused")

	_, err := gw.Chat(context.Background(), store.user.ID, "   ")
	if service.StatusOf(err) != 400 {
		t.Errorf("status = %d, want 400", service.StatusOf(err))
	}
	if len(completer.last.Messages) != 0 {
		t.Error("empty message still reached the completion API")
	}
}

// TestGenerateWorkoutParsesFencedJSON verifies a fenced JSON plan is parsed.
func TestGenerateWorkoutParsesFencedJSON(t *testing.T) {
	reply := "```json\n" + `{"name":"Upper Body","notes":"","exercises":[{"name":"Bench Press","type":"reps","sets":3,"reps":8}]}` + "\n```"
	gw, _, store := newTestGateway(reply)

	result, err := gw.GenerateWorkout(context.Background(), store.user.ID, "upper body day", false)
	if err != nil {
		t.Fatalf("GenerateWorkout: %v", err)
	}

	plan, ok := result.WorkoutData.(*GeneratedWorkout)
	if !ok {
		t.Fatalf("workout_data is %T, want *GeneratedWorkout", result.WorkoutData)
	}
	if plan.Name != "Upper Body" || len(plan.Exercises) != 1 {
		t.Errorf("plan = %+v", plan)
	}
	if result.Saved {
		t.Error("saved = true without save_to_library")
	}
}

// TestGenerateWorkoutRawFallback verifies unparseable output comes back as
// raw text rather than an error.
func TestGenerateWorkoutRawFallback(t *testing.T) {
	gw, _, store := newTestGateway("Sure! Here is a great workout for you: ...")

	result, err := gw.GenerateWorkout(context.Background(), store.user.ID, "legs", true)
	if err != nil {
		t.Fatalf("GenerateWorkout: %v", err)
	}
	raw, ok := result.WorkoutData.(string)
	if !ok || !strings.HasPrefix(raw, "Sure!") {
		t.Errorf("workout_data = %#v, want raw text", result.WorkoutData)
	}
	if result.Saved || result.Workout != nil {
		t.Error("unparseable output must not be saved")
	}
}

// TestStripCodeFences covers fence variants.
func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name, in, want string
	}{
		{"no fence", `{"a":1}`, `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"json tag", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  ```json\n{\"a\":1}\n```  ", `{"a":1}`},
	}
	for _, tc := range cases {
		if got := stripCodeFences(tc.in); got != tc.want {
			t.Errorf("%s: stripCodeFences = %q, want %q", tc.name, got, tc.want)
		}
	}
}

// TestParseGeneratedWorkout covers the accept/reject boundary.
func TestParseGeneratedWorkout(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"valid", `{"name":"A","exercises":[{"name":"Squat"}]}`, true},
		{"missing name", `{"exercises":[{"name":"Squat"}]}`, false},
		{"no exercises", `{"name":"A","exercises":[]}`, false},
		{"unnamed exercise", `{"name":"A","exercises":[{"sets":3}]}`, false},
		{"not json", "do 3 sets of squats", false},
	}
	for _, tc := range cases {
		if _, ok := parseGeneratedWorkout(tc.raw); ok != tc.ok {
			t.Errorf("%s: ok = %v, want %v", tc.name, ok, tc.ok)
		}
	}
}
