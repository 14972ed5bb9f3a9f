// Package coach is the AI coaching gateway. It turns user profiles, chat
// history, and training statistics into completion-API calls and contains
// every upstream failure behind a typed error.
package coach

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/meltforce/liftlog/internal/config"
	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/service"
	"github.com/meltforce/liftlog/internal/storage"
)

// Completer is the completion API surface the gateway needs. *openai.Client
// satisfies it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

var _ Completer = (*openai.Client)(nil)

// Store is the persistence slice the gateway needs: the user profile for
// prompt building and the bounded chat history.
type Store interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetChatHistory(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error)
	AppendChatMessages(ctx context.Context, userID uuid.UUID, messages []models.ChatMessage) error
}

var _ Store = (*storage.DB)(nil)

// Gateway answers coaching requests against an OpenAI-compatible API.
type Gateway struct {
	client Completer
	model  string
	store  Store
	svc    *service.Service
	log    *slog.Logger
}

func New(client Completer, model string, store Store, svc *service.Service, log *slog.Logger) *Gateway {
	return &Gateway{client: client, model: model, store: store, svc: svc, log: log}
}

// NewClient builds the completion client from config. BaseURL lets any
// OpenAI-compatible endpoint serve as the backend.
func NewClient(cfg config.AIConfig) *openai.Client {
	cc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		cc.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(cc)
}

// Chat answers a conversational message with the user's profile and recent
// history as context, then records both turns.
func (g *Gateway) Chat(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", service.Invalid("message is required")
	}

	user, err := g.store.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading user: %w", err)
	}
	history, err := g.store.GetChatHistory(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading chat history: %w", err)
	}

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(user)},
	}
	for _, m := range history {
		messages = append(messages, openai.ChatCompletionMessage{Role: completionRole(m.Role), Content: m.Content})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})

	reply, err := g.complete(ctx, messages)
	if err != nil {
		return "", err
	}

	if err := g.store.AppendChatMessages(ctx, userID, []models.ChatMessage{
		{Role: models.RoleUser, Content: message},
		{Role: models.RoleAssistant, Content: reply},
	}); err != nil {
		return "", fmt.Errorf("recording chat turns: %w", err)
	}
	return reply, nil
}

// Ask answers a one-off training question without touching the chat history.
func (g *Gateway) Ask(ctx context.Context, userID uuid.UUID, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", service.Invalid("question is required")
	}

	user, err := g.store.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading user: %w", err)
	}

	return g.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(user)},
		{Role: openai.ChatMessageRoleUser, Content: question},
	})
}

// AnalyzeProgress feeds the user's derived statistics into a prompt and
// returns the coach's assessment.
func (g *Gateway) AnalyzeProgress(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := g.store.GetUserByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("loading user: %w", err)
	}
	stats, err := g.svc.GetStats(ctx, userID)
	if err != nil {
		return "", err
	}

	return g.complete(ctx, []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(user)},
		{Role: openai.ChatMessageRoleUser, Content: progressPrompt(stats)},
	})
}

// complete runs one completion round trip. Upstream failures never propagate
// raw; they are logged and reported as a 502-class error.
func (g *Gateway) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    g.model,
		Messages: messages,
	})
	if err != nil {
		g.log.Error("completion request failed", "error", err)
		return "", service.Upstream("coaching service unavailable")
	}
	if len(resp.Choices) == 0 {
		g.log.Error("completion returned no choices")
		return "", service.Upstream("coaching service returned an empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func completionRole(role string) string {
	if role == models.RoleAssistant {
		return openai.ChatMessageRoleAssistant
	}
	return openai.ChatMessageRoleUser
}

// systemPrompt renders the coach persona from the user's profile and
// preferences.
func systemPrompt(u *models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a %s personal fitness coach for %s.\n", personality(u.CoachPersonality), u.Username)

	var profile []string
	if u.WeightKg != nil {
		profile = append(profile, fmt.Sprintf("weight %.1f kg", *u.WeightKg))
	}
	if u.HeightCm != nil {
		profile = append(profile, fmt.Sprintf("height %.0f cm", *u.HeightCm))
	}
	if u.Age != nil {
		profile = append(profile, fmt.Sprintf("age %d", *u.Age))
	}
	if len(profile) > 0 {
		fmt.Fprintf(&b, "Profile: %s.\n", strings.Join(profile, ", "))
	}
	if len(u.Goals) > 0 {
		fmt.Fprintf(&b, "Goals: %s.\n", strings.Join(u.Goals, ", "))
	}
	if len(u.Equipment) > 0 {
		fmt.Fprintf(&b, "Available equipment: %s.\n", strings.Join(u.Equipment, ", "))
	}
	fmt.Fprintf(&b, "They train %d days per week, about %d minutes per session.\n", u.DaysPerWeek, u.SessionMinutes)
	b.WriteString("Give specific, actionable advice. Keep answers concise.")
	return b.String()
}

func personality(p string) string {
	switch p {
	case "strict", "supportive", "analytical":
		return p
	default:
		return "supportive"
	}
}

func progressPrompt(stats *service.Stats) string {
	var b strings.Builder
	b.WriteString("Analyze my training progress and suggest what to focus on next.\n")
	fmt.Fprintf(&b, "Completed sessions: %d total, %d this week.\n", stats.TotalCompleted, stats.WeekCompleted)
	fmt.Fprintf(&b, "Current streak: %d consecutive days.\n", stats.CurrentStreak)
	fmt.Fprintf(&b, "Total volume lifted: %.1f kg.\n", stats.TotalVolumeKg)
	for _, s := range stats.RecentSessions {
		fmt.Fprintf(&b, "- %s on %s: %.0f%% complete, %.1f kg volume\n",
			s.WorkoutName, s.StartedAt.Format("2006-01-02"), s.CompletionPct, s.TotalVolumeKg)
	}
	return b.String()
}
