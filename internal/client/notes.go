package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// notesGenerator produces markdown coaching summaries. With an API key it
// asks OpenAI; without one it falls back to a deterministic template so the
// endpoint works in development and tests.
type notesGenerator struct {
	client  openai.Client
	enabled bool
	logger  *slog.Logger
}

func newNotesGenerator(openaiAPIKey string, logger *slog.Logger) *notesGenerator {
	ng := &notesGenerator{
		enabled: openaiAPIKey != "",
		logger:  logger,
	}
	if ng.enabled {
		ng.client = openai.NewClient(option.WithAPIKey(openaiAPIKey))
	}
	return ng
}

const notesSystemPrompt = `You are an experienced personal trainer writing internal coaching notes.
Write a concise markdown summary with these exact sections:

## Profile
## Training Focus
## Nutrition Focus
## Watchpoints

Keep it under 200 words, practical and specific to the data given. Do not
invent measurements that were not provided.`

// Generate returns a markdown coaching summary for the client. Falls back to
// the deterministic template when the API is unavailable.
func (ng *notesGenerator) Generate(ctx context.Context, c Client) (string, error) {
	if !ng.enabled {
		return fallbackNotes(c), nil
	}

	completion, err := ng.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModelGPT4o,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(notesSystemPrompt),
			openai.UserMessage(profileSummary(c)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("empty completion for client %d", c.ID)
	}

	return completion.Choices[0].Message.Content, nil
}

// profileSummary flattens a client record into the prompt's data block.
func profileSummary(c Client) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Name: %s\n", c.FullName)
	if c.Gender != "" {
		fmt.Fprintf(&b, "Gender: %s\n", c.Gender)
	}
	if c.HeightCm > 0 {
		fmt.Fprintf(&b, "Height: %.0f cm\n", c.HeightCm)
	}
	if c.WeightKg > 0 {
		fmt.Fprintf(&b, "Weight: %.1f kg\n", c.WeightKg)
	}
	if c.ActivityLevel != "" {
		fmt.Fprintf(&b, "Activity level: %s\n", c.ActivityLevel)
	}
	if c.Goal != "" {
		fmt.Fprintf(&b, "Goal: %s\n", c.Goal)
	}
	fmt.Fprintf(&b, "Training days per week: %d\n", c.WeeklyTrainingDays)
	if c.DietType != "" {
		fmt.Fprintf(&b, "Diet type: %s\n", c.DietType)
	}
	if len(c.Allergies) > 0 {
		fmt.Fprintf(&b, "Allergies: %s\n", strings.Join(c.Allergies, ", "))
	}
	if len(c.DislikedFoods) > 0 {
		fmt.Fprintf(&b, "Disliked foods: %s\n", strings.Join(c.DislikedFoods, ", "))
	}
	return b.String()
}

// fallbackNotes builds the offline summary from the profile alone.
func fallbackNotes(c Client) string {
	goal := "maintain current composition"
	switch ClassifyGoal(c.Goal) {
	case GoalCut:
		goal = "reduce body fat while preserving muscle"
	case GoalBulk:
		goal = "build muscle with a controlled surplus"
	case GoalMaintain:
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Profile\n%s", c.FullName)
	if c.ActivityLevel != "" {
		fmt.Fprintf(&b, ", %s activity", c.ActivityLevel)
	}
	fmt.Fprintf(&b, ", training %d days per week.\n\n", c.WeeklyTrainingDays)

	fmt.Fprintf(&b, "## Training Focus\nPrimary objective: %s.\n\n", goal)

	b.WriteString("## Nutrition Focus\n")
	if c.DietType != "" {
		fmt.Fprintf(&b, "Diet type: %s. ", c.DietType)
	}
	b.WriteString("Follow the generated macro targets and meal plan.\n\n")

	b.WriteString("## Watchpoints\n")
	if len(c.Allergies) > 0 {
		fmt.Fprintf(&b, "- Allergies: %s\n", strings.Join(c.Allergies, ", "))
	}
	if len(c.DislikedFoods) > 0 {
		fmt.Fprintf(&b, "- Avoid: %s\n", strings.Join(c.DislikedFoods, ", "))
	}
	if len(c.Allergies) == 0 && len(c.DislikedFoods) == 0 {
		b.WriteString("- None recorded\n")
	}

	return b.String()
}
