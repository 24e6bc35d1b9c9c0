package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gymtracker/pkg/config"
)

// ErrNotParsed means the model could not extract a workout from the message.
var ErrNotParsed = errors.New("could not extract a workout from the message")

// ParsedWorkout is the structured record the model extracts from free text.
type ParsedWorkout struct {
	ExerciseName string
	Sets         int
	Reps         string
	Weight       *float64
}

// Parser turns free-text workout descriptions into structured records and
// generates short encouragements after a successful log.
type Parser interface {
	ParseWorkout(ctx context.Context, message string, day int, knownExercises []string) (*ParsedWorkout, error)
	Encourage(ctx context.Context, exerciseName, summary string) string
}

// completer is the minimal LLM surface both providers expose.
type completer interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const systemPrompt = "You are a helpful gym workout tracking assistant. You help users log their " +
	"exercises, track progress, and provide workout summaries. You understand both Spanish and " +
	"English exercise names, natural language like 'just did 3 sets of 10 reps bench press at 60kg', " +
	"and abbreviated formats like 'BP 3x10 @ 60kg'. Be conversational and encouraging."

// LLMParser implements Parser over either provider.
type LLMParser struct {
	llm completer
}

// NewParser selects the provider from AI_PROVIDER. Only the selected
// provider's key is required.
func NewParser(cfg *config.Config) (*LLMParser, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "openai", "":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		return &LLMParser{llm: newOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)}, nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		return &LLMParser{llm: newAnthropicClient(cfg.AnthropicKey, cfg.AnthropicModel)}, nil
	default:
		return nil, fmt.Errorf("invalid AI_PROVIDER: %s (choose 'openai' or 'anthropic')", cfg.AIProvider)
	}
}

func (p *LLMParser) ParseWorkout(ctx context.Context, message string, day int, knownExercises []string) (*ParsedWorkout, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	response, err := p.llm.CompleteWithSystem(ctx, systemPrompt, buildParsePrompt(message, day, knownExercises))
	if err != nil {
		return nil, fmt.Errorf("workout parse request failed: %w", err)
	}

	return parseModelResponse(response)
}

func (p *LLMParser) Encourage(ctx context.Context, exerciseName, summary string) string {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	prompt := fmt.Sprintf("The user just completed this exercise:\n%s\n\n"+
		"Generate a short, encouraging message (1-2 sentences) to congratulate them.\n"+
		"Make it energetic and motivating!", summary)

	response, err := p.llm.CompleteWithSystem(ctx, systemPrompt, prompt)
	if err != nil || strings.TrimSpace(response) == "" {
		return fmt.Sprintf("Great work on completing %s! 💪", exerciseName)
	}
	return strings.TrimSpace(response)
}

func buildParsePrompt(message string, day int, knownExercises []string) string {
	known := "No day selected yet"
	if len(knownExercises) > 0 {
		var b strings.Builder
		for _, name := range knownExercises {
			b.WriteString("- ")
			b.WriteString(name)
			b.WriteString("\n")
		}
		known = strings.TrimRight(b.String(), "\n")
	}

	return fmt.Sprintf(`Parse this workout message and extract the following information:
- Exercise name (match it to known exercises)
- Number of sets
- Reps (can be a range like 8-12 or specific like 10)
- Weight (if mentioned, in kg)

Message: "%s"

Known exercises for today (Day %d):
%s

Respond in this exact JSON format:
{
    "exercise_name": "exact exercise name from database",
    "sets": number,
    "reps": "range or number",
    "weight": number or null,
    "found": true/false
}`, message, day, known)
}

var jsonBlockRe = regexp.MustCompile(`(?s)\{.*?\}`)

// parseModelResponse pulls the first JSON object out of the model reply.
// Models wrap the object in prose or code fences often enough that strict
// unmarshalling of the whole reply is not an option.
func parseModelResponse(response string) (*ParsedWorkout, error) {
	block := jsonBlockRe.FindString(response)
	if block == "" {
		return nil, ErrNotParsed
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil, ErrNotParsed
	}

	found, _ := raw["found"].(bool)
	if !found {
		return nil, ErrNotParsed
	}

	name, _ := raw["exercise_name"].(string)
	if strings.TrimSpace(name) == "" {
		return nil, ErrNotParsed
	}

	parsed := &ParsedWorkout{ExerciseName: name}

	switch sets := raw["sets"].(type) {
	case float64:
		parsed.Sets = int(sets)
	case string:
		fmt.Sscanf(sets, "%d", &parsed.Sets)
	}
	if parsed.Sets <= 0 {
		return nil, ErrNotParsed
	}

	switch reps := raw["reps"].(type) {
	case float64:
		parsed.Reps = fmt.Sprintf("%g", reps)
	case string:
		parsed.Reps = reps
	}
	if parsed.Reps == "" {
		return nil, ErrNotParsed
	}

	if weight, ok := raw["weight"].(float64); ok {
		parsed.Weight = &weight
	}

	return parsed, nil
}
