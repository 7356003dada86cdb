package enrich

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/taskpilot/backend/domain"
	"github.com/taskpilot/backend/internal/ai"
)

// Completer issues a single completion request. *ai.Client satisfies it;
// tests substitute a scripted double.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Fallbacks, one per operation. Enrichment is best-effort: any configuration,
// upstream, or parse failure resolves to one of these instead of an error.
var (
	fallbackSuggestions = []domain.Suggestion{
		{Type: domain.SuggestionImprovement, Content: "Break down this task into smaller, manageable steps"},
		{Type: domain.SuggestionResource, Content: "Consider using productivity tools or setting reminders"},
		{Type: domain.SuggestionSubtask, Content: "Create a checklist of required actions"},
	}

	fallbackBreakdown = []string{
		"Plan and gather required resources",
		"Start working on the main task",
		"Review and refine the work",
		"Complete and mark as done",
	}
)

func fallbackDescription(title string) string {
	return fmt.Sprintf("Task: %s. Please add specific details about what needs to be accomplished, deadlines, and any requirements.", title)
}

var ordinalPrefix = regexp.MustCompile(`^\d+[.)]?\s*`)

// Service turns task fields into AI-generated enrichments, degrading to the
// fixed fallbacks whenever the completion endpoint is unavailable or returns
// something unparseable.
type Service struct {
	ai     Completer
	logger *zap.Logger
}

func New(completer Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		ai:     completer,
		logger: logger,
	}
}

// Suggestions produces typed suggestions for the task. The fallback path
// always yields exactly three.
func (s *Service) Suggestions(ctx context.Context, task *domain.Task) []domain.Suggestion {
	out, err := s.ai.Complete(ctx, ai.SuggestionsPrompt(task), ai.SuggestionTokens)
	if err != nil {
		s.degrade("suggestions", err)
		return fallbackSuggestions
	}

	suggestions, err := parseSuggestions(out)
	if err != nil {
		s.degrade("suggestions", err)
		return fallbackSuggestions
	}
	return suggestions
}

// Description produces a short free-text description for a titled task.
func (s *Service) Description(ctx context.Context, title, category string) string {
	out, err := s.ai.Complete(ctx, ai.DescriptionPrompt(title, category), ai.DescriptionTokens)
	if err != nil || strings.TrimSpace(out) == "" {
		s.degrade("description", err)
		return fallbackDescription(title)
	}
	return strings.TrimSpace(out)
}

// Breakdown produces an ordered list of actionable steps for the task.
func (s *Service) Breakdown(ctx context.Context, task *domain.Task) []string {
	out, err := s.ai.Complete(ctx, ai.BreakdownPrompt(task), ai.BreakdownTokens)
	if err != nil {
		s.degrade("breakdown", err)
		return fallbackBreakdown
	}

	steps := parseSteps(out)
	if len(steps) == 0 {
		s.degrade("breakdown", errors.New("no steps in completion output"))
		return fallbackBreakdown
	}
	return steps
}

// Categorize assigns one category from the closed set. Anything the model
// returns outside that set collapses to Other; an unvalidated category never
// reaches storage.
func (s *Service) Categorize(ctx context.Context, title, description string) string {
	out, err := s.ai.Complete(ctx, ai.CategorizePrompt(title, description), ai.CategorizeTokens)
	if err != nil {
		s.degrade("categorize", err)
		return domain.CategoryOther
	}

	category := strings.TrimSpace(out)
	if !domain.ValidCategory(category) {
		return domain.CategoryOther
	}
	return category
}

func (s *Service) degrade(operation string, err error) {
	s.logger.Warn("enrichment degraded to fallback",
		zap.String("operation", operation),
		zap.Error(err))
}

// parseSuggestions decodes a JSON array of {type, content} objects, keeping
// only well-typed entries with non-empty content.
func parseSuggestions(out string) ([]domain.Suggestion, error) {
	var raw []domain.Suggestion
	if err := json.Unmarshal([]byte(stripCodeFence(out)), &raw); err != nil {
		return nil, err
	}

	suggestions := make([]domain.Suggestion, 0, len(raw))
	for _, s := range raw {
		if !domain.ValidSuggestionType(s.Type) || strings.TrimSpace(s.Content) == "" {
			continue
		}
		suggestions = append(suggestions, domain.Suggestion{Type: s.Type, Content: s.Content})
	}
	if len(suggestions) == 0 {
		return nil, errors.New("no usable suggestions in completion output")
	}
	return suggestions, nil
}

// parseSteps splits completion output into steps: one per line, blank lines
// dropped, leading ordinal markers stripped.
func parseSteps(out string) []string {
	var steps []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		steps = append(steps, ordinalPrefix.ReplaceAllString(line, ""))
	}
	return steps
}

// stripCodeFence removes a surrounding markdown fence, which chat models
// habitually wrap JSON output in.
func stripCodeFence(out string) string {
	out = strings.TrimSpace(out)
	if !strings.HasPrefix(out, "```") {
		return out
	}
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(strings.TrimSpace(out), "```")
	return strings.TrimSpace(out)
}
