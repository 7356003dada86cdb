package enrich

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/taskpilot/backend/domain"
)

// scriptedCompleter returns a fixed completion or error and records prompts.
type scriptedCompleter struct {
	out     string
	err     error
	prompts []string
}

func (c *scriptedCompleter) Complete(_ context.Context, prompt string, _ int) (string, error) {
	c.prompts = append(c.prompts, prompt)
	return c.out, c.err
}

func newService(out string, err error) (*Service, *scriptedCompleter) {
	completer := &scriptedCompleter{out: out, err: err}
	return New(completer, nil), completer
}

func TestSuggestionsParsesCompletion(t *testing.T) {
	svc, _ := newService(`[
		{"type":"improvement","content":"Set a deadline"},
		{"type":"subtask","content":"Draft an outline"},
		{"type":"resource","content":"Use a template"}
	]`, nil)

	got := svc.Suggestions(context.Background(), &domain.Task{Title: "Write report"})
	want := []domain.Suggestion{
		{Type: domain.SuggestionImprovement, Content: "Set a deadline"},
		{Type: domain.SuggestionSubtask, Content: "Draft an outline"},
		{Type: domain.SuggestionResource, Content: "Use a template"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Suggestions() = %+v, want %+v", got, want)
	}
}

func TestSuggestionsToleratesCodeFence(t *testing.T) {
	svc, _ := newService("```json\n[{\"type\":\"subtask\",\"content\":\"Do the thing\"}]\n```", nil)

	got := svc.Suggestions(context.Background(), &domain.Task{Title: "x"})
	if len(got) != 1 || got[0].Content != "Do the thing" {
		t.Errorf("Suggestions() = %+v", got)
	}
}

func TestSuggestionsFallback(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
	}{
		{name: "upstream failure", err: errors.New("boom")},
		{name: "malformed output", out: "here are some ideas: ..."},
		{name: "no usable entries", out: `[{"type":"vibes","content":"???"},{"type":"subtask","content":""}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(tt.out, tt.err)
			got := svc.Suggestions(context.Background(), &domain.Task{Title: "x"})

			if len(got) != 3 {
				t.Fatalf("fallback returned %d suggestions, want 3", len(got))
			}
			types := map[string]bool{}
			for _, s := range got {
				if s.Content == "" {
					t.Error("fallback suggestion has empty content")
				}
				if !domain.ValidSuggestionType(s.Type) {
					t.Errorf("fallback suggestion has bad type %q", s.Type)
				}
				types[s.Type] = true
			}
			if len(types) != 3 {
				t.Errorf("fallback types = %v, want one of each", types)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	svc, _ := newService("A concise description.", nil)
	if got := svc.Description(context.Background(), "Pay rent", "Finance"); got != "A concise description." {
		t.Errorf("Description() = %q", got)
	}
}

func TestDescriptionFallback(t *testing.T) {
	svc, _ := newService("", errors.New("boom"))
	got := svc.Description(context.Background(), "Pay rent", "")
	want := "Task: Pay rent. Please add specific details about what needs to be accomplished, deadlines, and any requirements."
	if got != want {
		t.Errorf("Description() fallback = %q, want %q", got, want)
	}
}

func TestBreakdownParsing(t *testing.T) {
	svc, _ := newService("1. Plan\n2. Execute\n\n3. Review", nil)

	got := svc.Breakdown(context.Background(), &domain.Task{Title: "x"})
	want := []string{"Plan", "Execute", "Review"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Breakdown() = %v, want %v", got, want)
	}
}

func TestBreakdownStripsOrdinalVariants(t *testing.T) {
	svc, _ := newService("1) Gather materials\n2. Assemble\n10. Finish up", nil)

	got := svc.Breakdown(context.Background(), &domain.Task{Title: "x"})
	want := []string{"Gather materials", "Assemble", "Finish up"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Breakdown() = %v, want %v", got, want)
	}
}

func TestBreakdownFallback(t *testing.T) {
	for _, tt := range []struct {
		name string
		out  string
		err  error
	}{
		{name: "upstream failure", err: errors.New("boom")},
		{name: "blank output", out: "\n\n  \n"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(tt.out, tt.err)
			got := svc.Breakdown(context.Background(), &domain.Task{Title: "x"})
			if len(got) != 4 {
				t.Fatalf("fallback returned %d steps, want 4", len(got))
			}
			for _, step := range got {
				if step == "" {
					t.Error("fallback step is empty")
				}
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
		want string
	}{
		{name: "valid category", out: "Finance", want: "Finance"},
		{name: "valid with whitespace", out: "  Health \n", want: "Health"},
		{name: "outside the closed set", out: "Astrology", want: domain.CategoryOther},
		{name: "wrong case", out: "finance", want: domain.CategoryOther},
		{name: "upstream failure", err: errors.New("boom"), want: domain.CategoryOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(tt.out, tt.err)
			if got := svc.Categorize(context.Background(), "Pay rent", ""); got != tt.want {
				t.Errorf("Categorize() = %q, want %q", got, tt.want)
			}
		})
	}
}
