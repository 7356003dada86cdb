package ai

import (
	"fmt"
	"strings"

	"github.com/taskpilot/backend/domain"
)

// Token bounds per operation.
const (
	SuggestionTokens  = 300
	DescriptionTokens = 150
	BreakdownTokens   = 250
	CategorizeTokens  = 50
)

// SuggestionsPrompt asks for exactly three typed suggestions as a JSON array.
func SuggestionsPrompt(task *domain.Task) string {
	var b strings.Builder
	b.WriteString("Given this task:\n")
	b.WriteString("Title: ")
	b.WriteString(task.Title)
	b.WriteString("\nDescription: ")
	b.WriteString(orPlaceholder(task.Description))
	b.WriteString("\nPriority: ")
	b.WriteString(task.Priority)
	b.WriteString("\nStatus: ")
	b.WriteString(task.Status)
	b.WriteString("\n\nProvide 3 helpful suggestions to improve task completion. ")
	b.WriteString("Format as JSON array with objects containing 'type' (improvement/subtask/resource) and 'content' fields.")
	return b.String()
}

// DescriptionPrompt asks for a short free-text description of a titled task.
func DescriptionPrompt(title, category string) string {
	var b strings.Builder
	b.WriteString("Generate a helpful description for a task titled ")
	b.WriteString(fmt.Sprintf("%q", title))
	if category != "" {
		b.WriteString(" in the ")
		b.WriteString(category)
		b.WriteString(" category")
	}
	b.WriteString(". Keep it concise and actionable (max 100 words).")
	return b.String()
}

// BreakdownPrompt asks for a numbered list of 3-5 actionable steps.
func BreakdownPrompt(task *domain.Task) string {
	var b strings.Builder
	b.WriteString("Break down this task into 3-5 specific steps:\n")
	b.WriteString("Title: ")
	b.WriteString(task.Title)
	b.WriteString("\nDescription: ")
	b.WriteString(orPlaceholder(task.Description))
	b.WriteString("\n\nProvide a numbered list of actionable steps.")
	return b.String()
}

// CategorizePrompt asks for a single category name from the closed set.
func CategorizePrompt(title, description string) string {
	var b strings.Builder
	b.WriteString("Categorize this task into one of these categories: ")
	b.WriteString(strings.Join(domain.Categories[:len(domain.Categories)-1], ", "))
	b.WriteString(", or ")
	b.WriteString(domain.CategoryOther)
	b.WriteString(".\nTitle: ")
	b.WriteString(title)
	b.WriteString("\nDescription: ")
	b.WriteString(orPlaceholder(description))
	b.WriteString("\n\nRespond with just the category name.")
	return b.String()
}

func orPlaceholder(description string) string {
	if strings.TrimSpace(description) == "" {
		return "No description"
	}
	return description
}
