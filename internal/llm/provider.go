// Package llm provides the language-model providers used by the repair
// stage to identify the programming language of a code block.
package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// Provider is the interface that all LLM providers must implement.
type Provider interface {
	// Name returns the provider identifier (e.g., "openai", "anthropic").
	Name() string

	// DetectLanguage inspects a code snippet and returns the fenced-block
	// language identifier it most likely belongs to.
	DetectLanguage(ctx context.Context, code string, opts DetectOptions) (*DetectResult, error)

	// Validate checks if the provider is properly configured.
	Validate() error
}

// DetectOptions contains options for language detection.
type DetectOptions struct {
	Candidates  []string `json:"candidates,omitempty"`  // allowed identifiers; empty means any
	MaxTokens   int      `json:"max_tokens,omitempty"`  // maximum tokens for response
	Temperature float64  `json:"temperature,omitempty"` // creativity level (0.0 - 1.0)
}

// DetectResult contains the result of language detection.
type DetectResult struct {
	Language string     `json:"language"`
	Usage    TokenUsage `json:"usage"`
	Model    string     `json:"model"`
}

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// DefaultDetectOptions returns the default detection options.
func DefaultDetectOptions() DetectOptions {
	return DetectOptions{
		MaxTokens:   64,
		Temperature: 0,
	}
}

const maxSnippetLines = 40

// buildDetectPrompt renders the user prompt for a detection request. Long
// snippets are truncated; the opening lines are what identify a language.
func buildDetectPrompt(code string, opts DetectOptions) string {
	lines := strings.Split(code, "\n")
	if len(lines) > maxSnippetLines {
		lines = append(lines[:maxSnippetLines], "...")
	}
	var b strings.Builder
	b.WriteString("Identify the programming language of the following code snippet.\n")
	b.WriteString("Answer with a single lowercase Markdown fence identifier and nothing else.\n")
	if len(opts.Candidates) > 0 {
		fmt.Fprintf(&b, "Choose one of: %s.\n", strings.Join(opts.Candidates, ", "))
	}
	b.WriteString("\n")
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

var identifierPattern = regexp.MustCompile(`[a-zA-Z0-9_.+-]+`)

// parseDetectResponse extracts the language identifier from a model reply.
// Models occasionally wrap the answer in punctuation or a full sentence; the
// first identifier token wins.
func parseDetectResponse(reply string, opts DetectOptions) (string, error) {
	token := identifierPattern.FindString(strings.ToLower(strings.TrimSpace(reply)))
	if token == "" {
		return "", fmt.Errorf("no language identifier in model reply: %q", reply)
	}
	if len(opts.Candidates) > 0 {
		for _, c := range opts.Candidates {
			if token == c {
				return token, nil
			}
		}
		return "", fmt.Errorf("model reply %q is not an allowed identifier", token)
	}
	return token, nil
}
