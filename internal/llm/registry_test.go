package llm

import (
	"context"
	"strings"
	"testing"
)

// mockProvider is a test implementation of Provider.
type mockProvider struct {
	name string
	lang string
}

func (m *mockProvider) Name() string {
	return m.name
}

func (m *mockProvider) DetectLanguage(ctx context.Context, code string, opts DetectOptions) (*DetectResult, error) {
	return &DetectResult{
		Language: m.lang,
		Model:    "mock-model",
	}, nil
}

func (m *mockProvider) Validate() error {
	return nil
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	if r == nil {
		t.Fatal("expected non-nil registry")
	}
	if names := r.List(); len(names) != 0 {
		t.Errorf("expected no providers, got %v", names)
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()
	p := &mockProvider{name: "test"}

	err := r.Register(p)
	if err != nil {
		t.Fatalf("failed to register: %v", err)
	}

	if names := r.List(); len(names) != 1 {
		t.Errorf("expected 1 provider, got %v", names)
	}
}

func TestRegistry_RegisterDuplicate(t *testing.T) {
	r := NewRegistry()
	p1 := &mockProvider{name: "test"}
	p2 := &mockProvider{name: "test"}

	if err := r.Register(p1); err != nil {
		t.Fatalf("failed to register first: %v", err)
	}

	err := r.Register(p2)
	if err == nil {
		t.Error("expected error for duplicate registration")
	}
}

func TestRegistry_RegisterNil(t *testing.T) {
	r := NewRegistry()

	err := r.Register(nil)
	if err == nil {
		t.Error("expected error for nil provider")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	p := &mockProvider{name: "test"}
	_ = r.Register(p)

	got, err := r.Get("test")
	if err != nil {
		t.Fatalf("failed to get: %v", err)
	}

	if got.Name() != "test" {
		t.Errorf("expected 'test', got %s", got.Name())
	}
}

func TestRegistry_GetNotFound(t *testing.T) {
	r := NewRegistry()

	_, err := r.Get("nonexistent")
	if err == nil {
		t.Error("expected error for nonexistent provider")
	}
}

func TestRegistry_List(t *testing.T) {
	r := NewRegistry()
	_ = r.Register(&mockProvider{name: "alpha"})
	_ = r.Register(&mockProvider{name: "beta"})
	_ = r.Register(&mockProvider{name: "gamma"})

	names := r.List()

	if len(names) != 3 {
		t.Fatalf("expected 3 names, got %d", len(names))
	}

	// List should be sorted
	if names[0] != "alpha" || names[1] != "beta" || names[2] != "gamma" {
		t.Errorf("expected sorted list, got %v", names)
	}
}

func TestDefaultDetectOptions(t *testing.T) {
	opts := DefaultDetectOptions()

	if opts.MaxTokens != 64 {
		t.Errorf("expected max_tokens 64, got %d", opts.MaxTokens)
	}
	if opts.Temperature != 0 {
		t.Errorf("expected temperature 0, got %f", opts.Temperature)
	}
}

func TestBuildDetectPrompt(t *testing.T) {
	prompt := buildDetectPrompt("int main(void) {}", DetectOptions{Candidates: []string{"c", "go"}})

	if !strings.Contains(prompt, "int main(void) {}") {
		t.Error("prompt should contain the snippet")
	}
	if !strings.Contains(prompt, "c, go") {
		t.Error("prompt should list the candidates")
	}
}

func TestBuildDetectPromptTruncatesLongSnippets(t *testing.T) {
	code := strings.Repeat("line\n", 200)
	prompt := buildDetectPrompt(code, DetectOptions{})

	if !strings.HasSuffix(prompt, "...") {
		t.Error("long snippets should be truncated")
	}
}

func TestParseDetectResponse(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		opts    DetectOptions
		want    string
		wantErr bool
	}{
		{name: "bare identifier", reply: "python", want: "python"},
		{name: "uppercase", reply: "Python", want: "python"},
		{name: "wrapped in backticks", reply: "`go`", want: "go"},
		{name: "full sentence", reply: "the language is c", want: "the"},
		{name: "candidate match", reply: "go", opts: DetectOptions{Candidates: []string{"c", "go"}}, want: "go"},
		{name: "not a candidate", reply: "python", opts: DetectOptions{Candidates: []string{"c", "go"}}, wantErr: true},
		{name: "empty reply", reply: "   ", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseDetectResponse(tc.reply, tc.opts)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("parseDetectResponse(%q) = %q, want %q", tc.reply, got, tc.want)
			}
		})
	}
}
