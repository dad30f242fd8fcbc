package cli

import (
	"os"
	"testing"

	"github.com/wenku-io/docx2markdown/internal/config"
)

func TestSetVersion(t *testing.T) {
	oldVersion := version
	defer func() { version = oldVersion }()

	SetVersion("1.2.3")
	if version != "1.2.3" {
		t.Errorf("expected version '1.2.3', got '%s'", version)
	}
}

func TestRootCommand(t *testing.T) {
	if rootCmd.Use != "docx2markdown" {
		t.Errorf("expected Use 'docx2markdown', got '%s'", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestVersionCommand(t *testing.T) {
	if versionCmd.Use != "version" {
		t.Errorf("expected Use 'version', got '%s'", versionCmd.Use)
	}

	if versionCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestStageCommandsRegistered(t *testing.T) {
	stages := []string{"convert", "clean", "repair", "headings", "split", "pipeline", "inspect"}
	for _, name := range stages {
		found := false
		for _, cmd := range rootCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected command '%s' to be registered", name)
		}
	}
}

func TestProvidersCommand(t *testing.T) {
	if providersCmd.Use != "providers" {
		t.Errorf("expected Use 'providers', got '%s'", providersCmd.Use)
	}

	if providersCmd.Short == "" {
		t.Error("expected Short description to be set")
	}
}

func TestCheckProviderStatus(t *testing.T) {
	tests := []struct {
		name     string
		provider providerInfo
		envKey   string
		envValue string
		expected string
	}{
		{
			name: "ollama always available",
			provider: providerInfo{
				Name:   "ollama",
				EnvKey: "OLLAMA_HOST",
			},
			expected: "✓ 可用",
		},
		{
			name: "anthropic with key",
			provider: providerInfo{
				Name:   "anthropic",
				EnvKey: "ANTHROPIC_API_KEY",
			},
			envKey:   "ANTHROPIC_API_KEY",
			envValue: "test-key",
			expected: "✓ 已设置",
		},
		{
			name: "openai without key",
			provider: providerInfo{
				Name:   "openai",
				EnvKey: "OPENAI_API_KEY",
			},
			envKey:   "OPENAI_API_KEY",
			envValue: "",
			expected: "✗ 未设置",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envKey != "" {
				oldVal := os.Getenv(tc.envKey)
				os.Setenv(tc.envKey, tc.envValue)
				defer os.Setenv(tc.envKey, oldVal)
			}

			result := checkProviderStatus(tc.provider)
			if result != tc.expected {
				t.Errorf("expected '%s', got '%s'", tc.expected, result)
			}
		})
	}
}

func TestRepairCommandFlags(t *testing.T) {
	if repairCmd.Use != "repair <file.md>" {
		t.Errorf("expected Use 'repair <file.md>', got '%s'", repairCmd.Use)
	}

	flags := []string{"output", "mode", "language", "provider", "model", "no-format"}
	for _, flag := range flags {
		if repairCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestConvertCommandFlags(t *testing.T) {
	if convertCmd.Use != "convert <file.docx>" {
		t.Errorf("expected Use 'convert <file.docx>', got '%s'", convertCmd.Use)
	}

	flags := []string{"output", "pandoc"}
	for _, flag := range flags {
		if convertCmd.Flags().Lookup(flag) == nil {
			t.Errorf("expected flag '%s' to exist", flag)
		}
	}
}

func TestConfigCommand(t *testing.T) {
	if configCmd.Use != "config" {
		t.Errorf("expected Use 'config', got '%s'", configCmd.Use)
	}

	subcommands := []string{"show", "init", "set", "path"}
	for _, name := range subcommands {
		found := false
		for _, cmd := range configCmd.Commands() {
			if cmd.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected subcommand '%s' to exist", name)
		}
	}
}

func TestApplyConfigSet(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr bool
		check   func(*config.Config) bool
	}{
		{
			name:  "default provider",
			key:   "default_provider",
			value: "openai",
			check: func(c *config.Config) bool { return c.DefaultProvider == "openai" },
		},
		{
			name:    "invalid provider",
			key:     "default_provider",
			value:   "unknown",
			wantErr: true,
		},
		{
			name:  "table header from first row",
			key:   "clean.table_header_from_first_row",
			value: "false",
			check: func(c *config.Config) bool { return !c.Clean.TableHeaderFromFirstRow },
		},
		{
			name:  "backslash strip",
			key:   "clean.backslash_strip",
			value: "false",
			check: func(c *config.Config) bool { return !c.Clean.BackslashStrip },
		},
		{
			name:    "bad bool",
			key:     "repair.format_code",
			value:   "maybe",
			wantErr: true,
		},
		{
			name:  "default language lowercased",
			key:   "repair.default_language",
			value: "Java",
			check: func(c *config.Config) bool { return c.Repair.DefaultLanguage == "java" },
		},
		{
			name:  "heading level",
			key:   "split.heading_level",
			value: "3",
			check: func(c *config.Config) bool { return c.Split.HeadingLevel == 3 },
		},
		{
			name:    "heading level out of range",
			key:     "split.heading_level",
			value:   "7",
			wantErr: true,
		},
		{
			name:    "unknown key",
			key:     "nonexistent",
			value:   "x",
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			err := applyConfigSet(cfg, tc.key, tc.value)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error for %s=%s", tc.key, tc.value)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.check(cfg) {
				t.Errorf("value not applied for %s=%s", tc.key, tc.value)
			}
		})
	}
}

func TestBuildResolverUnknownMode(t *testing.T) {
	oldMode := repairMode
	defer func() { repairMode = oldMode }()

	repairMode = "bogus"
	_, err := buildResolver(config.DefaultConfig(), "c")
	if err == nil {
		t.Error("expected error for unknown repair mode")
	}
}

func TestBuildProviderUnknownName(t *testing.T) {
	_, err := buildProvider(config.DefaultConfig(), "unknown", "")
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestNewProviderRegistry(t *testing.T) {
	reg, err := newProviderRegistry(config.DefaultConfig(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"anthropic", "gemini", "ollama", "openai"}
	got := reg.List()
	if len(got) != len(want) {
		t.Fatalf("registered providers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("registered providers = %v, want %v", got, want)
			break
		}
	}
}

func TestBuildProviderFromRegistry(t *testing.T) {
	// Ollama needs no API key, so it is the one provider buildable without
	// any environment.
	p, err := buildProvider(config.DefaultConfig(), "ollama", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Name() != "ollama" {
		t.Errorf("provider name = %q, want %q", p.Name(), "ollama")
	}
}

func TestStagePath(t *testing.T) {
	tests := []struct {
		in     string
		suffix string
		want   string
	}{
		{"doc.md", "_cleaned.md", "doc_cleaned.md"},
		{"/a/b/doc.md", "_repaired.md", "/a/b/doc_repaired.md"},
		{"doc.md", "_split", "doc_split"},
		{"noext", "_cleaned.md", "noext_cleaned.md"},
	}
	for _, tc := range tests {
		if got := stagePath(tc.in, tc.suffix); got != tc.want {
			t.Errorf("stagePath(%q, %q) = %q, want %q", tc.in, tc.suffix, got, tc.want)
		}
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "****"},
		{"12345678", "****"},
		{"sk-abcd1234efgh5678", "sk-a****5678"},
		{"AIzaSyD1234567890abcdefghijklmnop", "AIza****mnop"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			result := maskAPIKey(tc.input)
			if result != tc.expected {
				t.Errorf("maskAPIKey(%q) = %q, want %q", tc.input, result, tc.expected)
			}
		})
	}
}

func TestContains(t *testing.T) {
	slice := []string{"a", "b", "c"}

	if !contains(slice, "a") {
		t.Error("expected contains(slice, 'a') to be true")
	}

	if !contains(slice, "c") {
		t.Error("expected contains(slice, 'c') to be true")
	}

	if contains(slice, "d") {
		t.Error("expected contains(slice, 'd') to be false")
	}

	if contains([]string{}, "a") {
		t.Error("expected contains(empty, 'a') to be false")
	}
}

func TestDetectProviderFromModel(t *testing.T) {
	tests := []struct {
		model    string
		expected string
	}{
		// Empty model defaults to anthropic
		{"", "anthropic"},

		// Anthropic models
		{"claude-3-opus", "anthropic"},
		{"claude-3-5-haiku-20241022", "anthropic"},
		{"Claude-3-Haiku", "anthropic"},

		// OpenAI models
		{"gpt-4o", "openai"},
		{"gpt-4o-mini", "openai"},
		{"GPT-4-turbo", "openai"},
		{"o1-preview", "openai"},
		{"o1-mini", "openai"},
		{"o3-mini", "openai"},

		// Google Gemini models
		{"gemini-1.5-flash", "gemini"},
		{"gemini-1.5-pro", "gemini"},
		{"Gemini-2.0-flash", "gemini"},

		// Unknown models default to Ollama
		{"llama3.2", "ollama"},
		{"mistral", "ollama"},
		{"qwen2.5", "ollama"},
		{"custom-model", "ollama"},
	}

	for _, tc := range tests {
		t.Run(tc.model, func(t *testing.T) {
			result := detectProviderFromModel(tc.model)
			if result != tc.expected {
				t.Errorf("detectProviderFromModel(%q) = %q, want %q", tc.model, result, tc.expected)
			}
		})
	}
}
