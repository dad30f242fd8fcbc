package tests

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// binaryName returns the appropriate binary name for the current OS
func binaryName() string {
	if runtime.GOOS == "windows" {
		return "docx2markdown_test.exe"
	}
	return "docx2markdown_test"
}

// buildTestBinary builds the test binary and returns a cleanup function
func buildTestBinary(t *testing.T) (string, func()) {
	t.Helper()
	binName := binaryName()
	buildCmd := exec.Command("go", "build", "-o", binName, "../cmd/docx2markdown")
	if err := buildCmd.Run(); err != nil {
		t.Fatalf("failed to build binary: %v", err)
	}
	return binName, func() { os.Remove(binName) }
}

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestCleanCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	input := writeFixture(t, "in.md", strings.Join([]string{
		"说明文字。",
		"",
		"------ ------",
		"列1     列2",
		"数据1   数据2",
		"------ ------",
		"",
	}, "\n"))
	output := filepath.Join(filepath.Dir(input), "out.md")

	cmd := exec.Command("./"+binPath, "clean", input, "-o", output)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("clean command failed: %v\noutput: %s", err, out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "| 列1 | 列2 |") {
		t.Errorf("expected a markdown table in the output, got: %s", data)
	}
	if !strings.Contains(string(data), "| --- | --- |") {
		t.Errorf("expected an alignment row in the output, got: %s", data)
	}
}

func TestCleanCommandMissingInput(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	cmd := exec.Command("./"+binPath, "clean", "nonexistent.md")
	if _, err := cmd.CombinedOutput(); err == nil {
		t.Error("expected error for a missing input file")
	}
}

func TestRepairCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	input := writeFixture(t, "in.md", strings.Join([]string{
		"```java",
		"int x = 1;",
		"```",
		"",
	}, "\n"))
	output := filepath.Join(filepath.Dir(input), "out.md")

	cmd := exec.Command("./"+binPath, "repair", input,
		"--mode", "all", "--language", "python", "-o", output)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("repair command failed: %v\noutput: %s", err, out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !strings.Contains(string(data), "```python") {
		t.Errorf("expected the block language to be replaced, got: %s", data)
	}
}

func TestRepairCommandUnknownMode(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	input := writeFixture(t, "in.md", "正文。\n")
	cmd := exec.Command("./"+binPath, "repair", input, "--mode", "bogus")
	if _, err := cmd.CombinedOutput(); err == nil {
		t.Error("expected error for an unknown repair mode")
	}
}

func TestSplitCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	input := writeFixture(t, "in.md", strings.Join([]string{
		"前言。",
		"",
		"## 第一章",
		"",
		"内容一。",
		"",
		"## 第二章",
		"",
		"内容二。",
	}, "\n"))
	outDir := filepath.Join(filepath.Dir(input), "sections")

	cmd := exec.Command("./"+binPath, "split", input, "-o", outDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("split command failed: %v\noutput: %s", err, out)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		t.Fatalf("failed to read output directory: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("expected 3 section files, got %d", len(entries))
	}
}

func TestInspectCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	input := writeFixture(t, "in.md", strings.Join([]string{
		"说明文字。",
		"",
		"------ ------",
		"列1     列2",
		"数据1   数据2",
		"------ ------",
	}, "\n"))

	cmd := exec.Command("./"+binPath, "inspect", input, "--format", "text")
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("inspect command failed: %v\noutput: %s", err, out)
	}
	if !strings.Contains(string(out), "legacy-table") {
		t.Errorf("expected a legacy-table region in the report, got: %s", out)
	}
	if !strings.Contains(string(out), "free-text") {
		t.Errorf("expected a free-text region in the report, got: %s", out)
	}
}

func TestConvertCommandErrors(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	notDocx := writeFixture(t, "fake.docx", "plain text, not a zip archive")

	tests := []struct {
		name string
		args []string
	}{
		{
			name: "non-existent file",
			args: []string{"convert", "nonexistent.docx"},
		},
		{
			name: "unsupported format",
			args: []string{"convert", notDocx},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := exec.Command("./"+binPath, tc.args...)
			if _, err := cmd.CombinedOutput(); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestProvidersCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	cmd := exec.Command("./"+binPath, "providers")
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("unexpected error: %v\noutput: %s", err, output)
	}

	// Check that all providers are listed
	providers := []string{"anthropic", "openai", "gemini", "ollama"}
	for _, p := range providers {
		if !strings.Contains(string(output), p) {
			t.Errorf("output should contain provider %q, got: %s", p, output)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	cmd := exec.Command("./"+binPath, "version")
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("unexpected error: %v\noutput: %s", err, output)
	}

	if !strings.Contains(string(output), "docx2markdown") {
		t.Errorf("output should contain 'docx2markdown', got: %s", output)
	}
}

func TestConfigCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	t.Run("config show", func(t *testing.T) {
		cmd := exec.Command("./"+binPath, "config", "show")
		output, err := cmd.CombinedOutput()

		if err != nil {
			t.Errorf("unexpected error: %v\noutput: %s", err, output)
		}

		if !strings.Contains(string(output), "default_provider") {
			t.Errorf("output should contain 'default_provider', got: %s", output)
		}
	})

	t.Run("config path", func(t *testing.T) {
		cmd := exec.Command("./"+binPath, "config", "path")
		output, err := cmd.CombinedOutput()

		if err != nil {
			t.Errorf("unexpected error: %v\noutput: %s", err, output)
		}

		if !strings.Contains(string(output), "config.yaml") {
			t.Errorf("output should contain 'config.yaml', got: %s", output)
		}
	})
}

func TestHelpCommand(t *testing.T) {
	binPath, cleanup := buildTestBinary(t)
	defer cleanup()

	cmd := exec.Command("./"+binPath, "--help")
	output, err := cmd.CombinedOutput()

	if err != nil {
		t.Errorf("unexpected error: %v\noutput: %s", err, output)
	}

	expectedStrings := []string{"docx2markdown", "convert", "clean", "repair", "headings", "split", "pipeline", "config"}
	for _, s := range expectedStrings {
		if !strings.Contains(string(output), s) {
			t.Errorf("output should contain %q, got: %s", s, output)
		}
	}
}
