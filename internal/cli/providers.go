package cli

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/config"
	"github.com/wenku-io/docx2markdown/internal/llm"
)

type providerInfo struct {
	Name         string
	DefaultModel string
	EnvKey       string
	Description  string
}

var providers = []providerInfo{
	{
		Name:         "anthropic",
		DefaultModel: "claude-3-5-haiku-20241022",
		EnvKey:       "ANTHROPIC_API_KEY",
		Description:  "Anthropic Claude API",
	},
	{
		Name:         "openai",
		DefaultModel: "gpt-4o-mini",
		EnvKey:       "OPENAI_API_KEY",
		Description:  "OpenAI GPT API",
	},
	{
		Name:         "gemini",
		DefaultModel: "gemini-1.5-flash",
		EnvKey:       "GOOGLE_API_KEY",
		Description:  "Google Gemini API",
	},
	{
		Name:         "ollama",
		DefaultModel: "llama3.2",
		EnvKey:       "OLLAMA_HOST",
		Description:  "本地 Ollama 服务",
	},
}

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "可用的 LLM 提供商列表",
	Long: `显示 repair 命令 llm 模式可用的 LLM 提供商。

除 ollama 为本地服务外，各提供商需要在对应环境变量中设置 API 密钥。

示例:
  docx2markdown repair document.md --mode llm --provider anthropic
  docx2markdown repair document.md --mode llm --model gpt-4o`,
	Run: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func runProviders(cmd *cobra.Command, args []string) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "提供商\t默认模型\t环境变量\t状态\t说明")
	fmt.Fprintln(w, "------\t--------\t--------\t----\t----")

	for _, p := range providers {
		status := checkProviderStatus(p)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			p.Name, p.DefaultModel, p.EnvKey, status, p.Description)
	}
}

func checkProviderStatus(p providerInfo) string {
	if p.Name == "ollama" {
		// Ollama doesn't require API key
		return "✓ 可用"
	}

	if os.Getenv(p.EnvKey) != "" {
		return "✓ 已设置"
	}
	return "✗ 未设置"
}

// newProviderRegistry builds the registry of providers the llm repair mode
// can draw from, each configured from cfg. A non-empty model overrides the
// configured model of every provider; only the one later fetched from the
// registry uses it.
func newProviderRegistry(cfg *config.Config, model string) (*llm.Registry, error) {
	reg := llm.NewRegistry()
	for _, info := range providers {
		pc, ok := cfg.GetProvider(info.Name)
		if !ok {
			pc = &config.Provider{}
		}
		m := model
		if m == "" {
			m = pc.Model
		}

		var p llm.Provider
		switch info.Name {
		case "anthropic":
			p = llm.NewAnthropicProvider(pc.APIKey, m)
		case "openai":
			p = llm.NewOpenAIProvider(pc.APIKey, m)
		case "gemini":
			p = llm.NewGeminiProvider(pc.APIKey, m)
		case "ollama":
			endpoint := pc.Endpoint
			if host := os.Getenv("OLLAMA_HOST"); host != "" {
				endpoint = host
			}
			p = llm.NewOllamaProvider(endpoint, m)
		}
		if err := reg.Register(p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// buildProvider resolves the provider for the llm repair mode from the
// registry. An empty name falls back to the model's vendor, then to the
// configured default.
func buildProvider(cfg *config.Config, name, model string) (llm.Provider, error) {
	if name == "" {
		if model != "" {
			name = detectProviderFromModel(model)
		} else {
			name = cfg.DefaultProvider
		}
	}

	reg, err := newProviderRegistry(cfg, model)
	if err != nil {
		return nil, err
	}
	p, err := reg.Get(name)
	if err != nil {
		return nil, fmt.Errorf("未知的 LLM 提供商: %s (支持: %s)", name, strings.Join(reg.List(), ", "))
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// detectProviderFromModel infers the provider from a model name.
func detectProviderFromModel(model string) string {
	m := strings.ToLower(model)
	switch {
	case m == "":
		return "anthropic"
	case strings.HasPrefix(m, "claude"):
		return "anthropic"
	case strings.HasPrefix(m, "gpt"), strings.HasPrefix(m, "o1"), strings.HasPrefix(m, "o3"):
		return "openai"
	case strings.HasPrefix(m, "gemini"):
		return "gemini"
	default:
		return "ollama"
	}
}
