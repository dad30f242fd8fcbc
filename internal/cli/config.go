package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wenku-io/docx2markdown/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "管理配置",
	Long: `管理 docx2markdown 配置。

配置文件位置: ~/.docx2markdown/config.yaml

子命令:
  show    显示当前配置
  init    生成默认配置文件
  set     修改配置项
  path    显示配置文件路径`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "显示当前配置",
	Long: `显示当前生效的配置。

配置文件不存在时显示默认值。API 密钥中的 ${ENV} 引用按环境变量
展开后生效，show 命令显示的是文件中的原始写法。`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "生成默认配置文件",
	Long: `在 ~/.docx2markdown/config.yaml 生成默认配置文件。

配置文件已存在时报错，使用 --force 标志可覆盖。`,
	RunE: runConfigInit,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "修改配置项",
	Long: `修改一个配置项并保存。

支持的键:
  default_provider                   默认 LLM 提供商 (anthropic, openai, gemini, ollama)
  clean.table_header_from_first_row  旧式表格首行作为表头 (true/false)
  clean.backslash_strip              去掉多余转义反斜杠 (true/false)
  repair.default_language            代码块默认语言
  repair.format_code                 重新格式化代码缩进 (true/false)
  split.heading_level                拆分的标题级别 (1-6)

示例:
  docx2markdown config set default_provider openai
  docx2markdown config set split.heading_level 3`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "显示配置文件路径",
	Run: func(cmd *cobra.Command, args []string) {
		loader, err := config.NewLoader()
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "错误: %v\n", err)
			return
		}
		fmt.Fprintln(cmd.OutOrStdout(), loader.ConfigPath())
	},
}

var configForce bool

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "覆盖已有配置文件")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)

	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("配置加载器初始化失败: %w", err)
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("配置加载失败: %w", err)
	}

	if loader.Exists() {
		fmt.Fprintf(cmd.OutOrStdout(), "配置文件: %s\n\n", loader.ConfigPath())
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "配置文件: (使用默认值)\n\n")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("配置输出失败: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))

	fmt.Fprintln(cmd.OutOrStdout(), "环境变量:")
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	envVars := []struct {
		key   string
		desc  string
		value string
	}{
		{"ANTHROPIC_API_KEY", "Anthropic API 密钥", maskAPIKey(os.Getenv("ANTHROPIC_API_KEY"))},
		{"OPENAI_API_KEY", "OpenAI API 密钥", maskAPIKey(os.Getenv("OPENAI_API_KEY"))},
		{"GOOGLE_API_KEY", "Google API 密钥", maskAPIKey(os.Getenv("GOOGLE_API_KEY"))},
		{"OLLAMA_HOST", "Ollama 服务地址", os.Getenv("OLLAMA_HOST")},
	}

	for _, ev := range envVars {
		status := "(未设置)"
		if ev.value != "" {
			status = ev.value
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", ev.key, ev.desc, status)
	}
	w.Flush()

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("配置加载器初始化失败: %w", err)
	}

	if loader.Exists() && !configForce {
		return fmt.Errorf("配置文件已存在: %s\n使用 --force 标志可覆盖", loader.ConfigPath())
	}

	if err := loader.Save(config.DefaultConfig()); err != nil {
		return fmt.Errorf("配置文件生成失败: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "配置文件已生成: %s\n", loader.ConfigPath())
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("配置加载器初始化失败: %w", err)
	}

	cfg, err := loader.LoadRaw()
	if err != nil {
		return fmt.Errorf("配置加载失败: %w", err)
	}

	if err := applyConfigSet(cfg, key, value); err != nil {
		return err
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("配置保存失败: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "配置已修改: %s = %s\n", key, value)
	return nil
}

func applyConfigSet(cfg *config.Config, key, value string) error {
	switch key {
	case "default_provider":
		validProviders := []string{"anthropic", "openai", "gemini", "ollama"}
		if !contains(validProviders, value) {
			return fmt.Errorf("无效的提供商: %s (支持: %s)", value, strings.Join(validProviders, ", "))
		}
		cfg.DefaultProvider = value

	case "clean.table_header_from_first_row":
		b, err := parseBoolValue(value)
		if err != nil {
			return err
		}
		cfg.Clean.TableHeaderFromFirstRow = b

	case "clean.backslash_strip":
		b, err := parseBoolValue(value)
		if err != nil {
			return err
		}
		cfg.Clean.BackslashStrip = b

	case "repair.default_language":
		cfg.Repair.DefaultLanguage = strings.ToLower(strings.TrimSpace(value))

	case "repair.format_code":
		b, err := parseBoolValue(value)
		if err != nil {
			return err
		}
		cfg.Repair.FormatCode = b

	case "split.heading_level":
		level, err := strconv.Atoi(value)
		if err != nil || level < 1 || level > 6 {
			return fmt.Errorf("标题级别必须在 1-6 之间: %s", value)
		}
		cfg.Split.HeadingLevel = level

	default:
		return fmt.Errorf("未知的配置键: %s", key)
	}
	return nil
}

func parseBoolValue(value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("无效的布尔值: %s (支持: true, false)", value)
	}
	return b, nil
}

func maskAPIKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
