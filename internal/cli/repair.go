package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/config"
	"github.com/wenku-io/docx2markdown/internal/prompt"
	"github.com/wenku-io/docx2markdown/internal/repair"
)

var (
	repairOutput   string
	repairMode     string
	repairLanguage string
	repairProvider string
	repairModel    string
	repairNoFormat bool
)

var repairCmd = &cobra.Command{
	Use:   "repair <file.md>",
	Short: "修复代码块",
	Long: `修复文档中的代码块。

处理内容:
  - 分离错误合并到一行的代码块分隔符
  - 把横线包围的代码块转换为标准围栏
  - 清理代码内部的加粗、斜体标记
  - 按花括号层级重新缩进，规范运算符间距
  - 补全未闭合的围栏

语言标识的确定方式由 --mode 决定:
  all          所有代码块统一使用 --language 指定的语言
  auto         保留已有标识，缺失时按内容自动识别
  interactive  逐个询问
  llm          缺失时调用 LLM 提供商识别

示例:
  docx2markdown repair document.md
  docx2markdown repair document.md --mode all --language java
  docx2markdown repair document.md --mode llm --provider anthropic`,
	Args: cobra.ExactArgs(1),
	RunE: runRepair,
}

func init() {
	repairCmd.Flags().StringVarP(&repairOutput, "output", "o", "", "输出文件路径 (默认: <输入>_repaired.md)")
	repairCmd.Flags().StringVarP(&repairMode, "mode", "m", "auto", "语言标识模式 (all, auto, interactive, llm)")
	repairCmd.Flags().StringVarP(&repairLanguage, "language", "l", "", "默认语言 (默认: 配置中的 repair.default_language)")
	repairCmd.Flags().StringVar(&repairProvider, "provider", "", "LLM 提供商 (anthropic, openai, gemini, ollama)")
	repairCmd.Flags().StringVar(&repairModel, "model", "", "LLM 模型名称")
	repairCmd.Flags().BoolVar(&repairNoFormat, "no-format", false, "不重新格式化代码缩进")

	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	session, err := buildRepairSession(cmd, cfg)
	if err != nil {
		return err
	}

	out := repairOutput
	if out == "" {
		out = stagePath(args[0], "_repaired.md")
	}

	if err := session.RepairFile(cmd.Context(), args[0], out); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "修复完成: %s (共 %d 个代码块)\n", out, session.Blocks)
	}
	return nil
}

func buildRepairSession(cmd *cobra.Command, cfg *config.Config) (*repair.Session, error) {
	lang := repairLanguage
	if lang == "" {
		lang = cfg.Repair.DefaultLanguage
	}

	resolver, err := buildResolver(cfg, lang)
	if err != nil {
		return nil, err
	}

	opts := repair.Options{
		DefaultLanguage: lang,
		FormatCode:      cfg.Repair.FormatCode && !repairNoFormat,
	}
	return repair.NewSession(opts, resolver, progressWriter(cmd)), nil
}

func buildResolver(cfg *config.Config, lang string) (repair.Resolver, error) {
	switch repairMode {
	case "all":
		return &repair.FixedResolver{Language: lang}, nil
	case "auto":
		return &repair.AutoResolver{Default: lang}, nil
	case "interactive":
		return &repair.InteractiveResolver{Prompter: prompt.NewTerminal(), Default: lang}, nil
	case "llm":
		provider, err := buildProvider(cfg, repairProvider, repairModel)
		if err != nil {
			return nil, err
		}
		return &repair.LLMResolver{Provider: provider, Default: lang}, nil
	default:
		return nil, fmt.Errorf("未知的修复模式: %s (支持: all, auto, interactive, llm)", repairMode)
	}
}
