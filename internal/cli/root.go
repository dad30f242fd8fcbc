// Package cli wires the pipeline stages into cobra commands.
package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/config"
)

// version is overwritten by SetVersion from main.
var version = "dev"

var (
	flagVerbose bool
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "docx2markdown",
	Short: "Word 文档转 Markdown 清理流水线",
	Long: `docx2markdown 将 Word 文档转换为整洁的 Markdown。

转换分为五个阶段，每个阶段读取上一阶段的输出文件并生成新文件:
  convert   调用 Pandoc 将 .docx 转换为 Markdown
  clean     清理转换产物(旧式表格、HTML 标签、多余转义符)
  repair    修复代码块(分隔符、语言标识、缩进)
  headings  将独立的粗体行提升为标题
  split     按标题级别拆分为多个文件

使用 pipeline 命令可以一次执行全部阶段。`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version shown by the version command.
func SetVersion(v string) {
	version = v
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docx2markdown %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "详细输出")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "安静模式")
	rootCmd.AddCommand(versionCmd)
}

// progressWriter is where stage progress messages go, honoring --quiet.
func progressWriter(cmd *cobra.Command) io.Writer {
	if flagQuiet {
		return io.Discard
	}
	return cmd.ErrOrStderr()
}

// stagePath derives a stage output path from its input file by swapping the
// extension for a suffix, e.g. doc.md + "_cleaned.md" -> doc_cleaned.md.
func stagePath(in, suffix string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + suffix
}

func loadConfig() (*config.Config, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("配置加载器初始化失败: %w", err)
	}
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("配置加载失败: %w", err)
	}
	return cfg, nil
}
