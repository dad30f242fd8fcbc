package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/cleaner"
	"github.com/wenku-io/docx2markdown/internal/config"
)

var cleanOutput string

var cleanCmd = &cobra.Command{
	Use:   "clean <file.md>",
	Short: "清理转换产物",
	Long: `清理转换阶段产出的 Markdown。

处理内容:
  - 把旧式横线表格转换为标准 Markdown 表格
  - 移除残留的内联 HTML 标签，还原 HTML 实体
  - 去掉转换器添加的多余转义反斜杠
  - 修正图片链接中的绝对路径
  - 合并连续空行

代码块和标准 Markdown 表格原样保留，不做任何改动。
发现的问题以带行号的警告形式输出。

示例:
  docx2markdown clean document.md
  docx2markdown clean document.md -o cleaned.md`,
	Args: cobra.ExactArgs(1),
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "输出文件路径 (默认: <输入>_cleaned.md)")

	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cleanOutput
	if out == "" {
		out = stagePath(args[0], "_cleaned.md")
	}

	warnings, err := cleanFile(args[0], out, cfg)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "警告: %s\n", w)
	}
	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "清理完成: %s\n", out)
	}
	return nil
}

func cleanFile(in, out string, cfg *config.Config) ([]cleaner.Warning, error) {
	c := cleaner.New(cleaner.Options{
		HeaderFromFirstRow: cfg.Clean.TableHeaderFromFirstRow,
		StripTags:          cfg.Clean.ProtectedTags,
		StripBackslashes:   cfg.Clean.BackslashStrip,
	})
	return c.CleanFile(in, out)
}
