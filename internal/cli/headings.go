package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/headings"
	"github.com/wenku-io/docx2markdown/internal/prompt"
)

var headingsOutput string

var headingsCmd = &cobra.Command{
	Use:   "headings <file.md>",
	Short: "将粗体行提升为标题",
	Long: `逐个确认文档中独立成行的粗体文本，并提升为 Markdown 标题。

每个候选都会显示当前的标题大纲作为上下文，可以选择标题级别、
跳过该行或取消整个流程。代码块内的粗体行不会被识别为候选。

示例:
  docx2markdown headings document.md
  docx2markdown headings document.md -o corrected.md`,
	Args: cobra.ExactArgs(1),
	RunE: runHeadings,
}

func init() {
	headingsCmd.Flags().StringVarP(&headingsOutput, "output", "o", "", "输出文件路径 (默认: <输入>_corrected.md)")

	rootCmd.AddCommand(headingsCmd)
}

func runHeadings(cmd *cobra.Command, args []string) error {
	out := headingsOutput
	if out == "" {
		out = stagePath(args[0], "_corrected.md")
	}

	c := headings.NewCorrector(prompt.NewTerminal(), progressWriter(cmd))
	if err := c.CorrectFile(args[0], out); err != nil {
		if errors.Is(err, headings.ErrCancelled) {
			fmt.Fprintln(cmd.ErrOrStderr(), "已取消标题设置，未生成输出文件。")
			return nil
		}
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "标题设置完成: %s\n", out)
	}
	return nil
}
