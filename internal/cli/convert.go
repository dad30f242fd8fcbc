package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/converter"
)

var (
	convertOutputDir string
	convertPandoc    string
)

var convertCmd = &cobra.Command{
	Use:   "convert <file.docx>",
	Short: "将 Word 文档转换为 Markdown",
	Long: `调用外部 Pandoc 将 .docx 文档转换为 Markdown。

文档中的图片会被提取到输出目录的 media/media/ 子目录，
Markdown 中的图片链接会同步改写。

旧版 .doc 文件无法直接转换，请先在 Word 中另存为 .docx。

示例:
  docx2markdown convert document.docx
  docx2markdown convert document.docx -o ./out
  docx2markdown convert document.docx --pandoc /usr/local/bin/pandoc`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutputDir, "output", "o", "", "输出目录 (默认: 输入文件所在目录)")
	convertCmd.Flags().StringVar(&convertPandoc, "pandoc", "", "Pandoc 可执行文件路径")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	outDir := convertOutputDir
	if outDir == "" {
		outDir = filepath.Dir(args[0])
	}

	conv := converter.New(progressWriter(cmd))
	if convertPandoc != "" {
		conv.Pandoc = convertPandoc
	}

	outPath, err := conv.Convert(cmd.Context(), args[0], outDir)
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "转换完成: %s\n", outPath)
	}
	return nil
}
