package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/splitter"
)

var (
	splitOutputDir string
	splitLevel     int
)

var splitCmd = &cobra.Command{
	Use:   "split <file.md>",
	Short: "按标题级别拆分文档",
	Long: `按指定的标题级别把文档拆分为多个文件。

每个标题开始一个新文件，文件名由标题内容清理而来；第一个标题
之前的内容写入 ` + splitter.PrologueFilename + `。代码块内形似标题的行
不会触发拆分。

示例:
  docx2markdown split document.md
  docx2markdown split document.md --level 3 -o ./chapters`,
	Args: cobra.ExactArgs(1),
	RunE: runSplit,
}

func init() {
	splitCmd.Flags().StringVarP(&splitOutputDir, "output", "o", "", "输出目录 (默认: <输入>_split/)")
	splitCmd.Flags().IntVar(&splitLevel, "level", 0, "拆分的标题级别 1-6 (默认: 配置中的 split.heading_level)")

	rootCmd.AddCommand(splitCmd)
}

func runSplit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := splitLevel
	if level == 0 {
		level = cfg.Split.HeadingLevel
	}
	outDir := splitOutputDir
	if outDir == "" {
		outDir = stagePath(args[0], "_split")
	}

	files, err := splitter.New(level, progressWriter(cmd)).SplitFile(args[0], outDir)
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "拆分完成: %d 个文件，输出目录 %s\n", len(files), outDir)
	}
	return nil
}
