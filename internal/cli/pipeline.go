package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/converter"
	"github.com/wenku-io/docx2markdown/internal/headings"
	"github.com/wenku-io/docx2markdown/internal/prompt"
	"github.com/wenku-io/docx2markdown/internal/splitter"
)

var (
	pipelineOutputDir  string
	pipelinePandoc     string
	pipelineNoHeadings bool
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline <file.docx>",
	Short: "一次执行全部转换阶段",
	Long: `依次执行 convert、clean、repair、headings、split 五个阶段。

每个阶段把结果写入新文件，中间产物全部保留:
  <名称>.md                     Pandoc 转换结果
  <名称>_cleaned.md             清理结果
  <名称>_repaired.md            代码块修复结果
  <名称>_repaired_corrected.md  标题设置结果
  <名称>_split/                 拆分后的章节文件

repair 阶段的语言标识模式沿用 repair 命令的 --mode 等标志。
headings 阶段需要逐个确认，可用 --no-headings 跳过。

示例:
  docx2markdown pipeline document.docx
  docx2markdown pipeline document.docx -o ./out --mode all --language java
  docx2markdown pipeline document.docx --no-headings`,
	Args: cobra.ExactArgs(1),
	RunE: runPipeline,
}

func init() {
	pipelineCmd.Flags().StringVarP(&pipelineOutputDir, "output", "o", "", "输出目录 (默认: 输入文件所在目录)")
	pipelineCmd.Flags().StringVar(&pipelinePandoc, "pandoc", "", "Pandoc 可执行文件路径")
	pipelineCmd.Flags().BoolVar(&pipelineNoHeadings, "no-headings", false, "跳过标题设置阶段")
	pipelineCmd.Flags().StringVarP(&repairMode, "mode", "m", "auto", "语言标识模式 (all, auto, interactive, llm)")
	pipelineCmd.Flags().StringVarP(&repairLanguage, "language", "l", "", "默认语言")
	pipelineCmd.Flags().StringVar(&repairProvider, "provider", "", "LLM 提供商")
	pipelineCmd.Flags().StringVar(&repairModel, "model", "", "LLM 模型名称")
	pipelineCmd.Flags().BoolVar(&repairNoFormat, "no-format", false, "不重新格式化代码缩进")

	rootCmd.AddCommand(pipelineCmd)
}

func runPipeline(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outDir := pipelineOutputDir
	if outDir == "" {
		outDir = filepath.Dir(args[0])
	}
	progress := progressWriter(cmd)

	// Stage 1: convert
	fmt.Fprintln(progress, "[1/5] 转换文档...")
	conv := converter.New(progress)
	if pipelinePandoc != "" {
		conv.Pandoc = pipelinePandoc
	}
	mdPath, err := conv.Convert(cmd.Context(), args[0], outDir)
	if err != nil {
		return err
	}

	// Stage 2: clean
	fmt.Fprintln(progress, "[2/5] 清理转换产物...")
	cleaned := stagePath(mdPath, "_cleaned.md")
	warnings, err := cleanFile(mdPath, cleaned, cfg)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		fmt.Fprintf(cmd.ErrOrStderr(), "警告: %s\n", w)
	}

	// Stage 3: repair
	fmt.Fprintln(progress, "[3/5] 修复代码块...")
	session, err := buildRepairSession(cmd, cfg)
	if err != nil {
		return err
	}
	repaired := stagePath(mdPath, "_repaired.md")
	if err := session.RepairFile(cmd.Context(), cleaned, repaired); err != nil {
		return err
	}

	// Stage 4: headings
	corrected := repaired
	if pipelineNoHeadings {
		fmt.Fprintln(progress, "[4/5] 已跳过标题设置。")
	} else {
		fmt.Fprintln(progress, "[4/5] 设置标题...")
		corrected = stagePath(mdPath, "_repaired_corrected.md")
		c := headings.NewCorrector(prompt.NewTerminal(), progress)
		if err := c.CorrectFile(repaired, corrected); err != nil {
			if !errors.Is(err, headings.ErrCancelled) {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "已取消标题设置，后续阶段使用修复结果。")
			corrected = repaired
		}
	}

	// Stage 5: split
	fmt.Fprintln(progress, "[5/5] 拆分章节...")
	splitDir := stagePath(mdPath, "_split")
	files, err := splitter.New(cfg.Split.HeadingLevel, progress).SplitFile(corrected, splitDir)
	if err != nil {
		return err
	}

	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "全部完成: %d 个章节文件，输出目录 %s\n", len(files), splitDir)
	}
	return nil
}
