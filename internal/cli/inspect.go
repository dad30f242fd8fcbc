package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wenku-io/docx2markdown/internal/cleaner"
)

var (
	inspectOutput string
	inspectFormat string
	inspectPretty bool
)

// regionReport is the JSON shape of one classified region.
type regionReport struct {
	Mode      string `json:"mode"`
	StartLine int    `json:"start_line"` // 1-based, inclusive
	EndLine   int    `json:"end_line"`   // 1-based, inclusive
	Lines     int    `json:"lines"`
	Dashed    bool   `json:"dashed,omitempty"`
}

type inspectReport struct {
	File     string         `json:"file"`
	Regions  []regionReport `json:"regions"`
	Warnings []string       `json:"warnings,omitempty"`
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.md>",
	Short: "显示文档的区域划分",
	Long: `按 clean 阶段的规则对文档分区并输出结果，不做任何修改。

每个区域标注模式(free-text, code-block, markdown-table, legacy-table)
和行号范围，可用于在正式清理前确认表格和代码块的识别是否正确。
输出格式支持 JSON 和文本摘要。

示例:
  docx2markdown inspect document.md
  docx2markdown inspect document.md --format text
  docx2markdown inspect document.md -o regions.json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectOutput, "output", "o", "", "输出文件路径 (默认: stdout)")
	inspectCmd.Flags().StringVarP(&inspectFormat, "format", "f", "json", "输出格式 (json, text)")
	inspectCmd.Flags().BoolVar(&inspectPretty, "pretty", true, "JSON 缩进输出")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("无法读取输入文件: %w", err)
	}

	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	regions, warnings := cleaner.Track(lines)

	report := inspectReport{File: args[0]}
	for _, r := range regions {
		report.Regions = append(report.Regions, regionReport{
			Mode:      r.Mode.String(),
			StartLine: r.Start + 1,
			EndLine:   r.End,
			Lines:     r.End - r.Start,
			Dashed:    r.Dashed,
		})
	}
	for _, w := range warnings {
		report.Warnings = append(report.Warnings, w.String())
	}

	output, err := formatInspectReport(report)
	if err != nil {
		return err
	}

	if inspectOutput == "" {
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	}
	if err := os.WriteFile(inspectOutput, []byte(output+"\n"), 0644); err != nil {
		return fmt.Errorf("无法保存输出文件: %w", err)
	}
	if !flagQuiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "区域报告已保存: %s\n", inspectOutput)
	}
	return nil
}

func formatInspectReport(report inspectReport) (string, error) {
	switch inspectFormat {
	case "json":
		var data []byte
		var err error
		if inspectPretty {
			data, err = json.MarshalIndent(report, "", "  ")
		} else {
			data, err = json.Marshal(report)
		}
		if err != nil {
			return "", fmt.Errorf("输出格式化失败: %w", err)
		}
		return string(data), nil

	case "text":
		var sb strings.Builder
		for _, r := range report.Regions {
			fmt.Fprintf(&sb, "%4d-%4d  %s", r.StartLine, r.EndLine, r.Mode)
			if r.Dashed {
				sb.WriteString(" (横线分隔)")
			}
			sb.WriteString("\n")
		}
		for _, w := range report.Warnings {
			fmt.Fprintf(&sb, "警告: %s\n", w)
		}
		return strings.TrimRight(sb.String(), "\n"), nil

	default:
		return "", fmt.Errorf("不支持的输出格式: %s (支持: json, text)", inspectFormat)
	}
}
