package stats

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Visualizer 统计数据可视化器
type Visualizer struct {
	db  *Database
	out io.Writer
}

// NewVisualizer 创建可视化器，out 为 nil 时输出到标准输出
func NewVisualizer(db *Database, out io.Writer) *Visualizer {
	if out == nil {
		out = os.Stdout
	}
	return &Visualizer{db: db, out: out}
}

// ShowOverview 显示总览
func (v *Visualizer) ShowOverview() {
	stats := v.db.GetStats()

	// 标题
	title := color.New(color.FgCyan, color.Bold)
	title.Fprintln(v.out, "📊 Comparison Statistics Overview")
	title.Fprintln(v.out, strings.Repeat("=", 50))

	// 总体统计
	fmt.Fprintln(v.out)
	v.printSection("🎯 Overall Statistics", [][]string{
		{"Total Comparisons", formatNumber(stats.TotalComparisons)},
		{"Total Documents", formatNumber(stats.TotalDocuments)},
		{"Total Rows", formatNumber(stats.TotalRows)},
		{"Total Errors", formatNumber(stats.TotalErrors)},
		{"Total Duration", formatDuration(stats.TotalDuration)},
		{"Database Created", formatTime(stats.CreatedAt)},
		{"Last Updated", formatTime(stats.LastUpdated)},
	})

	// 判定结果
	fmt.Fprintln(v.out)
	v.printSection("⚖️  Verdicts", verdictRows(stats.Verdicts))

	// 性能统计
	fmt.Fprintln(v.out)
	v.printSection("⚡ Performance Statistics", [][]string{
		{"Avg Duration", formatDuration(stats.PerformanceStats.AverageDuration)},
		{"Avg Rows", fmt.Sprintf("%.1f", stats.PerformanceStats.AverageRows)},
		{"Fastest Comparison", formatDuration(stats.PerformanceStats.FastestComparison)},
		{"Slowest Comparison", formatDuration(stats.PerformanceStats.SlowestComparison)},
	})
}

// ShowLegislations 显示法规统计
func (v *Visualizer) ShowLegislations() {
	stats := v.db.GetStats()

	title := color.New(color.FgMagenta, color.Bold)
	title.Fprintln(v.out, "📜 Legislation Statistics")
	title.Fprintln(v.out, strings.Repeat("=", 50))

	if len(stats.Legislations) == 0 {
		fmt.Fprintln(v.out, "No legislation data available.")
		return
	}

	// 按比对次数排序
	legs := make([]*LegislationStats, 0, len(stats.Legislations))
	for _, leg := range stats.Legislations {
		legs = append(legs, leg)
	}
	sort.Slice(legs, func(i, j int) bool {
		if legs[i].ComparisonCount != legs[j].ComparisonCount {
			return legs[i].ComparisonCount > legs[j].ComparisonCount
		}
		return legs[i].Legislation < legs[j].Legislation
	})

	fmt.Fprintln(v.out)
	for i, leg := range legs {
		if i > 0 {
			fmt.Fprintln(v.out)
		}

		rows := [][]string{
			{"Comparisons", formatNumber(leg.ComparisonCount)},
			{"Errors", formatNumber(leg.ErrorCount)},
		}
		rows = append(rows, verdictRows(leg.Verdicts)...)
		rows = append(rows,
			[]string{"Avg Duration", formatDuration(leg.AverageDuration)},
			[]string{"Last Used", formatTime(leg.LastUsed)},
		)
		v.printSection(fmt.Sprintf("📋 %s", leg.Legislation), rows)
	}
}

// ShowParameters 显示最常不合规或未识别的参数
func (v *Visualizer) ShowParameters(limit int) {
	stats := v.db.GetStats()

	title := color.New(color.FgGreen, color.Bold)
	title.Fprintln(v.out, "🧪 Parameter Statistics")
	title.Fprintln(v.out, strings.Repeat("=", 50))

	if len(stats.Parameters) == 0 {
		fmt.Fprintln(v.out, "No parameter data available.")
		return
	}

	params := make([]*ParameterStats, 0, len(stats.Parameters))
	for _, p := range stats.Parameters {
		params = append(params, p)
	}
	sort.Slice(params, func(i, j int) bool {
		a, b := params[i].NaoConforme+params[i].Unresolved, params[j].NaoConforme+params[j].Unresolved
		if a != b {
			return a > b
		}
		return params[i].Parameter < params[j].Parameter
	})
	if limit > 0 && limit < len(params) {
		params = params[:limit]
	}

	rows := make([][]string, 0, len(params))
	for _, p := range params {
		rows = append(rows, []string{
			p.Parameter,
			fmt.Sprintf("%d não conforme, %d sem limite", p.NaoConforme, p.Unresolved),
		})
	}
	fmt.Fprintln(v.out)
	v.printSection("Parameters", rows)
}

// ShowRecentComparisons 显示最近的比对
func (v *Visualizer) ShowRecentComparisons(limit int) {
	records := v.db.GetRecentComparisons(limit)

	title := color.New(color.FgBlue, color.Bold)
	title.Fprintf(v.out, "🕒 Recent Comparisons (Last %d)\n", len(records))
	title.Fprintln(v.out, strings.Repeat("=", 50))

	if len(records) == 0 {
		fmt.Fprintln(v.out, "No recent comparisons found.")
		return
	}

	for i, record := range records {
		if i > 0 {
			fmt.Fprintln(v.out)
		}

		status := "✅"
		if record.Failed() {
			status = "❌"
		} else if record.Verdicts.NaoConforme > 0 {
			status = "⚠️"
		}

		title := fmt.Sprintf("%s %s", status, strings.Join(record.Documents, " × "))
		title = runewidth.Truncate(title, 60, "...")

		rows := [][]string{
			{"Timestamp", formatTime(record.Timestamp)},
			{"Legislation", record.Legislation},
		}
		if len(record.Samples) > 0 {
			rows = append(rows, []string{"Samples", strings.Join(record.Samples, ", ")})
		}
		rows = append(rows,
			[]string{"Rows", strconv.Itoa(record.Rows)},
			[]string{"Verdicts", fmt.Sprintf("%d / %d / %d",
				record.Verdicts.Conforme, record.Verdicts.NaoConforme, record.Verdicts.Avaliar)},
			[]string{"Duration", formatDuration(record.Duration)},
		)
		if len(record.NonConforming) > 0 {
			rows = append(rows, []string{"Não Conforme", strings.Join(record.NonConforming, ", ")})
		}
		v.printSection(title, rows)

		if record.ErrorMessage != "" {
			errorColor := color.New(color.FgRed)
			errorColor.Fprintf(v.out, "  ❌ Error: %s\n", record.ErrorMessage)
		}
	}
}

func verdictRows(t VerdictTotals) [][]string {
	return [][]string{
		{"Conforme", formatShare(t.Conforme, t.Total())},
		{"Não Conforme", formatShare(t.NaoConforme, t.Total())},
		{"Avaliar", formatShare(t.Avaliar, t.Total())},
	}
}

// printSection 打印一个统计部分
func (v *Visualizer) printSection(title string, data [][]string) {
	sectionColor := color.New(color.FgYellow, color.Bold)
	sectionColor.Fprintf(v.out, "%s\n", title)

	// 计算最大标签显示宽度
	maxLabelLen := 0
	for _, row := range data {
		if n := runewidth.StringWidth(row[0]); n > maxLabelLen {
			maxLabelLen = n
		}
	}

	labelColor := color.New(color.FgCyan)
	valueColor := color.New(color.FgWhite, color.Bold)
	for _, row := range data {
		label := "  " + runewidth.FillRight(row[0], maxLabelLen)
		labelColor.Fprintf(v.out, "%s: ", label)
		valueColor.Fprintln(v.out, row[1])
	}
}

// 辅助函数

// formatNumber 格式化数字（添加千位分隔符）
func formatNumber(n int64) string {
	str := strconv.FormatInt(n, 10)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, char := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(char)
	}
	return result.String()
}

// formatShare 数量和百分比
func formatShare(n, total int64) string {
	if total == 0 {
		return formatNumber(n)
	}
	return fmt.Sprintf("%s (%.1f%%)", formatNumber(n), float64(n)/float64(total)*100)
}

// formatDuration 格式化持续时间
func formatDuration(d time.Duration) string {
	if d == 0 {
		return "0s"
	}

	if d < time.Second {
		return fmt.Sprintf("%.0fms", float64(d.Nanoseconds())/1e6)
	}

	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	if d < time.Hour {
		return fmt.Sprintf("%.1fm", d.Minutes())
	}

	return fmt.Sprintf("%.1fh", d.Hours())
}

// formatTime 格式化时间
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}

	now := time.Now()
	if t.Year() == now.Year() && t.Month() == now.Month() && t.Day() == now.Day() {
		return t.Format("15:04:05")
	}

	if t.Year() == now.Year() {
		return t.Format("Jan 02 15:04")
	}

	return t.Format("2006-01-02 15:04")
}
