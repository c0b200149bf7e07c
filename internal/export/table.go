package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// 判定结果颜色
var verdictColors = map[laudo.Verdict]text.Colors{
	laudo.VerdictConforme:    {text.FgGreen},
	laudo.VerdictNaoConforme: {text.FgRed, text.Bold},
	laudo.VerdictAvaliar:     {text.FgYellow},
}

// TableWriter 终端表格
type TableWriter struct {
	opts Options
}

// NewTableWriter 创建终端表格输出器
func NewTableWriter(opts Options) *TableWriter {
	return &TableWriter{opts: opts}
}

// Write 输出表格
func (w *TableWriter) Write(out io.Writer, t *laudo.ComparisonTable) error {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetTitle(fmt.Sprintf("Comparativo de Laudos - %s", t.Legislation))

	header := make(table.Row, 0, len(t.Columns)+5)
	for _, h := range t.Headers() {
		header = append(header, h)
	}
	tw.AppendHeader(header)

	verdictCol := len(header) - 2
	for i, rec := range t.Records() {
		if i < len(t.Rows) && t.Rows[i].Derived && (i == 0 || !t.Rows[i-1].Derived) {
			tw.AppendSeparator()
		}
		row := make(table.Row, 0, len(rec))
		for j, cell := range rec {
			if j == verdictCol {
				row = append(row, w.colorize(laudo.Verdict(cell)))
				continue
			}
			row = append(row, cell)
		}
		tw.AppendRow(row)
	}

	counts := t.VerdictCounts()
	footer := make(table.Row, len(header))
	for i := range footer {
		footer[i] = ""
	}
	footer[0] = fmt.Sprintf("%d análises", len(t.Rows))
	footer[verdictCol] = fmt.Sprintf("%d/%d/%d",
		counts[laudo.VerdictConforme], counts[laudo.VerdictNaoConforme], counts[laudo.VerdictAvaliar])
	tw.AppendFooter(footer)

	tw.SetStyle(table.StyleLight)
	// 表头保持原样，不转为大写
	tw.Style().Format.Header = text.FormatDefault
	tw.Style().Format.Footer = text.FormatDefault
	tw.Render()

	if w.opts.ShowDiagnostics {
		writeDiagnostics(out, t.Diagnostics)
	}
	return nil
}

func (w *TableWriter) colorize(v laudo.Verdict) string {
	if !w.opts.Color {
		return string(v)
	}
	if colors, ok := verdictColors[v]; ok {
		return colors.Sprint(string(v))
	}
	return string(v)
}

// writeDiagnostics 输出被跳过的行和未识别的参数
func writeDiagnostics(out io.Writer, diag laudo.Diagnostics) {
	for _, doc := range diag.Documents {
		fmt.Fprintf(out, "\n%s (%s): %d linhas, %d medições, %d ignoradas\n",
			doc.Source, doc.Tag.Header(), doc.LineCount, doc.Measurements, len(doc.Skipped))
		for _, line := range doc.Skipped {
			fmt.Fprintf(out, "  - %s\n", line)
		}
	}

	if len(diag.Unresolved) == 0 {
		return
	}
	fmt.Fprintln(out, "\nParâmetros sem limite:")
	for _, u := range diag.Unresolved {
		if len(u.Suggestions) > 0 {
			fmt.Fprintf(out, "  - %s (sugestões: %s)\n", u.Parameter, strings.Join(u.Suggestions, ", "))
		} else {
			fmt.Fprintf(out, "  - %s\n", u.Parameter)
		}
	}
}
