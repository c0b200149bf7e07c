package document

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// PDFExtractor 使用 ledongthuc/pdf 按行提取 PDF 文本
type PDFExtractor struct {
	logger   *zap.Logger
	gapRatio float64
}

// NewPDFExtractor 创建 PDF 提取器
func NewPDFExtractor(opts ExtractorOptions) *PDFExtractor {
	return &PDFExtractor{
		logger:   opts.logger(),
		gapRatio: opts.spaceGapRatio(),
	}
}

// GetFormat 返回格式
func (e *PDFExtractor) GetFormat() Format {
	return FormatPDF
}

// ExtractLines 逐页提取文本行
//
// 解码失败或解析库 panic 时返回 laudo.ErrDocumentDecode，不返回部分结果。
func (e *PDFExtractor) ExtractLines(ctx context.Context, path string) (lines []string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 损坏的 PDF 可能让解析库 panic
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = laudo.NewDecodeError(path, fmt.Errorf("pdf panic: %v", r))
		}
	}()

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, laudo.NewDecodeError(path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	e.logger.Debug("pdf opened", zap.String("path", path), zap.Int("pages", numPages))

	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		rows, err := page.GetTextByRow()
		if err != nil {
			return nil, laudo.NewDecodeError(path, fmt.Errorf("page %d: %w", i, err))
		}

		before := len(lines)
		lines = append(lines, rowsToLines(rows, e.gapRatio)...)
		e.logger.Debug("page extracted",
			zap.Int("page", i),
			zap.Int("lines", len(lines)-before))
	}

	return lines, nil
}

// rowsToLines 把按行分组的文字转换为文本行，空行被丢弃
func rowsToLines(rows pdf.Rows, gapRatio float64) []string {
	sorted := make(pdf.Rows, 0, len(rows))
	for _, row := range rows {
		if row != nil {
			sorted = append(sorted, row)
		}
	}
	// PDF 坐标系原点在左下角，Position 越大越靠上
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position > sorted[j].Position
	})

	lines := make([]string, 0, len(sorted))
	for _, row := range sorted {
		line := strings.TrimSpace(joinRow(row.Content, gapRatio))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// joinRow 从左到右拼接同一行的文字，间距较大时插入空格
func joinRow(texts pdf.TextHorizontal, gapRatio float64) string {
	if len(texts) == 0 {
		return ""
	}

	runs := make([]pdf.Text, len(texts))
	copy(runs, texts)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].X < runs[j].X
	})

	var sb strings.Builder
	var prev *pdf.Text
	for i := range runs {
		cur := &runs[i]
		if cur.S == "" {
			continue
		}
		if prev != nil && needsSpace(*prev, *cur, gapRatio) {
			sb.WriteByte(' ')
		}
		sb.WriteString(cur.S)
		prev = cur
	}
	return sb.String()
}

func needsSpace(prev, cur pdf.Text, gapRatio float64) bool {
	if strings.HasSuffix(prev.S, " ") || strings.HasPrefix(cur.S, " ") {
		return false
	}

	width := prev.W
	if width <= 0 {
		// 没有宽度信息时按半个字号估算每个字符
		width = 0.5 * prev.FontSize * float64(utf8.RuneCountInString(prev.S))
	}

	fontSize := prev.FontSize
	if cur.FontSize > fontSize {
		fontSize = cur.FontSize
	}
	if fontSize <= 0 {
		fontSize = 1
	}

	gap := cur.X - (prev.X + width)
	return gap > fontSize*gapRatio
}
