// Package export 把比对结果输出为终端表格、CSV、JSON 或 XLSX
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// Format 输出格式
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatXLSX  Format = "xlsx"
)

// DefaultBaseName 默认输出文件名（不含扩展名）
const DefaultBaseName = "comparativo_laudos"

var (
	// ErrUnknownFormat 未知的输出格式
	ErrUnknownFormat = errors.New("unknown output format")

	// ErrFormatMismatch 指定的格式与输出文件扩展名不一致
	ErrFormatMismatch = errors.New("output format does not match file extension")
)

// Writer 比对结果输出器
type Writer interface {
	Write(w io.Writer, table *laudo.ComparisonTable) error
}

// Options 输出选项
type Options struct {
	// Color 终端表格是否着色
	Color bool
	// ShowDiagnostics 终端表格后附加被跳过的行和未识别的参数
	ShowDiagnostics bool
}

// ParseFormat 解析格式名称，大小写不敏感，"excel" 视为 xlsx
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatCSV, FormatJSON, FormatXLSX:
		return f, nil
	case "excel":
		return FormatXLSX, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, s)
	}
}

// ResolveFormat 确定输出格式
//
// name 为空时按 path 的扩展名推断（.txt 或无扩展名为终端表格），没有 path 时为终端表格。
// name 非空且扩展名是另一种文件格式时返回 ErrFormatMismatch。
func ResolveFormat(name, path string) (Format, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	if strings.TrimSpace(name) == "" {
		if ext == "" || ext == "txt" {
			return FormatTable, nil
		}
		f, err := ParseFormat(ext)
		if err != nil {
			return "", fmt.Errorf("cannot infer output format from %q: %w", path, err)
		}
		return f, nil
	}

	f, err := ParseFormat(name)
	if err != nil {
		return "", err
	}
	if byExt, err := ParseFormat(ext); err == nil && ext != "" && byExt != FormatTable && byExt != f {
		return "", fmt.Errorf("%w: %s written to %q", ErrFormatMismatch, f, path)
	}
	return f, nil
}

// Formats 返回支持的格式
func Formats() []Format {
	return []Format{FormatTable, FormatCSV, FormatJSON, FormatXLSX}
}

// NewWriter 创建指定格式的输出器
func NewWriter(format Format, opts Options) (Writer, error) {
	switch format {
	case FormatTable:
		return NewTableWriter(opts), nil
	case FormatCSV:
		return &CSVWriter{}, nil
	case FormatJSON:
		return &JSONWriter{Indent: "  "}, nil
	case FormatXLSX:
		return &XLSXWriter{SheetName: DefaultSheetName}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

// DefaultFilename 返回格式对应的默认文件名，终端表格没有默认文件
func DefaultFilename(format Format) string {
	switch format {
	case FormatCSV, FormatJSON, FormatXLSX:
		return DefaultBaseName + "." + string(format)
	default:
		return ""
	}
}

// WriteFile 把比对结果写入文件，先写临时文件再重命名
func WriteFile(path string, format Format, table *laudo.ComparisonTable, opts Options) error {
	writer, err := NewWriter(format, opts)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := writer.Write(tmp, table); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", format, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename output file: %w", err)
	}
	return nil
}
