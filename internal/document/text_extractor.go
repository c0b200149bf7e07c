package document

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// TextExtractor 读取已经转换好的纯文本报告
type TextExtractor struct {
	logger    *zap.Logger
	keepBlank bool
}

// NewTextExtractor 创建纯文本提取器
func NewTextExtractor(opts ExtractorOptions) *TextExtractor {
	return &TextExtractor{
		logger:    opts.logger(),
		keepBlank: opts.KeepBlankLines,
	}
}

// GetFormat 返回格式
func (e *TextExtractor) GetFormat() Format {
	return FormatText
}

// ExtractLines 读取文件、检测编码并按行拆分
func (e *TextExtractor) ExtractLines(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &laudo.DocumentError{Path: path, Op: "read", Err: err}
	}

	text, name := detectAndConvertEncoding(data)
	e.logger.Debug("text document decoded",
		zap.String("path", path),
		zap.String("encoding", name),
		zap.Int("bytes", len(data)))

	return SplitLines(text, e.keepBlank), nil
}

// SplitLines 按 \n、\r\n、\r 拆分文本，keepBlank 为 false 时丢弃空白行
func SplitLines(text string, keepBlank bool) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}

	raw := strings.Split(text, "\n")
	if keepBlank {
		return raw
	}

	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// detectAndConvertEncoding 检测文本编码并转换为 UTF-8，同时返回编码名称
func detectAndConvertEncoding(data []byte) (string, string) {
	if len(data) == 0 {
		return "", "empty"
	}

	// 先检查 BOM
	if bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		return string(data[3:]), "utf-8-bom"
	}
	if len(data) >= 2 {
		if data[0] == 0xFF && data[1] == 0xFE {
			if res, ok := decodeWith(xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM), data[2:]); ok {
				return res, "utf-16le"
			}
		} else if data[0] == 0xFE && data[1] == 0xFF {
			if res, ok := decodeWith(xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM), data[2:]); ok {
				return res, "utf-16be"
			}
		}
	}

	if utf8.Valid(data) {
		return string(data), "utf-8"
	}

	// 葡萄牙语报告常见的单字节编码
	candidates := []struct {
		name string
		enc  encoding.Encoding
	}{
		{"windows-1252", charmap.Windows1252},
		{"iso-8859-1", charmap.ISO8859_1},
	}
	for _, c := range candidates {
		if res, ok := decodeWith(c.enc, data); ok && isReasonableText(res) {
			return res, c.name
		}
	}

	// 都失败时按原样返回
	return string(data), "unknown"
}

func decodeWith(enc encoding.Encoding, data []byte) (string, bool) {
	res, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), enc.NewDecoder()))
	if err != nil || !utf8.Valid(res) {
		return "", false
	}
	return string(res), true
}

// isReasonableText 超过 90% 是可打印字符时认为是合理的文本
func isReasonableText(text string) bool {
	if len(text) == 0 {
		return false
	}

	printable, total := 0, 0
	for _, r := range text {
		total++
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			printable++
		}
	}
	return float64(printable)/float64(total) > 0.9
}
