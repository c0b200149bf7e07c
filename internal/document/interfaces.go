// Package document 把检测报告转换为按顺序排列的文本行
package document

import (
	"context"
	"errors"
)

// Format 文档格式
type Format string

const (
	// FormatPDF PDF 报告
	FormatPDF Format = "pdf"
	// FormatText 已经由其它工具转换好的纯文本
	FormatText Format = "text"
)

// ErrUnsupportedFormat 没有为该扩展名注册提取器
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Extractor 文本行提取器
type Extractor interface {
	// ExtractLines 返回文档中的文本行，每个物理行一个字符串，保持原始顺序
	ExtractLines(ctx context.Context, path string) ([]string, error)

	// GetFormat 返回提取器支持的格式
	GetFormat() Format
}

// ExtractorFactory 提取器工厂函数
type ExtractorFactory func(opts ExtractorOptions) (Extractor, error)
