package document

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Registry 按扩展名分发的提取器注册表
type Registry struct {
	mu         sync.RWMutex
	factories  map[Format]ExtractorFactory
	extensions map[string]Format
	opts       ExtractorOptions
}

// NewRegistry 创建空注册表
func NewRegistry(opts ExtractorOptions) *Registry {
	return &Registry{
		factories:  make(map[Format]ExtractorFactory),
		extensions: make(map[string]Format),
		opts:       opts,
	}
}

// NewDefaultRegistry 创建注册了 PDF 和纯文本提取器的注册表
func NewDefaultRegistry(opts ExtractorOptions) *Registry {
	r := NewRegistry(opts)

	// 空注册表上注册不会失败
	_ = r.Register(FormatPDF, func(opts ExtractorOptions) (Extractor, error) {
		return NewPDFExtractor(opts), nil
	})
	_ = r.Register(FormatText, func(opts ExtractorOptions) (Extractor, error) {
		return NewTextExtractor(opts), nil
	})

	r.RegisterExtension(".pdf", FormatPDF)
	r.RegisterExtension(".txt", FormatText)
	r.RegisterExtension(".text", FormatText)

	return r
}

// Register 注册提取器
func (r *Registry) Register(format Format, factory ExtractorFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[format]; exists {
		return fmt.Errorf("format %s already registered", format)
	}

	r.factories[format] = factory
	return nil
}

// RegisterExtension 注册文件扩展名映射
func (r *Registry) RegisterExtension(ext string, format Format) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// 标准化扩展名（去除点号，转小写）
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	r.extensions[ext] = format
}

// GetExtractor 获取指定格式的提取器
func (r *Registry) GetExtractor(format Format) (Extractor, error) {
	r.mu.RLock()
	factory, exists := r.factories[format]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return factory(r.opts)
}

// GetExtractorByExtension 根据文件扩展名获取提取器
func (r *Registry) GetExtractorByExtension(filename string) (Extractor, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))

	r.mu.RLock()
	format, exists := r.extensions[ext]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}

	return r.GetExtractor(format)
}

// Extensions 返回所有已注册的扩展名（已排序）
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.extensions))
	for ext := range r.extensions {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// ExtractLines 按扩展名选择提取器并提取文本行
func (r *Registry) ExtractLines(ctx context.Context, path string) ([]string, error) {
	extractor, err := r.GetExtractorByExtension(path)
	if err != nil {
		return nil, err
	}

	r.opts.logger().Debug("extractor selected",
		zap.String("path", path),
		zap.String("format", string(extractor.GetFormat())))

	return extractor.ExtractLines(ctx, path)
}
