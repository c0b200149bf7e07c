package laudo

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrDocumentDecode 文档解码失败（PDF 文本提取失败），整个比对失败
	ErrDocumentDecode = errors.New("document decode failed")

	// ErrDocumentCount 比对必须正好提供两份文档
	ErrDocumentCount = errors.New("exactly two documents are required")

	// ErrUnknownLegislation 未知的法规名称
	ErrUnknownLegislation = errors.New("unknown legislation")

	// ErrInvalidNumber 无法解析的数值
	ErrInvalidNumber = errors.New("invalid numeric value")
)

// DocumentError 单个文档处理错误
type DocumentError struct {
	Path string // 文档路径或名称
	Op   string // 失败的操作
	Err  error  // 原因
}

// Error 实现error接口
func (e *DocumentError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap 返回原因错误
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDecodeError 创建文档解码错误，保证 errors.Is(err, ErrDocumentDecode) 成立
func NewDecodeError(path string, cause error) *DocumentError {
	if cause == nil {
		cause = ErrDocumentDecode
	} else if !errors.Is(cause, ErrDocumentDecode) {
		cause = fmt.Errorf("%w: %w", ErrDocumentDecode, cause)
	}
	return &DocumentError{
		Path: path,
		Op:   "decode",
		Err:  cause,
	}
}

// IsDecodeError 检查是否为文档解码错误
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDocumentDecode)
}
