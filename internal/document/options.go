package document

import "go.uber.org/zap"

// 默认的词间距阈值，相对于字号
const defaultSpaceGapRatio = 0.2

// ExtractorOptions 提取器选项
type ExtractorOptions struct {
	// Logger 为 nil 时不输出日志
	Logger *zap.Logger

	// SpaceGapRatio PDF 同一行中两段文字的间距超过 字号*SpaceGapRatio 时插入空格
	SpaceGapRatio float64

	// KeepBlankLines 保留空行（纯文本）
	KeepBlankLines bool
}

func (o ExtractorOptions) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o ExtractorOptions) spaceGapRatio() float64 {
	if o.SpaceGapRatio > 0 {
		return o.SpaceGapRatio
	}
	return defaultSpaceGapRatio
}
