package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger 创建一个新的日志记录器
func NewLogger(debug bool) *zap.Logger {
	return NewLoggerWithVerbose(debug, false)
}

// NewLoggerWithVerbose 创建日志记录器，verbose 模式额外输出调用位置
func NewLoggerWithVerbose(debug, verbose bool) *zap.Logger {
	return NewLoggerWithLevel("info", debug, verbose)
}

// NewLoggerWithLevel 按配置的日志级别创建日志记录器，debug 或 verbose 时强制为调试级别
func NewLoggerWithLevel(level string, debug, verbose bool) *zap.Logger {
	config := zap.NewProductionConfig()

	lvl := ParseLevel(level)
	if debug || verbose {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)

	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	config.DisableStacktrace = true
	config.DisableCaller = !verbose

	logger, err := config.Build()
	if err != nil {
		panic("初始化日志系统失败: " + err.Error())
	}

	return logger
}

// ParseLevel 解析日志级别名称，无法识别时返回 info
func ParseLevel(level string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
