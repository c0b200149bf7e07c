package laudo

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlnumPattern   = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize 规范化参数名，用于模糊匹配
// 小写、NFD 分解、去掉组合音标、非 [a-z0-9] 字符替换为空格、合并空白并去掉首尾空格
func Normalize(text string) string {
	text = strings.ToLower(text)

	// transform.Chain 不是并发安全的，每次调用都新建
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	if stripped, _, err := transform.String(t, text); err == nil {
		text = stripped
	}

	text = nonAlnumPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
