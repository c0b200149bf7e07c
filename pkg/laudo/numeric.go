package laudo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseNumber 解析测量值或限值
// 去掉所有 "<" 前缀，把小数逗号换成小数点，例如 "<5,0" -> 5.0
func ParseNumber(raw string) (float64, error) {
	s := strings.ReplaceAll(raw, "<", "")
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidNumber)
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, raw)
	}
	return v, nil
}

// FormatNumber 以最短形式输出数值，例如 60 -> "60"，7.2 -> "7.2"
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// round2 四舍五入到两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
