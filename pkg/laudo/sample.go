package laudo

import (
	"regexp"
	"strings"
)

// 样品编号：可选的 "Nº " 前缀、"Amostra:"、数字编号、连字符以及批次/日期后缀
var samplePattern = regexp.MustCompile(`(?:Nº )?Amostra:\s*(\d+)-\d+`)

// ExtractSampleTag 从文本行中提取样品编号和方向
//
// 编号和方向在整份文档中各自独立扫描，可以出现在不同的行上，
// 两者都以最后一次匹配为准。没有任何一行匹配样品编号时返回 (空, 未识别)。
func ExtractSampleTag(lines []string) SampleTag {
	var (
		id        string
		direction = DirectionUnknown
	)

	for _, line := range lines {
		if m := samplePattern.FindStringSubmatch(line); m != nil {
			id = m[1]
		}

		if strings.Contains(line, TagOutlet) {
			direction = DirectionOutlet
		} else if strings.Contains(line, TagInlet) {
			direction = DirectionInlet
		}
	}

	if id == "" {
		return SampleTag{Direction: DirectionUnknown}
	}
	return SampleTag{ID: id, Direction: direction}
}
