package laudo

import (
	"regexp"
	"strings"
)

var (
	phPattern = regexp.MustCompile(`(?i)^(pH)\s+(\d+(?:[.,]\d+)?)`)

	measurementPattern = regexp.MustCompile(
		`(?i)^(?P<analise>.+?)\s+` +
			`(?P<resultado><\s*\d+(?:[.,]\d+)?|\d+(?:[.,]\d+)?)\s*` +
			`(?P<unidade>mg/L|mL/L|ºC)\b`,
	)

	nbspReplacer = strings.NewReplacer("\u00a0", " ", "\u202f", " ")
)

// PHUnit pH 没有单位，用 "-" 表示
const PHUnit = "-"

// MeasurementReport 测量值提取结果
type MeasurementReport struct {
	Measurements []Measurement
	// Skipped 两条规则都不匹配的非空行
	Skipped []string
}

// ExtractMeasurements 从文本行中提取测量值，不匹配的行被静默丢弃
func ExtractMeasurements(lines []string) []Measurement {
	return ParseMeasurements(lines).Measurements
}

// ParseMeasurements 与 ExtractMeasurements 相同，但同时返回被跳过的行
func ParseMeasurements(lines []string) MeasurementReport {
	report := MeasurementReport{
		Measurements: make([]Measurement, 0, len(lines)/4),
	}
	seen := make(map[measurementKey]struct{})

	for _, raw := range lines {
		line := strings.TrimSpace(nbspReplacer.Replace(raw))
		if line == "" {
			continue
		}

		m, ok := parseLine(line)
		if !ok {
			report.Skipped = append(report.Skipped, line)
			continue
		}

		// 同一文档中 (名称, 单位) 只保留第一次出现
		key := measurementKey{name: m.Name, unit: m.Unit}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		report.Measurements = append(report.Measurements, m)
	}

	return report
}

type measurementKey struct {
	name string
	unit string
}

// parseLine 依次尝试 pH 规则和通用规则
func parseLine(line string) (Measurement, bool) {
	if m := phPattern.FindStringSubmatch(line); m != nil {
		// 保留报告中的小数位，只统一小数点
		if _, err := ParseNumber(m[2]); err == nil {
			return Measurement{
				Name:    "pH",
				Result:  strings.ReplaceAll(m[2], ",", "."),
				Unit:    PHUnit,
				Numeric: true,
			}, true
		}
	}

	m := measurementPattern.FindStringSubmatch(line)
	if m == nil {
		return Measurement{}, false
	}

	name := strings.TrimSpace(m[measurementPattern.SubexpIndex("analise")])
	result := m[measurementPattern.SubexpIndex("resultado")]
	result = strings.ReplaceAll(result, ",", ".")
	result = strings.ReplaceAll(result, " ", "")

	return Measurement{
		Name:   name,
		Result: result,
		Unit:   m[measurementPattern.SubexpIndex("unidade")],
	}, true
}
