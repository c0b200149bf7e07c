package laudo

import "strings"

// EfficiencyRule 去除效率规则
type EfficiencyRule struct {
	Name            string  `toml:"name"`      // 追加行的参数名
	Parameter       string  `toml:"parameter"` // 匹配行参数名的子串
	RequiredPercent float64 `toml:"required_percent"`
}

// DefaultEfficiencyRules 默认的 DBO/DQO 去除效率规则
func DefaultEfficiencyRules() []EfficiencyRule {
	return []EfficiencyRule{
		{Name: "Eficiência de Remoção de DBO", Parameter: "Demanda Bioquímica de Oxigênio", RequiredPercent: 75.0},
		{Name: "Eficiência de Remoção de DQO", Parameter: "Demanda Química de Oxigênio", RequiredPercent: 80.0},
	}
}

// RemovalResult 去除效率计算结果，无法计算时 Percent 和 Threshold 为 nil
type RemovalResult struct {
	Percent   *float64
	Threshold *float64
	Verdict   Verdict
}

// ComputeRemoval 计算参数的去除效率
//
// 遍历所有参数名包含 parameter 的行；标题包含 "Entrada" 的列作为进水值，
// 否则标题包含 "Saída" 的列作为出水值。多行匹配时后面的行覆盖前面的行。
// 任一值缺失或无法解析、或进水值 ≤ 0 时返回 (nil, nil, Avaliar)。
func ComputeRemoval(table *ComparisonTable, parameter string, requiredPercent float64) RemovalResult {
	indeterminate := RemovalResult{Verdict: VerdictAvaliar}
	if table == nil {
		return indeterminate
	}

	var inlet, outlet Value
	for _, row := range table.Rows {
		if !strings.Contains(row.Parameter, parameter) {
			continue
		}
		for i, col := range table.Columns {
			v := Missing
			if i < len(row.Values) {
				v = row.Values[i]
			}
			if strings.Contains(col.Header, TagInlet) {
				inlet = v
			} else if strings.Contains(col.Header, TagOutlet) {
				outlet = v
			}
		}
	}

	if !inlet.Valid || !outlet.Valid {
		return indeterminate
	}
	in, err := ParseNumber(inlet.Raw)
	if err != nil {
		return indeterminate
	}
	out, err := ParseNumber(outlet.Raw)
	if err != nil {
		return indeterminate
	}
	if in <= 0 {
		return indeterminate
	}

	percent := round2((in - out) / in * 100)
	threshold := requiredPercent
	verdict := VerdictNaoConforme
	if percent >= requiredPercent {
		verdict = VerdictConforme
	}

	return RemovalResult{
		Percent:   &percent,
		Threshold: &threshold,
		Verdict:   verdict,
	}
}
