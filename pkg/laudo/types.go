// Package laudo 实现环境检测报告（laudo）的比对流程：
// 从文本行中提取测量值，合并进水/出水两份报告，按法规限值判定合规性，
// 并计算去除效率。
package laudo

import (
	"fmt"
	"time"
)

// Direction 样品方向（进水/出水）
type Direction int

const (
	// DirectionUnknown 未识别
	DirectionUnknown Direction = iota
	// DirectionInlet 进水（Entrada）
	DirectionInlet
	// DirectionOutlet 出水（Saída）
	DirectionOutlet
)

// 报告中出现的方向标记
const (
	TagInlet   = "Entrada"
	TagOutlet  = "Saída"
	TagUnknown = "Indefinido"
)

// String 返回报告中使用的方向名称
func (d Direction) String() string {
	switch d {
	case DirectionInlet:
		return TagInlet
	case DirectionOutlet:
		return TagOutlet
	default:
		return TagUnknown
	}
}

// MarshalText 以方向名称序列化
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText 从方向名称反序列化
func (d *Direction) UnmarshalText(text []byte) error {
	*d = ParseDirection(string(text))
	return nil
}

// ParseDirection 把方向名称转换为 Direction
func ParseDirection(s string) Direction {
	switch s {
	case TagInlet:
		return DirectionInlet
	case TagOutlet:
		return DirectionOutlet
	default:
		return DirectionUnknown
	}
}

// Verdict 合规判定结果
type Verdict string

const (
	// VerdictConforme 合规
	VerdictConforme Verdict = "Conforme"
	// VerdictNaoConforme 不合规
	VerdictNaoConforme Verdict = "Não Conforme"
	// VerdictAvaliar 无法判定，需要人工评估
	VerdictAvaliar Verdict = "Avaliar"
)

// Measurement 单条测量结果
type Measurement struct {
	Name   string `json:"name"`
	Result string `json:"result"` // 原始文本，保留 "<" 前缀，小数点已统一为 "."
	Unit   string `json:"unit"`
	// Numeric 为 true 时 Result 已经被解析为数值（pH 规则）
	Numeric bool `json:"numeric"`
}

// SampleTag 样品元数据
type SampleTag struct {
	ID        string    `json:"id"` // 为空表示未找到样品编号
	Direction Direction `json:"direction"`
}

// Header 返回样品列标题，例如 "Amostra 1234 (Saída)"
func (t SampleTag) Header() string {
	id := t.ID
	if id == "" {
		id = "-"
	}
	return fmt.Sprintf("Amostra %s (%s)", id, t.Direction)
}

// Value 样品列中的一个单元格
type Value struct {
	Raw   string `json:"raw"`
	Valid bool   `json:"valid"` // false 表示缺失
}

// Missing 缺失值
var Missing = Value{}

// Present 创建一个有效值
func Present(raw string) Value {
	return Value{Raw: raw, Valid: true}
}

// String 返回单元格文本，缺失时为空
func (v Value) String() string {
	if !v.Valid {
		return ""
	}
	return v.Raw
}

// SampleColumn 比对表中对应一份文档的列
type SampleColumn struct {
	Header string    `json:"header"`
	Source string    `json:"source"`
	Tag    SampleTag `json:"tag"`
}

// ComparisonRow 比对表的一行
type ComparisonRow struct {
	Parameter   string  `json:"parameter"`
	Unit        string  `json:"unit"`
	Values      []Value `json:"values"` // 与 ComparisonTable.Columns 一一对应
	Limit       *Limit  `json:"limit,omitempty"`
	Verdict     Verdict `json:"verdict"`
	Legislation string  `json:"legislation"`
	Derived     bool    `json:"derived,omitempty"` // 去除效率行
}

// UnresolvedParameter 没有找到限值的参数
type UnresolvedParameter struct {
	Parameter   string   `json:"parameter"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// DocumentDiagnostics 单份文档的诊断信息
type DocumentDiagnostics struct {
	Source       string    `json:"source"`
	Tag          SampleTag `json:"tag"`
	LineCount    int       `json:"line_count"`
	Measurements int       `json:"measurements"`
	Skipped      []string  `json:"skipped,omitempty"`
}

// Diagnostics 比对过程的诊断信息，不影响比对结果
type Diagnostics struct {
	Documents  []DocumentDiagnostics `json:"documents"`
	Unresolved []UnresolvedParameter `json:"unresolved,omitempty"`
}

// ComparisonTable 比对结果
type ComparisonTable struct {
	ID          string          `json:"id"`
	Legislation string          `json:"legislation"`
	Columns     []SampleColumn  `json:"columns"`
	Rows        []ComparisonRow `json:"rows"`
	Diagnostics Diagnostics     `json:"diagnostics"`
	CreatedAt   time.Time       `json:"created_at"`
	Duration    time.Duration   `json:"duration"`
}

// OutletColumn 返回第一个标题包含 "Saída" 的列索引，不存在时返回 -1
func (t *ComparisonTable) OutletColumn() int {
	return columnContaining(t.Columns, TagOutlet)
}

// Headers 返回完整的表头
func (t *ComparisonTable) Headers() []string {
	headers := make([]string, 0, len(t.Columns)+5)
	headers = append(headers, "Análise", "Unidade")
	for _, col := range t.Columns {
		headers = append(headers, col.Header)
	}
	return append(headers, "Limite Legal", "Situação", "Legislação")
}

// Records 把表格展开为字符串矩阵（不含表头），供 CSV/终端输出使用
func (t *ComparisonTable) Records() [][]string {
	records := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make([]string, 0, len(t.Columns)+5)
		rec = append(rec, row.Parameter, row.Unit)
		for i := range t.Columns {
			if i < len(row.Values) {
				rec = append(rec, row.Values[i].String())
			} else {
				rec = append(rec, "")
			}
		}
		limit := ""
		if row.Limit != nil {
			limit = row.Limit.String()
		}
		rec = append(rec, limit, string(row.Verdict), row.Legislation)
		records = append(records, rec)
	}
	return records
}

// VerdictCounts 统计各判定结果的行数
func (t *ComparisonTable) VerdictCounts() map[Verdict]int {
	counts := make(map[Verdict]int, 3)
	for _, row := range t.Rows {
		counts[row.Verdict]++
	}
	return counts
}

// Find 按参数名和单位查找行
func (t *ComparisonTable) Find(parameter, unit string) (ComparisonRow, bool) {
	for _, row := range t.Rows {
		if row.Parameter == parameter && row.Unit == unit {
			return row, true
		}
	}
	return ComparisonRow{}, false
}
