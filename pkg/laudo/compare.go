package laudo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EfficiencyUnit 去除效率行的单位
const EfficiencyUnit = "%"

// defaultSuggestionCount 每个未识别参数给出的建议数量
const defaultSuggestionCount = 3

// LineExtractor 把文档转换为按顺序排列的文本行
type LineExtractor interface {
	ExtractLines(ctx context.Context, path string) ([]string, error)
}

// Document 已经提取出文本行的文档
type Document struct {
	Source string
	Lines  []string
}

// Comparator 比对两份报告
type Comparator struct {
	extractor   LineExtractor
	logger      *zap.Logger
	suggestions int
	now         func() time.Time
}

// Option 比对器选项
type Option func(*Comparator)

// WithSuggestionCount 设置未识别参数的建议数量，0 表示不给建议
func WithSuggestionCount(n int) Option {
	return func(c *Comparator) {
		if n >= 0 {
			c.suggestions = n
		}
	}
}

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(c *Comparator) {
		if now != nil {
			c.now = now
		}
	}
}

// NewComparator 创建比对器，extractor 只在 CompareFiles 中使用
func NewComparator(extractor LineExtractor, logger *zap.Logger, opts ...Option) *Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Comparator{
		extractor:   extractor,
		logger:      logger,
		suggestions: defaultSuggestionCount,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompareFiles 提取两份文档的文本行并比对
func (c *Comparator) CompareFiles(ctx context.Context, paths []string, leg Legislation) (*ComparisonTable, error) {
	if len(paths) != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrDocumentCount, len(paths))
	}
	if c.extractor == nil {
		return nil, fmt.Errorf("no line extractor configured")
	}

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		c.logger.Debug("extracting lines", zap.String("path", path))
		lines, err := c.extractor.ExtractLines(ctx, path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{Source: path, Lines: lines})
	}

	return c.Compare(ctx, docs, leg)
}

// documentTable 单份文档的测量表
type documentTable struct {
	column  SampleColumn
	results map[measurementKey]string
	order   []measurementKey
	diag    DocumentDiagnostics
}

// Compare 合并两份文档并按法规判定合规性
//
// 合并顺序：第一份文档的行按原顺序，然后是只在第二份文档中出现的行。
// 合规判定只针对标题包含 "Saída" 的第一列，之后按规则追加去除效率行。
func (c *Comparator) Compare(ctx context.Context, docs []Document, leg Legislation) (*ComparisonTable, error) {
	if len(docs) != 2 {
		return nil, fmt.Errorf("%w: got %d", ErrDocumentCount, len(docs))
	}

	start := c.now()

	tables := make([]documentTable, 0, len(docs))
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tables = append(tables, buildDocumentTable(doc))
	}

	table := &ComparisonTable{
		ID:          uuid.New().String(),
		Legislation: leg.Name,
		Columns:     make([]SampleColumn, 0, len(tables)),
		CreatedAt:   start,
	}
	for _, t := range tables {
		table.Columns = append(table.Columns, t.column)
		table.Diagnostics.Documents = append(table.Diagnostics.Documents, t.diag)
	}

	table.Rows = mergeRows(tables)

	outlet := table.OutletColumn()
	if outlet < 0 {
		c.logger.Warn("no outlet column, all rows will be evaluated as missing",
			zap.String("first", table.Columns[0].Header),
			zap.String("second", table.Columns[1].Header))
	}

	for i := range table.Rows {
		row := &table.Rows[i]
		value := Missing
		if outlet >= 0 {
			value = row.Values[outlet]
		}
		row.Limit, row.Verdict = Evaluate(row.Parameter, value, leg.Limits)
		row.Legislation = leg.Name

		if _, ok := leg.Limits.Resolve(row.Parameter); !ok {
			table.Diagnostics.Unresolved = append(table.Diagnostics.Unresolved, UnresolvedParameter{
				Parameter:   row.Parameter,
				Suggestions: leg.Limits.Suggest(row.Parameter, c.suggestions),
			})
		}
	}

	for _, rule := range leg.Efficiencies {
		result := ComputeRemoval(table, rule.Parameter, rule.RequiredPercent)
		if result.Percent == nil {
			c.logger.Debug("removal efficiency not computed",
				zap.String("rule", rule.Name),
				zap.String("parameter", rule.Parameter))
			continue
		}
		table.Rows = append(table.Rows, efficiencyRow(rule, result, len(table.Columns), leg.Name))
	}

	table.Duration = c.now().Sub(start)

	counts := table.VerdictCounts()
	c.logger.Info("comparison finished",
		zap.String("id", table.ID),
		zap.String("legislation", leg.Name),
		zap.Int("rows", len(table.Rows)),
		zap.Int("conforme", counts[VerdictConforme]),
		zap.Int("nao_conforme", counts[VerdictNaoConforme]),
		zap.Int("avaliar", counts[VerdictAvaliar]),
		zap.Int("unresolved", len(table.Diagnostics.Unresolved)),
		zap.Duration("duration", table.Duration))

	return table, nil
}

func buildDocumentTable(doc Document) documentTable {
	tag := ExtractSampleTag(doc.Lines)
	report := ParseMeasurements(doc.Lines)

	t := documentTable{
		column: SampleColumn{
			Header: tag.Header(),
			Source: doc.Source,
			Tag:    tag,
		},
		results: make(map[measurementKey]string, len(report.Measurements)),
		order:   make([]measurementKey, 0, len(report.Measurements)),
		diag: DocumentDiagnostics{
			Source:       doc.Source,
			Tag:          tag,
			LineCount:    len(doc.Lines),
			Measurements: len(report.Measurements),
			Skipped:      report.Skipped,
		},
	}
	for _, m := range report.Measurements {
		key := measurementKey{name: m.Name, unit: m.Unit}
		t.results[key] = m.Result
		t.order = append(t.order, key)
	}
	return t
}

// mergeRows 按 (名称, 单位) 外连接各文档的测量表
func mergeRows(tables []documentTable) []ComparisonRow {
	var keys []measurementKey
	index := make(map[measurementKey]struct{})
	for _, t := range tables {
		for _, key := range t.order {
			if _, ok := index[key]; ok {
				continue
			}
			index[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	rows := make([]ComparisonRow, 0, len(keys))
	for _, key := range keys {
		values := make([]Value, len(tables))
		for i, t := range tables {
			if raw, ok := t.results[key]; ok {
				values[i] = Present(raw)
			}
		}
		rows = append(rows, ComparisonRow{
			Parameter: key.name,
			Unit:      key.unit,
			Values:    values,
		})
	}
	return rows
}

func efficiencyRow(rule EfficiencyRule, result RemovalResult, columns int, legislation string) ComparisonRow {
	values := make([]Value, columns)
	if columns > 0 {
		values[0] = Present(FormatNumber(*result.Percent))
	}
	var limit *Limit
	if result.Threshold != nil {
		l := AtLeast(*result.Threshold)
		limit = &l
	}
	return ComparisonRow{
		Parameter:   rule.Name,
		Unit:        EfficiencyUnit,
		Values:      values,
		Limit:       limit,
		Verdict:     result.Verdict,
		Legislation: legislation,
		Derived:     true,
	}
}

func columnContaining(cols []SampleColumn, substr string) int {
	for i, col := range cols {
		if strings.Contains(col.Header, substr) {
			return i
		}
	}
	return -1
}
