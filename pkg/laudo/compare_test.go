package laudo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeExtractor 按路径返回预设的文本行
type fakeExtractor struct {
	docs  map[string][]string
	errs  map[string]error
	calls []string
}

func (f *fakeExtractor) ExtractLines(ctx context.Context, path string) ([]string, error) {
	f.calls = append(f.calls, path)
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	return f.docs[path], nil
}

var (
	inletLines = []string{
		"LAUDO DE ANÁLISE",
		"Nº Amostra: 1001-2024",
		"Ponto de coleta: Entrada ETE",
		"Demanda Bioquímica de Oxigênio 200 mg/L",
		"pH 7,0",
		"Fosfato total 1,2 mg/L",
	}
	outletLines = []string{
		"LAUDO DE ANÁLISE",
		"Nº Amostra: 1002-2024",
		"Ponto de coleta: Saída ETE",
		"Demanda Bioquímica de Oxigênio 40 mg/L",
		"pH 7,5",
		"Óleos e Graxas < 5,0 mg/L",
		"Fosfato total 0,8 mg/L",
	}
)

func newTestComparator(extractor LineExtractor) *Comparator {
	fixed := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return NewComparator(extractor, zap.NewNop(), WithClock(func() time.Time { return fixed }))
}

func TestCompareEndToEnd(t *testing.T) {
	extractor := &fakeExtractor{docs: map[string][]string{
		"entrada.pdf": inletLines,
		"saida.pdf":   outletLines,
	}}
	comparator := newTestComparator(extractor)

	table, err := comparator.CompareFiles(context.Background(), []string{"entrada.pdf", "saida.pdf"}, DNCopam())
	require.NoError(t, err)

	_, err = uuid.Parse(table.ID)
	assert.NoError(t, err)
	assert.Equal(t, LegislationDNCopam, table.Legislation)
	assert.Equal(t, []string{"entrada.pdf", "saida.pdf"}, extractor.calls)

	require.Len(t, table.Columns, 2)
	assert.Equal(t, "Amostra 1001 (Entrada)", table.Columns[0].Header)
	assert.Equal(t, "Amostra 1002 (Saída)", table.Columns[1].Header)
	assert.Equal(t, 1, table.OutletColumn())

	assert.Equal(t, []string{
		"Análise", "Unidade",
		"Amostra 1001 (Entrada)", "Amostra 1002 (Saída)",
		"Limite Legal", "Situação", "Legislação",
	}, table.Headers())

	var params []string
	for _, row := range table.Rows {
		params = append(params, row.Parameter)
	}
	assert.Equal(t, []string{
		"Demanda Bioquímica de Oxigênio",
		"pH",
		"Fosfato total",
		"Óleos e Graxas",
		"Eficiência de Remoção de DBO",
	}, params)

	dboRow, ok := table.Find("Demanda Bioquímica de Oxigênio", "mg/L")
	require.True(t, ok)
	assert.Equal(t, []Value{Present("200"), Present("40")}, dboRow.Values)
	require.NotNil(t, dboRow.Limit)
	assert.Equal(t, Ceiling(60), *dboRow.Limit)
	assert.Equal(t, VerdictConforme, dboRow.Verdict)
	assert.Equal(t, LegislationDNCopam, dboRow.Legislation)

	phRow, ok := table.Find("pH", PHUnit)
	require.True(t, ok)
	assert.Equal(t, []Value{Present("7.0"), Present("7.5")}, phRow.Values)
	assert.Equal(t, VerdictConforme, phRow.Verdict)

	ogRow, ok := table.Find("Óleos e Graxas", "mg/L")
	require.True(t, ok)
	assert.Equal(t, []Value{Missing, Present("<5.0")}, ogRow.Values)
	assert.Equal(t, VerdictConforme, ogRow.Verdict)

	fosfato, ok := table.Find("Fosfato total", "mg/L")
	require.True(t, ok)
	assert.Nil(t, fosfato.Limit)
	assert.Equal(t, VerdictAvaliar, fosfato.Verdict)

	eff, ok := table.Find("Eficiência de Remoção de DBO", EfficiencyUnit)
	require.True(t, ok)
	assert.True(t, eff.Derived)
	assert.Equal(t, []Value{Present("80"), Missing}, eff.Values)
	require.NotNil(t, eff.Limit)
	assert.Equal(t, AtLeast(75), *eff.Limit)
	assert.Equal(t, "≥ 75", eff.Limit.String())
	assert.Equal(t, VerdictConforme, eff.Verdict)
	// 限值与判定一致：80% 满足 ≥ 75%
	assert.True(t, eff.Limit.Allows(80))
	assert.False(t, eff.Limit.Allows(74.99))

	// 没有 DQO 数据，不追加 DQO 效率行
	_, ok = table.Find("Eficiência de Remoção de DQO", EfficiencyUnit)
	assert.False(t, ok)

	counts := table.VerdictCounts()
	assert.Equal(t, 4, counts[VerdictConforme])
	assert.Equal(t, 1, counts[VerdictAvaliar])
}

func TestCompareDiagnostics(t *testing.T) {
	comparator := newTestComparator(nil)
	docs := []Document{
		{Source: "a.pdf", Lines: inletLines},
		{Source: "b.pdf", Lines: outletLines},
	}

	table, err := comparator.Compare(context.Background(), docs, DNCopam())
	require.NoError(t, err)

	require.Len(t, table.Diagnostics.Documents, 2)
	first := table.Diagnostics.Documents[0]
	assert.Equal(t, "a.pdf", first.Source)
	assert.Equal(t, SampleTag{ID: "1001", Direction: DirectionInlet}, first.Tag)
	assert.Equal(t, len(inletLines), first.LineCount)
	assert.Equal(t, 3, first.Measurements)
	assert.Equal(t, []string{"LAUDO DE ANÁLISE", "Nº Amostra: 1001-2024", "Ponto de coleta: Entrada ETE"}, first.Skipped)

	require.Len(t, table.Diagnostics.Unresolved, 1)
	assert.Equal(t, "Fosfato total", table.Diagnostics.Unresolved[0].Parameter)
	assert.Contains(t, table.Diagnostics.Unresolved[0].Suggestions, "Fósforo total")

	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), table.CreatedAt)
}

func TestCompareIsOrderIndependent(t *testing.T) {
	comparator := newTestComparator(nil)
	a := Document{Source: "a.pdf", Lines: inletLines}
	b := Document{Source: "b.pdf", Lines: outletLines}

	forward, err := comparator.Compare(context.Background(), []Document{a, b}, DNCopam())
	require.NoError(t, err)
	backward, err := comparator.Compare(context.Background(), []Document{b, a}, DNCopam())
	require.NoError(t, err)

	verdicts := func(table *ComparisonTable) map[string]Verdict {
		out := make(map[string]Verdict, len(table.Rows))
		for _, row := range table.Rows {
			out[row.Parameter+"|"+row.Unit] = row.Verdict
		}
		return out
	}

	assert.Len(t, backward.Rows, len(forward.Rows))
	assert.Equal(t, verdicts(forward), verdicts(backward))
	assert.Equal(t, 0, backward.OutletColumn())
}

func TestCompareWithoutOutletColumn(t *testing.T) {
	comparator := newTestComparator(nil)
	docs := []Document{
		{Source: "a.pdf", Lines: inletLines},
		{Source: "b.pdf", Lines: []string{"Amostra: 3-1 Entrada", "Demanda Bioquímica de Oxigênio 10 mg/L"}},
	}

	table, err := comparator.Compare(context.Background(), docs, DNCopam())
	require.NoError(t, err)

	assert.Equal(t, -1, table.OutletColumn())
	for _, row := range table.Rows {
		assert.Nil(t, row.Limit, row.Parameter)
		assert.Equal(t, VerdictAvaliar, row.Verdict, row.Parameter)
		assert.False(t, row.Derived)
	}
}

func TestCompareMissingSampleMetadata(t *testing.T) {
	comparator := newTestComparator(nil)
	docs := []Document{
		{Source: "a.pdf", Lines: []string{"Demanda Bioquímica de Oxigênio 10 mg/L"}},
		{Source: "b.pdf", Lines: []string{"Saída", "Demanda Bioquímica de Oxigênio 5 mg/L"}},
	}

	table, err := comparator.Compare(context.Background(), docs, Conama430())
	require.NoError(t, err)

	assert.Equal(t, "Amostra - (Indefinido)", table.Columns[0].Header)
	assert.Equal(t, "Amostra - (Indefinido)", table.Columns[1].Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, VerdictAvaliar, table.Rows[0].Verdict)
}

func TestCompareDocumentCount(t *testing.T) {
	extractor := &fakeExtractor{}
	comparator := newTestComparator(extractor)

	for _, paths := range [][]string{nil, {"a.pdf"}, {"a.pdf", "b.pdf", "c.pdf"}} {
		_, err := comparator.CompareFiles(context.Background(), paths, DNCopam())
		assert.ErrorIs(t, err, ErrDocumentCount)
	}
	assert.Empty(t, extractor.calls, "no document may be read before the count check")

	_, err := comparator.Compare(context.Background(), []Document{{Source: "a.pdf"}}, DNCopam())
	assert.ErrorIs(t, err, ErrDocumentCount)
}

func TestCompareDecodeError(t *testing.T) {
	extractor := &fakeExtractor{
		docs: map[string][]string{"a.pdf": inletLines},
		errs: map[string]error{"b.pdf": NewDecodeError("b.pdf", errors.New("malformed xref"))},
	}
	comparator := newTestComparator(extractor)

	table, err := comparator.CompareFiles(context.Background(), []string{"a.pdf", "b.pdf"}, DNCopam())
	require.Error(t, err)
	assert.Nil(t, table)
	assert.True(t, IsDecodeError(err))

	var docErr *DocumentError
	require.ErrorAs(t, err, &docErr)
	assert.Equal(t, "b.pdf", docErr.Path)
	assert.Contains(t, err.Error(), "malformed xref")
}

func TestCompareCancelled(t *testing.T) {
	extractor := &fakeExtractor{docs: map[string][]string{"a.pdf": inletLines, "b.pdf": outletLines}}
	comparator := newTestComparator(extractor)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := comparator.CompareFiles(ctx, []string{"a.pdf", "b.pdf"}, DNCopam())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, extractor.calls)
}

func TestCompareCustomEfficiencies(t *testing.T) {
	leg := NewLegislation("custom", DNCopam().Limits, []EfficiencyRule{
		{Name: "Remoção de pH", Parameter: "pH", RequiredPercent: 1},
	})
	comparator := newTestComparator(nil)

	table, err := comparator.Compare(context.Background(), []Document{
		{Source: "a.pdf", Lines: inletLines},
		{Source: "b.pdf", Lines: outletLines},
	}, leg)
	require.NoError(t, err)

	last := table.Rows[len(table.Rows)-1]
	assert.Equal(t, "Remoção de pH", last.Parameter)
	// (7 - 7.5) / 7 * 100 = -7.14
	assert.Equal(t, Present("-7.14"), last.Values[0])
	assert.Equal(t, VerdictNaoConforme, last.Verdict)
	assert.Equal(t, "custom", last.Legislation)
}
