package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-laudo-comparator/internal/document"
	"github.com/nerdneilsfield/go-laudo-comparator/internal/export"
	"github.com/nerdneilsfield/go-laudo-comparator/internal/stats"
	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

const (
	entradaTXT = `LAUDO DE ANÁLISE
Nº Amostra: 1001-2024
Ponto de coleta: Entrada ETE
Demanda Bioquímica de Oxigênio 200 mg/L
pH 7,0
`
	saidaTXT = `LAUDO DE ANÁLISE
Nº Amostra: 1002-2024
Ponto de coleta: Saída ETE
Demanda Bioquímica de Oxigênio 40 mg/L
pH 7,5
Óleos e Graxas < 5,0 mg/L
`
)

// setupEnv 隔离配置和统计文件
func setupEnv(t *testing.T) (dir, statsFile string) {
	t.Helper()
	dir = t.TempDir()
	statsFile = filepath.Join(dir, "stats.json")
	t.Setenv("HOME", dir)
	t.Setenv("LAUDOS_STATS_FILE", statsFile)
	return dir, statsFile
}

func writeLaudos(t *testing.T, dir string) (string, string) {
	t.Helper()
	entrada := filepath.Join(dir, "entrada.txt")
	saida := filepath.Join(dir, "saida.txt")
	require.NoError(t, os.WriteFile(entrada, []byte(entradaTXT), 0o644))
	require.NoError(t, os.WriteFile(saida, []byte(saidaTXT), 0o644))
	return entrada, saida
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := NewRootCommand("test", "abc123", "2024-03-01")
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCLIMissingArgs(t *testing.T) {
	setupEnv(t)

	for _, args := range [][]string{{}, {"only-one.pdf"}, {"a.pdf", "b.pdf", "c.pdf"}} {
		out, err := runCLI(t, args...)
		require.Error(t, err)
		assert.True(t, errors.Is(err, laudo.ErrDocumentCount), "args %v: %v", args, err)
		assert.Contains(t, out, "entrada and saída")
	}
}

func TestCLIHelp(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "laudos [flags] laudo1 laudo2")
	assert.Contains(t, out, "--legislation")
	assert.Contains(t, out, "--show-skipped")
	assert.Contains(t, out, "CONAMA 430/2011")
}

func TestCLIVersion(t *testing.T) {
	setupEnv(t)

	out, err := runCLI(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "commit abc123")
	assert.Contains(t, out, "built 2024-03-01")
}

func TestCLIListLegislations(t *testing.T) {
	dir, _ := setupEnv(t)

	out, err := runCLI(t, "--list-legislations")
	require.NoError(t, err)
	assert.Contains(t, out, "* "+laudo.LegislationDNCopam)
	assert.Contains(t, out, laudo.LegislationConama430)

	tomlPath := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte(`
[[legislation]]
name = "Municipal"

[[legislation.limit]]
parameter = "pH"
min = 6.0
max = 9.0
`), 0o644))

	out, err = runCLI(t, "--list-legislations", "--legislations-file", tomlPath, "-l", "Municipal")
	require.NoError(t, err)
	assert.Contains(t, out, "* Municipal")
}

func TestCLIUnknownLegislation(t *testing.T) {
	dir, _ := setupEnv(t)
	entrada, saida := writeLaudos(t, dir)

	_, err := runCLI(t, "-l", "Inexistente", entrada, saida)
	require.Error(t, err)
	assert.True(t, errors.Is(err, laudo.ErrUnknownLegislation))
}

func TestCLIUnknownFormat(t *testing.T) {
	dir, _ := setupEnv(t)
	entrada, saida := writeLaudos(t, dir)

	_, err := runCLI(t, "--format", "docx", entrada, saida)
	require.Error(t, err)
}

func TestCLICompareTable(t *testing.T) {
	dir, statsFile := setupEnv(t)
	entrada, saida := writeLaudos(t, dir)

	out, err := runCLI(t, "--show-skipped", entrada, saida)
	require.NoError(t, err)
	assert.Contains(t, out, laudo.LegislationDNCopam)
	assert.Contains(t, out, "Demanda Bioquímica de Oxigênio")
	assert.Contains(t, out, "Eficiência de Remoção de DBO")
	assert.Contains(t, out, "LAUDO DE ANÁLISE")

	db, err := stats.NewDatabase(statsFile, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(1), db.GetStats().TotalComparisons)
}

func TestCLIInfersFormatFromOutput(t *testing.T) {
	dir, _ := setupEnv(t)
	entrada, saida := writeLaudos(t, dir)
	output := filepath.Join(dir, "comparativo.xlsx")

	_, err := runCLI(t, "-o", output, "--no-stats", entrada, saida)
	require.NoError(t, err)

	f, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(export.DefaultSheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Análise", header)

	_, err = runCLI(t, "--format", "table", "-o", filepath.Join(dir, "outro.xlsx"), "--no-stats", entrada, saida)
	require.Error(t, err)
	assert.True(t, errors.Is(err, export.ErrFormatMismatch))
	assert.NoFileExists(t, filepath.Join(dir, "outro.xlsx"))
}

func TestCLICompareCSV(t *testing.T) {
	dir, statsFile := setupEnv(t)
	entrada, saida := writeLaudos(t, dir)
	output := filepath.Join(dir, "out", "comparativo.csv")

	out, err := runCLI(t, "--format", "csv", "-o", output, "--no-stats", saida, entrada)
	require.NoError(t, err)
	assert.Contains(t, out, output)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Análise")
	assert.Contains(t, content, "Amostra 1001-2024 (Entrada)")
	assert.Contains(t, content, "Eficiência de Remoção de DBO")
	assert.Contains(t, content, "80")

	_, err = os.Stat(statsFile)
	assert.True(t, os.IsNotExist(err), "--no-stats must not create the statistics file")
}

func TestCLICompareFailures(t *testing.T) {
	dir, statsFile := setupEnv(t)

	_, err := runCLI(t, filepath.Join(dir, "a.docx"), filepath.Join(dir, "b.docx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, document.ErrUnsupportedFormat))

	_, err = runCLI(t, filepath.Join(dir, "missing1.pdf"), filepath.Join(dir, "missing2.pdf"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, laudo.ErrDocumentDecode))

	db, err := stats.NewDatabase(statsFile, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, int64(2), db.GetStats().TotalErrors)
}

func TestStatsCommand(t *testing.T) {
	dir, _ := setupEnv(t)
	entrada, saida := writeLaudos(t, dir)

	_, err := runCLI(t, entrada, saida)
	require.NoError(t, err)

	out, err := runCLI(t, "stats", "--recent", "5")
	require.NoError(t, err)
	assert.Contains(t, out, "Comparison Statistics Overview")
	assert.Contains(t, out, laudo.LegislationDNCopam)
	assert.Contains(t, out, "Recent Comparisons")

	exported := filepath.Join(dir, "export", "stats.json")
	out, err = runCLI(t, "stats", "--export", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "Statistics exported")
	assert.FileExists(t, exported)

	out, err = runCLI(t, "stats", "--reset")
	require.NoError(t, err)
	assert.Contains(t, out, "reset cancelled")

	out, err = runCLI(t, "stats", "--reset", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Statistics have been reset")

	out, err = runCLI(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "No recent comparisons found.")
}

type countingExtractor struct {
	calls []string
}

func (c *countingExtractor) ExtractLines(_ context.Context, path string) ([]string, error) {
	c.calls = append(c.calls, path)
	return []string{"pH 7,0"}, nil
}

func TestProgressExtractor(t *testing.T) {
	var buf bytes.Buffer
	next := &countingExtractor{}

	progress, err := newProgressExtractor(next, 2, &buf)
	require.NoError(t, err)

	lines, err := progress.ExtractLines(context.Background(), "/tmp/entrada.pdf")
	require.NoError(t, err)
	assert.Equal(t, []string{"pH 7,0"}, lines)

	_, err = progress.ExtractLines(context.Background(), "/tmp/saida.pdf")
	require.NoError(t, err)
	progress.Stop()

	assert.Equal(t, []string{"/tmp/entrada.pdf", "/tmp/saida.pdf"}, next.calls)
	assert.Equal(t, 2, progress.bar.Current)
}
