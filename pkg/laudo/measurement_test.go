package laudo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMeasurements(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Measurement
	}{
		{
			name:     "decimal comma",
			line:     "Demanda Bioquímica de Oxigênio 45,0 mg/L",
			expected: Measurement{Name: "Demanda Bioquímica de Oxigênio", Result: "45.0", Unit: "mg/L"},
		},
		{
			name:     "pH",
			line:     "pH 7,2",
			expected: Measurement{Name: "pH", Result: "7.2", Unit: PHUnit, Numeric: true},
		},
		{
			name:     "pH keeps stated precision",
			line:     "pH 7,0",
			expected: Measurement{Name: "pH", Result: "7.0", Unit: PHUnit, Numeric: true},
		},
		{
			name:     "pH uppercase",
			line:     "PH 6.5 a 25 ºC",
			expected: Measurement{Name: "pH", Result: "6.5", Unit: PHUnit, Numeric: true},
		},
		{
			name:     "less than with space",
			line:     "Óleos e Graxas < 5,0 mg/L",
			expected: Measurement{Name: "Óleos e Graxas", Result: "<5.0", Unit: "mg/L"},
		},
		{
			name:     "mL/L",
			line:     "Sólidos Sedimentáveis <0,1 mL/L",
			expected: Measurement{Name: "Sólidos Sedimentáveis", Result: "<0.1", Unit: "mL/L"},
		},
		{
			name:     "temperature",
			line:     "Temperatura da Amostra 25 ºC",
			expected: Measurement{Name: "Temperatura da Amostra", Result: "25", Unit: "ºC"},
		},
		{
			name:     "trailing text",
			line:     "  Demanda Química de Oxigênio 120 mg/L SMWW 5220 D  ",
			expected: Measurement{Name: "Demanda Química de Oxigênio", Result: "120", Unit: "mg/L"},
		},
		{
			name:     "non-breaking spaces",
			line:     "Fósforo\u00a0total\u00a00,35\u202fmg/L",
			expected: Measurement{Name: "Fósforo total", Result: "0.35", Unit: "mg/L"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractMeasurements([]string{tt.line})
			require.Len(t, got, 1)
			assert.Equal(t, tt.expected, got[0])
		})
	}
}

func TestParseMeasurementsSkipped(t *testing.T) {
	lines := []string{
		"LAUDO DE ANÁLISE",
		"",
		"   ",
		"Página 1 de 2",
		"Coliformes Termotolerantes 1,1E+03 NMP/100mL",
		"Demanda Bioquímica de Oxigênio 200 mg/L",
	}

	report := ParseMeasurements(lines)
	require.Len(t, report.Measurements, 1)
	assert.Equal(t, "200", report.Measurements[0].Result)
	assert.Equal(t, []string{
		"LAUDO DE ANÁLISE",
		"Página 1 de 2",
		"Coliformes Termotolerantes 1,1E+03 NMP/100mL",
	}, report.Skipped)
}

func TestParseMeasurementsDeduplicates(t *testing.T) {
	lines := []string{
		"Demanda Bioquímica de Oxigênio 200 mg/L",
		"pH 7,0",
		"Demanda Bioquímica de Oxigênio 180 mg/L",
		"pH 8,0",
		"Demanda Bioquímica de Oxigênio 10 ºC",
	}

	got := ExtractMeasurements(lines)
	require.Len(t, got, 3)
	assert.Equal(t, "200", got[0].Result)
	assert.Equal(t, "7.0", got[1].Result)
	// 单位不同视为不同的测量
	assert.Equal(t, "ºC", got[2].Unit)
}
