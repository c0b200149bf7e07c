package laudo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSampleTag(t *testing.T) {
	tests := []struct {
		name     string
		lines    []string
		expected SampleTag
	}{
		{
			name:     "id and direction on separate lines",
			lines:    []string{"LAUDO DE ANÁLISE", "Nº Amostra: 1234-2024", "Ponto de coleta: Saída ETE"},
			expected: SampleTag{ID: "1234", Direction: DirectionOutlet},
		},
		{
			name:     "id and direction on the same line",
			lines:    []string{"Amostra: 55-1 Entrada"},
			expected: SampleTag{ID: "55", Direction: DirectionInlet},
		},
		{
			name:     "last id wins",
			lines:    []string{"Amostra: 1-1", "Entrada", "Nº Amostra: 2-9"},
			expected: SampleTag{ID: "2", Direction: DirectionInlet},
		},
		{
			name:     "last direction wins",
			lines:    []string{"Amostra: 7-1 Saída", "Entrada do efluente bruto"},
			expected: SampleTag{ID: "7", Direction: DirectionInlet},
		},
		{
			name:     "outlet checked before inlet on the same line",
			lines:    []string{"Amostra: 8-3", "Entrada / Saída"},
			expected: SampleTag{ID: "8", Direction: DirectionOutlet},
		},
		{
			name:     "id without direction",
			lines:    []string{"Amostra: 9-0"},
			expected: SampleTag{ID: "9", Direction: DirectionUnknown},
		},
		{
			name:     "direction without id",
			lines:    []string{"Ponto de coleta: Saída"},
			expected: SampleTag{Direction: DirectionUnknown},
		},
		{
			name:     "id requires suffix",
			lines:    []string{"Amostra: 1234", "Saída"},
			expected: SampleTag{Direction: DirectionUnknown},
		},
		{
			name:     "empty",
			lines:    nil,
			expected: SampleTag{Direction: DirectionUnknown},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractSampleTag(tt.lines))
		})
	}
}

func TestSampleTagHeader(t *testing.T) {
	assert.Equal(t, "Amostra 1234 (Saída)", SampleTag{ID: "1234", Direction: DirectionOutlet}.Header())
	assert.Equal(t, "Amostra 55 (Entrada)", SampleTag{ID: "55", Direction: DirectionInlet}.Header())
	assert.Equal(t, "Amostra - (Indefinido)", SampleTag{}.Header())
}

func TestDirectionText(t *testing.T) {
	for _, d := range []Direction{DirectionUnknown, DirectionInlet, DirectionOutlet} {
		text, err := d.MarshalText()
		assert.NoError(t, err)

		var parsed Direction
		assert.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, d, parsed)
	}
	assert.Equal(t, DirectionUnknown, ParseDirection("saida"))
}
