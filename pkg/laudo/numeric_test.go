package laudo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			raw      string
			expected float64
		}{
			{"45.0", 45},
			{"45,0", 45},
			{"<5,0", 5},
			{"< 5.0", 5},
			{" 7,2 ", 7.2},
			{"0", 0},
			{"120", 120},
		}
		for _, tt := range tests {
			v, err := ParseNumber(tt.raw)
			require.NoError(t, err, tt.raw)
			assert.InDelta(t, tt.expected, v, 1e-9, tt.raw)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, raw := range []string{"", "<", "ND", "abc", "1.2.3", "NaN", "Inf", "-Inf"} {
			_, err := ParseNumber(raw)
			assert.ErrorIs(t, err, ErrInvalidNumber, raw)
		}
	})
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "60", FormatNumber(60))
	assert.Equal(t, "7.2", FormatNumber(7.2))
	assert.Equal(t, "0.1", FormatNumber(0.1))
	assert.Equal(t, "66.67", FormatNumber(round2(200.0/300.0*100)))
}
