package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// CSVWriter CSV 输出，第一行为表头
type CSVWriter struct {
	// Comma 分隔符，为 0 时使用 ','
	Comma rune
}

// Write 输出 CSV
func (w *CSVWriter) Write(out io.Writer, t *laudo.ComparisonTable) error {
	writer := csv.NewWriter(out)
	if w.Comma != 0 {
		writer.Comma = w.Comma
	}

	if err := writer.Write(t.Headers()); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}
	for _, record := range t.Records() {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
