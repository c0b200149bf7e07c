package export

import (
	"encoding/json"
	"io"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// JSONWriter 输出完整的比对结果，包括诊断信息
type JSONWriter struct {
	Indent string
}

// Write 输出 JSON
func (w *JSONWriter) Write(out io.Writer, t *laudo.ComparisonTable) error {
	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	if w.Indent != "" {
		encoder.SetIndent("", w.Indent)
	}
	return encoder.Encode(t)
}
