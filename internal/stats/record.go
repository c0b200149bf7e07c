package stats

import (
	"time"

	"github.com/google/uuid"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// NewComparisonRecord 根据比对结果生成记录
func NewComparisonRecord(table *laudo.ComparisonTable) *ComparisonRecord {
	record := &ComparisonRecord{
		ID:          table.ID,
		Timestamp:   table.CreatedAt,
		Legislation: table.Legislation,
		Rows:        len(table.Rows),
		Duration:    table.Duration,
		Status:      StatusCompleted,
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	for _, col := range table.Columns {
		record.Documents = append(record.Documents, col.Source)
		record.Samples = append(record.Samples, col.Header)
	}

	for _, row := range table.Rows {
		switch row.Verdict {
		case laudo.VerdictConforme:
			record.Verdicts.Conforme++
		case laudo.VerdictNaoConforme:
			record.Verdicts.NaoConforme++
			record.NonConforming = append(record.NonConforming, row.Parameter)
		default:
			record.Verdicts.Avaliar++
		}
	}

	for _, u := range table.Diagnostics.Unresolved {
		record.Unresolved = append(record.Unresolved, u.Parameter)
	}
	for _, doc := range table.Diagnostics.Documents {
		record.SkippedLines += len(doc.Skipped)
	}

	return record
}

// NewFailedRecord 生成失败的比对记录
func NewFailedRecord(paths []string, legislation string, duration time.Duration, err error) *ComparisonRecord {
	record := &ComparisonRecord{
		ID:          uuid.New().String(),
		Timestamp:   time.Now(),
		Documents:   append([]string(nil), paths...),
		Legislation: legislation,
		Duration:    duration,
		Status:      StatusFailed,
	}
	if err != nil {
		record.ErrorMessage = err.Error()
	}
	return record
}
