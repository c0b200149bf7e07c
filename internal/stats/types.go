package stats

import (
	"time"
)

// 比对状态
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// StatisticsDB 统计数据库结构
type StatisticsDB struct {
	Version     string    `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`

	// 总体统计
	TotalComparisons int64         `json:"total_comparisons"`
	TotalDocuments   int64         `json:"total_documents"`
	TotalRows        int64         `json:"total_rows"`
	TotalErrors      int64         `json:"total_errors"`
	TotalDuration    time.Duration `json:"total_duration"`

	// 判定结果统计
	Verdicts VerdictTotals `json:"verdicts"`

	// 法规统计
	Legislations map[string]*LegislationStats `json:"legislations"`

	// 参数统计，键为参数名
	Parameters map[string]*ParameterStats `json:"parameters"`

	// 最近的比对记录
	RecentComparisons []*ComparisonRecord `json:"recent_comparisons"`

	// 性能统计
	PerformanceStats PerformanceStatistics `json:"performance_stats"`
}

// VerdictTotals 各判定结果的累计行数
type VerdictTotals struct {
	Conforme    int64 `json:"conforme"`
	NaoConforme int64 `json:"nao_conforme"`
	Avaliar     int64 `json:"avaliar"`
}

// Total 返回总行数
func (v VerdictTotals) Total() int64 {
	return v.Conforme + v.NaoConforme + v.Avaliar
}

// LegislationStats 法规统计
type LegislationStats struct {
	Legislation     string        `json:"legislation"`
	ComparisonCount int64         `json:"comparison_count"`
	ErrorCount      int64         `json:"error_count"`
	Verdicts        VerdictTotals `json:"verdicts"`
	AverageDuration time.Duration `json:"average_duration"`
	LastUsed        time.Time     `json:"last_used"`
}

// ParameterStats 参数统计
type ParameterStats struct {
	Parameter   string    `json:"parameter"`
	NaoConforme int64     `json:"nao_conforme"`
	Unresolved  int64     `json:"unresolved"`
	LastSeen    time.Time `json:"last_seen"`
}

// ComparisonRecord 比对记录
type ComparisonRecord struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Documents   []string  `json:"documents"`
	Samples     []string  `json:"samples,omitempty"`
	Legislation string    `json:"legislation"`

	// 统计信息
	Rows          int           `json:"rows"`
	Verdicts      VerdictTotals `json:"verdicts"`
	NonConforming []string      `json:"non_conforming,omitempty"`
	Unresolved    []string      `json:"unresolved,omitempty"`
	SkippedLines  int           `json:"skipped_lines"`
	Duration      time.Duration `json:"duration"`
	Status        string        `json:"status"`

	// 错误信息
	ErrorMessage string `json:"error_message,omitempty"`
}

// clone 深拷贝
func (s *StatisticsDB) clone() *StatisticsDB {
	c := *s

	c.Legislations = make(map[string]*LegislationStats, len(s.Legislations))
	for name, leg := range s.Legislations {
		l := *leg
		c.Legislations[name] = &l
	}

	c.Parameters = make(map[string]*ParameterStats, len(s.Parameters))
	for name, param := range s.Parameters {
		p := *param
		c.Parameters[name] = &p
	}

	c.RecentComparisons = make([]*ComparisonRecord, 0, len(s.RecentComparisons))
	for _, record := range s.RecentComparisons {
		c.RecentComparisons = append(c.RecentComparisons, record.clone())
	}
	return &c
}

func (r *ComparisonRecord) clone() *ComparisonRecord {
	c := *r
	c.Documents = append([]string(nil), r.Documents...)
	c.Samples = append([]string(nil), r.Samples...)
	c.NonConforming = append([]string(nil), r.NonConforming...)
	c.Unresolved = append([]string(nil), r.Unresolved...)
	return &c
}

// Failed 是否失败
func (r *ComparisonRecord) Failed() bool {
	return r.Status == StatusFailed
}

// PerformanceStatistics 性能统计
type PerformanceStatistics struct {
	AverageDuration   time.Duration `json:"average_duration"`
	FastestComparison time.Duration `json:"fastest_comparison"`
	SlowestComparison time.Duration `json:"slowest_comparison"`
	AverageRows       float64       `json:"average_rows"`
}
