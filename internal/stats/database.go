package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	StatsDBVersion   = "1.0.0"
	MaxRecentRecords = 100
)

// Database 比对统计数据库（JSON 文件）
type Database struct {
	filePath string
	data     *StatisticsDB
	mutex    sync.RWMutex
	logger   *zap.Logger
}

// NewDatabase 创建统计数据库
func NewDatabase(filePath string, logger *zap.Logger) (*Database, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	db := &Database{
		filePath: filePath,
		logger:   logger,
	}

	// 确保目录存在
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create stats directory: %w", err)
	}

	// 加载或创建数据
	if err := db.load(); err != nil {
		return nil, fmt.Errorf("failed to load stats database: %w", err)
	}

	return db, nil
}

// Path 返回数据库文件路径
func (db *Database) Path() string {
	return db.filePath
}

func newStatisticsDB() *StatisticsDB {
	now := time.Now()
	return &StatisticsDB{
		Version:           StatsDBVersion,
		CreatedAt:         now,
		LastUpdated:       now,
		Legislations:      make(map[string]*LegislationStats),
		Parameters:        make(map[string]*ParameterStats),
		RecentComparisons: make([]*ComparisonRecord, 0),
	}
}

// load 加载统计数据
func (db *Database) load() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	// 检查文件是否存在
	if _, err := os.Stat(db.filePath); os.IsNotExist(err) {
		db.data = newStatisticsDB()
		return db.saveUnsafe()
	}

	data, err := os.ReadFile(db.filePath)
	if err != nil {
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	var statsDB StatisticsDB
	if err := json.Unmarshal(data, &statsDB); err != nil {
		return fmt.Errorf("failed to parse stats file: %w", err)
	}

	// 初始化可能为 nil 的字段
	if statsDB.Legislations == nil {
		statsDB.Legislations = make(map[string]*LegislationStats)
	}
	if statsDB.Parameters == nil {
		statsDB.Parameters = make(map[string]*ParameterStats)
	}
	if statsDB.RecentComparisons == nil {
		statsDB.RecentComparisons = make([]*ComparisonRecord, 0)
	}

	db.data = &statsDB
	db.logger.Debug("loaded statistics database",
		zap.String("version", statsDB.Version),
		zap.Time("created_at", statsDB.CreatedAt),
		zap.Int64("total_comparisons", statsDB.TotalComparisons))

	return nil
}

// Save 保存统计数据
func (db *Database) Save() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()
	return db.saveUnsafe()
}

// saveUnsafe 不安全的保存（需要已持有锁）
func (db *Database) saveUnsafe() error {
	db.data.LastUpdated = time.Now()
	return writeJSONAtomic(db.filePath, db.data)
}

// writeJSONAtomic 先写临时文件再重命名
func writeJSONAtomic(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal stats data: %w", err)
	}

	tempFile := path + ".tmp"
	if err := os.WriteFile(tempFile, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp stats file: %w", err)
	}

	if err := os.Rename(tempFile, path); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename stats file: %w", err)
	}

	return nil
}

// AddComparisonRecord 添加比对记录
func (db *Database) AddComparisonRecord(record *ComparisonRecord) error {
	if record == nil {
		return fmt.Errorf("nil comparison record")
	}

	db.mutex.Lock()
	defer db.mutex.Unlock()

	failed := record.Failed()

	// 更新总体统计
	db.data.TotalComparisons++
	db.data.TotalDocuments += int64(len(record.Documents))
	db.data.TotalRows += int64(record.Rows)
	db.data.TotalDuration += record.Duration
	if failed {
		db.data.TotalErrors++
	}
	addVerdicts(&db.data.Verdicts, record.Verdicts)

	// 更新法规统计
	if record.Legislation != "" {
		leg, exists := db.data.Legislations[record.Legislation]
		if !exists {
			leg = &LegislationStats{Legislation: record.Legislation}
			db.data.Legislations[record.Legislation] = leg
		}

		leg.ComparisonCount++
		if failed {
			leg.ErrorCount++
		}
		addVerdicts(&leg.Verdicts, record.Verdicts)
		leg.LastUsed = record.Timestamp

		// 计算平均持续时间
		totalDuration := time.Duration(int64(leg.AverageDuration) * (leg.ComparisonCount - 1))
		leg.AverageDuration = (totalDuration + record.Duration) / time.Duration(leg.ComparisonCount)
	}

	// 更新参数统计
	for _, name := range record.NonConforming {
		db.parameterUnsafe(name, record.Timestamp).NaoConforme++
	}
	for _, name := range record.Unresolved {
		db.parameterUnsafe(name, record.Timestamp).Unresolved++
	}

	// 添加到最近记录
	db.data.RecentComparisons = append(db.data.RecentComparisons, record)

	// 保持最近记录数量限制
	if len(db.data.RecentComparisons) > MaxRecentRecords {
		sort.SliceStable(db.data.RecentComparisons, func(i, j int) bool {
			return db.data.RecentComparisons[i].Timestamp.After(db.data.RecentComparisons[j].Timestamp)
		})
		db.data.RecentComparisons = db.data.RecentComparisons[:MaxRecentRecords]
	}

	if !failed {
		db.updatePerformanceStats(record)
	}

	db.logger.Debug("comparison recorded",
		zap.String("id", record.ID),
		zap.String("status", record.Status))

	return db.saveUnsafe()
}

func (db *Database) parameterUnsafe(name string, seen time.Time) *ParameterStats {
	p, exists := db.data.Parameters[name]
	if !exists {
		p = &ParameterStats{Parameter: name}
		db.data.Parameters[name] = p
	}
	p.LastSeen = seen
	return p
}

func addVerdicts(dst *VerdictTotals, src VerdictTotals) {
	dst.Conforme += src.Conforme
	dst.NaoConforme += src.NaoConforme
	dst.Avaliar += src.Avaliar
}

// updatePerformanceStats 更新性能统计，只统计成功的比对
func (db *Database) updatePerformanceStats(record *ComparisonRecord) {
	perf := &db.data.PerformanceStats
	completed := db.data.TotalComparisons - db.data.TotalErrors
	if completed <= 0 {
		return
	}

	totalDuration := time.Duration(int64(perf.AverageDuration) * (completed - 1))
	perf.AverageDuration = (totalDuration + record.Duration) / time.Duration(completed)
	perf.AverageRows = (perf.AverageRows*float64(completed-1) + float64(record.Rows)) / float64(completed)

	if perf.FastestComparison == 0 || record.Duration < perf.FastestComparison {
		perf.FastestComparison = record.Duration
	}
	if record.Duration > perf.SlowestComparison {
		perf.SlowestComparison = record.Duration
	}
}

// GetStats 获取统计数据（只读副本）
func (db *Database) GetStats() *StatisticsDB {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	return db.data.clone()
}

// GetRecentComparisons 获取最近的比对记录（最新的在前）
func (db *Database) GetRecentComparisons(limit int) []*ComparisonRecord {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if limit <= 0 || limit > len(db.data.RecentComparisons) {
		limit = len(db.data.RecentComparisons)
	}

	sorted := make([]*ComparisonRecord, 0, len(db.data.RecentComparisons))
	for _, record := range db.data.RecentComparisons {
		sorted = append(sorted, record.clone())
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	return sorted[:limit]
}

// Export 把统计数据导出到另一个 JSON 文件
func (db *Database) Export(path string) error {
	db.mutex.RLock()
	defer db.mutex.RUnlock()

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create export directory: %w", err)
		}
	}
	return writeJSONAtomic(path, db.data)
}

// Reset 清空所有统计数据
func (db *Database) Reset() error {
	db.mutex.Lock()
	defer db.mutex.Unlock()

	db.data = newStatisticsDB()
	db.logger.Info("statistics database reset", zap.String("path", db.filePath))
	return db.saveUnsafe()
}
