package laudo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Limit 法规限值：标量上限、闭区间 [Min, Max] 或下限（去除效率）
type Limit struct {
	Min   float64 `json:"min,omitempty" toml:"min"`
	Max   float64 `json:"max,omitempty" toml:"max"`
	Range bool    `json:"range,omitempty" toml:"-"`
	Floor bool    `json:"floor,omitempty" toml:"-"` // 只有下限 Min
}

// Ceiling 创建标量上限
func Ceiling(max float64) Limit {
	return Limit{Max: max}
}

// Between 创建闭区间限值
func Between(min, max float64) Limit {
	return Limit{Min: min, Max: max, Range: true}
}

// AtLeast 创建下限，用于去除效率这类越大越好的指标
func AtLeast(min float64) Limit {
	return Limit{Min: min, Floor: true}
}

// Allows 判断数值是否满足限值（边界包含）
func (l Limit) Allows(v float64) bool {
	if l.Floor {
		return v >= l.Min
	}
	if l.Range {
		return l.Min <= v && v <= l.Max
	}
	return v <= l.Max
}

// String 返回限值的文本形式，例如 "60"、"5 - 9" 或 "≥ 75"
func (l Limit) String() string {
	if l.Floor {
		return "≥ " + FormatNumber(l.Min)
	}
	if l.Range {
		return fmt.Sprintf("%s - %s", FormatNumber(l.Min), FormatNumber(l.Max))
	}
	return FormatNumber(l.Max)
}

// LimitEntry 限值表中的一项
type LimitEntry struct {
	Parameter string
	Limit     Limit
}

// Limits 有序且不可变的限值表，按插入顺序遍历
type Limits struct {
	entries    []LimitEntry
	normalized []string
}

// NewLimits 创建限值表，后出现的同名参数被忽略
func NewLimits(entries ...LimitEntry) Limits {
	l := Limits{
		entries:    make([]LimitEntry, 0, len(entries)),
		normalized: make([]string, 0, len(entries)),
	}
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if _, dup := seen[e.Parameter]; dup {
			continue
		}
		seen[e.Parameter] = struct{}{}
		l.entries = append(l.entries, e)
		l.normalized = append(l.normalized, Normalize(e.Parameter))
	}
	return l
}

// Len 返回限值数量
func (l Limits) Len() int {
	return len(l.entries)
}

// Entries 返回限值项的副本
func (l Limits) Entries() []LimitEntry {
	out := make([]LimitEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Get 按参数名精确查找
func (l Limits) Get(parameter string) (Limit, bool) {
	for _, e := range l.entries {
		if e.Parameter == parameter {
			return e.Limit, true
		}
	}
	return Limit{}, false
}

// Resolve 模糊查找参数的限值
//
// 规范化后双向子串包含即视为匹配，按插入顺序返回第一个匹配项（不是最佳匹配）。
// 多个键都可能匹配同一名称时，结果取决于表的顺序。
func (l Limits) Resolve(parameter string) (Limit, bool) {
	name := Normalize(parameter)
	for i, key := range l.normalized {
		if containsEither(name, key) {
			return l.entries[i].Limit, true
		}
	}
	return Limit{}, false
}

// Suggest 按编辑距离返回最接近的若干个键，仅用于诊断
func (l Limits) Suggest(parameter string, n int) []string {
	if n <= 0 || len(l.entries) == 0 {
		return nil
	}
	name := Normalize(parameter)
	if name == "" {
		return nil
	}

	type candidate struct {
		key      string
		distance int
	}
	candidates := make([]candidate, 0, len(l.entries))
	for i, key := range l.normalized {
		d := fuzzy.LevenshteinDistance(name, key)
		// 子序列匹配的键视为更接近
		if fuzzy.Match(key, name) || fuzzy.Match(name, key) {
			d /= 2
		}
		if d > maxSuggestDistance(name, key) {
			continue
		}
		candidates = append(candidates, candidate{key: l.entries[i].Parameter, distance: d})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > n {
		candidates = candidates[:n]
	}
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.key)
	}
	return out
}

func maxSuggestDistance(a, b string) int {
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest/3 < 3 {
		return 3
	}
	return longest / 3
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
