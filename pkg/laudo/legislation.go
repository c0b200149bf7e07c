package laudo

import (
	"fmt"
	"sync"
)

// 内置法规名称
const (
	LegislationDNCopam   = "DN COPAM (MG)"
	LegislationConama430 = "CONAMA 430/2011"
)

// Legislation 一套法规：名称、限值表和去除效率规则
type Legislation struct {
	Name         string
	Limits       Limits
	Efficiencies []EfficiencyRule
}

// NewLegislation 创建法规，efficiencies 为 nil 时使用默认的 DBO/DQO 规则
func NewLegislation(name string, limits Limits, efficiencies []EfficiencyRule) Legislation {
	if efficiencies == nil {
		efficiencies = DefaultEfficiencyRules()
	}
	rules := make([]EfficiencyRule, len(efficiencies))
	copy(rules, efficiencies)
	return Legislation{Name: name, Limits: limits, Efficiencies: rules}
}

// DNCopam 返回 DN COPAM (MG) 的限值
func DNCopam() Legislation {
	return NewLegislation(LegislationDNCopam, NewLimits(
		LimitEntry{"Demanda Bioquímica de Oxigênio", Ceiling(60.0)},
		LimitEntry{"Demanda Química de Oxigênio", Ceiling(180.0)},
		LimitEntry{"Sólidos Suspensos Totais", Ceiling(100.0)},
		LimitEntry{"Sólidos Sedimentáveis", Ceiling(1.0)},
		LimitEntry{"Óleos e Graxas", Ceiling(20.0)},
		LimitEntry{"Fósforo total", Ceiling(0.1)},
		LimitEntry{"Nitrogênio Amoniacal Total", Ceiling(3.7)},
		LimitEntry{"Surfactantes Aniônicos", Ceiling(0.5)},
		LimitEntry{"pH", Between(5.0, 9.0)},
		LimitEntry{"Temperatura da Amostra", Ceiling(40.0)},
	), nil)
}

// Conama430 返回 CONAMA 430/2011 的限值
func Conama430() Legislation {
	return NewLegislation(LegislationConama430, NewLimits(
		LimitEntry{"Demanda Bioquímica de Oxigênio", Ceiling(120.0)},
		LimitEntry{"Sólidos Suspensos Totais", Ceiling(100.0)},
		LimitEntry{"Sólidos Sedimentáveis", Ceiling(1.0)},
		LimitEntry{"Óleos e Graxas", Ceiling(100.0)},
		LimitEntry{"pH", Between(5.0, 9.0)},
		LimitEntry{"Temperatura da Amostra", Ceiling(40.0)},
	), nil)
}

// Catalogue 法规目录，按注册顺序列出
type Catalogue struct {
	mu    sync.RWMutex
	order []string
	items map[string]Legislation
}

// NewCatalogue 创建空目录
func NewCatalogue() *Catalogue {
	return &Catalogue{items: make(map[string]Legislation)}
}

// DefaultCatalogue 创建包含内置法规的目录
func DefaultCatalogue() *Catalogue {
	c := NewCatalogue()
	c.Register(DNCopam())
	c.Register(Conama430())
	return c
}

// Register 注册法规，同名法规会被替换但保留原来的顺序
func (c *Catalogue) Register(leg Legislation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.items[leg.Name]; !exists {
		c.order = append(c.order, leg.Name)
	}
	c.items[leg.Name] = leg
}

// Get 按名称获取法规
func (c *Catalogue) Get(name string) (Legislation, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	leg, ok := c.items[name]
	if !ok {
		return Legislation{}, fmt.Errorf("%w: %q", ErrUnknownLegislation, name)
	}
	return leg, nil
}

// Names 返回所有法规名称
func (c *Catalogue) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}
