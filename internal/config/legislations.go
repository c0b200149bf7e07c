package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/nerdneilsfield/go-laudo-comparator/pkg/laudo"
)

// LegislationsFile 自定义法规文件
//
//	[[legislation]]
//	name = "Municipal"
//
//	[[legislation.limit]]
//	parameter = "pH"
//	min = 6.0
//	max = 9.0
//
//	[[legislation.efficiency]]
//	name = "Eficiência de Remoção de DBO"
//	parameter = "Demanda Bioquímica de Oxigênio"
//	required_percent = 70.0
type LegislationsFile struct {
	Legislations []LegislationDef `toml:"legislation"`
}

// LegislationDef 文件中的一套法规
type LegislationDef struct {
	Name   string     `toml:"name"`
	Limits []LimitDef `toml:"limit"`
	// Efficiencies 未配置时使用默认的 DBO/DQO 规则
	Efficiencies []laudo.EfficiencyRule `toml:"efficiency"`
	// NoEfficiencies 为 true 时不追加任何效率行
	NoEfficiencies bool `toml:"no_efficiencies"`
}

// LimitDef 限值项，设置 min 时为闭区间
type LimitDef struct {
	Parameter string   `toml:"parameter"`
	Min       *float64 `toml:"min"`
	Max       *float64 `toml:"max"`
}

// LoadLegislations 从 TOML 文件加载法规
func LoadLegislations(path string) ([]laudo.Legislation, error) {
	// check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("legislations file not found: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read legislations file: %w", err)
	}

	var file LegislationsFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal legislations: %w", err)
	}
	if len(file.Legislations) == 0 {
		return nil, fmt.Errorf("legislations file %s defines no legislation", path)
	}

	out := make([]laudo.Legislation, 0, len(file.Legislations))
	for i, def := range file.Legislations {
		leg, err := def.build()
		if err != nil {
			return nil, fmt.Errorf("legislation %d: %w", i+1, err)
		}
		out = append(out, leg)
	}
	return out, nil
}

// RegisterLegislations 加载法规文件并注册到目录，同名法规会覆盖内置法规
func RegisterLegislations(catalogue *laudo.Catalogue, path string) ([]string, error) {
	legs, err := LoadLegislations(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(legs))
	for _, leg := range legs {
		catalogue.Register(leg)
		names = append(names, leg.Name)
	}
	return names, nil
}

func (s LegislationDef) build() (laudo.Legislation, error) {
	if s.Name == "" {
		return laudo.Legislation{}, fmt.Errorf("name must be specified")
	}
	if len(s.Limits) == 0 {
		return laudo.Legislation{}, fmt.Errorf("%s: at least one limit must be configured", s.Name)
	}

	entries := make([]laudo.LimitEntry, 0, len(s.Limits))
	for i, l := range s.Limits {
		if l.Parameter == "" {
			return laudo.Legislation{}, fmt.Errorf("%s: limit %d: parameter must be specified", s.Name, i+1)
		}
		if l.Max == nil {
			return laudo.Legislation{}, fmt.Errorf("%s: limit %q: max must be specified", s.Name, l.Parameter)
		}

		limit := laudo.Ceiling(*l.Max)
		if l.Min != nil {
			if *l.Min > *l.Max {
				return laudo.Legislation{}, fmt.Errorf("%s: limit %q: min greater than max", s.Name, l.Parameter)
			}
			limit = laudo.Between(*l.Min, *l.Max)
		}
		entries = append(entries, laudo.LimitEntry{Parameter: l.Parameter, Limit: limit})
	}

	efficiencies := s.Efficiencies
	if s.NoEfficiencies {
		efficiencies = []laudo.EfficiencyRule{}
	}
	for i, e := range efficiencies {
		if e.Name == "" || e.Parameter == "" {
			return laudo.Legislation{}, fmt.Errorf("%s: efficiency %d: name and parameter must be specified", s.Name, i+1)
		}
	}

	return laudo.NewLegislation(s.Name, laudo.NewLimits(entries...), efficiencies), nil
}
