package utils

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed nutrients.yaml
var nutrientsYAML []byte

// NutrientInfo describes how an Edamam nutrient tag is labelled and measured.
type NutrientInfo struct {
	Tag   string `yaml:"tag" json:"tag"`
	Label string `yaml:"label" json:"label"`
	Unit  string `yaml:"unit" json:"unit"`
	Macro bool   `yaml:"macro" json:"macro,omitempty"`
}

var (
	catalogOnce  sync.Once
	catalog      []NutrientInfo
	catalogIndex map[string]int
	catalogErr   error
)

func loadCatalog() {
	var doc struct {
		Nutrients []NutrientInfo `yaml:"nutrients"`
	}
	if err := yaml.Unmarshal(nutrientsYAML, &doc); err != nil {
		catalogErr = fmt.Errorf("parse nutrient catalog: %w", err)
		return
	}
	catalog = doc.Nutrients
	catalogIndex = make(map[string]int, len(catalog))
	for i, n := range catalog {
		catalogIndex[n.Tag] = i
	}
}

// NutrientCatalog returns the known nutrient tags in display order.
func NutrientCatalog() ([]NutrientInfo, error) {
	catalogOnce.Do(loadCatalog)
	if catalogErr != nil {
		return nil, catalogErr
	}
	out := make([]NutrientInfo, len(catalog))
	copy(out, catalog)
	return out, nil
}

// LookupNutrient returns catalog info for tag. Unknown tags come back with
// the tag as label and no unit.
func LookupNutrient(tag string) NutrientInfo {
	catalogOnce.Do(loadCatalog)
	if i, ok := catalogIndex[tag]; ok {
		return catalog[i]
	}
	return NutrientInfo{Tag: tag, Label: tag}
}

// OrderedTags returns the keys of totals in catalog order, followed by any
// unknown tags sorted alphabetically.
func OrderedTags(totals map[string]float64) []string {
	catalogOnce.Do(loadCatalog)
	known := make([]string, 0, len(totals))
	var unknown []string
	for tag := range totals {
		if _, ok := catalogIndex[tag]; ok {
			known = append(known, tag)
		} else {
			unknown = append(unknown, tag)
		}
	}
	sort.Slice(known, func(i, j int) bool { return catalogIndex[known[i]] < catalogIndex[known[j]] })
	sort.Strings(unknown)
	return append(known, unknown...)
}
