package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ChartType selects the rendering shape. Unknown types survive parsing and
// are rejected later by the renderer, so an unexpected model output degrades
// to "no chart" instead of a misleading default visualization.
type ChartType string

const (
	ChartBar  ChartType = "bar"
	ChartLine ChartType = "line"
	ChartPie  ChartType = "pie"
)

// ChartSeries is one labeled value sequence. Values should align 1:1 with
// the spec's Labels; the renderer tolerates mismatches by truncating or
// zero-padding.
type ChartSeries struct {
	Label  string
	Values []float64
}

// ChartSpec describes a chart the report generator asked for.
type ChartSpec struct {
	Type   ChartType
	Title  string
	Labels []string
	Series []ChartSeries
}

// chartJSON mirrors the Chart.js-shaped object the model emits:
//
//	{"type":"pie","data":{"labels":[...],"datasets":[{"label":"...","data":[...]}]},
//	 "options":{"title":"..."}}
type chartJSON struct {
	Type string `json:"type"`
	Data struct {
		Labels   []string `json:"labels"`
		Datasets []struct {
			Label string    `json:"label"`
			Data  []float64 `json:"data"`
		} `json:"datasets"`
	} `json:"data"`
	Options struct {
		Title string `json:"title"`
	} `json:"options"`
}

// ParseChartSpec decodes the model's chart payload. The type defaults to bar
// when absent, matching what the model most often means by an untyped chart.
func ParseChartSpec(raw []byte) (*ChartSpec, error) {
	var cj chartJSON
	if err := json.Unmarshal(raw, &cj); err != nil {
		return nil, fmt.Errorf("ParseChartSpec: %w", err)
	}

	typ := strings.ToLower(strings.TrimSpace(cj.Type))
	if typ == "" {
		typ = string(ChartBar)
	}

	spec := &ChartSpec{
		Type:   ChartType(typ),
		Title:  cj.Options.Title,
		Labels: cj.Data.Labels,
	}
	for _, ds := range cj.Data.Datasets {
		spec.Series = append(spec.Series, ChartSeries{Label: ds.Label, Values: ds.Data})
	}
	return spec, nil
}
