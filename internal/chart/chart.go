// Package chart rasterizes a domain.ChartSpec into a PNG image.
//
// The renderer is deliberately forgiving about data shape (series are
// truncated or zero-padded to the label count) but strict about chart type:
// an unsupported type yields no image at all rather than a default chart
// that could silently mislead.
package chart

import (
	"bytes"
	"fmt"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"github.com/phamduchai/spendbot/internal/domain"
)

const (
	imageWidth  = 1024
	imageHeight = 576
)

// Render produces PNG bytes for the spec. It returns (nil, nil) when there
// is nothing to draw: unsupported chart type, no labels, no series, or (for
// pie) no non-zero values.
func Render(spec domain.ChartSpec) ([]byte, error) {
	if len(spec.Labels) == 0 || len(spec.Series) == 0 {
		return nil, nil
	}

	switch spec.Type {
	case domain.ChartBar:
		return renderBar(spec)
	case domain.ChartLine:
		return renderLine(spec)
	case domain.ChartPie:
		return renderPie(spec)
	default:
		return nil, nil
	}
}

func renderBar(spec domain.ChartSpec) ([]byte, error) {
	// go-chart draws a single bar series; the first one carries the answer
	// to the user's question, as with pie.
	values := alignValues(spec.Series[0].Values, len(spec.Labels))

	bars := make([]gochart.Value, len(spec.Labels))
	for i, label := range spec.Labels {
		bars[i] = gochart.Value{Label: label, Value: values[i]}
	}

	graph := gochart.BarChart{
		Title:    spec.Title,
		Width:    imageWidth,
		Height:   imageHeight,
		BarWidth: 40,
		Bars:     bars,
	}
	return renderPNG(&graph)
}

func renderLine(spec domain.ChartSpec) ([]byte, error) {
	xs := make([]float64, len(spec.Labels))
	ticks := make([]gochart.Tick, len(spec.Labels))
	for i, label := range spec.Labels {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: label}
	}

	series := make([]gochart.Series, 0, len(spec.Series))
	for _, s := range spec.Series {
		series = append(series, gochart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: alignValues(s.Values, len(spec.Labels)),
		})
	}

	graph := gochart.Chart{
		Title:  spec.Title,
		Width:  imageWidth,
		Height: imageHeight,
		XAxis: gochart.XAxis{
			Ticks: ticks,
		},
		Series: series,
	}
	if len(spec.Series) > 1 {
		graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	}
	return renderPNG(&graph)
}

func renderPie(spec domain.ChartSpec) ([]byte, error) {
	slices := pieSlices(spec)
	if len(slices) == 0 {
		return nil, nil
	}

	graph := gochart.PieChart{
		Title:  spec.Title,
		Width:  imageHeight, // square canvas keeps the pie circular
		Height: imageHeight,
		Values: slices,
	}
	return renderPNG(&graph)
}

// renderable is satisfied by every go-chart graph type.
type renderable interface {
	Render(rp gochart.RendererProvider, w io.Writer) error
}

func renderPNG(graph renderable) ([]byte, error) {
	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// pieSlices builds the pie values from the first series only; zero and
// negative entries are dropped before rendering to avoid clutter, and every
// kept slice carries a percentage label.
func pieSlices(spec domain.ChartSpec) []gochart.Value {
	values := alignValues(spec.Series[0].Values, len(spec.Labels))

	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	if total == 0 {
		return nil
	}

	slices := make([]gochart.Value, 0, len(values))
	for i, v := range values {
		if v <= 0 {
			continue
		}
		slices = append(slices, gochart.Value{
			Value: v,
			Label: fmt.Sprintf("%s (%.1f%%)", spec.Labels[i], v/total*100),
		})
	}
	return slices
}

// alignValues truncates or zero-pads a value sequence to exactly n entries
// so every series lines up 1:1 with the labels.
func alignValues(values []float64, n int) []float64 {
	aligned := make([]float64, n)
	copy(aligned, values)
	return aligned
}
