package chart

import (
	"bytes"
	"testing"

	"github.com/phamduchai/spendbot/internal/domain"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G'}

func assertPNG(t *testing.T, img []byte) {
	t.Helper()
	if len(img) < len(pngHeader) || !bytes.Equal(img[:len(pngHeader)], pngHeader) {
		t.Fatalf("Render did not produce a PNG (got %d bytes)", len(img))
	}
}

func TestRender_Bar(t *testing.T) {
	img, err := Render(domain.ChartSpec{
		Type:   domain.ChartBar,
		Labels: []string{"Ăn uống", "Đi lại", "Giải trí"},
		Series: []domain.ChartSeries{{Label: "Tổng Chi", Values: []float64{500000, 150000, 200000}}},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	assertPNG(t, img)
}

func TestRender_Line_MultipleSeries(t *testing.T) {
	img, err := Render(domain.ChartSpec{
		Type:   domain.ChartLine,
		Labels: []string{"2025-01", "2025-02", "2025-03"},
		Series: []domain.ChartSeries{
			{Label: "Tổng Thu", Values: []float64{10000000, 12000000, 11500000}},
			{Label: "Tổng Chi", Values: []float64{8000000, 9500000, 9200000}},
		},
	})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	assertPNG(t, img)
}

func TestRender_Pie_DropsZeroEntries(t *testing.T) {
	spec := domain.ChartSpec{
		Type:   domain.ChartPie,
		Labels: []string{"Ăn uống", "Đi lại", "Giải trí"},
		Series: []domain.ChartSeries{{Label: "Phân bổ", Values: []float64{500000, 0, 200000}}},
	}

	slices := pieSlices(spec)
	if len(slices) != 2 {
		t.Fatalf("pieSlices kept %d slices, want 2 (zero entry dropped)", len(slices))
	}
	if slices[0].Label != "Ăn uống (71.4%)" {
		t.Errorf("Slice label = %q, want percentage label", slices[0].Label)
	}
	if slices[1].Label != "Giải trí (28.6%)" {
		t.Errorf("Slice label = %q, want percentage label", slices[1].Label)
	}

	img, err := Render(spec)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	assertPNG(t, img)
}

func TestRender_Pie_AllZero(t *testing.T) {
	img, err := Render(domain.ChartSpec{
		Type:   domain.ChartPie,
		Labels: []string{"a", "b"},
		Series: []domain.ChartSeries{{Values: []float64{0, 0}}},
	})
	if err != nil || img != nil {
		t.Fatalf("Render = (%d bytes, %v), want nothing to draw", len(img), err)
	}
}

func TestRender_NothingToDraw(t *testing.T) {
	tests := []struct {
		name string
		spec domain.ChartSpec
	}{
		{"unsupported type", domain.ChartSpec{
			Type:   "scatter",
			Labels: []string{"a"},
			Series: []domain.ChartSeries{{Values: []float64{1}}},
		}},
		{"no labels", domain.ChartSpec{
			Type:   domain.ChartBar,
			Series: []domain.ChartSeries{{Values: []float64{1}}},
		}},
		{"no series", domain.ChartSpec{
			Type:   domain.ChartBar,
			Labels: []string{"a"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Render(tt.spec)
			if err != nil || img != nil {
				t.Errorf("Render = (%d bytes, %v), want (nil, nil)", len(img), err)
			}
		})
	}
}

func TestAlignValues(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		n      int
		want   []float64
	}{
		{"exact", []float64{1, 2}, 2, []float64{1, 2}},
		{"truncated", []float64{1, 2, 3}, 2, []float64{1, 2}},
		{"zero padded", []float64{1}, 3, []float64{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alignValues(tt.values, tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("got[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
