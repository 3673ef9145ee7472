package widgets

import (
	"strings"
	"testing"
)

func TestRenderSparkline_Empty(t *testing.T) {
	if got := RenderSparkline(SparklineConfig{}); got != "" {
		t.Errorf("empty data rendered %q, want empty string", got)
	}
}

func TestRenderSparkline_FixedScale(t *testing.T) {
	result := RenderSparkline(SparklineConfig{
		Data: []float64{0, 50, 100},
		Min:  0,
		Max:  100,
	})

	runes := []rune(result)
	if len(runes) != 3 {
		t.Fatalf("len = %d, want 3", len(runes))
	}
	if runes[0] != '▁' {
		t.Errorf("low value = %q, want lowest block", runes[0])
	}
	if runes[2] != '█' {
		t.Errorf("high value = %q, want highest block", runes[2])
	}
}

func TestRenderSparkline_AutoScale(t *testing.T) {
	result := RenderSparkline(SparklineConfig{Data: []float64{10, 20, 30}})

	runes := []rune(result)
	if runes[0] != '▁' || runes[2] != '█' {
		t.Errorf("auto-scaled result = %q, want full range", result)
	}
}

func TestRenderSparkline_AllEqualUsesMidBlock(t *testing.T) {
	result := RenderSparkline(SparklineConfig{Data: []float64{5, 5, 5}})
	if result != "▅▅▅" {
		t.Errorf("result = %q, want mid-level blocks", result)
	}
}

func TestRenderSparkline_TruncatesToWidth(t *testing.T) {
	result := RenderSparkline(SparklineConfig{
		Data:  []float64{0, 0, 0, 100, 100},
		Width: 2,
		Min:   0,
		Max:   100,
	})
	if result != "██" {
		t.Errorf("result = %q, want the newest two points", result)
	}
}

func TestRenderSparkline_PadsShortSeries(t *testing.T) {
	result := RenderSparkline(SparklineConfig{
		Data:  []float64{100},
		Width: 4,
		Min:   0,
		Max:   100,
	})
	if !strings.HasPrefix(result, "   ") || !strings.HasSuffix(result, "█") {
		t.Errorf("result = %q, want left-padded single block", result)
	}
}
