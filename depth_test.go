package databar

import "testing"

func TestEnergySeriesAt(t *testing.T) {
	e := EnergySeries{3, 7, 1}
	tests := []struct {
		sample float64
		want   float64
	}{
		{0, 3},
		{0.6, 7},
		{1.4, 7},
		{2, 1},
		{-5, 3},
		{50, 1},
	}
	for _, tt := range tests {
		if got := e.At(tt.sample); got != tt.want {
			t.Errorf("At(%v) = %v, want %v", tt.sample, got, tt.want)
		}
	}
	if lo, hi := e.Extent(); lo != 1 || hi != 7 {
		t.Errorf("Extent = %v, %v", lo, hi)
	}
}

func TestEnergySeriesEmpty(t *testing.T) {
	var e EnergySeries
	if e.HasEnergy() || e.At(3) != 0 {
		t.Error("empty series reports energy")
	}
	if (DepthScale{}).HasEnergy() {
		t.Error("zero DepthScale reports energy")
	}
}

func TestDepthField(t *testing.T) {
	d := NewSeriesDepthScale(EnergySeries{0, 5, 10}, 100)
	field := d.Field(NewScale(0, 2, 0, 200))
	tests := []struct {
		px, want float64
	}{
		{0, 100},  // lowest energy at the bottom
		{100, 50}, // sample 1
		{200, 0},  // highest energy at the top
	}
	for _, tt := range tests {
		if got := field(tt.px); got != tt.want {
			t.Errorf("field(%v) = %v, want %v", tt.px, got, tt.want)
		}
	}
}
