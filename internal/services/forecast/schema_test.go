package forecast

import "testing"

func TestSchemaDefaultWidth(t *testing.T) {
	s := NewSchema([]string{"XLK", "XLF", "XLE"}, 0)
	if s.Width() != 26 {
		t.Fatalf("expected width 26 at the default basis, got %d", s.Width())
	}
	if s.SectorBasis != DefaultSectorBasis {
		t.Fatalf("expected basis %d, got %d", DefaultSectorBasis, s.SectorBasis)
	}
}

func TestSchemaSlotLayout(t *testing.T) {
	s := NewSchema([]string{"XLK", "XLF"}, 3)
	wantNames := []string{
		"vol_XLK", "vol_XLF", "vol_pad_2",
		"ret_XLK", "ret_XLF", "ret_pad_2",
		"avg_cross_correlation", "spread_10y_2y", "curve_slope_30y_3m", "benchmark_vol",
	}
	if s.Width() != len(wantNames) {
		t.Fatalf("expected width %d, got %d", len(wantNames), s.Width())
	}
	for i, name := range wantNames {
		if s.Slots[i].Name != name {
			t.Fatalf("slot %d = %s, want %s", i, s.Slots[i].Name, name)
		}
	}
}

func TestSchemaValidateRow(t *testing.T) {
	s := NewSchema([]string{"XLK"}, 2)
	if err := s.ValidateRow(make([]float64, s.Width())); err != nil {
		t.Fatalf("full-width row must validate: %v", err)
	}
	if err := s.ValidateRow(make([]float64, s.Width()-1)); err == nil {
		t.Fatal("short row must be rejected")
	}
}

func TestSchemaIgnoresSymbolsBeyondBasis(t *testing.T) {
	s := NewSchema([]string{"A", "B", "C", "D"}, 2)
	if s.Width() != 2*2+4 {
		t.Fatalf("expected width 8, got %d", s.Width())
	}
}
