package firmware

import (
	"strings"
	"testing"
)

func TestDeriveCrystal(t *testing.T) {
	tests := []struct {
		name      string
		freq      uint64
		ok        bool
		wantLabel string
		wantKnown bool
		wantNote  string
	}{
		{"72 MHz", 72_000_000, true, "8 MHz", true, "PLL×9"},
		{"120 MHz", 120_000_000, true, "8 MHz", true, "high-speed"},
		{"180 MHz", 180_000_000, true, "12 MHz", true, "STM32F4xx"},
		{"168 MHz", 168_000_000, true, "8/12 MHz", true, "check PCB crystal"},
		{"unknown", 999, true, "", false, "999 Hz — crystal unknown"},
		{"unknown with separators", 16_000_000, true, "", false, "16,000,000 Hz — crystal unknown"},
		{"near miss is not matched", 72_000_001, true, "", false, "72,000,001 Hz"},
		{"missing", 0, false, "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DeriveCrystal(tt.freq, tt.ok)
			if c.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", c.Label, tt.wantLabel)
			}
			if c.Known != tt.wantKnown {
				t.Errorf("Known = %v, want %v", c.Known, tt.wantKnown)
			}
			if tt.wantNote == "" && c.Note != "" {
				t.Errorf("Note = %q, want empty", c.Note)
			}
			if !strings.Contains(c.Note, tt.wantNote) {
				t.Errorf("Note = %q, want it to contain %q", c.Note, tt.wantNote)
			}
		})
	}
}
