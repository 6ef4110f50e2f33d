package firmware

import (
	"strings"
	"testing"
)

func TestClassifyOffset(t *testing.T) {
	tests := []struct {
		offset   uint32
		wantKiB  uint32
		wantStd  bool
		contains string
	}{
		{0x0000, 0, true, "No bootloader"},
		{0x1000, 4, true, "4 KiB"},
		{0x2000, 8, true, "stm32duino"},
		{0x3000, 12, true, "Creality K1"},
		{0x5000, 20, true, "DFU 20 KiB"},
		{0x7000, 28, true, "28 KiB"},
		{0x8000, 32, true, "DFU 32 KiB"},
		{0x4000, 16, false, NonStandardLabel},
		{0x10000, 64, false, NonStandardLabel},
		{0x0A00, 2, false, NonStandardLabel},
	}

	for _, tt := range tests {
		got := ClassifyOffset(tt.offset)
		if got.SizeKiB != tt.wantKiB {
			t.Errorf("ClassifyOffset(0x%04X).SizeKiB = %d, want %d", tt.offset, got.SizeKiB, tt.wantKiB)
		}
		if got.Standard != tt.wantStd {
			t.Errorf("ClassifyOffset(0x%04X).Standard = %v, want %v", tt.offset, got.Standard, tt.wantStd)
		}
		if !strings.Contains(got.Label, tt.contains) {
			t.Errorf("ClassifyOffset(0x%04X).Label = %q, want it to contain %q", tt.offset, got.Label, tt.contains)
		}
	}
}

func TestClassifyOffset_CrealityK1(t *testing.T) {
	got := ClassifyOffset(0x3000)
	if got.SizeKiB != 12 || got.Label != "Creality K1 / K1 SE / K1 Max (GD32F303)" {
		t.Errorf("ClassifyOffset(0x3000) = %+v", got)
	}
}

func TestBootloaderOffsets(t *testing.T) {
	offsets := BootloaderOffsets()
	if len(offsets) != 7 {
		t.Fatalf("len = %d, want 7", len(offsets))
	}
	for i := 1; i < len(offsets); i++ {
		if offsets[i].Offset <= offsets[i-1].Offset {
			t.Errorf("offsets not ascending at %d: 0x%X after 0x%X", i, offsets[i].Offset, offsets[i-1].Offset)
		}
		if offsets[i].SizeKiB*1024 != offsets[i].Offset {
			t.Errorf("offset 0x%X declares %d KiB", offsets[i].Offset, offsets[i].SizeKiB)
		}
	}

	// Callers get a copy.
	offsets[0].Label = "changed"
	if BootloaderOffsets()[0].Label == "changed" {
		t.Error("BootloaderOffsets exposed the shared table")
	}
}
