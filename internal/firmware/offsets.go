package firmware

// NonStandardLabel is the classifier label for offsets outside the known table.
const NonStandardLabel = "Non-standard offset"

// BootloaderOffset is a known bootloader convention: the number of flash
// bytes reserved ahead of the application.
type BootloaderOffset struct {
	Offset  uint32 `json:"offset" yaml:"offset"`
	SizeKiB uint32 `json:"size_kib" yaml:"size_kib"`
	Label   string `json:"label" yaml:"label"`
}

// knownOffsets is ordered by ascending offset; the link base resolver relies on it.
var knownOffsets = [...]BootloaderOffset{
	{0x0000, 0, "No bootloader (direct flash)"},
	{0x1000, 4, "Minimal / custom 4 KiB bootloader"},
	{0x2000, 8, "HID / stm32duino bootloader"},
	{0x3000, 12, "Creality K1 / K1 SE / K1 Max (GD32F303)"},
	{0x5000, 20, "DFU 20 KiB (uncommon)"},
	{0x7000, 28, "Creality/Klipper custom 28 KiB bootloader"},
	{0x8000, 32, "DFU 32 KiB standard"},
}

// BootloaderOffsets returns a copy of the known offset table in ascending order.
func BootloaderOffsets() []BootloaderOffset {
	out := make([]BootloaderOffset, len(knownOffsets))
	copy(out, knownOffsets[:])
	return out
}

// OffsetClass describes what a resolved bootloader offset means.
type OffsetClass struct {
	Offset  uint32 `json:"offset" yaml:"offset"`
	SizeKiB uint32 `json:"size_kib" yaml:"size_kib"`
	Label   string `json:"label" yaml:"label"`

	// Standard is false when the offset is not in the known table.
	Standard bool `json:"standard" yaml:"standard"`
}

// ClassifyOffset maps a bootloader offset to its size and bootloader identity.
// Unknown offsets are reported as non-standard, never as an error.
func ClassifyOffset(off uint32) OffsetClass {
	for _, k := range knownOffsets {
		if k.Offset == off {
			return OffsetClass{Offset: off, SizeKiB: k.SizeKiB, Label: k.Label, Standard: true}
		}
	}
	return OffsetClass{Offset: off, SizeKiB: off / 1024, Label: NonStandardLabel}
}
