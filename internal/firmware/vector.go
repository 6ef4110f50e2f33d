package firmware

import "encoding/binary"

// Memory map constants for the Cortex-M parts Klipper targets.
const (
	// FlashBase is the address flash is mapped at on STM32/GD32 parts.
	FlashBase uint32 = 0x08000000

	// FlashWindow is the size of the code window a reset vector must fall in.
	FlashWindow uint32 = 0x80000

	// SRAMStart and SRAMEnd bound a plausible initial stack pointer (inclusive).
	SRAMStart uint32 = 0x20000000
	SRAMEnd   uint32 = 0x20020000

	// VectorHeaderSize is the number of bytes read from a vector table: MSP and Reset.
	VectorHeaderSize = 8

	thumbBit uint32 = 1
)

// VectorTable is the decoded header of a Cortex-M vector table at one file offset.
type VectorTable struct {
	// Offset is the file offset the table was read from.
	Offset int `json:"offset" yaml:"offset"`

	// Present is false when fewer than 8 bytes were available at Offset.
	Present bool `json:"present" yaml:"present"`

	// StackPointer is the initial main stack pointer (word 0).
	StackPointer uint32 `json:"stack_pointer" yaml:"stack_pointer"`

	// ResetVector is the raw reset handler word (word 1), thumb bit included.
	ResetVector uint32 `json:"reset_vector" yaml:"reset_vector"`

	// Thumb reports bit 0 of ResetVector.
	Thumb bool `json:"thumb" yaml:"thumb"`

	// ResetAddress is ResetVector with the thumb bit cleared.
	ResetAddress uint32 `json:"reset_address" yaml:"reset_address"`

	StackPointerValid bool `json:"stack_pointer_valid" yaml:"stack_pointer_valid"`
	ResetAddressValid bool `json:"reset_address_valid" yaml:"reset_address_valid"`
}

// ValidateVectorTable decodes the vector table header at off. It never fails:
// an out-of-range offset yields a table with Present set to false.
func ValidateVectorTable(buf []byte, off int) VectorTable {
	vt := VectorTable{Offset: off}
	if off < 0 || off > len(buf)-VectorHeaderSize {
		return vt
	}

	vt.Present = true
	vt.StackPointer = binary.LittleEndian.Uint32(buf[off:])
	vt.ResetVector = binary.LittleEndian.Uint32(buf[off+4:])
	vt.Thumb = vt.ResetVector&thumbBit != 0
	vt.ResetAddress = vt.ResetVector &^ thumbBit
	vt.StackPointerValid = vt.StackPointer >= SRAMStart && vt.StackPointer <= SRAMEnd
	vt.ResetAddressValid = vt.ResetAddress >= FlashBase && vt.ResetAddress < FlashBase+FlashWindow
	return vt
}

// Plausible reports whether the header looks like a genuine reset vector table:
// stack pointer in SRAM, reset handler in flash and the thumb bit set.
func (vt VectorTable) Plausible() bool {
	return vt.Present && vt.StackPointerValid && vt.ResetAddressValid && vt.Thumb
}

// IsVectorTable is shorthand for ValidateVectorTable(buf, off).Plausible().
func IsVectorTable(buf []byte, off int) bool {
	return ValidateVectorTable(buf, off).Plausible()
}

// VectorWord is one 32-bit word of the image start, as shown in hex dumps.
type VectorWord struct {
	Address uint32  `json:"address" yaml:"address"`
	Bytes   [4]byte `json:"-" yaml:"-"`
	Value   uint32  `json:"value" yaml:"value"`
	Note    string  `json:"note,omitempty" yaml:"note,omitempty"`
}

// VectorWords returns up to count little-endian words starting at file offset
// off. Addresses assume the file is mapped at FlashBase.
func VectorWords(buf []byte, off, count int) []VectorWord {
	if off < 0 || count <= 0 {
		return nil
	}

	words := make([]VectorWord, 0, count)
	for i := off; i+4 <= len(buf) && len(words) < count; i += 4 {
		w := VectorWord{
			Address: FlashBase + uint32(i),
			Value:   binary.LittleEndian.Uint32(buf[i:]),
		}
		copy(w.Bytes[:], buf[i:i+4])
		switch i - off {
		case 0:
			w.Note = "MSP"
		case 4:
			w.Note = "Reset"
		}
		words = append(words, w)
	}
	return words
}
