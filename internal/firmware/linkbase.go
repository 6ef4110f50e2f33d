package firmware

import (
	"bytes"
	"encoding/binary"
)

// pageMask rounds an address down to a 4 KiB flash page.
const pageMask uint32 = 0xFFFFF000

// Method identifies which step of the resolver produced a link base.
type Method string

const (
	// MethodDictionaryXref: a literal pointer to the dictionary's flash address
	// was found for exactly the hypothesised link base.
	MethodDictionaryXref Method = "dictionary-xref"

	// MethodVectorTableOffset: the image carries leading bootloader bytes and the
	// vector table was found at a known offset.
	MethodVectorTableOffset Method = "vector-table-offset"

	// MethodResetVector: the reset handler address rounded down to a page.
	MethodResetVector Method = "reset-vector"
)

// Confidence grades how well a link base is corroborated.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// LinkBase is the flash address the image was linked to run from.
type LinkBase struct {
	// Address is the resolved link base. It is always set.
	Address uint32 `json:"address" yaml:"address"`

	Method     Method     `json:"method" yaml:"method"`
	Confidence Confidence `json:"confidence" yaml:"confidence"`

	// VectorTableOffset is the file offset the vector table was found at.
	VectorTableOffset int `json:"vector_table_offset" yaml:"vector_table_offset"`

	// Candidates lists every bootloader offset whose dictionary pointer occurred
	// in the image, in ascending order. The first one wins.
	Candidates []uint32 `json:"candidates,omitempty" yaml:"candidates,omitempty"`
}

// BootloaderOffset returns Address minus FlashBase. ok is false when the link
// base lies below flash, which only happens for images with a garbage reset vector.
func (lb LinkBase) BootloaderOffset() (uint32, bool) {
	if lb.Address < FlashBase {
		return 0, false
	}
	return lb.Address - FlashBase, true
}

// Ambiguous reports whether more than one bootloader offset matched.
func (lb LinkBase) Ambiguous() bool {
	return len(lb.Candidates) > 1
}

// Confirmed reports whether the link base is backed by more than the raw reset vector.
func (lb LinkBase) Confirmed() bool {
	return lb.Method != MethodResetVector
}

// FindVectorTable returns the file offset of the vector table: 0 when the
// image starts with one, otherwise the first known bootloader offset that
// holds a plausible table, otherwise 0.
func FindVectorTable(buf []byte) int {
	if IsVectorTable(buf, 0) {
		return 0
	}
	for _, k := range knownOffsets[1:] {
		if IsVectorTable(buf, int(k.Offset)) {
			return int(k.Offset)
		}
	}
	return 0
}

// ResolveLinkBase infers the flash link base of the image. When haveDict is
// set, dictOffset is the file offset of the embedded dictionary.
//
// Firmware linked at base B holds, in the identify command handler, a literal
// pointer to the dictionary at B + (dictOffset - vector table offset), taken
// modulo 2^32 so a dictionary stored ahead of the vector table still yields a
// pointer. Each known bootloader offset is hypothesised in turn and the image
// searched for that pointer. Without a match the resolver falls back to the vector table
// position, then to the reset vector rounded down to a page.
func ResolveLinkBase(buf []byte, dictOffset int, haveDict bool) LinkBase {
	vtOff := FindVectorTable(buf)
	lb := LinkBase{VectorTableOffset: vtOff}

	if haveDict {
		rel := uint32(dictOffset) - uint32(vtOff)
		var needle [4]byte
		for _, k := range knownOffsets {
			base := FlashBase + k.Offset
			binary.LittleEndian.PutUint32(needle[:], base+rel)
			if bytes.Contains(buf, needle[:]) {
				lb.Candidates = append(lb.Candidates, k.Offset)
			}
		}
		if len(lb.Candidates) > 0 {
			lb.Address = FlashBase + lb.Candidates[0]
			lb.Method = MethodDictionaryXref
			lb.Confidence = ConfidenceHigh
			if lb.Ambiguous() {
				lb.Confidence = ConfidenceMedium
			}
			return lb
		}
	}

	if vtOff > 0 {
		lb.Address = FlashBase + uint32(vtOff)
		lb.Method = MethodVectorTableOffset
		lb.Confidence = ConfidenceMedium
		return lb
	}

	vt := ValidateVectorTable(buf, 0)
	lb.Address = vt.ResetAddress & pageMask
	lb.Method = MethodResetVector
	lb.Confidence = ConfidenceLow
	return lb
}
