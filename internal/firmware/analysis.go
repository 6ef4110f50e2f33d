package firmware

import (
	"go.uber.org/zap"
)

// Analysis is the result of analysing one firmware image. It is immutable
// once returned.
type Analysis struct {
	// Size is the image length in bytes.
	Size int

	// VectorTable is the header at file offset 0.
	VectorTable VectorTable

	LinkBase LinkBase

	// Dictionary is nil when the image embeds none.
	Dictionary *Dictionary

	// DictionaryOffset is the file offset of the dictionary stream.
	DictionaryOffset int

	Crystal Crystal

	// Header holds the first words of the image for hex dumps.
	Header []VectorWord
}

// Valid reports whether the image starts with a plausible Cortex-M vector table.
func (a *Analysis) Valid() bool {
	return a.VectorTable.Plausible()
}

// HasDictionary reports whether a Klipper dictionary was found.
func (a *Analysis) HasDictionary() bool {
	return a.Dictionary != nil
}

// BootloaderOffset is shorthand for a.LinkBase.BootloaderOffset().
func (a *Analysis) BootloaderOffset() (uint32, bool) {
	return a.LinkBase.BootloaderOffset()
}

// Offset classifies the resolved bootloader offset. ok is false when the link
// base lies below flash.
func (a *Analysis) Offset() (OffsetClass, bool) {
	off, ok := a.BootloaderOffset()
	if !ok {
		return OffsetClass{}, false
	}
	return ClassifyOffset(off), true
}

// headerWords is the number of words kept for the hex dump (64 bytes).
const headerWords = 16

// Analyzer runs the analysis pipeline. It holds no state between images and
// is safe for concurrent use.
type Analyzer struct {
	logger *zap.Logger
}

// NewAnalyzer creates an Analyzer that logs its decisions to logger.
// A nil logger disables logging.
func NewAnalyzer(logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{logger: logger}
}

// Analyze runs the pipeline over buf with a silent Analyzer.
func Analyze(buf []byte) (*Analysis, error) {
	return NewAnalyzer(nil).Analyze(buf)
}

// Analyze validates the vector table, locates the dictionary, resolves the
// link base and derives the crystal. It only fails for images shorter than a
// vector table header; an invalid vector table or a missing dictionary are
// reported in the result.
func (an *Analyzer) Analyze(buf []byte) (*Analysis, error) {
	if len(buf) < VectorHeaderSize {
		return nil, &ImageTooShortError{Size: len(buf)}
	}

	a := &Analysis{
		Size:        len(buf),
		VectorTable: ValidateVectorTable(buf, 0),
		Header:      VectorWords(buf, 0, headerWords),
	}
	an.logger.Debug("Vector table decoded",
		zap.Uint32("msp", a.VectorTable.StackPointer),
		zap.Uint32("reset", a.VectorTable.ResetVector),
		zap.Bool("plausible", a.VectorTable.Plausible()),
	)

	dict, dictOff, found := LocateDictionary(buf)
	if found {
		a.Dictionary = dict
		a.DictionaryOffset = dictOff
		an.logger.Debug("Dictionary located",
			zap.Int("offset", dictOff),
			zap.String("mcu", dict.MCU()),
		)
	} else {
		an.logger.Debug("No dictionary found")
	}

	a.LinkBase = ResolveLinkBase(buf, dictOff, found)
	an.logger.Debug("Link base resolved",
		zap.Uint32("link_base", a.LinkBase.Address),
		zap.String("method", string(a.LinkBase.Method)),
		zap.String("confidence", string(a.LinkBase.Confidence)),
		zap.Int("vector_table_offset", a.LinkBase.VectorTableOffset),
	)
	if a.LinkBase.Ambiguous() {
		an.logger.Warn("Several bootloader offsets match the dictionary pointer",
			zap.Uint32s("candidates", a.LinkBase.Candidates),
		)
	}

	if found {
		a.Crystal = DeriveCrystal(dict.ClockFreq())
	}
	return a, nil
}
