package firmware

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Crystal is the oscillator configuration inferred from CLOCK_FREQ.
type Crystal struct {
	// Label names the crystal, e.g. "8 MHz". Empty when the frequency is unknown.
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Note explains the PLL setup, or states that the frequency is unrecognised.
	Note string `json:"note,omitempty" yaml:"note,omitempty"`

	// Known is true when Label came from the crystal table.
	Known bool `json:"known" yaml:"known"`
}

// crystalTable maps exact system clock frequencies to the crystal and PLL
// multiplier that produce them on the supported parts.
var crystalTable = map[uint64]Crystal{
	72_000_000:  {Label: "8 MHz", Note: "8 MHz × PLL×9 = 72 MHz — standard STM32F103/GD32F303"},
	64_000_000:  {Label: "8 MHz", Note: "8 MHz × PLL×8 = 64 MHz"},
	48_000_000:  {Label: "8 MHz", Note: "8 MHz × PLL×6 = 48 MHz"},
	24_000_000:  {Label: "8 MHz", Note: "8 MHz × PLL×3 = 24 MHz"},
	120_000_000: {Label: "8 MHz", Note: "8 MHz × PLL×15 = 120 MHz — GD32F303 high-speed mode"},
	180_000_000: {Label: "12 MHz", Note: "12 MHz × PLL×15 — likely STM32F4xx"},
	168_000_000: {Label: "8/12 MHz", Note: "STM32F4 — check PCB crystal"},
}

var numberPrinter = message.NewPrinter(language.English)

// DeriveCrystal looks up the crystal for an exact clock frequency. When ok is
// false (no CLOCK_FREQ in the dictionary) the result is empty.
func DeriveCrystal(freq uint64, ok bool) Crystal {
	if !ok {
		return Crystal{}
	}
	if c, found := crystalTable[freq]; found {
		c.Known = true
		return c
	}
	return Crystal{Note: numberPrinter.Sprintf("%d Hz — crystal unknown", freq)}
}
