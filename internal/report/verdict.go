package report

import (
	"fmt"
	"strings"

	"github.com/muurk/klipper-analyzer/internal/firmware"
)

// Level is the severity of a verdict.
type Level string

const (
	LevelOK    Level = "ok"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// crealityK1Offset is the bootloader offset used by Creality K1 series toolhead
// and bed boards, which get a dedicated verdict.
const crealityK1Offset = 0x3000

// Verdict is the one-paragraph conclusion shown at the top of a report.
type Verdict struct {
	Level Level  `json:"level" yaml:"level"`
	Icon  string `json:"icon" yaml:"icon"`
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// Classify derives the verdict for an analysis.
func Classify(a *firmware.Analysis) Verdict {
	if !a.Valid() {
		return Verdict{
			Level: LevelError,
			Icon:  "[!]",
			Title: "Invalid or unrecognised ARM Cortex-M image",
			Body: "The vector table is not consistent with a valid ARM Cortex-M firmware. " +
				"Verify this is a raw .bin — not ELF, DFU-wrapped, or encrypted.",
		}
	}

	if !a.HasDictionary() {
		return Verdict{
			Level: LevelWarn,
			Icon:  "[~]",
			Title: "Valid ARM image — no Klipper dictionary found",
			Body: "Vector table is valid and bootloader offset is readable, " +
				"but no embedded Klipper config dictionary was found. " +
				"This may be a bootloader binary or non-Klipper firmware." + linkBaseCaveat(a.LinkBase),
		}
	}

	d := a.Dictionary
	mcu := d.MCU()
	if mcu == "" {
		mcu = "?"
	}
	off, haveOff := a.BootloaderOffset()

	var body strings.Builder
	var title string
	if haveOff && off == crealityK1Offset {
		title = "Valid Klipper firmware — Creality K1/K1 SE/K1 Max (GD32F303)"
		fmt.Fprintf(&body, "Config dictionary decoded. Bootloader offset confirmed: 12 KiB (%s). MCU: %s. ",
			Hex16(off), mcu)
		if a.Crystal.Label != "" {
			fmt.Fprintf(&body, "Crystal: %s (%s). ", a.Crystal.Label, a.Crystal.Note)
		}
	} else {
		offText := "unknown"
		if haveOff {
			offText = fmt.Sprintf("%s (%d KiB)", Hex16(off), firmware.ClassifyOffset(off).SizeKiB)
		}
		title = "Valid Klipper firmware — bootloader offset " + offText
		fmt.Fprintf(&body, "Config dictionary decoded. MCU: %s. ", mcu)
		if a.Crystal.Label != "" {
			fmt.Fprintf(&body, "Crystal: %s. ", a.Crystal.Label)
		}
	}

	if pins, baud, ok := serial(d); ok {
		fmt.Fprintf(&body, "Serial: %s at %s baud.", pins, Thousands(baud))
	}

	return Verdict{
		Level: LevelOK,
		Icon:  "[✓]",
		Title: title,
		Body:  strings.TrimSpace(body.String()) + linkBaseCaveat(a.LinkBase),
	}
}

// serial returns the serial pins and baud rate when both are known.
func serial(d *firmware.Dictionary) (string, uint64, bool) {
	pins := d.SerialPins()
	baud, ok := d.SerialBaud()
	if pins == "" || !ok || baud == 0 {
		return "", 0, false
	}
	return pins, baud, true
}

func linkBaseCaveat(lb firmware.LinkBase) string {
	switch {
	case lb.Ambiguous():
		offs := make([]string, len(lb.Candidates))
		for i, c := range lb.Candidates {
			offs[i] = Hex16(c)
		}
		return " Several bootloader offsets match the dictionary pointer (" +
			strings.Join(offs, ", ") + "); the lowest was chosen."
	case !lb.Confirmed():
		return " Link base inferred from the reset vector only (unconfirmed)."
	}
	return ""
}
