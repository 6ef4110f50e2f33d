package ui

import (
	"fmt"
	"strings"

	"github.com/muurk/klipper-analyzer/internal/firmware"
	"github.com/muurk/klipper-analyzer/internal/report"
	"github.com/muurk/klipper-analyzer/internal/urls"
)

// invalidImageTips are shown under an invalid vector table.
var invalidImageTips = []string{
	"Check the file is a raw .bin, not ELF or Intel HEX",
	"DFU-wrapped images carry a prefix; extract the payload first",
	"Encrypted vendor updates cannot be analyzed",
	"Build instructions: " + urls.Installation,
}

// AnalysisSummary builds the console result box for one analyzed image.
// The box colour follows the verdict level.
func AnalysisSummary(name string, a *firmware.Analysis, v report.Verdict) *Result {
	r := &Result{
		Title: v.Title,
		Note:  v.Body,
		Width: GetTerminalWidth(),
	}
	switch v.Level {
	case report.LevelError:
		r.Type = ResultFailure
		r.Troubleshooting = invalidImageTips
	case report.LevelWarn:
		r.Type = ResultWarning
		r.Troubleshooting = []string{"Bootloader offsets by board: " + urls.Bootloaders}
	default:
		r.Type = ResultSuccess
	}

	r.AddDetail("File", name)
	r.AddDetail("Size", fmt.Sprintf("%s bytes (%s)", report.Thousands(a.Size), report.KiB(a.Size)))
	r.AddDetail("Initial SP", validity(report.Hex32(a.VectorTable.StackPointer), a.VectorTable.StackPointerValid))
	r.AddDetail("Reset vector", validity(report.Hex32(a.VectorTable.ResetVector), a.VectorTable.ResetAddressValid && a.VectorTable.Thumb))

	lb := a.LinkBase
	r.AddDetail("Link base", fmt.Sprintf("%s (%s, %s confidence)", report.Hex32(lb.Address), lb.Method, lb.Confidence))
	if class, ok := a.Offset(); ok {
		r.AddDetail("Bootloader", fmt.Sprintf("%s · %d KiB · %s", report.Hex16(class.Offset), class.SizeKiB, class.Label))
	} else {
		r.AddDetail("Bootloader", "below flash base")
	}

	d := a.Dictionary
	if d == nil {
		return r
	}
	r.AddDetail("Dictionary", "at file offset "+report.HexOffset(a.DictionaryOffset))
	if mcu := d.MCU(); mcu != "" {
		r.AddDetail("MCU", mcu)
	}
	if f, ok := d.ClockFreq(); ok {
		r.AddDetail("Clock", report.Thousands(f)+" Hz")
	}
	if a.Crystal.Known {
		r.AddDetail("Crystal", a.Crystal.Label)
	} else if a.Crystal.Note != "" {
		r.AddDetail("Crystal", a.Crystal.Note)
	}
	if pins := d.SerialPins(); pins != "" {
		serial := pins
		if baud, ok := d.SerialBaud(); ok {
			serial += " @ " + report.Thousands(baud)
		}
		r.AddDetail("Serial", serial)
	}
	if ver := d.Version(); ver != "" {
		r.AddDetail("Version", ver)
	}
	return r
}

func validity(value string, ok bool) string {
	if ok {
		return value + " " + SuccessMarker
	}
	return value + " " + FailureMarker
}

// OffsetTable renders the known bootloader offsets, marking the matched one.
func OffsetTable(offsets []firmware.BootloaderOffset, match uint32, haveMatch bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  %-8s %-10s %-7s %s\n", "OFFSET", "ADDRESS", "SIZE", "BOOTLOADER")
	for _, o := range offsets {
		marker := " "
		if haveMatch && o.Offset == match {
			marker = SuccessMarker
		}
		fmt.Fprintf(&b, "%s %-8s %-10s %-7s %s\n", marker,
			report.Hex16(o.Offset), report.Hex32(firmware.FlashBase+o.Offset),
			fmt.Sprintf("%d KiB", o.SizeKiB), o.Label)
	}
	return strings.TrimRight(b.String(), "\n")
}
