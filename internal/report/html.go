package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/muurk/klipper-analyzer/internal/firmware"
	"github.com/muurk/klipper-analyzer/internal/urls"
	"github.com/muurk/klipper-analyzer/internal/version"
)

//go:embed templates/report.html.tmpl
var reportTemplate string

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"hex32":     Hex32,
	"hex16":     Hex16,
	"hexoff":    HexOffset,
	"thousands": Thousands[int],
	"kib":       KiB,
	"dash":      orDash,
}).Parse(reportTemplate))

// htmlView is everything the HTML template renders, precomputed so that the
// template itself stays free of analysis logic.
type htmlView struct {
	File      string
	Size      int
	Generated string
	Generator string
	Verdict   Verdict

	VT          firmware.VectorTable
	ResetOK     bool
	LinkBase    firmware.LinkBase
	HaveOffset  bool
	Offset      uint32
	OffsetClass firmware.OffsetClass
	Offsets     []offsetRow
	Header      []firmware.VectorWord

	HaveDict      bool
	DictOffset    int
	MCU           string
	ClockFreq     string
	SerialBaud    string
	SerialPins    string
	InitialPins   string
	Version       string
	BuildVersions string
	RawDict       string

	Menuconfig     []menuconfigRow
	BootloaderDocs string
}

type offsetRow struct {
	firmware.BootloaderOffset
	Match bool
}

type menuconfigRow struct {
	Key   string
	Value string
	Warn  bool
}

// RenderHTML writes the standalone HTML report for one analysed file.
func RenderHTML(w io.Writer, name string, a *firmware.Analysis, generated time.Time) error {
	if err := htmlReport.Execute(w, newHTMLView(name, a, generated)); err != nil {
		return &TemplateError{Template: "report", Err: err}
	}
	return nil
}

func newHTMLView(name string, a *firmware.Analysis, generated time.Time) htmlView {
	v := htmlView{
		File:      name,
		Size:      a.Size,
		Generated: generated.Format("2006-01-02 15:04:05"),
		Generator: version.UserAgent(),
		Verdict:   Classify(a),
		VT:        a.VectorTable,
		ResetOK:   a.VectorTable.ResetAddressValid && a.VectorTable.Thumb,
		LinkBase:  a.LinkBase,
		Header:    a.Header,
	}

	v.Offset, v.HaveOffset = a.BootloaderOffset()
	if v.HaveOffset {
		v.OffsetClass = firmware.ClassifyOffset(v.Offset)
	}
	for _, k := range firmware.BootloaderOffsets() {
		v.Offsets = append(v.Offsets, offsetRow{
			BootloaderOffset: k,
			Match:            v.HaveOffset && k.Offset == v.Offset,
		})
	}

	if d := a.Dictionary; d != nil {
		v.HaveDict = true
		v.DictOffset = a.DictionaryOffset
		v.MCU = d.MCU()
		if f, ok := d.ClockFreq(); ok && f != 0 {
			v.ClockFreq = Thousands(f) + " Hz"
		}
		if b, ok := d.SerialBaud(); ok && b != 0 {
			v.SerialBaud = Thousands(b)
		}
		v.SerialPins = d.SerialPins()
		v.InitialPins = d.InitialPins()
		v.Version = d.Version()
		v.BuildVersions = d.BuildVersions()
		v.RawDict = d.Pretty()
	}

	v.Menuconfig = menuconfig(a, v)
	v.BootloaderDocs = urls.Bootloaders
	return v
}

// menuconfig builds the "make menuconfig" recommendation rows.
func menuconfig(a *firmware.Analysis, v htmlView) []menuconfigRow {
	var rows []menuconfigRow
	add := func(key, value string, warn bool) {
		rows = append(rows, menuconfigRow{Key: key, Value: value, Warn: warn})
	}

	if v.MCU != "" {
		add("Processor model", v.MCU, false)
	} else {
		add("Processor model", "Unknown", true)
	}

	if v.HaveOffset {
		add("Bootloader offset", fmt.Sprintf("%s  (%d KiB) — %s",
			Hex16(v.Offset), v.OffsetClass.SizeKiB, v.OffsetClass.Label), !v.OffsetClass.Standard)
	} else {
		add("Bootloader offset", "Could not determine", true)
	}

	if a.Crystal.Label != "" {
		add("Crystal frequency", a.Crystal.Label, false)
		add("  └ note", a.Crystal.Note, false)
	} else {
		add("Crystal frequency", "Unknown — inspect PCB crystal", true)
	}

	if v.SerialPins != "" {
		add("Communication interface", "Serial USART — pins "+v.SerialPins, false)
	}
	if v.SerialBaud != "" {
		add("Baud rate (SERIAL_BAUD)", v.SerialBaud, false)
	}
	if v.InitialPins != "" {
		add("Initial pins (INITIAL_PINS)", v.InitialPins, false)
	}
	return rows
}
