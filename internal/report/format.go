package report

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Hex32 formats an address as 0x08003000.
func Hex32(v uint32) string {
	return fmt.Sprintf("0x%08X", v)
}

// Hex16 formats an offset as 0x3000.
func Hex16(v uint32) string {
	return fmt.Sprintf("0x%04X", v)
}

// HexOffset formats a file offset as 0x2345.
func HexOffset(off int) string {
	return fmt.Sprintf("0x%04X", off)
}

// Thousands formats n with comma grouping, e.g. 72,000,000.
func Thousands[T ~int | ~int64 | ~uint32 | ~uint64](n T) string {
	return printer.Sprintf("%d", n)
}

// KiB formats a byte count in KiB with one decimal.
func KiB(size int) string {
	return fmt.Sprintf("%.1f KiB", float64(size)/1024)
}

// orDash returns s, or an em dash placeholder when s is empty.
func orDash(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
