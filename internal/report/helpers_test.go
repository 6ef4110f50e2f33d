package report

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"

	"github.com/muurk/klipper-analyzer/internal/firmware"
)

const k1Dict = `{"version": "v0.12.0-85-gd785b396", "build_versions": "gcc: 10.3.1 binutils: 2.38", "config": {"MCU": "gd32f303", "CLOCK_FREQ": 72000000, "SERIAL_BAUD": 250000, "RESERVE_PINS_serial": "PA10,PA9", "INITIAL_PINS": "!PA14"}}`

// klipperImage returns an analysis of a synthetic image linked at
// FlashBase+bl with dict embedded at file offset 0x2345. An empty dict
// produces an image without a dictionary.
func klipperImage(t *testing.T, bl uint32, dict string) *firmware.Analysis {
	t.Helper()
	const dictOff = 0x2345

	buf := make([]byte, 0x4000)
	binary.LittleEndian.PutUint32(buf[0:], 0x2000C000)
	binary.LittleEndian.PutUint32(buf[4:], firmware.FlashBase+bl+0x1A5)
	if dict != "" {
		var z bytes.Buffer
		w := zlib.NewWriter(&z)
		_, _ = w.Write([]byte(dict))
		_ = w.Close()
		copy(buf[dictOff:], z.Bytes())
		binary.LittleEndian.PutUint32(buf[0x400:], firmware.FlashBase+bl+dictOff)
	}

	a, err := firmware.Analyze(buf)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return a
}

// invalidImage returns an analysis of an image that does not start with a vector table.
func invalidImage(t *testing.T) *firmware.Analysis {
	t.Helper()
	a, err := firmware.Analyze([]byte("\x7fELF\x01\x01\x01\x00\x00\x00\x00\x00\x00\x00\x00\x00"))
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return a
}
