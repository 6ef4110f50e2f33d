package firmware

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"testing"
)

const testDictJSON = `{"version": "v0.12.0-85-gd785b396", "build_versions": "gcc: (15:10.3-2021.07-4) 10.3.1 binutils: (2.38-4ubuntu2+12) 2.38", "config": {"MCU": "gd32f303", "CLOCK_FREQ": 72000000, "SERIAL_BAUD": 250000, "RESERVE_PINS_serial": "PA10,PA9", "INITIAL_PINS": "!PA14"}}`

// compress returns the zlib stream for text at the default level.
func compress(t *testing.T, text string) []byte {
	t.Helper()
	var b bytes.Buffer
	w := zlib.NewWriter(&b)
	if _, err := w.Write([]byte(text)); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return b.Bytes()
}

// image is a zero-filled synthetic flash dump.
type image []byte

func newImage(size int) image {
	return make(image, size)
}

func (img image) putWord(off int, v uint32) image {
	binary.LittleEndian.PutUint32(img[off:], v)
	return img
}

func (img image) putVectorTable(off int, sp, reset uint32) image {
	return img.putWord(off, sp).putWord(off+4, reset)
}

func (img image) putBytes(off int, b []byte) image {
	copy(img[off:], b)
	return img
}
