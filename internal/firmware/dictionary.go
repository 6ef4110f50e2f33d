package firmware

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"
)

const (
	// zlibMagic is the CMF byte of a zlib stream using a 32 KiB deflate window.
	zlibMagic = 0x78

	// dictScanStart skips the stack pointer word, which can never start a dictionary.
	dictScanStart = 4

	// dictScanTail is the number of trailing bytes too short to hold a stream.
	dictScanTail = 10

	// maxDictionarySize caps decompressed output so corrupt streams stay bounded.
	maxDictionarySize = 4 << 20
)

// markerKeys are the config keys every Klipper build emits; at least one must
// be present before a decompressed object is accepted as a dictionary.
var markerKeys = [...]string{"MCU", "CLOCK_FREQ", "SERIAL_BAUD"}

// isZlibFlag reports whether b is one of the FLG bytes standard encoders emit
// after zlibMagic (no, fast, default and best compression).
func isZlibFlag(b byte) bool {
	switch b {
	case 0x01, 0x5E, 0x9C, 0xDA:
		return true
	}
	return false
}

var errNotDictionary = errors.New("object has no recognised config keys")

// Dictionary is the data dictionary a Klipper build embeds in its firmware.
// It is read-only once located.
type Dictionary struct {
	raw map[string]any
}

// LocateDictionary scans buf for an embedded zlib-compressed JSON dictionary and
// returns it with its file offset. Spurious zlib signatures are skipped; ok is
// false when nothing in the image decodes to a dictionary.
func LocateDictionary(buf []byte) (dict *Dictionary, offset int, ok bool) {
	end := len(buf) - dictScanTail
	var zr io.ReadCloser
	src := bytes.NewReader(nil)

	for i := dictScanStart; i < end; i++ {
		j := bytes.IndexByte(buf[i:end], zlibMagic)
		if j < 0 {
			break
		}
		i += j
		if !isZlibFlag(buf[i+1]) {
			continue
		}

		src.Reset(buf[i:])
		d, err := decodeDictionary(src, &zr)
		if err != nil {
			continue
		}
		return d, i, true
	}
	return nil, 0, false
}

// decodeDictionary decompresses, decodes and validates one candidate stream.
// The zlib reader is reused across candidates through zr.
func decodeDictionary(src io.Reader, zr *io.ReadCloser) (*Dictionary, error) {
	if *zr == nil {
		r, err := zlib.NewReader(src)
		if err != nil {
			return nil, err
		}
		*zr = r
	} else if err := (*zr).(zlib.Resetter).Reset(src, nil); err != nil {
		return nil, err
	}

	// A dump cut short after the deflate data, or with a damaged adler32
	// trailer, still carries the whole dictionary text.
	text, err := io.ReadAll(io.LimitReader(*zr, maxDictionarySize+1))
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, zlib.ErrChecksum) {
		return nil, err
	}
	if len(text) > maxDictionarySize {
		return nil, fmt.Errorf("dictionary exceeds %d bytes", maxDictionarySize)
	}
	return ParseDictionary(text)
}

// ParseDictionary decodes an already decompressed dictionary. It fails when the
// text is not UTF-8, not a single JSON object, or carries none of the marker keys.
func ParseDictionary(text []byte) (*Dictionary, error) {
	if !utf8.Valid(text) {
		return nil, errors.New("dictionary is not valid UTF-8")
	}

	dec := json.NewDecoder(bytes.NewReader(bytes.TrimSpace(text)))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("trailing data after dictionary object")
	}
	if raw == nil {
		return nil, errNotDictionary
	}

	d := &Dictionary{raw: raw}
	cfg := d.Config()
	for _, k := range markerKeys {
		if _, ok := cfg[k]; ok {
			return d, nil
		}
	}
	return nil, errNotDictionary
}

// Config returns the "config" section, or the whole object for dictionaries
// that have no such section.
func (d *Dictionary) Config() map[string]any {
	if d == nil {
		return nil
	}
	v, ok := d.raw["config"]
	if !ok {
		return d.raw
	}
	cfg, _ := v.(map[string]any)
	return cfg
}

// Raw returns the decoded object. Numbers are json.Number values.
func (d *Dictionary) Raw() map[string]any {
	if d == nil {
		return nil
	}
	return d.raw
}

// Plain returns the decoded object with numbers converted to int64 or float64,
// suitable for encoders that do not understand json.Number.
func (d *Dictionary) Plain() map[string]any {
	if d == nil {
		return nil
	}
	return plainValue(d.raw).(map[string]any)
}

// MarshalJSON encodes the dictionary as it was embedded.
func (d *Dictionary) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Raw())
}

// Pretty returns the dictionary as indented JSON.
func (d *Dictionary) Pretty() string {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d.Raw()); err != nil {
		return ""
	}
	return string(bytes.TrimRight(b.Bytes(), "\n"))
}

// MCU returns the MCU identifier, e.g. "stm32f103xe".
func (d *Dictionary) MCU() string { return d.configString("MCU") }

// ClockFreq returns CLOCK_FREQ in Hz.
func (d *Dictionary) ClockFreq() (uint64, bool) { return d.configUint("CLOCK_FREQ") }

// SerialBaud returns SERIAL_BAUD.
func (d *Dictionary) SerialBaud() (uint64, bool) { return d.configUint("SERIAL_BAUD") }

// SerialPins returns the serial pins, preferring RESERVE_PINS_serial over BUS_PINS_serial.
func (d *Dictionary) SerialPins() string {
	if p := d.configString("RESERVE_PINS_serial"); p != "" {
		return p
	}
	return d.configString("BUS_PINS_serial")
}

// InitialPins returns INITIAL_PINS.
func (d *Dictionary) InitialPins() string { return d.configString("INITIAL_PINS") }

// Version returns the top-level firmware version string.
func (d *Dictionary) Version() string { return scalarString(d.Raw()["version"]) }

// BuildVersions returns the top-level toolchain description.
func (d *Dictionary) BuildVersions() string { return scalarString(d.Raw()["build_versions"]) }

func (d *Dictionary) configString(key string) string {
	return scalarString(d.Config()[key])
}

func (d *Dictionary) configUint(key string) (uint64, bool) {
	switch v := d.Config()[key].(type) {
	case json.Number:
		if n, err := strconv.ParseUint(v.String(), 10, 64); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil && f >= 0 {
			return uint64(f), true
		}
	case string:
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

func scalarString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	default:
		return fmt.Sprint(s)
	}
}

func plainValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plainValue(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plainValue(e)
		}
		return out
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	default:
		return v
	}
}
