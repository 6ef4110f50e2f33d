package firmware

import (
	"strings"
	"testing"
)

func TestLocateDictionary_RoundTrip(t *testing.T) {
	stream := compress(t, `{"config": {"MCU": "gd32f303", "CLOCK_FREQ": 72000000, "SERIAL_BAUD": 250000}}`)
	buf := newImage(0x400).
		putVectorTable(0, 0x20001000, 0x08003101).
		putBytes(0x100, stream)

	dict, off, ok := LocateDictionary(buf)
	if !ok {
		t.Fatal("expected dictionary to be found")
	}
	if off != 0x100 {
		t.Errorf("offset = 0x%X, want 0x100", off)
	}
	if dict.MCU() != "gd32f303" {
		t.Errorf("MCU() = %q, want gd32f303", dict.MCU())
	}
	if f, ok := dict.ClockFreq(); !ok || f != 72000000 {
		t.Errorf("ClockFreq() = %d, %v; want 72000000, true", f, ok)
	}
	if b, ok := dict.SerialBaud(); !ok || b != 250000 {
		t.Errorf("SerialBaud() = %d, %v; want 250000, true", b, ok)
	}
}

func TestLocateDictionary_Accessors(t *testing.T) {
	buf := newImage(0x800).putBytes(0x200, compress(t, testDictJSON))

	dict, _, ok := LocateDictionary(buf)
	if !ok {
		t.Fatal("expected dictionary to be found")
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"SerialPins", dict.SerialPins(), "PA10,PA9"},
		{"InitialPins", dict.InitialPins(), "!PA14"},
		{"Version", dict.Version(), "v0.12.0-85-gd785b396"},
		{"BuildVersions", dict.BuildVersions(), "gcc: (15:10.3-2021.07-4) 10.3.1 binutils: (2.38-4ubuntu2+12) 2.38"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s() = %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	plain := dict.Plain()
	cfg := plain["config"].(map[string]any)
	if v, ok := cfg["CLOCK_FREQ"].(int64); !ok || v != 72000000 {
		t.Errorf("Plain CLOCK_FREQ = %#v, want int64(72000000)", cfg["CLOCK_FREQ"])
	}

	pretty := dict.Pretty()
	if !strings.Contains(pretty, `"MCU": "gd32f303"`) || !strings.Contains(pretty, `"CLOCK_FREQ": 72000000`) {
		t.Errorf("Pretty() lost values:\n%s", pretty)
	}
}

func TestLocateDictionary_SkipsSpuriousCandidates(t *testing.T) {
	unrelated := compress(t, `{"name": "splash screen", "frames": [1, 2, 3]}`)
	notJSON := compress(t, "this is not json at all")
	real := compress(t, testDictJSON)

	buf := newImage(0x1000).
		putVectorTable(0, 0x20001000, 0x08000101).
		putBytes(0x40, []byte{0x78, 0x9C, 0xFF, 0xFF, 0x12, 0x34}).
		putBytes(0x80, []byte{0x78, 0x01, 0x00}).
		putBytes(0x100, unrelated).
		putBytes(0x300, notJSON).
		putBytes(0x500, []byte{0x78, 0x00}).
		putBytes(0x800, real)

	dict, off, ok := LocateDictionary(buf)
	if !ok {
		t.Fatal("expected dictionary to be found")
	}
	if off != 0x800 {
		t.Errorf("offset = 0x%X, want 0x800", off)
	}
	if dict.MCU() != "gd32f303" {
		t.Errorf("MCU() = %q", dict.MCU())
	}
}

func TestLocateDictionary_FirstAcceptedWins(t *testing.T) {
	first := compress(t, `{"config": {"MCU": "stm32f103"}}`)
	second := compress(t, `{"config": {"MCU": "stm32f407"}}`)
	buf := newImage(0x400).putBytes(0x40, first).putBytes(0x200, second)

	dict, off, ok := LocateDictionary(buf)
	if !ok || off != 0x40 || dict.MCU() != "stm32f103" {
		t.Errorf("got %q at 0x%X (ok=%v), want stm32f103 at 0x40", dict.MCU(), off, ok)
	}
}

func TestLocateDictionary_RootLevelConfig(t *testing.T) {
	buf := newImage(0x200).putBytes(0x20, compress(t, `{"SERIAL_BAUD": 115200}`))

	dict, _, ok := LocateDictionary(buf)
	if !ok {
		t.Fatal("expected object without config section to be accepted")
	}
	if b, _ := dict.SerialBaud(); b != 115200 {
		t.Errorf("SerialBaud() = %d, want 115200", b)
	}
}

func TestLocateDictionary_Absent(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"nil", nil},
		{"tiny", []byte{0x78, 0x9C, 0x01}},
		{"zeros", newImage(0x1000)},
		{"vector table only", newImage(0x100).putVectorTable(0, 0x20001000, 0x08000101)},
		{"stream before scan start", newImage(0x200).putBytes(0, compress(t, testDictJSON))},
		{"truncated stream", newImage(0x100).putBytes(0x80, compress(t, testDictJSON)[:0x40])},
		{"config without markers", newImage(0x200).putBytes(0x20, compress(t, `{"config": {"STATS_SUMSQ_BASE": 256}}`))},
		{"config not an object", newImage(0x200).putBytes(0x20, compress(t, `{"config": "MCU"}`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dict, off, ok := LocateDictionary(tt.buf)
			if ok || dict != nil || off != 0 {
				t.Errorf("LocateDictionary() = %v, 0x%X, %v; want nil, 0, false", dict, off, ok)
			}
		})
	}
}

func TestLocateDictionary_DamagedTrailer(t *testing.T) {
	stream := compress(t, testDictJSON)
	corrupt := append([]byte(nil), stream...)
	corrupt[len(corrupt)-1] ^= 0xFF

	tests := []struct {
		name   string
		stream []byte
	}{
		{"adler32 cut off at end of image", stream[:len(stream)-4]},
		{"adler32 partially cut off", stream[:len(stream)-2]},
		{"adler32 mismatch", corrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := newImage(0x40+len(tt.stream)).
				putVectorTable(0, 0x20001000, 0x08003101).
				putBytes(0x40, tt.stream)

			dict, off, ok := LocateDictionary(buf)
			if !ok {
				t.Fatal("expected dictionary to be found")
			}
			if off != 0x40 {
				t.Errorf("offset = 0x%X, want 0x40", off)
			}
			if dict.MCU() != "gd32f303" {
				t.Errorf("MCU() = %q, want gd32f303", dict.MCU())
			}
		})
	}
}

func TestParseDictionary(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
	}{
		{"valid", `{"config": {"MCU": "rp2040"}}`, false},
		{"surrounding whitespace", "\n  {\"config\": {\"CLOCK_FREQ\": 12000000}}  \n", false},
		{"array root", `[{"config": {"MCU": "rp2040"}}]`, true},
		{"null root", `null`, true},
		{"trailing data", `{"config": {"MCU": "rp2040"}} {}`, true},
		{"invalid utf8", "{\"config\": {\"MCU\": \"\xff\xfe\"}}", true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDictionary([]byte(tt.text))
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDictionary() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDictionary_NilSafe(t *testing.T) {
	var d *Dictionary
	if d.MCU() != "" || d.Version() != "" || d.Config() != nil || d.Raw() != nil || d.Plain() != nil {
		t.Error("nil Dictionary accessors should return zero values")
	}
	if _, ok := d.ClockFreq(); ok {
		t.Error("nil Dictionary ClockFreq should report absent")
	}
}
