package report

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		build     func(t *testing.T) Verdict
		level     Level
		title     string
		bodyParts []string
	}{
		{
			name:  "invalid image",
			build: func(t *testing.T) Verdict { return Classify(invalidImage(t)) },
			level: LevelError,
			title: "Invalid or unrecognised ARM Cortex-M image",
		},
		{
			name:      "creality k1",
			build:     func(t *testing.T) Verdict { return Classify(klipperImage(t, 0x3000, k1Dict)) },
			level:     LevelOK,
			title:     "Creality K1/K1 SE/K1 Max",
			bodyParts: []string{"12 KiB (0x3000)", "MCU: gd32f303", "Crystal: 8 MHz (8 MHz × PLL×9", "Serial: PA10,PA9 at 250,000 baud."},
		},
		{
			name:      "other bootloader",
			build:     func(t *testing.T) Verdict { return Classify(klipperImage(t, 0x7000, k1Dict)) },
			level:     LevelOK,
			title:     "Valid Klipper firmware — bootloader offset 0x7000 (28 KiB)",
			bodyParts: []string{"MCU: gd32f303", "Crystal: 8 MHz.", "250,000 baud"},
		},
		{
			name:      "dictionary without mcu",
			build:     func(t *testing.T) Verdict { return Classify(klipperImage(t, 0, `{"config": {"CLOCK_FREQ": 16000000}}`)) },
			level:     LevelOK,
			title:     "bootloader offset 0x0000 (0 KiB)",
			bodyParts: []string{"MCU: ?."},
		},
		{
			name:      "no dictionary",
			build:     func(t *testing.T) Verdict { return Classify(klipperImage(t, 0x2000, "")) },
			level:     LevelWarn,
			title:     "no Klipper dictionary found",
			bodyParts: []string{"bootloader binary", "(unconfirmed)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := tt.build(t)
			if v.Level != tt.level {
				t.Errorf("Level = %s, want %s", v.Level, tt.level)
			}
			if !strings.Contains(v.Title, tt.title) {
				t.Errorf("Title = %q, want it to contain %q", v.Title, tt.title)
			}
			for _, part := range tt.bodyParts {
				if !strings.Contains(v.Body, part) {
					t.Errorf("Body = %q, want it to contain %q", v.Body, part)
				}
			}
		})
	}
}

func TestClassify_ConfirmedLinkBaseHasNoCaveat(t *testing.T) {
	v := Classify(klipperImage(t, 0x3000, k1Dict))
	if strings.Contains(v.Body, "unconfirmed") || strings.Contains(v.Body, "Several") {
		t.Errorf("unexpected caveat in %q", v.Body)
	}
}
