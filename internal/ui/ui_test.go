package ui

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/muurk/klipper-analyzer/internal/firmware"
	"github.com/muurk/klipper-analyzer/internal/report"
)

func bareImage(sp, reset uint32) []byte {
	buf := make([]byte, 256)
	binary.LittleEndian.PutUint32(buf[0:], sp)
	binary.LittleEndian.PutUint32(buf[4:], reset)
	return buf
}

func detail(r *Result, key string) (string, bool) {
	for _, d := range r.Details {
		if d.Key == key {
			return d.Value, true
		}
	}
	return "", false
}

func TestResultRender(t *testing.T) {
	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{
			name:   "success",
			result: NewSuccessResult("Report written", Field{"Output", "fw.html"}),
			want:   []string{"SUCCESS", "Report written", "Output:", "fw.html"},
		},
		{
			name:   "failure",
			result: NewFailureResult("Cannot read", errors.New("no such file"), "Check the path"),
			want:   []string{"FAILED", "Cannot read", "Error: no such file", "Troubleshooting:", "Check the path"},
		},
		{
			name:   "warning",
			result: NewWarningResult("No dictionary"),
			want:   []string{"WARNING", "No dictionary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.result.SetWidth(80).Render()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("Render() missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestResultDetailsKeepOrder(t *testing.T) {
	r := NewSuccessResult("ok").AddDetail("First", "1").AddDetail("Second", "2").AddDetail("Third", "3")
	out := r.SetWidth(80).Render()

	first := strings.Index(out, "First")
	second := strings.Index(out, "Second")
	third := strings.Index(out, "Third")
	if first < 0 || first > second || second > third {
		t.Errorf("details out of order:\n%s", out)
	}
}

func TestResultBoxPadding(t *testing.T) {
	out := NewSuccessResult("Report written").SetWidth(80).Render()

	var title string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "Report written") {
			title = line
		}
	}
	want := "║" + strings.Repeat(" ", DefaultPadding) + "   " + SuccessMarker
	if !strings.HasPrefix(title, want) {
		t.Errorf("title line = %q, want prefix %q", title, want)
	}
}

func TestHeaderRender(t *testing.T) {
	out := NewHeader("Klipper Binary Analyzer", "klipper-analyzer fw.bin", Field{"Format", "html"}).SetWidth(80).Render()
	for _, w := range []string{"KLIPPER BINARY ANALYZER", "klipper-analyzer fw.bin", "Format:", "html"} {
		if !strings.Contains(out, w) {
			t.Errorf("Render() missing %q:\n%s", w, out)
		}
	}
}

func TestAnalysisSummary(t *testing.T) {
	tests := []struct {
		name     string
		image    []byte
		wantType ResultType
		wantLink string
	}{
		{
			name:     "valid without dictionary",
			image:    bareImage(0x20001000, 0x08000101),
			wantType: ResultWarning,
			wantLink: "0x08000000 (reset-vector, low confidence)",
		},
		{
			name:     "invalid",
			image:    bareImage(0xFFFFFFFF, 0xFFFFFFFF),
			wantType: ResultFailure,
			wantLink: "0xFFFFF000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := firmware.Analyze(tt.image)
			if err != nil {
				t.Fatalf("Analyze() error = %v", err)
			}
			r := AnalysisSummary("fw.bin", a, report.Classify(a))

			if r.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", r.Type, tt.wantType)
			}
			link, ok := detail(r, "Link base")
			if !ok || !strings.HasPrefix(link, tt.wantLink) {
				t.Errorf("Link base = %q, want prefix %q", link, tt.wantLink)
			}
			if _, ok := detail(r, "MCU"); ok {
				t.Error("MCU should be absent without a dictionary")
			}
			if tt.wantType == ResultFailure && len(r.Troubleshooting) == 0 {
				t.Error("invalid images should carry troubleshooting tips")
			}
		})
	}
}

func TestOffsetTable(t *testing.T) {
	out := OffsetTable(firmware.BootloaderOffsets(), 0x3000, true)

	lines := strings.Split(out, "\n")
	if len(lines) != len(firmware.BootloaderOffsets())+1 {
		t.Fatalf("got %d lines, want header plus one per offset:\n%s", len(lines), out)
	}
	for _, line := range lines {
		if strings.Contains(line, "0x3000 ") != strings.HasPrefix(line, SuccessMarker) {
			t.Errorf("only the 0x3000 row should be marked: %q", line)
		}
	}
}

func TestProgress(t *testing.T) {
	p := NewProgress("Analyzing", []string{"a.bin", "b.bin", "c.bin", "d.bin"})

	p.StartStep(1, "")
	if p.Current != 1 || p.Percent != 0 {
		t.Errorf("after start: Current=%d Percent=%v", p.Current, p.Percent)
	}
	p.CompleteStep(1, "ok")
	p.FailStep(2, "unreadable")
	if p.Percent != 0.5 {
		t.Errorf("Percent = %v, want 0.5", p.Percent)
	}
	if p.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", p.Failed())
	}

	// Out-of-range steps are ignored
	p.CompleteStep(9, "")
	if p.Percent != 0.5 {
		t.Errorf("Percent changed by out-of-range step: %v", p.Percent)
	}

	line := p.RenderStepLine(p.Steps[1])
	if !strings.Contains(line, "[2/4]") || !strings.Contains(line, "(unreadable)") {
		t.Errorf("RenderStepLine() = %q", line)
	}
}

func TestBatchRunner(t *testing.T) {
	var out bytes.Buffer
	r := NewBatchRunner(BatchConfig{
		Title:   "Klipper Binary Analyzer",
		Command: "klipper-analyzer a.bin b.bin",
		Files:   []string{"a.bin", "b.bin"},
		Output:  &out,
	})

	err := r.Run(context.Background(), func(_ context.Context, i int) (string, error) {
		if i == 1 {
			return "", errors.New("too short")
		}
		return "0x08000000", nil
	})

	var batchErr *BatchError
	if !errors.As(err, &batchErr) || batchErr.Failed != 1 || batchErr.Total != 2 {
		t.Fatalf("Run() error = %v, want 1 of 2 failed", err)
	}
	for _, w := range []string{"Analyzing 2 images", "a.bin", "(0x08000000)", "(too short)", "1 of 2 images analyzed"} {
		if !strings.Contains(out.String(), w) {
			t.Errorf("output missing %q", w)
		}
	}
}

func TestBatchRunner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewBatchRunner(BatchConfig{Files: []string{"a.bin"}, Output: &bytes.Buffer{}})
	called := false
	err := r.Run(ctx, func(context.Context, int) (string, error) {
		called = true
		return "", nil
	})
	if !errors.Is(err, context.Canceled) || called {
		t.Errorf("Run() error = %v, called = %v", err, called)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		got := Confirm(strings.NewReader(tt.input), &bytes.Buffer{}, "Overwrite", []string{"config.yaml exists"}, "Replace it?")
		if got != tt.want {
			t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestTextBoxMaxLines(t *testing.T) {
	out := NewTextBox("Dictionary", "one\ntwo\nthree").SetWidth(80).SetMaxLines(2).Render()
	if strings.Contains(out, "three") || !strings.Contains(out, "(truncated)") {
		t.Errorf("Render() did not truncate:\n%s", out)
	}
}

func TestPrinterPlainOutput(t *testing.T) {
	var out bytes.Buffer
	p := NewPrinter(&out)
	p.PrintSuccess("Report written", Field{"Output", "fw.html"})
	if !strings.Contains(out.String(), "Report written") {
		t.Errorf("PrintSuccess() wrote %q", out.String())
	}
}
