package main

import (
	"bytes"
	"strings"
	"testing"

	"ktm-can-service/ktm"
)

func TestParseCANID(t *testing.T) {
	tests := []struct {
		in       string
		expected uint32
		wantErr  bool
	}{
		{"0x120", 0x120, false},
		{"0X12A", 0x12A, false},
		{"650", 0x650, false},
		{"zz", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseCANID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%q: expected error=%v, got %v", tt.in, tt.wantErr, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("%q: expected 0x%X, got 0x%X", tt.in, tt.expected, got)
		}
	}
}

func TestPrintSink(t *testing.T) {
	var buf bytes.Buffer
	sink := newPrintSink(&buf, true)

	if err := sink.SendRecord(ktm.LightsFrame{HighBeamActive: true, LowBeamActive: true}); err != nil {
		t.Fatalf("SendRecord error: %v", err)
	}
	if err := sink.SendRecord(ktm.Unmapped{ID: 0x999, Data: [8]byte{0xDE, 0xAD}}); err != nil {
		t.Fatalf("SendRecord error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "0x650 Lights/LED Status") || !strings.HasSuffix(lines[0], "💡 LOW BEAM HIGH BEAM") {
		t.Errorf("unexpected line %q", lines[0])
	}
	if !strings.Contains(lines[1], "high_beam_active=true") {
		t.Errorf("unexpected fields line %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "0x999 Unknown (0x999)") || !strings.HasSuffix(lines[2], "DE AD 00 00 00 00 00 00") {
		t.Errorf("unexpected line %q", lines[2])
	}
}

func TestDecodeCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"decode", "0x552", "00", "00", "00", "00", "00", "00", "00", "00"})
	defer rootCmd.SetArgs(nil)

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute error: %v", err)
	}
	if !strings.Contains(buf.String(), "⛽ 100% full") {
		t.Errorf("unexpected output %q", buf.String())
	}

	rootCmd.SetArgs([]string{"decode", "0x552", "00", "00"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("expected an error for a 2 byte payload")
	}
}
