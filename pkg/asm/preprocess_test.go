package asm

import (
	"strings"
	"testing"
)

func newTestPreprocessor() *Preprocessor {
	return NewPreprocessor(nil)
}

func TestConvertNumeralBases(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"20h", "20"},
		{"0x20", "20"},
		{"$20", "20"},
		{"32", "20"},
		{"101b", "05"},
		{"[20h]", "[20]"},
		{"r1", "r1"},
	}
	for _, tc := range tests {
		got := ConvertNumeral(tc.token)
		if got != tc.want {
			t.Errorf("ConvertNumeral(%q) = %q, want %q", tc.token, got, tc.want)
		}
	}
}

func TestStripCommentsAndWhitespace(t *testing.T) {
	p := newTestPreprocessor()
	src := "  load r1, 20h   ; load the thing\n\n  halt  \n"
	got := p.stripCommentsAndSpaces(src)
	want := "load r1,20h\nhalt\n"
	if got != want {
		t.Errorf("stripCommentsAndSpaces = %q, want %q", got, want)
	}
}

func TestProcessCollapsesAndLowercases(t *testing.T) {
	p := newTestPreprocessor()
	got := p.Process("LOAD R1, 20H ; comment\nHALT\n")
	if !strings.Contains(got, "halt") {
		t.Errorf("expected lower-cased halt in output, got %q", got)
	}
	if strings.Contains(got, ";") {
		t.Errorf("expected comments stripped, got %q", got)
	}
}

func TestParseDBOperandsLiteralExpandsStrings(t *testing.T) {
	got := parseDBOperandsLiteral(`db "hi",2ah`)
	want := []int{'h', 'i', 0x2a}
	if len(got) != len(want) {
		t.Fatalf("parseDBOperandsLiteral = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("byte %d = %#x, want %#x", i, got[i], want[i])
		}
	}
}

func TestSplitDBTokensKeepsCommaInsideString(t *testing.T) {
	got := splitDBTokens(`"a,b",2ah`)
	want := []string{`"a,b"`, "2ah"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("splitDBTokens = %v, want %v", got, want)
	}
}

func TestResolveLabelsForwardReference(t *testing.T) {
	p := newTestPreprocessor()
	src := "jmp loop\nloop: halt\n"
	got := p.resolveLabels(src)
	lines := nonEmptyLines(got)
	if len(lines) != 2 {
		t.Fatalf("expected 2 body lines, got %d: %v", len(lines), lines)
	}
	if !strings.Contains(lines[0], "02h") {
		t.Errorf("expected label resolved to address 02h, got %q", lines[0])
	}
}
