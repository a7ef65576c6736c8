package vm

import (
	"strings"
	"testing"
)

func TestOpcodeName(t *testing.T) {
	tests := []struct {
		op   byte
		want string
	}{
		{0x00, "nop"},
		{0x04, "iconst_1"},
		{0x60, "iadd"},
		{0xA7, "goto"},
		{0xB8, "invokestatic"},
		{0xBB, "new"},
		{0xC3, "monitorexit"},
		{0xD0, "0xd0"}, // undefined byte
	}
	for _, tt := range tests {
		if got := OpcodeName(tt.op); got != tt.want {
			t.Errorf("OpcodeName(0x%02X): got %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestDisassemble(t *testing.T) {
	// bipush 10, istore_0, iload_0, goto +4, nop, ireturn
	code := []byte{0x10, 0x0A, 0x3B, 0x1A, 0xA7, 0x00, 0x04, 0x00, 0xAC}
	lines := Disassemble(code)

	want := []string{"bipush", "istore_0", "iload_0", "goto", "nop", "ireturn"}
	if len(lines) != len(want) {
		t.Fatalf("lines: got %d (%q), want %d", len(lines), lines, len(want))
	}
	for i, mnemonic := range want {
		if !strings.Contains(lines[i], mnemonic) {
			t.Errorf("line %d: %q does not contain %q", i, lines[i], mnemonic)
		}
	}
	if !strings.HasPrefix(lines[3], "0004:") {
		t.Errorf("goto line should be at pc 4: %q", lines[3])
	}
}

func TestDisassembleStopsOnVariableWidth(t *testing.T) {
	// iconst_0 then tableswitch: the variable-width instruction ends
	// the linear walk.
	code := []byte{0x03, 0xAA, 0x00, 0x00, 0x00}
	lines := Disassemble(code)
	if len(lines) != 2 {
		t.Fatalf("lines: got %d (%q), want 2", len(lines), lines)
	}
	if !strings.Contains(lines[1], "tableswitch") {
		t.Errorf("last line should name tableswitch: %q", lines[1])
	}
}

func TestDisassembleTruncatedOperand(t *testing.T) {
	code := []byte{0x10} // bipush missing its operand
	lines := Disassemble(code)
	if len(lines) != 1 {
		t.Fatalf("lines: got %d, want 1", len(lines))
	}
	if !strings.Contains(lines[0], "bipush") {
		t.Errorf("line should name bipush: %q", lines[0])
	}
}
