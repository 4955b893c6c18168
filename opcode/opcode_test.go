package opcode

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		op      uint32
		size    int
		strings int
	}{
		{0x00, 4, 0},
		{0x03, 8, 0},
		{0x06, 16, 2},
		{0x09, -1, 0},
		{0x0E, 12, 0},
		{0x24, 20, 1},
		{0x2E, 32, 0},
		{0x39, 12, 0},
		{0x58, 28, 1},
		{0x5F, 16, 2},
		{0x69, 20, 4},
		{0x75, 12, 2},
		{0x7D, 24, 0},
		{0x88, 56, 0},
		{0x92, 4, 0},
	}

	for _, tt := range tests {
		info, ok := Lookup(tt.op)
		if !ok {
			t.Errorf("Lookup(0x%02x) not found", tt.op)
			continue
		}
		if got := info.Size(); got != tt.size {
			t.Errorf("0x%02x Size() = %d, want %d", tt.op, got, tt.size)
		}
		if got := info.Strings(); got != tt.strings {
			t.Errorf("0x%02x Strings() = %d, want %d", tt.op, got, tt.strings)
		}
	}
}

func TestTableIsDense(t *testing.T) {
	ops := Opcodes()
	if len(ops) != 0x93 {
		t.Fatalf("table has %d opcodes, want %d", len(ops), 0x93)
	}
	for i, op := range ops {
		if op != uint32(i) {
			t.Fatalf("opcode %d is 0x%02x, want 0x%02x", i, op, i)
		}
	}
}

func TestLookupUnknown(t *testing.T) {
	for _, op := range []uint32{0x93, 0xFF, 0x1FF, Sentinel} {
		if _, ok := Lookup(op); ok {
			t.Errorf("Lookup(0x%x) should fail", op)
		}
	}
}

func TestOnlyTextCarriesMessage(t *testing.T) {
	for _, op := range Opcodes() {
		info, _ := Lookup(op)
		for _, k := range info.Operands {
			if k == Message && op != Text {
				t.Errorf("opcode 0x%02x has a message operand", op)
			}
		}
	}
	info, _ := Lookup(Text)
	if len(info.Operands) != 1 || info.Operands[0] != Message {
		t.Errorf("text operands = %v, want [message]", info.Operands)
	}
}

func TestJumpTableOpcodes(t *testing.T) {
	want := map[uint32]bool{0x09: true, 0x0A: true, 0x23: true}
	for _, op := range Opcodes() {
		info, _ := Lookup(op)
		has := false
		for _, k := range info.Operands {
			if k == JumpTable {
				has = true
			}
		}
		if has != want[op] {
			t.Errorf("opcode 0x%02x jump table = %v, want %v", op, has, want[op])
		}
	}
}

func TestStrided(t *testing.T) {
	tests := []struct {
		start, end, stride int
		want               int
	}{
		{0x38C, 0x39C, 4, 4},
		{0, 0, 4, 0},
		{0, 1, 4, 1},
		{0, 8, 2, 4},
	}

	for _, tt := range tests {
		got := Strided(tt.start, tt.end, tt.stride)
		if len(got) != tt.want {
			t.Errorf("Strided(%#x, %#x, %d) len = %d, want %d", tt.start, tt.end, tt.stride, len(got), tt.want)
		}
		for _, k := range got {
			if k != Int {
				t.Errorf("Strided produced %v, want int", k)
			}
		}
	}
}

func TestName(t *testing.T) {
	tests := []struct {
		op   uint32
		want string
	}{
		{0x00, "end"},
		{0x69, "text"},
		{0x0E, "push"},
		{0x01, "op_01"},
		{0xFF, "op_ff"},
	}

	for _, tt := range tests {
		if got := Name(tt.op); got != tt.want {
			t.Errorf("Name(0x%02x) = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		k    Kind
		size int
		name string
	}{
		{Int, 4, "int"},
		{Float, 4, "float"},
		{String, 4, "string"},
		{Value, 8, "value"},
		{JumpTable, -1, "jump_table"},
		{Message, 16, "message"},
	}

	for _, tt := range tests {
		if tt.k.Size() != tt.size {
			t.Errorf("%v.Size() = %d, want %d", tt.k, tt.k.Size(), tt.size)
		}
		if tt.k.String() != tt.name {
			t.Errorf("String() = %q, want %q", tt.k.String(), tt.name)
		}
	}
	if !strings.HasPrefix(Kind(99).String(), "kind(") {
		t.Errorf("unknown kind string = %q", Kind(99).String())
	}
}

func TestValidSource(t *testing.T) {
	for s := uint32(0); s <= 3; s++ {
		if !ValidSource(s) {
			t.Errorf("ValidSource(%d) = false", s)
		}
	}
	for _, s := range []uint32{4, 5, 0xFFFFFFFF} {
		if ValidSource(s) {
			t.Errorf("ValidSource(%d) = true", s)
		}
	}
}
