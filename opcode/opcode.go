package opcode

import (
	"fmt"
	"sort"
)

// Kind is the shape of one operand field.
type Kind int

const (
	Int       Kind = iota // opaque 4-byte integer (addresses included)
	Float                 // opaque 4-byte float
	String                // 4-byte string pool offset (a reference slot)
	Value                 // 4-byte source selector + 4-byte payload
	JumpTable             // base, size, selector Value, size entries
	Message               // four String slots forming one dialogue line
)

func (k Kind) String() string {
	switch k {
	case Int:
		return "int"
	case Float:
		return "float"
	case String:
		return "string"
	case Value:
		return "value"
	case JumpTable:
		return "jump_table"
	case Message:
		return "message"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Size returns the fixed byte size of an operand, or -1 for JumpTable.
func (k Kind) Size() int {
	switch k {
	case Int, Float, String:
		return 4
	case Value:
		return 8
	case Message:
		return 16
	default:
		return -1
	}
}

// Value operand source selectors.
const (
	SourceImmediate uint32 = 0
	SourceOffset    uint32 = 1
	SourceUnknown2  uint32 = 2
	SourceUnknown3  uint32 = 3
)

// ValidSource reports whether s is a known value operand selector.
func ValidSource(s uint32) bool {
	return s <= SourceUnknown3
}

const (
	// Sentinel terminates the code region; the string pool follows it.
	Sentinel uint32 = 0xFFED
	// MarkerThreshold is the first value treated as a terminal marker rather than an opcode.
	MarkerThreshold = 0x200
	// Text is the opcode that carries a dialogue line.
	Text uint32 = 0x69
)

// Info describes one opcode's operand layout.
type Info struct {
	Name     string
	Operands []Kind
}

// Size returns the instruction's byte size including the opcode,
// or -1 when it contains a jump table.
func (i Info) Size() int {
	n := 4
	for _, k := range i.Operands {
		s := k.Size()
		if s < 0 {
			return -1
		}
		n += s
	}
	return n
}

// Strings returns the number of reference slots the instruction registers.
func (i Info) Strings() int {
	n := 0
	for _, k := range i.Operands {
		switch k {
		case String:
			n++
		case Message:
			n += 4
		}
	}
	return n
}

// Lookup returns the schema entry for op.
func Lookup(op uint32) (Info, bool) {
	info, ok := table[op]
	return info, ok
}

// Name returns the mnemonic for op, or op_XX when it has none.
func Name(op uint32) string {
	if info, ok := table[op]; ok && info.Name != "" {
		return info.Name
	}
	return fmt.Sprintf("op_%02x", op)
}

// Opcodes returns every opcode in the table in ascending order.
func Opcodes() []uint32 {
	ops := make([]uint32, 0, len(table))
	for op := range table {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Strided expands a fixed-bound loop reading one integer per step.
func Strided(start, end, stride int) []Kind {
	var ks []Kind
	for i := start; i < end; i += stride {
		ks = append(ks, Int)
	}
	return ks
}

func ops(ks ...Kind) []Kind { return ks }

func ints(n int) []Kind {
	ks := make([]Kind, n)
	for i := range ks {
		ks[i] = Int
	}
	return ks
}

const (
	i32 = Int
	f32 = Float
	str = String
	val = Value
	tbl = JumpTable
	msg = Message
)

var table = map[uint32]Info{
	// Control
	0x00: {"end", nil},
	0x01: {"", ops(i32)},
	0x02: {"", ops(i32)},
	0x03: {"jump", ops(i32)},
	0x04: {"call", ops(i32)},
	0x05: {"ret", nil},
	0x06: {"", ops(str, i32, str)},
	0x07: {"", ops(str)},
	0x08: {"", nil},
	0x09: {"switch", ops(tbl)},
	0x0A: {"", ops(tbl)},
	0x0B: {"load_script", ops(str)},
	0x0C: {"", nil},
	0x0D: {"", nil},

	// Stack
	0x0E: {"push", ops(val)},
	0x0F: {"pop", ops(val)},

	// Arithmetic and comparison
	0x10: {"add", nil},
	0x11: {"sub", nil},
	0x12: {"mul", nil},
	0x13: {"div", nil},
	0x14: {"mod", nil},
	0x15: {"and", nil},
	0x16: {"or", nil},
	0x17: {"xor", nil},
	0x18: {"neg", nil},
	0x19: {"not", nil},
	0x1A: {"is_zero", nil},
	0x1B: {"less", nil},
	0x1C: {"less_equal", nil},
	0x1D: {"greater", nil},
	0x1E: {"greater_equal", nil},

	// Branches
	0x1F: {"jnz", ops(i32)},
	0x20: {"jz", ops(i32)},
	0x21: {"pop_jump", nil},
	0x22: {"pop_call", nil},
	0x23: {"switch_push", ops(tbl)},

	0x24: {"", ops(i32, str, i32, i32)},
	0x25: {"", ops(i32)},
	0x26: {"", nil},
	0x27: {"", ops(i32, str)},
	0x28: {"", ops(i32, i32, i32)},
	0x29: {"shell_open", ops(str)},
	0x2A: {"", nil},
	0x2B: {"jump_if_file_exists", ops(str, i32)},
	0x2C: {"minimize_window", nil},
	0x2D: {"bgm", ops(str)},
	0x2E: {"", ints(7)},
	0x2F: {"", ops(i32)},
	0x30: {"", nil},
	0x31: {"", ops(i32, i32)},
	0x32: {"", ops(i32, i32)},
	0x33: {"se", ops(i32, str)},
	0x34: {"", ints(4)},
	0x35: {"", ops(i32)},
	0x36: {"", ops(i32, i32)},
	0x37: {"", ops(i32, i32)},
	0x38: {"", nil},
	0x39: {"", ops(f32, f32)},
	0x3A: {"", ops(f32, f32)},
	0x3B: {"", ops(f32, f32)},
	0x3C: {"", nil},
	0x3D: {"", nil},
	0x3E: {"set_stack_pointer", ops(i32)},
	0x3F: {"", ops(i32)},
	0x40: {"", ops(i32)},
	0x41: {"", nil},
	0x42: {"", nil},
	0x43: {"", ops(i32)},
	0x44: {"call_script", ops(str)},
	0x45: {"", nil},
	0x46: {"", ops(str)},
	0x47: {"", nil},
	0x48: {"", ops(str)},
	0x49: {"", nil},
	0x4A: {"", ops(i32)},
	0x4B: {"", nil},
	0x4C: {"", nil},
	0x4D: {"", ops(i32)},
	0x4E: {"", nil},
	0x4F: {"", nil},
	0x50: {"", ops(str, i32)},
	0x51: {"", ops(str, i32)},
	0x52: {"", nil},
	0x53: {"", nil},
	0x54: {"", ops(str)},
	0x55: {"", nil},
	0x56: {"", ops(str)},
	0x57: {"", ops(str)},
	0x58: {"", ops(i32, str, f32, f32, f32, i32)},
	0x59: {"", ops(i32)},
	0x5A: {"", ops(i32, f32, f32, f32)},
	0x5B: {"", ops(str)},
	0x5C: {"", ops(i32, i32, i32)},
	0x5D: {"", ops(i32, str)},
	0x5E: {"", ops(i32, str, f32, f32)},
	0x5F: {"", ops(i32, str, str)},
	0x60: {"", ops(i32, str, str)},
	0x61: {"", ops(i32, str, str)},
	0x62: {"", ops(i32, str, str)},
	0x63: {"cg", ops(str)},
	0x64: {"", ops(str, i32)},
	0x65: {"", ops(str, i32)},
	0x66: {"", ops(i32, i32)},
	0x67: {"", ops(i32, i32)},
	0x68: {"", ops(i32, i32)},

	// Dialogue
	0x69: {"text", ops(msg)},

	0x6A: {"", nil},
	0x6B: {"", ops(str)},
	0x6C: {"", ops(i32)},
	0x6D: {"", nil},
	0x6E: {"", ops(i32, i32)},
	0x6F: {"", ops(i32, i32)},
	0x70: {"", ops(i32, str, i32)},
	0x71: {"", ops(i32)},
	0x72: {"", ops(i32, i32)},
	0x73: {"", ops(i32)},
	0x74: {"", ops(i32)},
	0x75: {"", ops(str, str)},
	0x76: {"", nil},
	0x77: {"", ops(i32, i32)},
	0x78: {"", ops(i32, i32)},
	0x79: {"", ops(i32, i32)},
	0x7A: {"", ops(i32, f32, f32, f32)},
	0x7B: {"", ops(i32, f32, f32, f32)},
	0x7C: {"", ops(i32, f32, f32, f32)},
	0x7D: {"", ops(i32, f32, f32, f32, f32)},
	0x7E: {"", ops(i32, i32)},
	0x7F: {"", ops(i32, i32)},
	0x80: {"", nil},
	0x81: {"", ops(i32)},
	0x82: {"", ops(f32)},
	0x83: {"", ops(str)},
	0x84: {"", nil},
	0x85: {"", ops(i32, str)},
	0x86: {"", ops(i32)},
	0x87: {"", ops(str)},
	0x88: {"", append(ops(f32, f32, f32, i32, i32, f32, f32, f32, f32), Strided(0x38C, 0x39C, 4)...)},
	0x89: {"", nil},
	0x8A: {"", ops(i32, i32)},
	0x8B: {"", ops(str)},
	0x8C: {"", ops(str)},
	0x8D: {"", ops(i32, i32)},
	0x8E: {"", ops(i32)},
	0x8F: {"", nil},
	0x90: {"", ops(i32, i32)},
	0x91: {"", ops(i32)},
	0x92: {"", nil},
}
