// Package opcode is the operand schema table of the event script virtual code.
//
// Every instruction is a 4-byte little-endian opcode followed by operands
// whose count and kind depend only on the opcode. The table maps each opcode
// to that operand list; the decoder walks it without knowing anything else
// about the instruction. Values at or above MarkerThreshold are not opcodes
// but terminal markers, the usual one being Sentinel.
//
// The loop in opcode 0x88 has fixed bounds, so it is expanded once with
// Strided into plain integer reads.
package opcode
