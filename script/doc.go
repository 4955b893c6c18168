// Package script decodes compiled dialogue scripts, exports their strings
// for translation and rebuilds them with translated text.
//
// A script is a flat little-endian image: a code region of 4-byte opcodes
// and operands, a terminal marker (normally 0xFFED), then a pool of
// NUL-terminated strings. String operands hold absolute pool offsets.
// Decoding walks the code region linearly using the opcode table and
// records every such operand as a Reference keyed by its slot address.
//
// Typical use:
//
//	s, err := script.Load("ch01.bin", script.Options{})
//	if err != nil {
//		return err
//	}
//	if err := s.ExportText("ch01.txt", script.ExportMessages); err != nil {
//		return err
//	}
//	// after translation
//	if err := s.ImportText("ch01.txt", codec.Default()); err != nil {
//		return err
//	}
//	return s.Save("rebuild/ch01.bin")
//
// Load validates the image: every target must lie in the pool and every
// non-empty pool string must be reachable from some reference. A Session
// therefore always describes a consistent image, and import either
// replaces the image as a whole or leaves it untouched.
package script
