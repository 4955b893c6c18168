// Package tacticsscript extracts and reinserts the dialogue text of compiled
// visual-novel scripts so they can be translated.
//
// A script is a flat bytecode image: a code region of 4-byte little-endian
// opcodes with their operands, a terminal marker, and a pool of
// NUL-terminated strings. String operands in the code region hold absolute
// offsets into that pool. The tool walks the code region with a fixed
// opcode table, collects every string operand, writes the strings to a
// plain translation file and later rebuilds the pool from the edited file,
// patching every operand to its new offset.
//
// # Architecture Overview
//
//	tacticsscript/
//	├── opcode/               Opcode table: operand layout of every instruction
//	├── codec/                Text encodings for the string pool (Shift-JIS, GBK, ...)
//	├── script/               Decoder, pool validation, export, import and rebuild
//	│   └── internal/binary/  Little-endian reader and writer
//	├── translation/          The ◇/◆ translation file format
//	├── config/               tactics.toml configuration and logger setup
//	├── batch/                Per-directory export, rebuild and inspect pipelines
//	├── errors/               Structured error types
//	└── cmd/tactics-script/   Command line tool and interactive browser
//
// # Quick Start
//
// Export the dialogue of one script:
//
//	s, err := script.Load("ev01.bin", script.Options{})
//	if err != nil {
//		return err
//	}
//	err = s.ExportText("ev01.txt", script.ExportMessages)
//
// After editing the ◆ lines, rebuild it:
//
//	if err := s.ImportText("ev01.txt", codec.Default()); err != nil {
//		return err
//	}
//	err = s.Save("rebuild/ev01.bin")
//
// The same pipelines run over whole directories from the command line:
//
//	tactics-script -mode export data/
//	tactics-script -mode rebuild -write gbk data/
//
// # Translation file
//
// Each exported string produces a read-only ◇ line with the original text,
// an editable ◆ line and a blank line. The eight hex digits are the address
// of the string operand in the script:
//
//	◇00000010◇Hello
//	◆00000010◆Hello
//
// Only ◆ lines are read back. Line breaks inside a string are written as
// \r and \n.
//
// # Error Handling
//
// All packages return *errors.Error values carrying the processing phase,
// an error kind, the file, and the script address or translation line where
// the problem was found:
//
//	if errors.IsKind(err, errors.KindUnknownOpcode) {
//		...
//	}
//
// A failing file never leaves partial output behind. In directory mode the
// remaining files are still processed and the tool exits with status 1.
package tacticsscript
