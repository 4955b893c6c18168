package batch

import (
	"sort"

	"github.com/wippyai/tactics-script/opcode"
	"github.com/wippyai/tactics-script/script"
)

// Export loads a script and writes its translation file next to it.
func Export(file string, s Settings) error {
	sess, err := script.Load(file, s.Options)
	if err != nil {
		return err
	}
	return sess.ExportText(TextPath(file), s.Mode)
}

// Rebuild loads a script, applies its translation file and saves the result
// under OutputDir beside the original.
func Rebuild(file string, s Settings) error {
	sess, err := script.Load(file, s.Options)
	if err != nil {
		return err
	}
	if err := sess.ImportText(TextPath(file), s.Write); err != nil {
		return err
	}
	return sess.Save(OutputPath(file, s.OutputDir))
}

// OpcodeCount is one histogram bucket.
type OpcodeCount struct {
	Name   string
	Opcode uint32
	Count  int
}

// Report summarizes a decoded script.
type Report struct {
	File         string
	Opcodes      []OpcodeCount
	Layout       script.Layout
	Size         int
	References   int
	Messages     int
	Instructions int
}

// Inspect loads a script and reports its layout and contents.
func Inspect(file string, s Settings) (Report, error) {
	sess, err := script.Load(file, s.Options)
	if err != nil {
		return Report{}, err
	}

	stats := sess.Stats()
	rep := Report{
		File:         file,
		Layout:       sess.Layout(),
		Size:         len(sess.Bytes()),
		References:   len(sess.References()),
		Messages:     len(sess.Messages()),
		Instructions: stats.Instructions,
	}
	for _, op := range opcode.Opcodes() {
		if n := stats.Histogram[op]; n > 0 {
			rep.Opcodes = append(rep.Opcodes, OpcodeCount{Opcode: op, Name: opcode.Name(op), Count: n})
		}
	}
	sort.SliceStable(rep.Opcodes, func(i, j int) bool {
		return rep.Opcodes[i].Count > rep.Opcodes[j].Count
	})
	return rep, nil
}
