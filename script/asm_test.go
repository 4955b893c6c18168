package script

import (
	"github.com/wippyai/tactics-script/opcode"
	"github.com/wippyai/tactics-script/script/internal/binary"
)

// asm assembles small script images for tests. String operands are
// written as placeholders and patched to pool offsets by build.
type asm struct {
	code  *binary.Writer
	pool  []string
	index map[string]int
	fix   []fixup
}

type fixup struct {
	slot int
	str  int
}

func newAsm() *asm {
	return &asm{code: binary.NewWriter(64), index: make(map[string]int)}
}

// op emits an opcode followed by raw operand words.
func (a *asm) op(op uint32, words ...uint32) *asm {
	a.code.WriteU32LE(op)
	return a.words(words...)
}

func (a *asm) words(words ...uint32) *asm {
	for _, w := range words {
		a.code.WriteU32LE(w)
	}
	return a
}

// str emits a string operand referring to s.
func (a *asm) str(s string) *asm {
	i, ok := a.index[s]
	if !ok {
		i = len(a.pool)
		a.index[s] = i
		a.pool = append(a.pool, s)
	}
	a.fix = append(a.fix, fixup{slot: a.code.Len(), str: i})
	a.code.WriteU32LE(0)
	return a
}

// text emits a dialogue line.
func (a *asm) text(display, name, voice, body string) *asm {
	a.code.WriteU32LE(opcode.Text)
	return a.str(display).str(name).str(voice).str(body)
}

// pc returns the address of the next instruction.
func (a *asm) pc() int {
	return a.code.Len()
}

// build appends the sentinel and the pool. Pool strings are written as
// their raw UTF-8 bytes.
func (a *asm) build() []byte {
	return a.buildPool(nil)
}

// buildPool is build with an extra, unreferenced pool string list.
func (a *asm) buildPool(extra []string) []byte {
	w := binary.NewWriter(a.code.Len() + 64)
	w.WriteBytes(a.code.Bytes())
	w.WriteU32LE(opcode.Sentinel)

	offsets := make([]uint32, len(a.pool))
	for i, s := range a.pool {
		offsets[i] = uint32(w.Len())
		w.WriteCString([]byte(s))
		w.Align(4)
	}
	for _, s := range extra {
		w.WriteCString([]byte(s))
		w.Align(4)
	}
	for _, f := range a.fix {
		if err := w.PutU32LE(f.slot, offsets[f.str]); err != nil {
			panic(err)
		}
	}
	return w.Bytes()
}

// words returns a bare sequence of little-endian words.
func words(ws ...uint32) []byte {
	w := binary.NewWriter(len(ws) * 4)
	for _, v := range ws {
		w.WriteU32LE(v)
	}
	return w.Bytes()
}
