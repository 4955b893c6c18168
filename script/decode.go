package script

import (
	"io"

	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/opcode"
	"github.com/wippyai/tactics-script/script/internal/binary"
)

// Layout records where the code region ends and the string pool begins.
type Layout struct {
	CodeEnd    int    // address of the terminal marker
	PoolStart  int    // first pool byte; CodeEnd+4 when the sentinel was consumed
	Terminator uint32 // marker value, valid when Terminated
	Terminated bool   // false when the data ended on an instruction boundary
}

// Stats counts decoded instructions.
type Stats struct {
	Histogram    map[uint32]int
	Instructions int
}

// Program is the result of decoding a script's code region.
type Program struct {
	Messages []Message
	Stats    Stats
	Layout   Layout
}

type decoder struct {
	r    *binary.Reader
	refs *RefTable
	prog *Program
	addr int
	op   uint32
}

// Decode walks the code region of data, registering every string slot in
// refs. Jump and call targets are skipped, never followed.
func Decode(data []byte, refs *RefTable) (*Program, error) {
	d := &decoder{
		r:    binary.NewReader(data),
		refs: refs,
		prog: &Program{Stats: Stats{Histogram: make(map[uint32]int)}},
	}
	if err := d.run(); err != nil {
		return nil, err
	}
	return d.prog, nil
}

func (d *decoder) run() error {
	for {
		addr := d.r.Position()
		raw, err := d.r.ReadU32LE()
		if err == io.EOF {
			d.prog.Layout = Layout{CodeEnd: addr, PoolStart: addr}
			return nil
		}
		if err != nil {
			return errors.Truncated(errors.PhaseDecode, addr, "opcode")
		}

		if int32(raw) >= opcode.MarkerThreshold {
			d.prog.Layout = Layout{
				CodeEnd:    addr,
				PoolStart:  addr,
				Terminator: raw,
				Terminated: true,
			}
			if raw == opcode.Sentinel {
				d.prog.Layout.PoolStart = addr + 4
			}
			return nil
		}

		info, ok := opcode.Lookup(raw)
		if !ok {
			return errors.UnknownOpcode(addr, raw)
		}

		d.addr, d.op = addr, raw
		for _, k := range info.Operands {
			if err := d.operand(k); err != nil {
				return err
			}
		}

		d.prog.Stats.Instructions++
		d.prog.Stats.Histogram[raw]++
	}
}

func (d *decoder) operand(k opcode.Kind) error {
	switch k {
	case opcode.Int:
		_, err := d.i32(k.String())
		return err

	case opcode.Float:
		_, err := d.f32(k.String())
		return err

	case opcode.String:
		_, err := d.slot()
		return err

	case opcode.Value:
		return d.value()

	case opcode.JumpTable:
		return d.jumpTable()

	case opcode.Message:
		var slots [4]uint32
		for i := range slots {
			s, err := d.slot()
			if err != nil {
				return err
			}
			slots[i] = s
		}
		d.prog.Messages = append(d.prog.Messages, Message{
			DisplayName: slots[RoleDisplayName],
			Name:        slots[RoleName],
			Voice:       slots[RoleVoice],
			Body:        slots[RoleBody],
		})
		return nil
	}

	return errors.New(errors.PhaseDecode, errors.KindInvalidInput).
		At(d.addr).
		Value(d.op).
		Detail("schema of %s has unknown operand kind %d", opcode.Name(d.op), int(k)).
		Build()
}

// field runs read at the current position and reports a short read as a
// truncated operand of the current instruction.
func (d *decoder) field(what string, read func() error) error {
	pos := d.r.Position()
	if err := read(); err != nil {
		return errors.New(errors.PhaseDecode, errors.KindTruncated).
			At(pos).
			Value(d.op).
			Detail("%s operand of %s at 0x%08X", what, opcode.Name(d.op), d.addr).
			Build()
	}
	return nil
}

func (d *decoder) u32(what string) (v uint32, err error) {
	err = d.field(what, func() (rerr error) {
		v, rerr = d.r.ReadU32LE()
		return rerr
	})
	return v, err
}

func (d *decoder) i32(what string) (v int32, err error) {
	err = d.field(what, func() (rerr error) {
		v, rerr = d.r.ReadI32LE()
		return rerr
	})
	return v, err
}

func (d *decoder) f32(what string) (v float32, err error) {
	err = d.field(what, func() (rerr error) {
		v, rerr = d.r.ReadF32LE()
		return rerr
	})
	return v, err
}

// slot registers the string reference at the current position.
func (d *decoder) slot() (uint32, error) {
	pos := uint32(d.r.Position())
	target, err := d.u32("string")
	if err != nil {
		return 0, err
	}
	if err := d.refs.Add(Reference{Slot: pos, Target: target, Opcode: d.op}); err != nil {
		return 0, err
	}
	return pos, nil
}

func (d *decoder) value() error {
	pos := d.r.Position()
	source, err := d.u32("value source")
	if err != nil {
		return err
	}
	if !opcode.ValidSource(source) {
		return errors.UnknownValueSource(pos, source)
	}
	_, err = d.u32("value")
	return err
}

func (d *decoder) jumpTable() error {
	if _, err := d.u32("table offset"); err != nil {
		return err
	}
	n, err := d.i32("table size")
	if err != nil {
		return err
	}
	if err := d.value(); err != nil {
		return err
	}

	size := int64(n)
	if size <= 0 {
		return nil
	}
	if size*4 > int64(d.r.Remaining()) {
		return errors.New(errors.PhaseDecode, errors.KindTruncated).
			At(d.r.Position()).
			Value(d.op).
			Detail("jump table of %d entries at 0x%08X exceeds data", size, d.addr).
			Build()
	}
	for i := int64(0); i < size; i++ {
		if _, err := d.u32("table entry"); err != nil {
			return err
		}
	}
	return nil
}
