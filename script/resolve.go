package script

import (
	"github.com/wippyai/tactics-script/codec"
	"github.com/wippyai/tactics-script/errors"
	"github.com/wippyai/tactics-script/script/internal/binary"
)

// Resolve fills in the Text of every reference by reading the string its
// target points at. Targets must lie inside the pool.
func Resolve(data []byte, layout Layout, refs *RefTable, c *codec.Codec) error {
	r := binary.NewReader(data)
	for i := 0; i < refs.Len(); i++ {
		ref := refs.At(i)
		target := int64(ref.Target)
		if target < int64(layout.PoolStart) || target >= int64(len(data)) {
			return errors.ReferenceOutOfRange(ref.Slot, ref.Target, layout.PoolStart, len(data))
		}

		raw, err := r.CStringAt(int(target))
		if err != nil {
			return errors.New(errors.PhaseValidate, errors.KindTruncated).
				At(int(ref.Slot)).
				Value(ref.Target).
				Cause(err).
				Detail("string at 0x%08X has no terminator", ref.Target).
				Build()
		}
		text, err := c.Decode(raw)
		if err != nil {
			return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
				At(int(ref.Slot)).
				Value(ref.Target).
				Cause(err).
				Detail("string at 0x%08X cannot be decoded as %s", ref.Target, c.Name()).
				Build()
		}
		ref.Text = text
	}
	return nil
}

// Validate resolves every reference and checks that each non-empty string
// in the pool is reachable from at least one of them.
func Validate(data []byte, layout Layout, refs *RefTable, c *codec.Codec) error {
	if err := Resolve(data, layout, refs, c); err != nil {
		return err
	}

	pool, err := ScanPool(data, layout.PoolStart, c)
	if err != nil {
		return err
	}

	resolved := make(map[string]struct{}, refs.Len())
	for i := 0; i < refs.Len(); i++ {
		resolved[refs.At(i).Text] = struct{}{}
	}
	for _, s := range pool {
		if _, ok := resolved[s]; !ok {
			return errors.MissingReference(s)
		}
	}
	return nil
}
